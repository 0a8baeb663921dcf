package config

import (
    "os"
)

type Config struct {
    DatabaseURL  string
    Port         string
    BaseCurrency string
}

func Load() Config {
    port := os.Getenv("PORT")
    if port == "" {
        port = "8080"
    }
    currency := os.Getenv("BASE_CURRENCY")
    if currency == "" {
        currency = "USD"
    }
    return Config{
        DatabaseURL:  os.Getenv("DATABASE_URL"),
        Port:         port,
        BaseCurrency: currency,
    }
}
