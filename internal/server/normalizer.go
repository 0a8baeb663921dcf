package server

import (
    "encoding/json"
    "io"
    "strings"

    "github.com/shopspring/decimal"

    "courierrates/internal/shipping"
)

// QuoteRequest is the parsed form of a pricing request: a purchase
// context plus the country pair, and the courier name for selections.
type QuoteRequest struct {
    Context     shipping.Context
    FromCountry string
    ToCountry   string
    Courier     string
}

// ParseQuoteRequest maps a request body into a QuoteRequest.
// Storefronts spell context fields differently, so common aliases are
// accepted; missing item quantities default to 1 and missing weights
// to 0. The context may sit under a "context" key or inline at the top
// level. A payload is treated as an order when it says so or when it
// carries an order id or its own country pair; otherwise it is a cart.
func ParseQuoteRequest(body io.Reader) (QuoteRequest, error) {
    raw, err := io.ReadAll(body)
    if err != nil {
        return QuoteRequest{}, err
    }
    var payload map[string]any
    if err := json.Unmarshal(raw, &payload); err != nil {
        return QuoteRequest{}, err
    }

    req := QuoteRequest{
        FromCountry: strings.TrimSpace(getString(payload, []string{"from_country", "from"})),
        ToCountry:   strings.TrimSpace(getString(payload, []string{"to_country", "to"})),
        Courier:     strings.TrimSpace(getString(payload, []string{"courier", "courier_name", "carrier"})),
    }

    ctxMap := payload
    if v, ok := payload["context"].(map[string]any); ok {
        ctxMap = v
    }

    subtotal := getDecimal(ctxMap, []string{"subtotal", "cart_subtotal", "order_subtotal"})
    weight := getDecimal(ctxMap, []string{"total_weight", "weight", "total_weight_kg"})
    items := parseItems(getAny(ctxMap, []string{"items", "lines"}))
    origin := strings.TrimSpace(getString(ctxMap, []string{"origin_country", "origin"}))
    destination := strings.TrimSpace(getString(ctxMap, []string{"destination_country", "destination"}))
    orderID := getInt(ctxMap, []string{"order_id", "id"})
    kind := strings.ToLower(strings.TrimSpace(getString(ctxMap, []string{"type", "kind"})))

    isOrder := kind == "order"
    if kind == "" {
        isOrder = orderID != 0 || origin != "" || destination != ""
    }

    if isOrder {
        req.Context = shipping.NewOrder(orderID, subtotal, weight, items, origin, destination)
    } else {
        req.Context = shipping.NewCart(subtotal, weight, items)
    }
    return req, nil
}

func parseItems(v any) []shipping.Item {
    list, ok := v.([]any)
    if !ok {
        return nil
    }
    items := make([]shipping.Item, 0, len(list))
    for _, entry := range list {
        m, ok := entry.(map[string]any)
        if !ok {
            continue
        }
        item := shipping.Item{
            Weight:        getDecimal(m, []string{"weight", "weight_kg"}),
            OriginCountry: strings.TrimSpace(getString(m, []string{"origin_country", "origin"})),
        }
        item.Quantity = int(getInt(m, []string{"quantity", "qty"}))
        if item.Quantity == 0 {
            item.Quantity = 1
        }
        items = append(items, item)
    }
    return items
}

// getString returns the first non-empty string from the candidate keys.
// Supports dot-path navigation for nested maps.
func getString(m map[string]any, keys []string) string {
    for _, k := range keys {
        if v := getPath(m, k); v != nil {
            if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
                return s
            }
        }
    }
    return ""
}

// getDecimal returns the first parseable number from the candidate
// keys, accepting JSON numbers and numeric strings. Missing or
// malformed values yield zero.
func getDecimal(m map[string]any, keys []string) decimal.Decimal {
    for _, k := range keys {
        v := getPath(m, k)
        if v == nil {
            continue
        }
        switch t := v.(type) {
        case float64:
            return decimal.NewFromFloat(t)
        case string:
            if d, err := decimal.NewFromString(strings.TrimSpace(t)); err == nil {
                return d
            }
        case json.Number:
            if d, err := decimal.NewFromString(t.String()); err == nil {
                return d
            }
        }
    }
    return decimal.Zero
}

// getInt returns the first integral value from the candidate keys.
func getInt(m map[string]any, keys []string) int64 {
    for _, k := range keys {
        v := getPath(m, k)
        if v == nil {
            continue
        }
        switch t := v.(type) {
        case float64:
            return int64(t)
        case json.Number:
            if n, err := t.Int64(); err == nil {
                return n
            }
        }
    }
    return 0
}

// getAny returns the first non-nil value from the candidate keys.
func getAny(m map[string]any, keys []string) any {
    for _, k := range keys {
        if v := getPath(m, k); v != nil {
            return v
        }
    }
    return nil
}

// getPath navigates a dot-separated key into nested maps.
func getPath(m map[string]any, path string) any {
    parts := strings.Split(path, ".")
    var cur any = m
    for _, p := range parts {
        mm, ok := cur.(map[string]any)
        if !ok {
            return nil
        }
        v, ok := mm[p]
        if !ok {
            return nil
        }
        cur = v
    }
    return cur
}
