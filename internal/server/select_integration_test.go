package server

import (
    "context"
    "encoding/json"
    "net/http"
    "os"
    "testing"

    "courierrates/internal/db"
    "courierrates/internal/shipping"
)

func TestSelectIntegrationWritesShippingLog(t *testing.T) {
    dbURL := os.Getenv("DATABASE_URL")
    if dbURL == "" {
        t.Skip("DATABASE_URL not set; skipping integration test")
        return
    }

    pool, err := db.NewPool(context.Background(), dbURL)
    if err != nil {
        t.Fatalf("failed to connect db: %v", err)
    }
    defer pool.Close()

    courierID, ruleID, cleanup := seedCourierWithRule(t, pool)
    defer cleanup()

    h := New(pool, "USD")
    rr := postJSON(t, h, "/shipping/select", map[string]any{
        "from_country": "US",
        "to_country":   "JP",
        "courier":      "Integration Courier",
        "context": map[string]any{
            "type":         "order",
            "order_id":     4242,
            "subtotal":     100,
            "total_weight": 4.0,
        },
    })
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }

    var sel shipping.Selection
    if err := json.Unmarshal(rr.Body.Bytes(), &sel); err != nil {
        t.Fatalf("failed to unmarshal: %v", err)
    }
    if sel.Fee.StringFixed(2) != "15.00" || sel.Total.StringFixed(2) != "17.40" || sel.Currency != "USD" {
        t.Fatalf("unexpected selection: %+v", sel)
    }

    var (
        loggedRuleID int64
        orderID      *int64
        contextTag   string
    )
    err = pool.QueryRow(context.Background(), `
        SELECT rule_id, order_id, context
        FROM shipping_logs
        WHERE courier_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `, courierID).Scan(&loggedRuleID, &orderID, &contextTag)
    if err != nil {
        t.Fatalf("read shipping log: %v", err)
    }
    if loggedRuleID != ruleID || contextTag != "order" {
        t.Fatalf("unexpected log row: rule=%d context=%s", loggedRuleID, contextTag)
    }
    if orderID == nil || *orderID != 4242 {
        t.Fatalf("expected order id 4242 in log, got %v", orderID)
    }
}

func TestSelectIntegrationUnknownCourier(t *testing.T) {
    dbURL := os.Getenv("DATABASE_URL")
    if dbURL == "" {
        t.Skip("DATABASE_URL not set; skipping integration test")
        return
    }

    pool, err := db.NewPool(context.Background(), dbURL)
    if err != nil {
        t.Fatalf("failed to connect db: %v", err)
    }
    defer pool.Close()

    h := New(pool, "USD")
    rr := postJSON(t, h, "/shipping/select", map[string]any{
        "from_country": "US",
        "to_country":   "JP",
        "courier":      "No Such Courier",
        "context":      map[string]any{"type": "cart", "subtotal": 100, "total_weight": 4.0},
    })
    if rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d; body=%s", rr.Code, rr.Body.String())
    }
}
