package server

import (
    "bytes"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
)

// helper to parse standardized error
type stdError struct {
    Error struct {
        Code    string `json:"code"`
        Message string `json:"message"`
    } `json:"error"`
}

func TestOptions_InvalidJSON_ErrorJSON(t *testing.T) {
    h := NewWithStore(newTestStore(t), nil, "USD")
    req := httptest.NewRequest(http.MethodPost, "/shipping/options", bytes.NewReader([]byte("not json")))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var e stdError
    if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
        t.Fatalf("unmarshal error: %v", err)
    }
    if e.Error.Code != "invalid_json" {
        t.Fatalf("unexpected error code: %s", e.Error.Code)
    }
}

func TestSelect_MissingCourier_ErrorJSON(t *testing.T) {
    h := NewWithStore(newTestStore(t), nil, "USD")
    rr := postJSON(t, h, "/shipping/select", map[string]any{
        "from_country": "US",
        "to_country":   "JP",
        "context":      map[string]any{"type": "cart", "subtotal": 50, "total_weight": 1},
    })
    if rr.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var e stdError
    if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
        t.Fatalf("unmarshal error: %v", err)
    }
    if e.Error.Code != "invalid_request" {
        t.Fatalf("unexpected error code: %s", e.Error.Code)
    }
}

func TestSelect_NoMatch_ErrorJSON(t *testing.T) {
    h := NewWithStore(newTestStore(t), nil, "USD")
    rr := postJSON(t, h, "/shipping/select", map[string]any{
        "courier": "DHL",
        "context": map[string]any{"type": "cart", "subtotal": 50, "total_weight": 1},
        // Country pair intentionally absent.
    })
    if rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var e stdError
    if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
        t.Fatalf("unmarshal error: %v", err)
    }
    if e.Error.Code != "no_matching_option" {
        t.Fatalf("unexpected error code: %s", e.Error.Code)
    }
}
