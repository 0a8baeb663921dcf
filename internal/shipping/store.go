package shipping

import (
    "context"

    "github.com/shopspring/decimal"
)

// RuleStore supplies courier and rule data. Any storage engine
// satisfies it; the Postgres implementation lives in internal/store.
// Implementations must return rules ordered by ascending priority,
// with equal priorities ordered by ascending id so evaluation order
// stays deterministic.
type RuleStore interface {
    ActiveCouriers(ctx context.Context) ([]Courier, error)
    ActiveRulesForCourier(ctx context.Context, courierID int64) ([]*Rule, error)
    // ActiveCourierByName returns nil without error when no active
    // courier carries the given name.
    ActiveCourierByName(ctx context.Context, name string) (*Courier, error)
}

// LogEntry is one append-only audit record of a shipping selection.
type LogEntry struct {
    CourierID    int64
    RuleID       int64
    OrderID      *int64
    CartSubtotal decimal.Decimal
    TotalWeight  decimal.Decimal
    FromCountry  string
    ToCountry    string
    Fee          decimal.Decimal
    Tax          decimal.Decimal
    Total        decimal.Decimal
    Currency     string
    TaxRate      decimal.Decimal
    Context      string // "cart" or "order"
}

// AuditSink records shipping selections. Record is best-effort: the
// session logs and discards its error, so a failed write never affects
// the caller's calculation.
type AuditSink interface {
    Record(ctx context.Context, entry LogEntry) error
}
