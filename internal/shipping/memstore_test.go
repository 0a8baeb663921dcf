package shipping

import (
    "context"
    "sort"

    "github.com/shopspring/decimal"
)

// memStore is an in-memory RuleStore for tests. Rules are returned
// ordered by ascending priority, then ascending id, matching the
// contract Postgres fulfills with ORDER BY priority, id.
type memStore struct {
    couriers []Courier
    rules    []*Rule
    err      error
}

func (m *memStore) ActiveCouriers(ctx context.Context) ([]Courier, error) {
    if m.err != nil {
        return nil, m.err
    }
    var out []Courier
    for _, c := range m.couriers {
        if c.Active {
            out = append(out, c)
        }
    }
    return out, nil
}

func (m *memStore) ActiveRulesForCourier(ctx context.Context, courierID int64) ([]*Rule, error) {
    if m.err != nil {
        return nil, m.err
    }
    var out []*Rule
    for _, r := range m.rules {
        if r.CourierID == courierID && r.Active {
            out = append(out, r)
        }
    }
    sort.SliceStable(out, func(i, j int) bool {
        if out[i].Priority != out[j].Priority {
            return out[i].Priority < out[j].Priority
        }
        return out[i].ID < out[j].ID
    })
    return out, nil
}

func (m *memStore) ActiveCourierByName(ctx context.Context, name string) (*Courier, error) {
    if m.err != nil {
        return nil, m.err
    }
    for _, c := range m.couriers {
        if c.Active && c.Name == name {
            courier := c
            return &courier, nil
        }
    }
    return nil, nil
}

// memSink collects audit entries; fails every write when err is set.
type memSink struct {
    entries []LogEntry
    err     error
}

func (m *memSink) Record(ctx context.Context, entry LogEntry) error {
    if m.err != nil {
        return m.err
    }
    m.entries = append(m.entries, entry)
    return nil
}

func dec(s string) decimal.Decimal {
    d, err := decimal.NewFromString(s)
    if err != nil {
        panic(err)
    }
    return d
}

func decPtr(s string) *decimal.Decimal {
    d := dec(s)
    return &d
}

func strPtr(s string) *string { return &s }
