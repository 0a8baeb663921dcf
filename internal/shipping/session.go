package shipping

import (
    "context"
    "log"

    "github.com/shopspring/decimal"
)

// Option is a priced courier choice returned by Options.
type Option struct {
    Courier  string          `json:"courier"`
    Fee      decimal.Decimal `json:"fee"`
    Tax      decimal.Decimal `json:"tax"`
    Total    decimal.Decimal `json:"total"`
    Currency string          `json:"currency"`
    RuleID   int64           `json:"rule_id"`
    TaxRate  decimal.Decimal `json:"tax_rate"`
}

// Selection is the narrowed shape returned after committing to a
// courier.
type Selection struct {
    Fee      decimal.Decimal `json:"fee"`
    Tax      decimal.Decimal `json:"tax"`
    Total    decimal.Decimal `json:"total"`
    Currency string          `json:"currency"`
}

// Session binds one purchase context and country pair and orchestrates
// matching, pricing, and selection. A session belongs to a single
// logical request; it has no internal locking and must not be shared
// across concurrent callers.
type Session struct {
    store   RuleStore
    matcher *Matcher
    calc    *Calculator
    audit   AuditSink

    cart        *Cart
    order       *Order
    fromCountry string
    toCountry   string
}

// NewSession wires the store, matcher, calculator, and audit sink. The
// sink may be nil, in which case selections are not recorded.
func NewSession(store RuleStore, matcher *Matcher, calc *Calculator, audit AuditSink) *Session {
    return &Session{store: store, matcher: matcher, calc: calc, audit: audit}
}

// ForCart binds a cart context, clearing any order binding.
func (s *Session) ForCart(cart Cart) *Session {
    s.cart = &cart
    s.order = nil
    return s
}

// ForOrder binds an order context, clearing any cart binding. Origin
// and destination are taken from the order when it supplies them; they
// may still be overridden with From and To afterward.
func (s *Session) ForOrder(order Order) *Session {
    s.order = &order
    s.cart = nil
    if oc := order.OriginCountry(); oc != "" {
        s.fromCountry = oc
    }
    if dc := order.DestinationCountry(); dc != "" {
        s.toCountry = dc
    }
    return s
}

// From sets the origin country (ISO 3166-1 alpha-2). The code is not
// validated here; that is the caller's responsibility.
func (s *Session) From(countryCode string) *Session {
    s.fromCountry = countryCode
    return s
}

// To sets the destination country (ISO 3166-1 alpha-2).
func (s *Session) To(countryCode string) *Session {
    s.toCountry = countryCode
    return s
}

func (s *Session) context() Context {
    if s.order != nil {
        return *s.order
    }
    if s.cart != nil {
        return *s.cart
    }
    return nil
}

// Options returns one priced option per courier with a matching rule.
// It returns nil without error when no context is bound or the country
// pair is incomplete; callers treat an empty result as "no courier
// ships here", not a failure. The order of the returned options is the
// store's courier order, not price order.
func (s *Session) Options(ctx context.Context) ([]Option, error) {
    pc := s.context()
    if pc == nil || s.fromCountry == "" || s.toCountry == "" {
        return nil, nil
    }

    matches, err := s.matcher.Evaluate(ctx, pc, s.fromCountry, s.toCountry)
    if err != nil {
        return nil, err
    }

    couriers, err := s.store.ActiveCouriers(ctx)
    if err != nil {
        return nil, err
    }

    options := make([]Option, 0, len(matches))
    for _, courier := range couriers {
        rule, ok := matches[courier.ID]
        if !ok {
            continue
        }
        calc := s.calc.Calculate(rule, pc)
        options = append(options, Option{
            Courier:  courier.Name,
            Fee:      calc.Fee,
            Tax:      calc.Tax,
            Total:    calc.Total,
            Currency: calc.Currency,
            RuleID:   rule.ID,
            TaxRate:  calc.TaxRate,
        })
    }
    return options, nil
}

// Select commits to one courier's option, recording an audit entry. It
// returns nil without error when the session is unbound, the country
// pair is incomplete, the courier is unknown or inactive, or the
// courier has no matching rule.
func (s *Session) Select(ctx context.Context, courierName string) (*Selection, error) {
    pc := s.context()
    if pc == nil || s.fromCountry == "" || s.toCountry == "" {
        return nil, nil
    }

    courier, err := s.store.ActiveCourierByName(ctx, courierName)
    if err != nil {
        return nil, err
    }
    if courier == nil {
        return nil, nil
    }

    matches, err := s.matcher.Evaluate(ctx, pc, s.fromCountry, s.toCountry)
    if err != nil {
        return nil, err
    }
    rule, ok := matches[courier.ID]
    if !ok {
        return nil, nil
    }

    calc := s.calc.Calculate(rule, pc)
    s.recordSelection(ctx, courier, rule, pc, calc)

    return &Selection{
        Fee:      calc.Fee,
        Tax:      calc.Tax,
        Total:    calc.Total,
        Currency: calc.Currency,
    }, nil
}

// recordSelection writes the audit entry. The write is best-effort:
// a failure is logged and discarded so the financial calculation never
// fails because logging failed.
func (s *Session) recordSelection(ctx context.Context, courier *Courier, rule *Rule, pc Context, calc Calculation) {
    if s.audit == nil {
        return
    }

    entry := LogEntry{
        CourierID:    courier.ID,
        RuleID:       rule.ID,
        CartSubtotal: pc.Subtotal(),
        TotalWeight:  pc.TotalWeight(),
        FromCountry:  s.fromCountry,
        ToCountry:    s.toCountry,
        Fee:          calc.Fee,
        Tax:          calc.Tax,
        Total:        calc.Total,
        Currency:     calc.Currency,
        TaxRate:      calc.TaxRate,
        Context:      "cart",
    }
    if s.order != nil {
        entry.Context = "order"
        if id := s.order.ID(); id != 0 {
            entry.OrderID = &id
        }
    }

    if err := s.audit.Record(ctx, entry); err != nil {
        log.Println("shipping: failed to record selection:", err)
    }
}
