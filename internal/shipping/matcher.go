package shipping

import "context"

// Matcher evaluates courier rules against a purchase context. It is
// stateless and safe for concurrent use as long as the underlying
// RuleStore supports concurrent reads.
type Matcher struct {
    store RuleStore
}

func NewMatcher(store RuleStore) *Matcher { return &Matcher{store: store} }

// Evaluate returns the first matching rule per active courier, keyed
// by courier id. Couriers with no matching rule contribute no entry.
// Errors are only ever store failures.
func (m *Matcher) Evaluate(ctx context.Context, pc Context, fromCountry, toCountry string) (map[int64]*Rule, error) {
    couriers, err := m.store.ActiveCouriers(ctx)
    if err != nil {
        return nil, err
    }

    matches := make(map[int64]*Rule)
    for _, courier := range couriers {
        rule, err := m.findMatch(ctx, courier.ID, pc, fromCountry, toCountry)
        if err != nil {
            return nil, err
        }
        if rule != nil {
            matches[courier.ID] = rule
        }
    }
    return matches, nil
}

// findMatch returns the first rule, in priority order, whose
// constraints all hold. Evaluation short-circuits on the first hit.
func (m *Matcher) findMatch(ctx context.Context, courierID int64, pc Context, fromCountry, toCountry string) (*Rule, error) {
    rules, err := m.store.ActiveRulesForCourier(ctx, courierID)
    if err != nil {
        return nil, err
    }
    for _, rule := range rules {
        if ruleMatches(rule, pc, fromCountry, toCountry) {
            return rule, nil
        }
    }
    return nil, nil
}

// ruleMatches ANDs the rule's constraints over the context and country
// pair. Nil bounds are open; numeric bounds are inclusive.
func ruleMatches(rule *Rule, pc Context, fromCountry, toCountry string) bool {
    if rule.FromCountry != nil && *rule.FromCountry != fromCountry {
        return false
    }
    if rule.ToCountry != nil && *rule.ToCountry != toCountry {
        return false
    }

    subtotal := pc.Subtotal()
    if rule.MinCartSubtotal != nil && subtotal.LessThan(*rule.MinCartSubtotal) {
        return false
    }
    if rule.MaxCartSubtotal != nil && subtotal.GreaterThan(*rule.MaxCartSubtotal) {
        return false
    }

    weight := pc.TotalWeight()
    if rule.MinWeight != nil && weight.LessThan(*rule.MinWeight) {
        return false
    }
    if rule.MaxWeight != nil && weight.GreaterThan(*rule.MaxWeight) {
        return false
    }

    // Distance and carrier_type constraints are stored but not
    // evaluated here; they require context this layer does not have.
    return true
}
