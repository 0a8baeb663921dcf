package shipping

import "github.com/shopspring/decimal"

// Fee types.
const (
    FeeTypeFlat  = "flat"
    FeeTypePerKg = "per_kg"
)

// Courier is a shipping provider owning zero or more pricing rules.
// Couriers are created and deactivated by the surrounding application;
// the engine only reads them.
type Courier struct {
    ID          int64
    Name        string
    Code        string
    Description string
    Active      bool
}

// Fee is the pricing formula attached to a rule. FlatFee applies when
// Type is "flat", PerKgFee when Type is "per_kg".
type Fee struct {
    ID       int64
    RuleID   int64
    Type     string
    FlatFee  decimal.Decimal
    PerKgFee decimal.Decimal
}

// Rule is a prioritized, constraint-guarded pricing policy owned by a
// courier. A nil constraint field imposes no restriction on that
// dimension. Within a courier, rules are evaluated by ascending
// Priority and the first rule whose constraints all hold wins.
type Rule struct {
    ID              int64
    CourierID       int64
    Name            string
    Priority        int
    FromCountry     *string
    ToCountry       *string
    MinCartSubtotal *decimal.Decimal
    MaxCartSubtotal *decimal.Decimal
    MinWeight       *decimal.Decimal
    MaxWeight       *decimal.Decimal
    // Distance and carrier-type bounds are persisted but not evaluated
    // by the matcher; they require context this layer does not carry.
    MinDistance *decimal.Decimal
    MaxDistance *decimal.Decimal
    CarrierType *string

    AppliesPerItem bool
    TaxRate        *decimal.Decimal
    Currency       *string
    Active         bool

    // Fee is the 1:1 pricing formula. A rule without a fee yields a
    // zero base fee.
    Fee *Fee
}

// Calculation is the priced outcome for a matched rule. Fee, Tax and
// Total are each rounded to 2 decimal places; TaxRate is the rule's
// raw rate (zero when the rule carries none).
type Calculation struct {
    Fee      decimal.Decimal
    Tax      decimal.Decimal
    Total    decimal.Decimal
    Currency string
    TaxRate  decimal.Decimal
}
