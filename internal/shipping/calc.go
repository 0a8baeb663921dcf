package shipping

import "github.com/shopspring/decimal"

// Converter converts an amount between currencies. Implementations are
// optional collaborators; the calculator falls back to identity when
// none is injected or a conversion fails.
type Converter interface {
    Convert(amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

// Calculator prices a matched rule against a purchase context. It is
// stateless and safe for concurrent use.
type Calculator struct {
    baseCurrency string
    converter    Converter
}

func NewCalculator(baseCurrency string) *Calculator {
    return &Calculator{baseCurrency: baseCurrency}
}

// NewCalculatorWithConverter allows injecting a currency-conversion
// collaborator.
func NewCalculatorWithConverter(baseCurrency string, conv Converter) *Calculator {
    return &Calculator{baseCurrency: baseCurrency, converter: conv}
}

// Calculate computes the pre-tax fee, tax, and total for a matched
// rule. Tax and total are derived from the unrounded base fee; all
// three amounts are then rounded to 2 decimal places independently.
// All numeric paths are total over well-formed input: a missing or
// malformed fee contributes zero rather than failing.
func (c *Calculator) Calculate(rule *Rule, pc Context) Calculation {
    base := baseFee(rule, pc)

    currency := c.baseCurrency
    if rule.Currency != nil && *rule.Currency != "" {
        currency = *rule.Currency
    }

    taxRate := decimal.Zero
    if rule.TaxRate != nil {
        taxRate = *rule.TaxRate
    }

    tax := base.Mul(taxRate)
    total := base.Add(tax)

    return Calculation{
        Fee:      base.Round(2),
        Tax:      tax.Round(2),
        Total:    total.Round(2),
        Currency: currency,
        TaxRate:  taxRate,
    }
}

// Convert converts amount between currencies via the injected
// converter. It fails soft: with no converter, equal currencies, or a
// converter error, the original amount is returned unchanged.
func (c *Calculator) Convert(amount decimal.Decimal, fromCurrency, toCurrency string) decimal.Decimal {
    if c.converter == nil || fromCurrency == toCurrency {
        return amount
    }
    converted, err := c.converter.Convert(amount, fromCurrency, toCurrency)
    if err != nil {
        return amount
    }
    return converted
}

func baseFee(rule *Rule, pc Context) decimal.Decimal {
    fee := rule.Fee
    if fee == nil {
        return decimal.Zero
    }

    switch fee.Type {
    case FeeTypeFlat:
        return fee.FlatFee
    case FeeTypePerKg:
        if rule.AppliesPerItem {
            total := decimal.Zero
            for _, item := range pc.Items() {
                qty := item.Quantity
                if qty == 0 {
                    qty = 1
                }
                line := item.Weight.Mul(decimal.NewFromInt(int64(qty))).Mul(fee.PerKgFee)
                total = total.Add(line)
            }
            return total
        }
        return pc.TotalWeight().Mul(fee.PerKgFee)
    default:
        // Unknown fee type contributes nothing rather than failing
        // the checkout.
        return decimal.Zero
    }
}
