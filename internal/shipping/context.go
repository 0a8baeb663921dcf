package shipping

import "github.com/shopspring/decimal"

// Item is one purchasable line in a cart or order. Weight is per unit,
// in kilograms.
type Item struct {
    Weight        decimal.Decimal
    Quantity      int
    OriginCountry string
}

// Context is a read-only view over the purchase being priced. Cart and
// Order are the two implementations; the engine never distinguishes
// them beyond this method set. OriginCountry and DestinationCountry
// return "" when the purchase does not carry them.
type Context interface {
    Subtotal() decimal.Decimal
    TotalWeight() decimal.Decimal
    Items() []Item
    OriginCountry() string
    DestinationCountry() string
}

// Cart is a purchase context without a committed country pair.
type Cart struct {
    subtotal decimal.Decimal
    weight   decimal.Decimal
    items    []Item
}

func NewCart(subtotal, totalWeight decimal.Decimal, items []Item) Cart {
    return Cart{subtotal: subtotal, weight: totalWeight, items: items}
}

func (c Cart) Subtotal() decimal.Decimal    { return c.subtotal }
func (c Cart) TotalWeight() decimal.Decimal { return c.weight }
func (c Cart) Items() []Item                { return c.items }
func (c Cart) OriginCountry() string        { return "" }
func (c Cart) DestinationCountry() string   { return "" }

// Order is a purchase context that may carry its own origin and
// destination countries and an identifier for audit records.
type Order struct {
    id          int64
    subtotal    decimal.Decimal
    weight      decimal.Decimal
    items       []Item
    origin      string
    destination string
}

func NewOrder(id int64, subtotal, totalWeight decimal.Decimal, items []Item, originCountry, destinationCountry string) Order {
    return Order{
        id:          id,
        subtotal:    subtotal,
        weight:      totalWeight,
        items:       items,
        origin:      originCountry,
        destination: destinationCountry,
    }
}

func (o Order) ID() int64                    { return o.id }
func (o Order) Subtotal() decimal.Decimal    { return o.subtotal }
func (o Order) TotalWeight() decimal.Decimal { return o.weight }
func (o Order) Items() []Item                { return o.items }
func (o Order) OriginCountry() string        { return o.origin }
func (o Order) DestinationCountry() string   { return o.destination }
