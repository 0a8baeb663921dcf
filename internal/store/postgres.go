package store

import (
    "context"
    "errors"
    "time"

    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/shopspring/decimal"

    "courierrates/internal/shipping"
)

// Postgres implements shipping.RuleStore and shipping.AuditSink on a
// pgx connection pool. All reads are plain single-statement queries;
// the shipping_logs table is append-only from this layer.
type Postgres struct {
    db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Postgres { return &Postgres{db: db} }

func (p *Postgres) ActiveCouriers(ctx context.Context) ([]shipping.Courier, error) {
    rows, err := p.db.Query(ctx, `
        SELECT id, name, code, COALESCE(description, ''), is_active
        FROM shipping_couriers
        WHERE is_active
        ORDER BY id
    `)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var couriers []shipping.Courier
    for rows.Next() {
        var c shipping.Courier
        if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Active); err != nil {
            return nil, err
        }
        couriers = append(couriers, c)
    }
    return couriers, rows.Err()
}

func (p *Postgres) ActiveCourierByName(ctx context.Context, name string) (*shipping.Courier, error) {
    var c shipping.Courier
    err := p.db.QueryRow(ctx, `
        SELECT id, name, code, COALESCE(description, ''), is_active
        FROM shipping_couriers
        WHERE name = $1 AND is_active
        LIMIT 1
    `, name).Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Active)
    if err != nil {
        if errors.Is(err, pgx.ErrNoRows) {
            return nil, nil
        }
        return nil, err
    }
    return &c, nil
}

// ActiveRulesForCourier returns the courier's active rules with their
// fee rows joined in, ordered by ascending priority. Equal priorities
// fall back to ascending id so evaluation order is deterministic.
func (p *Postgres) ActiveRulesForCourier(ctx context.Context, courierID int64) ([]*shipping.Rule, error) {
    rows, err := p.db.Query(ctx, `
        SELECT r.id, r.courier_id, r.name, r.priority,
               r.from_country, r.to_country,
               r.min_cart_subtotal, r.max_cart_subtotal,
               r.min_weight, r.max_weight,
               r.min_distance, r.max_distance,
               r.carrier_type, r.applies_per_item,
               r.tax_rate, r.currency, r.is_active,
               f.id, f.fee_type, f.flat_fee, f.per_kg_fee
        FROM shipping_rules r
        LEFT JOIN shipping_fees f ON f.rule_id = r.id
        WHERE r.courier_id = $1 AND r.is_active
        ORDER BY r.priority ASC, r.id ASC
    `, courierID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var rules []*shipping.Rule
    for rows.Next() {
        var (
            r                                shipping.Rule
            minSub, maxSub, minW, maxW       decimal.NullDecimal
            minD, maxD, taxRate              decimal.NullDecimal
            feeID                            *int64
            feeType                          *string
            flatFee, perKgFee                decimal.NullDecimal
        )
        err := rows.Scan(
            &r.ID, &r.CourierID, &r.Name, &r.Priority,
            &r.FromCountry, &r.ToCountry,
            &minSub, &maxSub,
            &minW, &maxW,
            &minD, &maxD,
            &r.CarrierType, &r.AppliesPerItem,
            &taxRate, &r.Currency, &r.Active,
            &feeID, &feeType, &flatFee, &perKgFee,
        )
        if err != nil {
            return nil, err
        }

        r.MinCartSubtotal = optional(minSub)
        r.MaxCartSubtotal = optional(maxSub)
        r.MinWeight = optional(minW)
        r.MaxWeight = optional(maxW)
        r.MinDistance = optional(minD)
        r.MaxDistance = optional(maxD)
        r.TaxRate = optional(taxRate)

        if feeID != nil {
            fee := &shipping.Fee{ID: *feeID, RuleID: r.ID}
            if feeType != nil {
                fee.Type = *feeType
            }
            if flatFee.Valid {
                fee.FlatFee = flatFee.Decimal
            }
            if perKgFee.Valid {
                fee.PerKgFee = perKgFee.Decimal
            }
            r.Fee = fee
        }

        rules = append(rules, &r)
    }
    return rules, rows.Err()
}

// Record appends one shipping selection to the audit log.
func (p *Postgres) Record(ctx context.Context, entry shipping.LogEntry) error {
    _, err := p.db.Exec(ctx, `
        INSERT INTO shipping_logs (
            courier_id, rule_id, order_id, cart_subtotal, total_weight,
            from_country, to_country, shipping_fee, shipping_tax,
            shipping_total, currency, tax_rate, context, created_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8, $9,
            $10, $11, $12, $13, $14
        )
    `,
        entry.CourierID,
        entry.RuleID,
        entry.OrderID,
        entry.CartSubtotal,
        entry.TotalWeight,
        entry.FromCountry,
        entry.ToCountry,
        entry.Fee,
        entry.Tax,
        entry.Total,
        entry.Currency,
        entry.TaxRate,
        entry.Context,
        time.Now().UTC(),
    )
    return err
}

func optional(d decimal.NullDecimal) *decimal.Decimal {
    if !d.Valid {
        return nil
    }
    v := d.Decimal
    return &v
}
