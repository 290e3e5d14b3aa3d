// Package pricing computes offer totals.
//
// Every place that shows or stores an offer total goes through Calculate so
// that the dashboard, the public offer page and the stored total_amount agree.
// Intermediate amounts are exact decimals; only the grand total is rounded,
// to RoundingPlaces decimal places (half away from zero).
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// RoundingPlaces is the precision of the grand total (whole currency units).
const RoundingPlaces int32 = 0

type Mode string

const (
	// ModeGlobal applies one discount percentage to the whole subtotal.
	ModeGlobal Mode = "global"
	// ModePerLine discounts each line individually and ignores the global discount.
	ModePerLine Mode = "per_line"
)

var (
	ErrInvalidQuantity = errors.New("line quantity must be at least 1")
	ErrNegativePrice   = errors.New("line price cannot be negative")
	ErrInvalidDiscount = errors.New("discount percentage must be between 0 and 100")
	ErrNegativeTax     = errors.New("tax percentage cannot be negative")
	ErrUnknownMode     = errors.New("unknown discount mode")
)

var hundred = decimal.NewFromInt(100)

type Line struct {
	Price              decimal.Decimal
	Quantity           int
	DiscountPercentage decimal.NullDecimal
	Recurring          bool
}

type Input struct {
	Lines                    []Line
	Mode                     Mode
	GlobalDiscountPercentage decimal.Decimal
	TaxPercentage            decimal.Decimal
}

type LineTotal struct {
	Gross    decimal.Decimal `json:"gross"`
	Discount decimal.Decimal `json:"discount"`
	Net      decimal.Decimal `json:"net"`
}

type Totals struct {
	Lines             []LineTotal     `json:"lines"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	DiscountedTotal   decimal.Decimal `json:"discounted_total"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	RecurringSubtotal decimal.Decimal `json:"recurring_subtotal"`
}

// Calculate returns subtotal, discount, tax and grand total for the input.
func Calculate(in Input) (Totals, error) {
	mode := in.Mode
	if mode == "" {
		mode = ModeGlobal
	}
	if mode != ModeGlobal && mode != ModePerLine {
		return Totals{}, ErrUnknownMode
	}
	if err := validPercentage(in.GlobalDiscountPercentage); err != nil {
		return Totals{}, err
	}
	if in.TaxPercentage.IsNegative() {
		return Totals{}, ErrNegativeTax
	}

	totals := Totals{Lines: make([]LineTotal, len(in.Lines))}
	globalRate := in.GlobalDiscountPercentage.Shift(-2)

	for i, line := range in.Lines {
		if line.Quantity < 1 {
			return Totals{}, ErrInvalidQuantity
		}
		if line.Price.IsNegative() {
			return Totals{}, ErrNegativePrice
		}

		gross := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))

		var discount decimal.Decimal
		switch mode {
		case ModePerLine:
			if line.DiscountPercentage.Valid {
				if err := validPercentage(line.DiscountPercentage.Decimal); err != nil {
					return Totals{}, err
				}
				discount = gross.Mul(line.DiscountPercentage.Decimal.Shift(-2))
			}
		case ModeGlobal:
			discount = gross.Mul(globalRate)
		}

		net := gross.Sub(discount)
		totals.Lines[i] = LineTotal{Gross: gross, Discount: discount, Net: net}
		totals.Subtotal = totals.Subtotal.Add(gross)
		totals.DiscountAmount = totals.DiscountAmount.Add(discount)
		if line.Recurring {
			totals.RecurringSubtotal = totals.RecurringSubtotal.Add(net)
		}
	}

	totals.DiscountedTotal = totals.Subtotal.Sub(totals.DiscountAmount)
	if in.TaxPercentage.IsPositive() {
		totals.TaxAmount = totals.DiscountedTotal.Mul(in.TaxPercentage.Shift(-2))
	}
	totals.GrandTotal = totals.DiscountedTotal.Add(totals.TaxAmount).Round(RoundingPlaces)

	return totals, nil
}

func validPercentage(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	return nil
}
