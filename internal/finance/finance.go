// Package finance implements the interest, installment and late-payment
// calculations used by reports and exposed as calculators.
// Rates are percentages (2.5 means 2.5%). Results are rounded half away from
// zero to cents.
package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func pow(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for range n {
		result = result.Mul(base)
	}

	return result
}

// SimpleInterest returns the interest accrued on principal over months at a
// flat monthly rate.
func SimpleInterest(principal, ratePercent decimal.Decimal, months int) decimal.Decimal {
	return cents(principal.Mul(ratePercent.Div(hundred)).Mul(decimal.NewFromInt(int64(months))))
}

// CompoundAmount returns principal plus interest compounded monthly.
func CompoundAmount(principal, ratePercent decimal.Decimal, months int) decimal.Decimal {
	return cents(principal.Mul(pow(one.Add(ratePercent.Div(hundred)), months)))
}

// Installment returns the fixed monthly payment that amortizes total over n
// months (French amortization system).
func Installment(total, ratePercent decimal.Decimal, n int) (decimal.Decimal, error) {
	if n <= 0 {
		return decimal.Zero, fmt.Errorf("number of installments must be positive, got %d", n)
	}

	rate := ratePercent.Div(hundred)
	if rate.IsZero() {
		return cents(total.Div(decimal.NewFromInt(int64(n)))), nil
	}

	factor := one.Sub(one.Div(pow(one.Add(rate), n))).Div(rate)

	return cents(total.Div(factor)), nil
}

// DaysLate counts whole days between due and paid. Paying on or before the
// due date is never late.
func DaysLate(due, paid time.Time) int {
	due = truncate(due)
	paid = truncate(paid)

	if !paid.After(due) {
		return 0
	}

	return int(paid.Sub(due).Hours() / 24)
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LatePolicy is a flat fine plus simple daily interest.
type LatePolicy struct {
	FinePercent          decimal.Decimal
	DailyInterestPercent decimal.Decimal
}

// DefaultLatePolicy charges 2% fine and 0.033% a day (about 1% a month).
var DefaultLatePolicy = LatePolicy{
	FinePercent:          decimal.NewFromInt(2),
	DailyInterestPercent: decimal.RequireFromString("0.033"),
}

type LateCharges struct {
	Fine     decimal.Decimal
	Interest decimal.Decimal
	Total    decimal.Decimal // amount + fine + interest
}

func (p LatePolicy) Charges(amount decimal.Decimal, daysLate int) LateCharges {
	if daysLate <= 0 {
		return LateCharges{Fine: decimal.Zero, Interest: decimal.Zero, Total: amount}
	}

	fine := cents(amount.Mul(p.FinePercent.Div(hundred)))
	interest := cents(amount.Mul(p.DailyInterestPercent.Div(hundred).Mul(decimal.NewFromInt(int64(daysLate)))))

	return LateCharges{
		Fine:     fine,
		Interest: interest,
		Total:    amount.Add(fine).Add(interest),
	}
}
