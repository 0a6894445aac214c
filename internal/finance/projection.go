package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Planned is an expected amount for one calendar month.
type Planned struct {
	Year   int
	Month  int
	Amount decimal.Decimal
}

type ProjectedMonth struct {
	Year    int
	Month   int
	Revenue decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Balance decimal.Decimal // running balance at the end of the month
}

// Project walks months calendar months starting at from's month, adding the
// planned revenue and subtracting the planned expense of each month to a
// running balance that starts at start.
func Project(start decimal.Decimal, from time.Time, months int, revenues, expenses []Planned) []ProjectedMonth {
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	balance := start

	out := make([]ProjectedMonth, 0, max(months, 0))

	for i := range months {
		m := first.AddDate(0, i, 0)
		year, month := m.Year(), int(m.Month())

		revenue := sumFor(revenues, year, month)
		expense := sumFor(expenses, year, month)
		net := revenue.Sub(expense)
		balance = balance.Add(net)

		out = append(out, ProjectedMonth{
			Year:    year,
			Month:   month,
			Revenue: revenue,
			Expense: expense,
			Net:     net,
			Balance: balance,
		})
	}

	return out
}

func sumFor(items []Planned, year, month int) decimal.Decimal {
	total := decimal.Zero

	for _, p := range items {
		if p.Year == year && p.Month == month {
			total = total.Add(p.Amount)
		}
	}

	return total
}
