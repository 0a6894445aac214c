package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/budget"
	"github.com/MrJamesThe3rd/brazaforte/internal/finance"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	driftStyle  = cellStyle.Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...)
}

// balancesTable lists accounts with their cached balance. When drifts is not
// nil an extra column shows the balance derived from the ledger.
func balancesTable(accounts []*ledger.Account, drifts []ledger.Drift) string {
	expected := make(map[uuid.UUID]decimal.Decimal, len(drifts))
	for _, d := range drifts {
		expected[d.Account.ID] = d.Expected
	}

	headers := []string{"Account", "Bank", "Active", "Balance"}
	if drifts != nil {
		headers = append(headers, "Ledger")
	}

	t := newTable(headers...)
	total := decimal.Zero
	drifted := make(map[int]bool)

	for i, a := range accounts {
		row := []string{a.Name, a.Bank, yesNo(a.Active), finance.FormatBRL(a.Balance)}

		if drifts != nil {
			want, ok := expected[a.ID]
			if !ok {
				want = a.Balance
			}

			row = append(row, finance.FormatBRL(want))
			drifted[i] = ok
		}

		if a.Active {
			total = total.Add(a.Balance)
		}

		t.Row(row...)
	}

	t.StyleFunc(func(row, _ int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case drifted[row]:
			return driftStyle
		}

		return cellStyle
	})

	return t.Render() + "\n" + fmt.Sprintf("Total (active): %s", finance.FormatBRL(total))
}

func varianceTable(variances []budget.Variance) string {
	t := newTable("Category", "Month", "Planned", "Realized", "Difference")

	for _, v := range variances {
		t.Row(
			v.Budget.CategoryName,
			fmt.Sprintf("%02d/%d", v.Budget.Month, v.Budget.Year),
			finance.FormatBRL(v.Planned),
			finance.FormatBRL(v.Realized),
			finance.FormatBRL(v.Difference),
		)
	}

	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}

		return cellStyle
	})

	return t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
