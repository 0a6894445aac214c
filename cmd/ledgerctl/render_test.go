package main

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/brazaforte/internal/budget"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

func TestBalancesTable(t *testing.T) {
	checking := &ledger.Account{ID: uuid.New(), Name: "Conta PJ", Bank: "Itaú", Active: true, Balance: decimal.RequireFromString("1500")}
	savings := &ledger.Account{ID: uuid.New(), Name: "Reserva", Bank: "Nubank", Active: false, Balance: decimal.RequireFromString("300")}

	t.Run("without check", func(t *testing.T) {
		out := balancesTable([]*ledger.Account{checking, savings}, nil)

		assert.Contains(t, out, "Conta PJ")
		assert.Contains(t, out, "Reserva")
		assert.NotContains(t, out, "Ledger")
		assert.True(t, strings.HasPrefix(out[strings.LastIndex(out, "\n")+1:], "Total (active): R$"))
	})

	t.Run("with drift", func(t *testing.T) {
		out := balancesTable([]*ledger.Account{checking, savings}, []ledger.Drift{
			{Account: checking, Expected: decimal.RequireFromString("1450")},
		})

		assert.Contains(t, out, "Ledger")
		assert.Contains(t, out, "1.450")
	})
}

func TestVarianceTable(t *testing.T) {
	out := varianceTable([]budget.Variance{{
		Budget:     &budget.Budget{Year: 2026, Month: 3, CategoryName: "Aluguel"},
		Planned:    decimal.RequireFromString("2000"),
		Realized:   decimal.RequireFromString("2100"),
		Difference: decimal.RequireFromString("100"),
	}})

	assert.Contains(t, out, "Aluguel")
	assert.Contains(t, out, "03/2026")
	assert.Contains(t, out, "2.100")
}
