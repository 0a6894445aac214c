package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

func TestTransaction_Deltas(t *testing.T) {
	src, dst := uuid.New(), uuid.New()

	tests := []struct {
		name string
		tx   ledger.Transaction
		want map[uuid.UUID]string
	}{
		{
			name: "ConfirmedIncome",
			tx:   ledger.Transaction{Kind: ledger.KindIncome, Status: ledger.StatusConfirmed, Amount: dec("10.5"), AccountID: src},
			want: map[uuid.UUID]string{src: "10.5"},
		},
		{
			name: "ConfirmedExpense",
			tx:   ledger.Transaction{Kind: ledger.KindExpense, Status: ledger.StatusConfirmed, Amount: dec("7"), AccountID: src},
			want: map[uuid.UUID]string{src: "-7"},
		},
		{
			name: "ConfirmedTransfer",
			tx: ledger.Transaction{
				Kind: ledger.KindTransfer, Status: ledger.StatusConfirmed, Amount: dec("300"),
				AccountID: src, DestinationAccountID: &dst,
			},
			want: map[uuid.UUID]string{src: "-300", dst: "300"},
		},
		{
			name: "Pending",
			tx:   ledger.Transaction{Kind: ledger.KindIncome, Status: ledger.StatusPending, Amount: dec("10"), AccountID: src},
		},
		{
			name: "Cancelled",
			tx:   ledger.Transaction{Kind: ledger.KindExpense, Status: ledger.StatusCancelled, Amount: dec("10"), AccountID: src},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tx.Deltas()

			assert.Len(t, got, len(tt.want))

			for id, want := range tt.want {
				assert.Truef(t, got[id].Equal(dec(want)), "delta = %s, want %s", got[id], want)
			}
		})
	}
}

func TestComputeBalances(t *testing.T) {
	a := &ledger.Account{ID: uuid.New(), OpeningBalance: dec("1000")}
	b := &ledger.Account{ID: uuid.New(), OpeningBalance: decimal.Zero}
	outside := uuid.New()

	txs := []*ledger.Transaction{
		{Kind: ledger.KindIncome, Status: ledger.StatusConfirmed, Amount: dec("500"), AccountID: a.ID},
		{Kind: ledger.KindTransfer, Status: ledger.StatusConfirmed, Amount: dec("300"), AccountID: a.ID, DestinationAccountID: &b.ID},
		{Kind: ledger.KindExpense, Status: ledger.StatusPending, Amount: dec("999"), AccountID: a.ID},
		{Kind: ledger.KindTransfer, Status: ledger.StatusConfirmed, Amount: dec("20"), AccountID: outside, DestinationAccountID: &b.ID},
	}

	got := ledger.ComputeBalances([]*ledger.Account{a, b}, txs)

	assert.True(t, got[a.ID].Equal(dec("1200")))
	assert.True(t, got[b.ID].Equal(dec("320")))
	assert.NotContains(t, got, outside)
}

func TestDrift_Difference(t *testing.T) {
	d := ledger.Drift{Account: &ledger.Account{Balance: dec("90")}, Expected: dec("100")}
	assert.True(t, d.Difference().Equal(dec("-10")))
}
