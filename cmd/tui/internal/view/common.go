package view

//go:generate mockgen -source=common.go -destination=services_mock.go -package=view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/matching"
)

const dbTimeout = 5 * time.Second

type Ledger interface {
	ListAccounts(ctx context.Context, filter ledger.AccountFilter) ([]*ledger.Account, error)
	ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, params ledger.UpdateParams) (*ledger.Transaction, error)
	MonthlySummary(ctx context.Context, year, month int) (*ledger.Summary, error)
}

type Rules interface {
	Apply(ctx context.Context, raw string) (matching.Applied, error)
	Create(ctx context.Context, params matching.Params) (*matching.Rule, error)
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

func dbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
