package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/brazaforte/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/brazaforte/internal/config"
	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/brazaforte/internal/ledger/store"
	"github.com/MrJamesThe3rd/brazaforte/internal/logging"
	"github.com/MrJamesThe3rd/brazaforte/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/brazaforte/internal/matching/store"
)

type View int

const (
	ViewMenu View = iota
	ViewReview
	ViewAccounts
	ViewSummary
)

type model struct {
	ledger *ledger.Service
	rules  *matching.Service

	currentView View

	reviewView   view.ReviewModel
	accountsView view.AccountsModel
	summaryView  view.SummaryModel
}

func newModel(l *ledger.Service, rules *matching.Service) model {
	return model{
		ledger:      l,
		rules:       rules,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.ledger, m.rules)

				return m, m.reviewView.Init()
			case "2":
				m.currentView = ViewAccounts
				m.accountsView = view.NewAccountsModel(m.ledger)

				return m, m.accountsView.Init()
			case "3":
				m.currentView = ViewSummary
				m.summaryView = view.NewSummaryModel(m.ledger, time.Now())

				return m, m.summaryView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	case ViewSummary:
		var newModel tea.Model
		newModel, cmd = m.summaryView.Update(msg)
		m.summaryView = newModel.(view.SummaryModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Brazaforte\n\n" +
				"1. Revisar transações importadas\n" +
				"2. Contas e saldos\n" +
				"3. Resumo mensal\n\n" +
				"q. Sair",
		)
	case ViewReview:
		return m.reviewView.View()
	case ViewAccounts:
		return m.accountsView.View()
	case ViewSummary:
		return m.summaryView.View()
	}

	return "Unknown View"
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; logs go to stderr only at warn and above.
	logger, err := logging.New(os.Stderr, "warn", cfg.Log.Format)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	l := ledger.NewService(ledgerStore.New(db), ledger.WithLogger(logger))
	rules := matching.NewService(matchingStore.New(db))

	p := tea.NewProgram(newModel(l, rules), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("tui failed", "error", err)
		os.Exit(1)
	}
}
