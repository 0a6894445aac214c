package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/finance"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

type AccountsModel struct {
	CommonModel
	ledger Ledger

	table    table.Model
	accounts []*ledger.Account
	loading  bool
	err      error
}

func NewAccountsModel(l Ledger) AccountsModel {
	columns := []table.Column{
		{Title: "Conta", Width: 24},
		{Title: "Banco", Width: 16},
		{Title: "Agência/Número", Width: 18},
		{Title: "Saldo", Width: 18},
		{Title: "Ativa", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return AccountsModel{ledger: l, table: t, loading: true}
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAccountsMsg:
		m.loading = false
		m.err = msg.err
		m.accounts = msg.accounts
		m.table.SetRows(accountRows(msg.accounts))

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func accountRows(accounts []*ledger.Account) []table.Row {
	rows := make([]table.Row, len(accounts))
	for i, a := range accounts {
		active := "não"
		if a.Active {
			active = "sim"
		}

		rows[i] = table.Row{
			a.Name,
			a.Bank,
			fmt.Sprintf("%s/%s", a.Branch, a.Number),
			finance.FormatBRL(a.Balance),
			active,
		}
	}

	return rows
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Carregando contas...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Erro: %v", m.err))
	}

	total := decimal.Zero
	for _, a := range m.accounts {
		if a.Active {
			total = total.Add(a.Balance)
		}
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		"Contas",
		tableView,
		fmt.Sprintf("Saldo total (ativas): %s", finance.FormatBRL(total)),
		"Esc: voltar | r: atualizar",
	))
}

type loadAccountsMsg struct {
	accounts []*ledger.Account
	err      error
}

func (m AccountsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		accounts, err := m.ledger.ListAccounts(ctx, ledger.AccountFilter{})

		return loadAccountsMsg{accounts: accounts, err: err}
	}
}
