package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/brazaforte/internal/finance"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// SummaryModel shows the monthly summary; left and right move between months.
type SummaryModel struct {
	CommonModel
	ledger Ledger

	month   time.Time
	summary *ledger.Summary
	loading bool
	err     error
}

func NewSummaryModel(l Ledger, now time.Time) SummaryModel {
	return SummaryModel{
		ledger:  l,
		month:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		loading: true,
	}
}

func (m SummaryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSummaryMsg:
		m.loading = false
		m.summary, m.err = msg.summary, msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.month = m.month.AddDate(0, -1, 0)
			m.loading = true

			return m, m.loadCmd()
		case "right", "l":
			m.month = m.month.AddDate(0, 1, 0)
			m.loading = true

			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m SummaryModel) View() string {
	header := titleStyle.Render(fmt.Sprintf("Resumo de %02d/%d", int(m.month.Month()), m.month.Year()))

	var body string

	switch {
	case m.loading:
		body = "Carregando..."
	case m.err != nil:
		body = fmt.Sprintf("Erro: %v", m.err)
	default:
		body = renderSummary(m.summary)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", body, "", "←/→: mês | Esc: voltar",
	))
}

func renderSummary(s *ledger.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Receitas:  %s\n", finance.FormatBRL(s.Income))
	fmt.Fprintf(&b, "Despesas:  %s\n", finance.FormatBRL(s.Expense))

	net := finance.FormatBRL(s.Net)
	if s.Net.IsNegative() {
		net = negativeStyle.Render(net)
	}

	fmt.Fprintf(&b, "Resultado: %s\n\n", net)

	if len(s.Categories) > 0 {
		b.WriteString("Por categoria:\n")

		for _, c := range s.Categories {
			name := c.Name
			if c.CategoryID == nil {
				name = "(sem categoria)"
			}

			fmt.Fprintf(&b, "  %-24s %16s  (%d)\n", name, finance.FormatBRL(c.Total), c.Count)
		}

		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "A pagar em %s:   %s (%d)\n", formatDate(s.AsOf), finance.FormatBRL(s.Payables.Total), s.Payables.Count)
	fmt.Fprintf(&b, "A receber em %s: %s (%d)\n", formatDate(s.AsOf), finance.FormatBRL(s.Receivables.Total), s.Receivables.Count)

	if len(s.Overdue) > 0 {
		b.WriteString("\nEm atraso:\n")

		for _, o := range s.Overdue {
			line := fmt.Sprintf("  %-24s %3d dias  %s → %s",
				o.Transaction.Description,
				o.DaysLate,
				finance.FormatBRL(o.Transaction.Amount),
				finance.FormatBRL(o.Charges.Total),
			)
			b.WriteString(negativeStyle.Render(line) + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

type loadSummaryMsg struct {
	summary *ledger.Summary
	err     error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	year, month := m.month.Year(), int(m.month.Month())

	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		s, err := m.ledger.MonthlySummary(ctx, year, month)

		return loadSummaryMsg{summary: s, err: err}
	}
}
