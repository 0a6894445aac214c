package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/finance"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/matching"
)

type ReviewState int

const (
	StateSelectTimeframe ReviewState = iota
	StateReviewing
)

// ReviewModel walks the pending imported transactions one by one so the user
// can fix the description and confirm, keep or cancel each of them.
type ReviewModel struct {
	CommonModel
	ledger Ledger
	rules  Rules
	now    func() time.Time

	state     ReviewState
	timeframe Timeframe

	queue     []*ledger.Transaction
	current   *ledger.Transaction
	descInput textinput.Model

	status   string
	loading  bool
	total    int
	reviewed int
}

func NewReviewModel(l Ledger, rules Rules) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Descrição"
	ti.Width = 50

	return ReviewModel{
		ledger:    l,
		rules:     rules,
		now:       time.Now,
		descInput: ti,
		state:     StateSelectTimeframe,
		timeframe: TimeframeThisMonth,
		status:    "Escolha o período",
	}
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m, Back

		case tea.KeyUp:
			if m.state == StateSelectTimeframe && m.timeframe > TimeframeThisWeek {
				m.timeframe--
			}

		case tea.KeyDown:
			if m.state == StateSelectTimeframe && m.timeframe < TimeframeAll {
				m.timeframe++
			}

		case tea.KeyEnter:
			if m.state == StateSelectTimeframe {
				m.state = StateReviewing
				m.loading = true

				return m, m.loadPendingCmd()
			}

			if m.current != nil {
				return m, m.saveCmd(m.descInput.Value(), ledger.StatusConfirmed)
			}

		case tea.KeyCtrlS:
			if m.current != nil {
				return m, m.saveCmd(m.descInput.Value(), ledger.StatusPending)
			}

		case tea.KeyCtrlX:
			if m.current != nil {
				return m, m.saveCmd(m.descInput.Value(), ledger.StatusCancelled)
			}

		case tea.KeyTab:
			if m.current != nil {
				return m.next(), textinput.Blink
			}
		}

	case loadPendingMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Erro ao carregar: %v", msg.err)
			break
		}

		m.queue = msg.txs
		m.total = len(msg.txs)
		m.reviewed = 0

		if m.total == 0 {
			m.status = "Nenhuma transação pendente."
			break
		}

		return m.next(), textinput.Blink

	case savedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Erro ao salvar: %v", msg.err)
			break
		}

		return m.next(), textinput.Blink
	}

	if m.state == StateReviewing && m.current != nil {
		m.descInput, cmd = m.descInput.Update(msg)
	}

	return m, cmd
}

// next pops the queue and pre-fills the description with the rule suggestion.
func (m ReviewModel) next() ReviewModel {
	if len(m.queue) == 0 {
		m.current = nil
		m.status = "Revisão concluída."
		m.descInput.Blur()
		m.descInput.SetValue("")

		return m
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]
	m.reviewed++
	m.status = fmt.Sprintf("Revisando %d/%d", m.reviewed, m.total)

	suggestion := m.current.Description

	if m.current.RawDescription != "" {
		ctx, cancel := dbCtx()
		applied, err := m.rules.Apply(ctx, m.current.RawDescription)
		cancel()

		if err == nil && applied.Matched {
			suggestion = applied.Description
		}
	}

	m.descInput.SetValue(suggestion)
	m.descInput.Focus()

	return m
}

func (m ReviewModel) View() string {
	if m.state == StateSelectTimeframe {
		var b strings.Builder

		b.WriteString("Transações pendentes de:\n\n")

		for tf := TimeframeThisWeek; tf <= TimeframeAll; tf++ {
			cursor := " "
			if tf == m.timeframe {
				cursor = ">"
			}

			fmt.Fprintf(&b, "%s %s\n", cursor, tf)
		}

		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	var content string

	switch {
	case m.loading:
		content = "Carregando..."
	case m.current != nil:
		info := fmt.Sprintf(
			"Data:  %s\nTipo:  %s\nValor: %s\nOrig.: %s\n",
			formatDate(m.current.Date),
			m.current.Kind,
			finance.FormatBRL(m.current.Amount),
			m.current.RawDescription,
		)
		content = fmt.Sprintf("%s\n\n%s\nDescrição:\n%s\n\n"+
			"Enter: confirmar | Ctrl+S: manter pendente | Ctrl+X: cancelar | Tab: pular | Esc: voltar",
			m.status, info, m.descInput.View())
	default:
		content = m.status + "\n\n(Esc para voltar)"
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type loadPendingMsg struct {
	txs []*ledger.Transaction
	err error
}

func (m ReviewModel) loadPendingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		filter := ledger.ListFilter{Status: new(ledger.StatusPending)}

		if r, ok := m.timeframe.dateRange(m.now()); ok {
			filter.StartDate = &r.Start
			filter.EndDate = &r.End
		}

		txs, err := m.ledger.ListTransactions(ctx, filter)

		return loadPendingMsg{txs: txs, err: err}
	}
}

type savedMsg struct {
	err error
}

// saveCmd stores the new description and status. A description that differs
// from the bank's text is remembered as a rule for future imports.
func (m ReviewModel) saveCmd(description string, status ledger.Status) tea.Cmd {
	tx := m.current

	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		description = strings.TrimSpace(description)

		if tx.RawDescription != "" && description != "" && description != tx.RawDescription {
			_, err := m.rules.Create(ctx, matching.Params{
				Pattern:     tx.RawDescription,
				Description: description,
				CategoryID:  tx.CategoryID,
			})
			if err != nil && !errors.Is(err, apperr.ErrDuplicate) {
				return savedMsg{err: fmt.Errorf("saving rule: %w", err)}
			}
		}

		params := ledger.UpdateParamsFrom(tx)
		params.Description = description
		params.Status = status

		_, err := m.ledger.UpdateTransaction(ctx, tx.ID, params)

		return savedMsg{err: err}
	}
}
