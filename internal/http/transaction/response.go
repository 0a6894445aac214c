package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

type transactionResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Kind                 ledger.Kind     `json:"kind"`
	Description          string          `json:"description"`
	RawDescription       string          `json:"raw_description,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Date                 respond.Date    `json:"date"`
	DueDate              *respond.Date   `json:"due_date,omitempty"`
	PaidDate             *respond.Date   `json:"paid_date,omitempty"`
	Status               ledger.Status   `json:"status"`
	CategoryID           *uuid.UUID      `json:"category_id,omitempty"`
	AccountID            uuid.UUID       `json:"account_id"`
	DestinationAccountID *uuid.UUID      `json:"destination_account_id,omitempty"`
	ClientID             *uuid.UUID      `json:"client_id,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	CreatedBy            string          `json:"created_by"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func optionalDate(t *time.Time) *respond.Date {
	if t == nil {
		return nil
	}

	return new(respond.Date(*t))
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:                   tx.ID,
		Kind:                 tx.Kind,
		Description:          tx.Description,
		RawDescription:       tx.RawDescription,
		Amount:               tx.Amount,
		Date:                 respond.Date(tx.Date),
		DueDate:              optionalDate(tx.DueDate),
		PaidDate:             optionalDate(tx.PaidDate),
		Status:               tx.Status,
		CategoryID:           tx.CategoryID,
		AccountID:            tx.AccountID,
		DestinationAccountID: tx.DestinationAccountID,
		ClientID:             tx.ClientID,
		Notes:                tx.Notes,
		CreatedBy:            tx.CreatedBy,
		CreatedAt:            tx.CreatedAt,
		UpdatedAt:            tx.UpdatedAt,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type categoryTotalResponse struct {
	CategoryID *uuid.UUID          `json:"category_id"`
	Name       string              `json:"name"`
	Kind       ledger.CategoryKind `json:"kind,omitempty"`
	Total      decimal.Decimal     `json:"total"`
	Count      int                 `json:"count"`
}

type pendingResponse struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type overdueResponse struct {
	Transaction transactionResponse `json:"transaction"`
	DaysLate    int                 `json:"days_late"`
	Fine        decimal.Decimal     `json:"fine"`
	Interest    decimal.Decimal     `json:"interest"`
	Total       decimal.Decimal     `json:"total"`
}

type summaryResponse struct {
	Start       respond.Date            `json:"start"`
	End         respond.Date            `json:"end"`
	Income      decimal.Decimal         `json:"income"`
	Expense     decimal.Decimal         `json:"expense"`
	Net         decimal.Decimal         `json:"net"`
	Categories  []categoryTotalResponse `json:"categories"`
	Payables    pendingResponse         `json:"payables"`
	Receivables pendingResponse         `json:"receivables"`
	Overdue     []overdueResponse       `json:"overdue"`
	AsOf        respond.Date            `json:"as_of"`
}

func toSummaryResponse(s *ledger.Summary) summaryResponse {
	resp := summaryResponse{
		Start:       respond.Date(s.Period.Start),
		End:         respond.Date(s.Period.Last()),
		Income:      s.Income,
		Expense:     s.Expense,
		Net:         s.Net,
		Categories:  make([]categoryTotalResponse, 0, len(s.Categories)),
		Payables:    pendingResponse(s.Payables),
		Receivables: pendingResponse(s.Receivables),
		Overdue:     make([]overdueResponse, 0, len(s.Overdue)),
		AsOf:        respond.Date(s.AsOf),
	}

	for _, c := range s.Categories {
		resp.Categories = append(resp.Categories, categoryTotalResponse(c))
	}

	for _, o := range s.Overdue {
		resp.Overdue = append(resp.Overdue, overdueResponse{
			Transaction: toResponse(o.Transaction),
			DaysLate:    o.DaysLate,
			Fine:        o.Charges.Fine,
			Interest:    o.Charges.Interest,
			Total:       o.Charges.Total,
		})
	}

	return resp
}
