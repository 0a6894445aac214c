// Package finance exposes the interest, installment and late-charge
// calculators over HTTP. Amounts are returned with exactly two decimals.
package finance

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/finance"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
)

type Handler struct {
	now func() time.Time
}

func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/simple-interest", h.simpleInterest)
	r.Post("/compound-interest", h.compoundInterest)
	r.Post("/installment", h.installment)
	r.Post("/late-charges", h.lateCharges)
}

type interestRequest struct {
	Principal decimal.Decimal `json:"principal"`
	Rate      decimal.Decimal `json:"rate"`
	Months    int             `json:"months" validate:"min=0,max=1200"`
}

func (req interestRequest) check() error {
	switch {
	case req.Principal.IsNegative():
		return apperr.Invalid("principal", "must not be negative")
	case req.Rate.IsNegative():
		return apperr.Invalid("rate", "must not be negative")
	}

	return nil
}

type interestResponse struct {
	Interest string `json:"interest"`
	Total    string `json:"total"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (h *Handler) simpleInterest(w http.ResponseWriter, r *http.Request) {
	var req interestRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	interest := finance.SimpleInterest(req.Principal, req.Rate, req.Months)

	respond.JSON(w, http.StatusOK, interestResponse{
		Interest: money(interest),
		Total:    money(req.Principal.Add(interest)),
	})
}

func (h *Handler) compoundInterest(w http.ResponseWriter, r *http.Request) {
	var req interestRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	total := finance.CompoundAmount(req.Principal, req.Rate, req.Months)

	respond.JSON(w, http.StatusOK, interestResponse{
		Interest: money(total.Sub(req.Principal)),
		Total:    money(total),
	})
}

func decode(r *http.Request, req *interestRequest) error {
	if err := respond.Decode(r, req); err != nil {
		return err
	}

	return req.check()
}

type installmentRequest struct {
	Total        decimal.Decimal `json:"total"`
	Rate         decimal.Decimal `json:"rate"`
	Installments int             `json:"installments" validate:"required,min=1,max=600"`
}

type installmentResponse struct {
	Installment string `json:"installment"`
	TotalPaid   string `json:"total_paid"`
	Interest    string `json:"interest"`
}

func (h *Handler) installment(w http.ResponseWriter, r *http.Request) {
	var req installmentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if !req.Total.IsPositive() {
		respond.Error(w, r, apperr.Invalid("total", "must be greater than zero"))
		return
	}

	if req.Rate.IsNegative() {
		respond.Error(w, r, apperr.Invalid("rate", "must not be negative"))
		return
	}

	pmt, err := finance.Installment(req.Total, req.Rate, req.Installments)
	if err != nil {
		respond.Error(w, r, apperr.Invalid("installments", err.Error()))
		return
	}

	paid := pmt.Mul(decimal.NewFromInt(int64(req.Installments)))

	respond.JSON(w, http.StatusOK, installmentResponse{
		Installment: money(pmt),
		TotalPaid:   money(paid),
		Interest:    money(paid.Sub(req.Total)),
	})
}

type lateChargesRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	DueDate respond.Date    `json:"due_date"`
	// PaidDate defaults to today.
	PaidDate             *respond.Date    `json:"paid_date,omitempty"`
	FinePercent          *decimal.Decimal `json:"fine_percent,omitempty"`
	DailyInterestPercent *decimal.Decimal `json:"daily_interest_percent,omitempty"`
}

type lateChargesResponse struct {
	DaysLate int    `json:"days_late"`
	Fine     string `json:"fine"`
	Interest string `json:"interest"`
	Total    string `json:"total"`
}

func (h *Handler) lateCharges(w http.ResponseWriter, r *http.Request) {
	var req lateChargesRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if !req.Amount.IsPositive() {
		respond.Error(w, r, apperr.Invalid("amount", "must be greater than zero"))
		return
	}

	if req.DueDate.Time().IsZero() {
		respond.Error(w, r, apperr.Invalid("due_date", "required"))
		return
	}

	paid := h.now()
	if req.PaidDate != nil {
		paid = req.PaidDate.Time()
	}

	policy := finance.DefaultLatePolicy
	if req.FinePercent != nil {
		policy.FinePercent = *req.FinePercent
	}

	if req.DailyInterestPercent != nil {
		policy.DailyInterestPercent = *req.DailyInterestPercent
	}

	days := finance.DaysLate(req.DueDate.Time(), paid)
	charges := policy.Charges(req.Amount, days)

	respond.JSON(w, http.StatusOK, lateChargesResponse{
		DaysLate: days,
		Fine:     money(charges.Fine),
		Interest: money(charges.Interest),
		Total:    money(charges.Total),
	})
}
