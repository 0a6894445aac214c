package budget

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/budget"
	"github.com/MrJamesThe3rd/brazaforte/internal/finance"
)

func TestHandler(t *testing.T) {
	id := uuid.New()
	categoryID := uuid.New()

	b := &budget.Budget{
		ID:           id,
		Year:         2026,
		Month:        3,
		CategoryID:   categoryID,
		CategoryName: "Aluguel",
		Planned:      decimal.RequireFromString("2000"),
	}

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		setup      func(svc *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "create",
			method: http.MethodPost,
			target: "/budgets/",
			body:   `{"year":2026,"month":3,"category_id":"` + categoryID.String() + `","planned":"2000"}`,
			setup: func(svc *MockService) {
				svc.EXPECT().Create(gomock.Any(), budget.Params{
					Year:       2026,
					Month:      3,
					CategoryID: categoryID,
					Planned:    decimal.RequireFromString("2000"),
				}).Return(b, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"planned":"2000"`,
		},
		{
			name:       "create with month out of range",
			method:     http.MethodPost,
			target:     "/budgets/",
			body:       `{"year":2026,"month":13,"category_id":"` + categoryID.String() + `","planned":"10"}`,
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"field":"month"`,
		},
		{
			name:   "create duplicate",
			method: http.MethodPost,
			target: "/budgets/",
			body:   `{"year":2026,"month":3,"category_id":"` + categoryID.String() + `","planned":"10"}`,
			setup: func(svc *MockService) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, apperr.ErrDuplicate)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "list by month",
			method: http.MethodGet,
			target: "/budgets/?year=2026&month=3",
			setup: func(svc *MockService) {
				svc.EXPECT().List(gomock.Any(), budget.ListFilter{Year: new(2026), Month: new(3)}).
					Return([]*budget.Budget{b}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"category_name":"Aluguel"`,
		},
		{
			name:       "list with bad year",
			method:     http.MethodGet,
			target:     "/budgets/?year=abc",
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"field":"year"`,
		},
		{
			name:   "variance",
			method: http.MethodGet,
			target: "/budgets/variance?year=2026&month=3&category_id=" + categoryID.String(),
			setup: func(svc *MockService) {
				svc.EXPECT().Variance(gomock.Any(), 2026, 3, categoryID).Return(&budget.Variance{
					Budget:     b,
					Planned:    b.Planned,
					Realized:   decimal.RequireFromString("2150.5"),
					Difference: decimal.RequireFromString("150.5"),
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"difference":"150.5"`,
		},
		{
			name:       "variance without category",
			method:     http.MethodGet,
			target:     "/budgets/variance?year=2026&month=3",
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"field":"category_id"`,
		},
		{
			name:   "variance without budget",
			method: http.MethodGet,
			target: "/budgets/variance?year=2026&month=4&category_id=" + categoryID.String(),
			setup: func(svc *MockService) {
				svc.EXPECT().Variance(gomock.Any(), 2026, 4, categoryID).Return(nil, apperr.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "comparison requires month",
			method:     http.MethodGet,
			target:     "/budgets/comparison?year=2026",
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"field":"month"`,
		},
		{
			name:   "comparison",
			method: http.MethodGet,
			target: "/budgets/comparison?year=2026&month=3",
			setup: func(svc *MockService) {
				svc.EXPECT().Comparison(gomock.Any(), 2026, 3).Return([]budget.Variance{{
					Budget:     b,
					Planned:    b.Planned,
					Realized:   decimal.Zero,
					Difference: decimal.RequireFromString("-2000"),
				}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"difference":"-2000"`,
		},
		{
			name:   "projection defaults to twelve months",
			method: http.MethodGet,
			target: "/budgets/projection",
			setup: func(svc *MockService) {
				svc.EXPECT().Projection(gomock.Any(), 12).Return([]finance.ProjectedMonth{{
					Year:    2026,
					Month:   3,
					Revenue: decimal.RequireFromString("5000"),
					Expense: decimal.RequireFromString("2000"),
					Net:     decimal.RequireFromString("3000"),
					Balance: decimal.RequireFromString("13000"),
				}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"balance":"13000"`,
		},
		{
			name:   "projection out of range",
			method: http.MethodGet,
			target: "/budgets/projection?months=500",
			setup: func(svc *MockService) {
				svc.EXPECT().Projection(gomock.Any(), 500).Return(nil, apperr.Invalid("months", "must be between 1 and 120"))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			target: "/budgets/" + id.String(),
			setup: func(svc *MockService) {
				svc.EXPECT().Delete(gomock.Any(), id).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)
			tt.setup(svc)

			r := chi.NewRouter()
			r.Route("/budgets", NewHandler(svc).Routes)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
