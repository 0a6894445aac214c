package transaction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/auth"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/period"
	"github.com/MrJamesThe3rd/brazaforte/internal/retry"
)

var testPolicy = retry.Policy{MaxAttempts: 3, InitialDelay: time.Millisecond}

func newRouter(svc Service, actor *auth.Actor) http.Handler {
	r := chi.NewRouter()

	if actor != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithActor(req.Context(), *actor)))
			})
		})
	}

	r.Route("/transactions", NewHandler(svc, testPolicy).Routes)

	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body
}

func TestHandler_Create(t *testing.T) {
	accountID := uuid.New()
	actor := &auth.Actor{Subject: "ana@brazaforte", Name: "Ana"}

	validBody := `{"kind":"income","description":"Consultoria","amount":"1500.00","date":"2024-03-10","status":"confirmed","account_id":"` + accountID.String() + `"}`

	tests := []struct {
		name       string
		actor      *auth.Actor
		body       string
		setup      func(svc *MockService)
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:  "created with actor as author",
			actor: actor,
			body:  validBody,
			setup: func(svc *MockService) {
				svc.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p ledger.CreateParams) (*ledger.Transaction, error) {
						assert.Equal(t, "ana@brazaforte", p.CreatedBy)
						assert.Equal(t, ledger.KindIncome, p.Kind)
						assert.True(t, decimal.NewFromInt(1500).Equal(p.Amount))
						assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), p.Date)

						return &ledger.Transaction{ID: uuid.New(), Kind: p.Kind, Amount: p.Amount, Date: p.Date}, nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "no actor",
			body:       validBody,
			setup:      func(*MockService) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "unknown kind",
			actor:      actor,
			body:       `{"kind":"gift","description":"x","amount":"1","date":"2024-03-10","account_id":"` + accountID.String() + `"}`,
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION",
			wantField:  "kind",
		},
		{
			name:       "bad date",
			actor:      actor,
			body:       `{"kind":"income","description":"x","amount":"1","date":"10/03/2024","account_id":"` + accountID.String() + `"}`,
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "body",
		},
		{
			name:       "unknown field",
			actor:      actor,
			body:       `{"kind":"income","balance":"10"}`,
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "conflict retried until it succeeds",
			actor: actor,
			body:  validBody,
			setup: func(svc *MockService) {
				gomock.InOrder(
					svc.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil, apperr.ErrConflict),
					svc.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(&ledger.Transaction{ID: uuid.New()}, nil),
				)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:  "conflict after every attempt",
			actor: actor,
			body:  validBody,
			setup: func(svc *MockService) {
				svc.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil, apperr.ErrConflict).Times(3)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
		{
			name:  "missing account is not retried",
			actor: actor,
			body:  validBody,
			setup: func(svc *MockService) {
				svc.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil, apperr.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)
			tt.setup(svc)

			rec := do(t, newRouter(svc, tt.actor), http.MethodPost, "/transactions/", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantCode == "" && tt.wantField == "" {
				return
			}

			body := decodeBody(t, rec)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
			}

			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, body["field"])
			}
		})
	}
}

func TestHandler_List(t *testing.T) {
	accountID := uuid.New()

	t.Run("filters from query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		svc.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f ledger.ListFilter) ([]*ledger.Transaction, error) {
				assert.Equal(t, accountID, *f.AccountID)
				assert.Equal(t, ledger.StatusPending, *f.Status)
				assert.Equal(t, ledger.KindExpense, *f.Kind)
				assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
				assert.Equal(t, "aluguel", f.Search)
				assert.Nil(t, f.EndDate)

				return []*ledger.Transaction{{ID: uuid.New(), Amount: decimal.NewFromInt(2000)}}, nil
			})

		target := "/transactions/?account_id=" + accountID.String() + "&status=pending&kind=expense&start_date=2024-03-01&search=aluguel"
		rec := do(t, newRouter(svc, nil), http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body []map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "2000", body[0]["amount"])
	})

	t.Run("bad uuid", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		rec := do(t, newRouter(NewMockService(ctrl), nil), http.MethodGet, "/transactions/?account_id=nope", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "account_id", decodeBody(t, rec)["field"])
	})
}

func TestHandler_GetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)
	id := uuid.New()

	svc.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, apperr.ErrNotFound)

	rec := do(t, newRouter(svc, nil), http.MethodGet, "/transactions/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)
	id := uuid.New()

	svc.EXPECT().UpdateStatus(gomock.Any(), id, ledger.StatusConfirmed).
		Return(&ledger.Transaction{ID: id, Status: ledger.StatusConfirmed}, nil)

	rec := do(t, newRouter(svc, nil), http.MethodPatch, "/transactions/"+id.String()+"/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", decodeBody(t, rec)["status"])
}

func TestHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)
	id := uuid.New()

	svc.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil)

	rec := do(t, newRouter(svc, nil), http.MethodDelete, "/transactions/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_Summary(t *testing.T) {
	t.Run("month required", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		rec := do(t, newRouter(NewMockService(ctrl), nil), http.MethodGet, "/transactions/summary?year=2024", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "month", decodeBody(t, rec)["field"])
	})

	t.Run("renders totals", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		r, err := period.Month(2024, 3)
		require.NoError(t, err)

		svc.EXPECT().MonthlySummary(gomock.Any(), 2024, 3).Return(&ledger.Summary{
			Period:  r,
			Income:  decimal.NewFromInt(5000),
			Expense: decimal.NewFromInt(2000),
			Net:     decimal.NewFromInt(3000),
			AsOf:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		}, nil)

		rec := do(t, newRouter(svc, nil), http.MethodGet, "/transactions/summary?year=2024&month=3", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "3000", body["net"])
		assert.Equal(t, "2024-03-01", body["start"])
		assert.Equal(t, "2024-03-31", body["end"])
	})
}
