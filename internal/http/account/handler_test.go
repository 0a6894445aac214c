package account

import (
	"context"
	"encoding/csv"
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
	"github.com/MrJamesThe3rd/brazaforte/internal/export"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/retry"
)

func setup(t *testing.T) (*MockService, *MockStatements, http.Handler) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)
	statements := NewMockStatements(ctrl)

	r := chi.NewRouter()
	r.Route("/accounts", NewHandler(svc, statements, retry.Policy{MaxAttempts: 2, InitialDelay: time.Millisecond}).Routes)

	return svc, statements, r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	svc, _, h := setup(t)

	svc.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p ledger.AccountParams) (*ledger.Account, error) {
			assert.Equal(t, "Conta PJ", p.Name)
			assert.True(t, p.Active)
			assert.Equal(t, "250.5", p.OpeningBalance.String())

			return &ledger.Account{
				ID:             uuid.New(),
				Name:           p.Name,
				OpeningBalance: p.OpeningBalance,
				Balance:        p.OpeningBalance,
				OpenedOn:       p.OpenedOn,
				Active:         p.Active,
			}, nil
		})

	rec := serve(h, http.MethodPost, "/accounts/",
		`{"name":"Conta PJ","bank":"Itaú","opening_balance":"250.50","opened_on":"2024-01-02"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "250.5", body["balance"])
	assert.Equal(t, "2024-01-02", body["opened_on"])
}

func TestHandler_CreateRejectsBalance(t *testing.T) {
	_, _, h := setup(t)

	rec := serve(h, http.MethodPost, "/accounts/", `{"name":"x","bank":"y","opened_on":"2024-01-02","balance":"100"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_DeleteReferenced(t *testing.T) {
	svc, _, h := setup(t)
	id := uuid.New()

	svc.EXPECT().DeleteAccount(gomock.Any(), id).Return(apperr.ErrReferenced)

	rec := serve(h, http.MethodDelete, "/accounts/"+id.String(), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"REFERENCED"`)
}

func TestHandler_Recompute(t *testing.T) {
	svc, _, h := setup(t)

	gomock.InOrder(
		svc.EXPECT().RecomputeAllBalances(gomock.Any()).Return(apperr.ErrConflict),
		svc.EXPECT().RecomputeAllBalances(gomock.Any()).Return(nil),
	)

	rec := serve(h, http.MethodPost, "/accounts/recompute", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_Drift(t *testing.T) {
	svc, _, h := setup(t)
	id := uuid.New()

	svc.EXPECT().CheckBalances(gomock.Any()).Return([]ledger.Drift{{
		Account:  &ledger.Account{ID: id, Name: "Caixa", Balance: decimal.NewFromInt(120)},
		Expected: decimal.NewFromInt(100),
	}}, nil)

	rec := serve(h, http.MethodGet, "/accounts/drift", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, id.String(), body[0]["account_id"])
	assert.Equal(t, "20", body[0]["difference"])
}

func TestHandler_Statement(t *testing.T) {
	_, statements, h := setup(t)
	id := uuid.New()

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	statements.EXPECT().Statement(gomock.Any(), id, from, to).Return(&export.Statement{
		From:    from,
		To:      to,
		Opening: decimal.NewFromInt(950),
		Closing: decimal.NewFromInt(1450),
		Lines: []export.Line{{
			Transaction: &ledger.Transaction{ID: uuid.New(), Kind: ledger.KindIncome, Description: "Consultoria", Date: from.AddDate(0, 0, 1)},
			Delta:       decimal.NewFromInt(500),
			Balance:     decimal.NewFromInt(1450),
		}},
	}, nil)

	rec := serve(h, http.MethodGet, "/accounts/"+id.String()+"/statement?from=2024-03-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "extrato-20240301-20240331.csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "1450.00", rows[2][4])
}

func TestHandler_StatementBadDate(t *testing.T) {
	_, _, h := setup(t)

	rec := serve(h, http.MethodGet, "/accounts/"+uuid.NewString()+"/statement?from=01/03/2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
