package importcsv

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
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
	"github.com/MrJamesThe3rd/brazaforte/internal/importer"
	"github.com/MrJamesThe3rd/brazaforte/internal/importer/statement"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/retry"
)

const bbStatement = "Data;Histórico;Valor\n05/03/2026;PIX RECEBIDO CLIENTE;1.500,00\n"

var testPolicy = retry.Policy{MaxAttempts: 3, InitialDelay: time.Millisecond}

func newRouter(svc Service, actor *auth.Actor, maxBytes int64) http.Handler {
	r := chi.NewRouter()

	if actor != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithActor(req.Context(), *actor)))
			})
		})
	}

	r.Route("/import", NewHandler(svc, testPolicy, maxBytes).Routes)

	return r
}

func upload(t *testing.T, h http.Handler, target string, fields map[string]string, file string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if file != "" {
		fw, err := mw.CreateFormFile("file", "extrato.csv")
		require.NoError(t, err)

		_, err = io.WriteString(fw, file)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Import(t *testing.T) {
	accountID := uuid.New()
	actor := &auth.Actor{Subject: "ana@brazaforte", Name: "Ana"}

	report := &importer.Report{
		Profile: "bb",
		Charset: "UTF-8",
		Created: []*ledger.Transaction{{
			ID:             uuid.New(),
			Kind:           ledger.KindIncome,
			Status:         ledger.StatusPending,
			Description:    "PIX RECEBIDO CLIENTE",
			RawDescription: "PIX RECEBIDO CLIENTE",
			Amount:         decimal.RequireFromString("1500"),
			Date:           time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		}},
	}

	tests := []struct {
		name       string
		actor      *auth.Actor
		fields     map[string]string
		file       string
		maxBytes   int64
		setup      func(svc *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "imports as pending by default",
			actor:  actor,
			fields: map[string]string{"account_id": accountID.String()},
			file:   bbStatement,
			setup: func(svc *MockService) {
				svc.EXPECT().Import(gomock.Any(), importer.Request{AccountID: accountID, CreatedBy: "ana@brazaforte"}, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ importer.Request, r io.Reader) (*importer.Report, error) {
						data, err := io.ReadAll(r)
						require.NoError(t, err)
						assert.Equal(t, bbStatement, string(data))

						return report, nil
					})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"created":1`,
		},
		{
			name:   "passes the requested status",
			actor:  actor,
			fields: map[string]string{"account_id": accountID.String(), "status": "confirmed"},
			file:   bbStatement,
			setup: func(svc *MockService) {
				svc.EXPECT().Import(gomock.Any(), importer.Request{
					AccountID: accountID,
					Status:    ledger.StatusConfirmed,
					CreatedBy: "ana@brazaforte",
				}, gomock.Any()).Return(&importer.Report{Profile: "bb", Charset: "UTF-8"}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"skipped":0`,
		},
		{
			name:   "replays the whole file after a conflict",
			actor:  actor,
			fields: map[string]string{"account_id": accountID.String()},
			file:   bbStatement,
			setup: func(svc *MockService) {
				replay := func(_ context.Context, _ importer.Request, r io.Reader) (*importer.Report, error) {
					data, err := io.ReadAll(r)
					require.NoError(t, err)
					assert.Equal(t, bbStatement, string(data))

					return nil, apperr.ErrConflict
				}

				gomock.InOrder(
					svc.EXPECT().Import(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(replay),
					svc.EXPECT().Import(gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, _ importer.Request, r io.Reader) (*importer.Report, error) {
							data, err := io.ReadAll(r)
							require.NoError(t, err)
							assert.Equal(t, bbStatement, string(data))

							return report, nil
						}),
				)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "requires an actor",
			fields:     map[string]string{"account_id": accountID.String()},
			file:       bbStatement,
			setup:      func(*MockService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "requires a file",
			actor:      actor,
			fields:     map[string]string{"account_id": accountID.String()},
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"field":"file"`,
		},
		{
			name:       "requires an account",
			actor:      actor,
			file:       bbStatement,
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"field":"account_id"`,
		},
		{
			name:       "rejects oversized uploads",
			actor:      actor,
			fields:     map[string]string{"account_id": accountID.String()},
			file:       bbStatement,
			maxBytes:   32,
			setup:      func(*MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown layout",
			actor:  actor,
			fields: map[string]string{"account_id": accountID.String()},
			file:   "foo;bar\n1;2\n",
			setup: func(svc *MockService) {
				svc.EXPECT().Import(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, apperr.Invalid("file", "no known bank statement layout found"))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"field":"file"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)
			tt.setup(svc)

			maxBytes := tt.maxBytes
			if maxBytes == 0 {
				maxBytes = 1 << 20
			}

			rec := upload(t, newRouter(svc, tt.actor, maxBytes), "/import/", tt.fields, tt.file)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandler_Preview(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)

	categoryID := uuid.New()

	svc.EXPECT().Preview(gomock.Any(), gomock.Any()).Return(&statement.Result{
		Profile: "bb",
		Charset: "ISO-8859-1",
		Params: []ledger.CreateParams{{
			Kind:           ledger.KindExpense,
			Description:    "Conta de luz",
			RawDescription: "PAGTO ENEL",
			Amount:         decimal.RequireFromString("250.5"),
			Date:           time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
			CategoryID:     &categoryID,
		}},
	}, nil)

	rec := upload(t, newRouter(svc, nil, 1<<20), "/import/preview", nil, bbStatement)

	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"charset":"ISO-8859-1"`)
	assert.Contains(t, body, `"amount":"250.5"`)
	assert.Contains(t, body, `"date":"2026-03-07"`)
	assert.Contains(t, body, `"raw_description":"PAGTO ENEL"`)
}
