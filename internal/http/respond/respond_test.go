package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Invalid("amount", "must be greater than zero"), http.StatusBadRequest},
		{"not found", fmt.Errorf("getting account: %w", apperr.ErrNotFound), http.StatusNotFound},
		{"referenced", apperr.ErrReferenced, http.StatusConflict},
		{"duplicate", apperr.ErrDuplicate, http.StatusConflict},
		{"conflict", apperr.ErrConflict, http.StatusConflict},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond.StatusOf(tt.err))
		})
	}
}

func TestError(t *testing.T) {
	t.Run("validation reports the field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respond.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperr.Invalid("month", "must be between 1 and 12"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "month", body["field"])
		assert.Equal(t, "VALIDATION", body["code"])
	})

	t.Run("internal errors are masked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respond.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.Contains(t, rec.Body.String(), "internal error")
	})
}

func TestQuery(t *testing.T) {
	t.Run("parses values", func(t *testing.T) {
		q := respond.NewQuery(httptest.NewRequest(http.MethodGet, "/?year=2026&from=2026-03-01&active=false&search=+aluguel+", nil))

		assert.Equal(t, 2026, q.RequiredInt("year"))
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *q.Date("from"))
		assert.False(t, *q.Bool("active"))
		assert.Equal(t, "aluguel", q.String("search"))
		assert.Nil(t, q.Int("month"))
		assert.Nil(t, q.UUID("category_id"))
		assert.NoError(t, q.Err())
	})

	t.Run("keeps the first error", func(t *testing.T) {
		q := respond.NewQuery(httptest.NewRequest(http.MethodGet, "/?year=abc&category_id=nope", nil))

		q.Int("year")
		q.UUID("category_id")

		var ve *apperr.ValidationError
		require.ErrorAs(t, q.Err(), &ve)
		assert.Equal(t, "year", ve.Field)
	})

	t.Run("required", func(t *testing.T) {
		q := respond.NewQuery(httptest.NewRequest(http.MethodGet, "/", nil))

		q.RequiredInt("month")

		var ve *apperr.ValidationError
		require.ErrorAs(t, q.Err(), &ve)
		assert.Equal(t, "month", ve.Field)
	})
}

func TestDate(t *testing.T) {
	var v struct {
		Day respond.Date `json:"day"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"day":"2026-03-07"}`), &v))
	assert.Equal(t, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), v.Day.Time())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2026-03-07"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"day":"07/03/2026"}`), &v))
}

func TestDecode(t *testing.T) {
	type request struct {
		Name string `json:"name" validate:"required"`
	}

	var req request

	err := respond.Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`)), &req)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	err = respond.Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"x"}`)), &req)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "body", ve.Field)
}
