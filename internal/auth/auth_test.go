package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/auth"
)

func TestAuthenticator_RoundTrip(t *testing.T) {
	a := auth.New("s3cret", "brazaforte")

	token, err := a.Issue("ana@example.com", "Ana", time.Hour)
	require.NoError(t, err)

	actor, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", actor.Subject)
	assert.Equal(t, "Ana", actor.Name)
}

func TestAuthenticator_Rejects(t *testing.T) {
	a := auth.New("s3cret", "brazaforte")

	expired, err := a.Issue("ana", "", -time.Minute)
	require.NoError(t, err)

	otherKey, err := auth.New("other", "brazaforte").Issue("ana", "", time.Hour)
	require.NoError(t, err)

	otherIssuer, err := auth.New("s3cret", "someone-else").Issue("ana", "", time.Hour)
	require.NoError(t, err)

	noSubject, err := a.Issue("", "", time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"Expired":     expired,
		"WrongKey":    otherKey,
		"WrongIssuer": otherIssuer,
		"NoSubject":   noSubject,
		"Garbage":     "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := a.Verify(token)
			assert.ErrorIs(t, err, apperr.ErrUnauthorized)
		})
	}
}

func TestMiddleware(t *testing.T) {
	a := auth.New("s3cret", "brazaforte")

	token, err := a.Issue("ana", "", time.Hour)
	require.NoError(t, err)

	var seen string

	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFrom(r.Context())
		require.NoError(t, err)

		seen = actor.Subject
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "Valid", header: "Bearer " + token, want: http.StatusNoContent},
		{name: "LowercaseScheme", header: "bearer " + token, want: http.StatusNoContent},
		{name: "Missing", header: "", want: http.StatusUnauthorized},
		{name: "Basic", header: "Basic YWxhZGRpbjpvcGVuc2VzYW1l", want: http.StatusUnauthorized},
		{name: "Invalid", header: "Bearer nope", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			if tt.want == http.StatusNoContent {
				assert.Equal(t, "ana", seen)
			} else {
				assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}
