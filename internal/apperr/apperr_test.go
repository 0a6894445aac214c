package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Code
	}{
		{name: "Validation", err: apperr.Invalid("amount", "must be positive"), want: apperr.CodeValidation},
		{name: "WrappedNotFound", err: fmt.Errorf("getting account: %w", apperr.ErrNotFound), want: apperr.CodeNotFound},
		{name: "Referenced", err: apperr.ErrReferenced, want: apperr.CodeReferenced},
		{name: "Duplicate", err: apperr.ErrDuplicate, want: apperr.CodeDuplicate},
		{name: "Conflict", err: fmt.Errorf("commit: %w", apperr.ErrConflict), want: apperr.CodeConflict},
		{name: "Unauthorized", err: fmt.Errorf("token expired: %w", apperr.ErrUnauthorized), want: apperr.CodeUnauthorized},
		{name: "Unknown", err: errors.New("boom"), want: apperr.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.CodeOf(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := apperr.Invalid("destination_account_id", "must differ from account_id")

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "invalid destination_account_id: must differ from account_id", err.Error())

	var vErr *apperr.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "destination_account_id", vErr.Field)
}
