package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

func TestService_Apply(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()

	tests := []struct {
		name  string
		raw   string
		setup func(repo *MockRepository)
		want  Applied
	}{
		{
			name: "rule rewrites description and category",
			raw:  "PIX ENVIADO IMOBILIARIA SOL LTDA",
			setup: func(repo *MockRepository) {
				repo.EXPECT().FindMatch(ctx, "PIX ENVIADO IMOBILIARIA SOL LTDA").Return(&Rule{
					Pattern:     "imobiliaria sol",
					Description: "Aluguel",
					CategoryID:  &categoryID,
				}, nil)
			},
			want: Applied{Description: "Aluguel", CategoryID: &categoryID, Matched: true},
		},
		{
			name: "no rule keeps trimmed raw text",
			raw:  "  TARIFA PACOTE  ",
			setup: func(repo *MockRepository) {
				repo.EXPECT().FindMatch(ctx, "  TARIFA PACOTE  ").Return(nil, nil)
			},
			want: Applied{Description: "TARIFA PACOTE"},
		},
		{
			name:  "blank raw text skips the lookup",
			raw:   "   ",
			setup: func(*MockRepository) {},
			want:  Applied{Description: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := NewMockRepository(ctrl)
			tt.setup(repo)

			got, err := NewService(repo).Apply(ctx, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Apply_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	boom := errors.New("connection reset")

	repo.EXPECT().FindMatch(gomock.Any(), "ANY").Return(nil, boom)

	_, err := NewService(repo).Apply(context.Background(), "ANY")
	assert.ErrorIs(t, err, boom)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		params    Params
		setup     func(repo *MockRepository)
		wantField string
		wantErr   error
	}{
		{
			name:   "trims and stores",
			params: Params{Pattern: "  uber ", Description: " Transporte "},
			setup: func(repo *MockRepository) {
				repo.EXPECT().Create(ctx, &Rule{Pattern: "uber", Description: "Transporte"}).Return(nil)
			},
		},
		{
			name:      "pattern required",
			params:    Params{Description: "Transporte"},
			setup:     func(*MockRepository) {},
			wantField: "pattern",
		},
		{
			name:      "description required",
			params:    Params{Pattern: "uber"},
			setup:     func(*MockRepository) {},
			wantField: "description",
		},
		{
			name:   "duplicate pattern",
			params: Params{Pattern: "uber", Description: "Transporte"},
			setup: func(repo *MockRepository) {
				repo.EXPECT().Create(ctx, gomock.Any()).Return(apperr.ErrDuplicate)
			},
			wantErr: apperr.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := NewMockRepository(ctrl)
			tt.setup(repo)

			r, err := NewService(repo).Create(ctx, tt.params)

			switch {
			case tt.wantField != "":
				var ve *apperr.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "uber", r.Pattern)
				assert.Equal(t, "Transporte", r.Description)
			}
		})
	}
}
