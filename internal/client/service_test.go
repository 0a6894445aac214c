package client

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	valid := Params{
		Kind:     KindIndividual,
		Name:     " Maria Souza ",
		Document: "529.982.247-25",
		Email:    " Maria@Example.com ",
		Active:   true,
	}

	tests := []struct {
		name      string
		mutate    func(p *Params)
		setup     func(repo *MockRepository)
		wantField string
		wantErr   error
	}{
		{
			name: "individual normalized before storing",
			setup: func(repo *MockRepository) {
				repo.EXPECT().Create(ctx, &Client{
					Kind:     KindIndividual,
					Name:     "Maria Souza",
					Document: "52998224725",
					Email:    "maria@example.com",
					Active:   true,
				}).Return(nil)
			},
		},
		{
			name: "company with CNPJ",
			mutate: func(p *Params) {
				p.Kind = KindCompany
				p.Document = "11.222.333/0001-81"
			},
			setup: func(repo *MockRepository) {
				repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
			},
		},
		{
			name:      "unknown kind",
			mutate:    func(p *Params) { p.Kind = "other" },
			wantField: "kind",
		},
		{
			name:      "blank name",
			mutate:    func(p *Params) { p.Name = "  " },
			wantField: "name",
		},
		{
			name:      "bad CPF check digit",
			mutate:    func(p *Params) { p.Document = "529.982.247-24" },
			wantField: "document",
		},
		{
			name:      "CPF given for a company",
			mutate:    func(p *Params) { p.Kind = KindCompany },
			wantField: "document",
		},
		{
			name:      "invalid e-mail",
			mutate:    func(p *Params) { p.Email = "maria-at-example" },
			wantField: "email",
		},
		{
			name: "duplicate document",
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

			if tt.setup != nil {
				tt.setup(repo)
			}

			params := valid
			if tt.mutate != nil {
				tt.mutate(&params)
			}

			c, err := NewService(repo).Create(ctx, params)

			switch {
			case tt.wantField != "":
				var ve *apperr.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, c.Document)
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("replaces fields of the stored client", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepository(ctrl)

		stored := &Client{ID: id, Kind: KindIndividual, Name: "Old", Document: "52998224725", Email: "old@example.com"}

		repo.EXPECT().Get(ctx, id).Return(stored, nil)
		repo.EXPECT().Update(ctx, stored).Return(nil)

		c, err := NewService(repo).Update(ctx, id, Params{
			Kind:     KindIndividual,
			Name:     "New",
			Document: "123.456.789-09",
			Email:    "new@example.com",
			Phone:    " (11) 99999-0000 ",
		})
		require.NoError(t, err)
		assert.Equal(t, "New", c.Name)
		assert.Equal(t, "12345678909", c.Document)
		assert.Equal(t, "(11) 99999-0000", c.Phone)
		assert.False(t, c.Active)
	})

	t.Run("missing client", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepository(ctrl)

		repo.EXPECT().Get(ctx, id).Return(nil, apperr.ErrNotFound)

		_, err := NewService(repo).Update(ctx, id, Params{
			Kind: KindIndividual, Name: "New", Document: "12345678909", Email: "new@example.com",
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_Delete_Referenced(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	id := uuid.New()

	repo.EXPECT().Delete(gomock.Any(), id).Return(apperr.ErrReferenced)

	assert.ErrorIs(t, NewService(repo).Delete(context.Background(), id), apperr.ErrReferenced)
}
