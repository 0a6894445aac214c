package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/budget"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/period"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type entry struct {
	date     time.Time
	category uuid.UUID
	amount   decimal.Decimal
}

// realizedFrom sums entries of the category that fall inside the range, the
// way the store's date predicate does.
func realizedFrom(entries []entry) func(context.Context, uuid.UUID, period.Range) (decimal.Decimal, error) {
	return func(_ context.Context, category uuid.UUID, r period.Range) (decimal.Decimal, error) {
		sum := decimal.Zero

		for _, e := range entries {
			if e.category == category && r.Contains(e.date) {
				sum = sum.Add(e.amount)
			}
		}

		return sum, nil
	}
}

func TestService_Variance(t *testing.T) {
	rent := uuid.New()
	other := uuid.New()

	entries := []entry{
		{date: day(2024, 3, 1), category: rent, amount: dec("1500")},
		{date: day(2024, 3, 31), category: rent, amount: dec("500")},
		{date: day(2024, 4, 1), category: rent, amount: dec("2000")},
		{date: day(2024, 3, 15), category: other, amount: dec("99")},
		{date: day(2024, 12, 31), category: rent, amount: dec("700")},
		{date: day(2025, 1, 1), category: rent, amount: dec("800")},
	}

	tests := []struct {
		name      string
		year      int
		month     int
		planned   string
		wantRange period.Range
		wantReal  string
		wantDiff  string
	}{
		{
			name:      "RentMarchExcludesAprilFirst",
			year:      2024,
			month:     3,
			planned:   "2000",
			wantRange: period.Range{Start: day(2024, 3, 1), End: day(2024, 4, 1)},
			wantReal:  "2000",
			wantDiff:  "0",
		},
		{
			name:      "DecemberRollsIntoJanuary",
			year:      2024,
			month:     12,
			planned:   "1000",
			wantRange: period.Range{Start: day(2024, 12, 1), End: day(2025, 1, 1)},
			wantReal:  "700",
			wantDiff:  "-300",
		},
		{
			name:      "Overspent",
			year:      2024,
			month:     4,
			planned:   "1800.50",
			wantRange: period.Range{Start: day(2024, 4, 1), End: day(2024, 5, 1)},
			wantReal:  "2000",
			wantDiff:  "199.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := budget.NewMockRepository(ctrl)

			b := &budget.Budget{ID: uuid.New(), Year: tt.year, Month: tt.month, CategoryID: rent, Planned: dec(tt.planned)}

			repo.EXPECT().FindByPeriod(gomock.Any(), tt.year, tt.month, rent).Return(b, nil)
			repo.EXPECT().Realized(gomock.Any(), rent, tt.wantRange).DoAndReturn(realizedFrom(entries))

			svc := budget.NewService(repo, nil)
			got, err := svc.Variance(context.Background(), tt.year, tt.month, rent)
			require.NoError(t, err)

			assert.Same(t, b, got.Budget)
			assert.Truef(t, got.Planned.Equal(dec(tt.planned)), "planned = %s", got.Planned)
			assert.Truef(t, got.Realized.Equal(dec(tt.wantReal)), "realized = %s", got.Realized)
			assert.Truef(t, got.Difference.Equal(dec(tt.wantDiff)), "difference = %s", got.Difference)
		})
	}
}

func TestService_Variance_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo, nil)

	_, err := svc.Variance(context.Background(), 2024, 0, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrValidation)

	repo.EXPECT().FindByPeriod(gomock.Any(), 2024, 5, gomock.Any()).Return(nil, apperr.ErrNotFound)

	_, err = svc.Variance(context.Background(), 2024, 5, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_Comparison(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)

	rent, food := uuid.New(), uuid.New()
	year, month := 2024, 3

	repo.EXPECT().List(gomock.Any(), budget.ListFilter{Year: &year, Month: &month}).Return([]*budget.Budget{
		{CategoryID: rent, CategoryName: "Rent", Planned: dec("2000")},
		{CategoryID: food, CategoryName: "Food", Planned: dec("600")},
	}, nil)
	repo.EXPECT().RealizedByCategory(gomock.Any(), period.Range{Start: day(2024, 3, 1), End: day(2024, 4, 1)}).
		Return(map[uuid.UUID]decimal.Decimal{rent: dec("2000")}, nil)

	got, err := budget.NewService(repo, nil).Comparison(context.Background(), year, month)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Difference.IsZero())
	assert.True(t, got[1].Realized.IsZero())
	assert.True(t, got[1].Difference.Equal(dec("-600")))
}

func TestService_Create(t *testing.T) {
	category := uuid.New()

	tests := []struct {
		name      string
		params    budget.Params
		setupMock func(m *budget.MockRepository)
		wantErr   error
	}{
		{
			name:   "Success",
			params: budget.Params{Year: 2024, Month: 3, CategoryID: category, Planned: dec("2000")},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *budget.Budget) error {
						b.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:   "ZeroPlannedAllowed",
			params: budget.Params{Year: 2024, Month: 3, CategoryID: category, Planned: decimal.Zero},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "Duplicate",
			params: budget.Params{Year: 2024, Month: 3, CategoryID: category, Planned: dec("10")},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperr.ErrDuplicate)
			},
			wantErr: apperr.ErrDuplicate,
		},
		{
			name:    "NegativePlanned",
			params:  budget.Params{Year: 2024, Month: 3, CategoryID: category, Planned: dec("-1")},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "MonthThirteen",
			params:  budget.Params{Year: 2024, Month: 13, CategoryID: category, Planned: dec("1")},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "NoCategory",
			params:  budget.Params{Year: 2024, Month: 1, Planned: dec("1")},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := budget.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := budget.NewService(repo, nil).Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.Month, got.Month)
		})
	}
}

func TestService_Projection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	balances := budget.NewMockBalanceReader(ctrl)

	balances.EXPECT().TotalBalance(gomock.Any()).Return(dec("1000"), nil)
	repo.EXPECT().PlannedTotals(gomock.Any(), period.Range{Start: day(2024, 11, 1), End: day(2025, 2, 1)}).
		Return([]budget.PlannedTotal{
			{Year: 2024, Month: 11, Kind: ledger.CategoryRevenue, Amount: dec("5000")},
			{Year: 2024, Month: 11, Kind: ledger.CategoryExpense, Amount: dec("3000")},
			{Year: 2025, Month: 1, Kind: ledger.CategoryExpense, Amount: dec("4500")},
		}, nil)

	svc := budget.NewService(repo, balances).WithClock(func() time.Time {
		return time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC)
	})

	got, err := svc.Projection(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 11, got[0].Month)
	assert.True(t, got[0].Balance.Equal(dec("3000")))
	assert.Equal(t, 12, got[1].Month)
	assert.True(t, got[1].Balance.Equal(dec("3000")))
	assert.Equal(t, 2025, got[2].Year)
	assert.True(t, got[2].Balance.Equal(dec("-1500")))
}

func TestService_Projection_InvalidMonths(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := budget.NewService(budget.NewMockRepository(ctrl), budget.NewMockBalanceReader(ctrl))

	_, err := svc.Projection(context.Background(), 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
