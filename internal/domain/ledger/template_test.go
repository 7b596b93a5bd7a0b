package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpenseTemplate(t *testing.T, every ExpensePeriodUnit) *ExpenseTemplate {
	t.Helper()
	tpl, err := NewExpenseTemplate(uuid.New(), "cleaning contract", uuid.New(), uuid.New(),
		decimal.RequireFromString("300.00"), 31, every)
	require.NoError(t, err)
	return tpl
}

func TestNewChargeTemplate(t *testing.T) {
	t.Run("creates active template targeting all apartments", func(t *testing.T) {
		tpl, err := NewChargeTemplate(uuid.New(), "monthly dues", uuid.New(),
			decimal.RequireFromString("120.00"), 10, ChargeScopeAllApartments, nil)
		require.NoError(t, err)
		assert.True(t, tpl.Active)
		assert.Equal(t, ChargeScopeAllApartments, tpl.Scope)
	})

	t.Run("selected scope requires apartments", func(t *testing.T) {
		_, err := NewChargeTemplate(uuid.New(), "garage dues", uuid.New(),
			decimal.RequireFromString("40.00"), 5, ChargeScopeSelected, nil)
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range due day", func(t *testing.T) {
		for _, day := range []int{0, 32, -3} {
			_, err := NewChargeTemplate(uuid.New(), "dues", uuid.New(),
				decimal.RequireFromString("40.00"), day, ChargeScopeAllApartments, nil)
			assert.Error(t, err)
		}
	})
}

func TestExpenseTemplateShouldGenerate(t *testing.T) {
	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	t.Run("never generated means due", func(t *testing.T) {
		tpl := newTestExpenseTemplate(t, ExpenseEveryMonth)
		assert.True(t, tpl.ShouldGenerate(today))
	})

	t.Run("inactive templates never generate", func(t *testing.T) {
		tpl := newTestExpenseTemplate(t, ExpenseEveryMonth)
		tpl.Active = false
		assert.False(t, tpl.ShouldGenerate(today))
	})

	t.Run("monthly waits one calendar month", func(t *testing.T) {
		tpl := newTestExpenseTemplate(t, ExpenseEveryMonth)
		tpl.MarkGenerated(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
		assert.False(t, tpl.ShouldGenerate(today))

		tpl.MarkGenerated(time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))
		assert.True(t, tpl.ShouldGenerate(today))
	})

	t.Run("quarterly waits three months", func(t *testing.T) {
		tpl := newTestExpenseTemplate(t, ExpenseEveryQuarter)
		tpl.MarkGenerated(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
		assert.False(t, tpl.ShouldGenerate(today))

		tpl.MarkGenerated(time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC))
		assert.True(t, tpl.ShouldGenerate(today))
	})

	t.Run("yearly waits twelve months", func(t *testing.T) {
		tpl := newTestExpenseTemplate(t, ExpenseEveryYear)
		tpl.MarkGenerated(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
		assert.False(t, tpl.ShouldGenerate(today))

		tpl.MarkGenerated(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
		assert.True(t, tpl.ShouldGenerate(today))
	})
}

func TestExpensePeriodUnitMonths(t *testing.T) {
	assert.Equal(t, 1, ExpenseEveryMonth.Months())
	assert.Equal(t, 3, ExpenseEveryQuarter.Months())
	assert.Equal(t, 12, ExpenseEveryYear.Months())
}
