package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strata/backend/internal/domain/shared"
)

func TestNewReceipt(t *testing.T) {
	t.Run("creates empty receipt shell", func(t *testing.T) {
		r, err := NewReceipt(testContext(), uuid.New(), uuid.New(), "RCP-2026-000001", time.Now(), PaymentMethodCash, "")
		require.NoError(t, err)

		assert.Equal(t, SettlementKindReceipt, r.Kind)
		assert.True(t, r.TotalAmount.IsZero())
		assert.Empty(t, r.Items)
		assert.Equal(t, 1, r.Direction())
	})

	t.Run("requires receipt number", func(t *testing.T) {
		_, err := NewReceipt(testContext(), uuid.New(), uuid.New(), "", time.Now(), PaymentMethodCash, "")
		assert.Error(t, err)
	})

	t.Run("requires valid method", func(t *testing.T) {
		_, err := NewReceipt(testContext(), uuid.New(), uuid.New(), "RCP-2026-000001", time.Now(), PaymentMethod("CARD"), "")
		assert.Error(t, err)
	})

	t.Run("requires settlement date", func(t *testing.T) {
		_, err := NewReceipt(testContext(), uuid.New(), uuid.New(), "RCP-2026-000001", time.Time{}, PaymentMethodCash, "")
		assert.Error(t, err)
	})
}

func TestNewPayment(t *testing.T) {
	t.Run("creates payment without receipt number", func(t *testing.T) {
		p, err := NewPayment(testContext(), uuid.New(), uuid.New(), time.Now(), PaymentMethodBank, "invoice 114")
		require.NoError(t, err)

		assert.Equal(t, SettlementKindPayment, p.Kind)
		assert.Empty(t, p.ReceiptNumber)
		assert.Equal(t, -1, p.Direction())
	})

	t.Run("requires vendor", func(t *testing.T) {
		_, err := NewPayment(testContext(), uuid.Nil, uuid.New(), time.Now(), PaymentMethodBank, "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("requires valid method", func(t *testing.T) {
		_, err := NewPayment(testContext(), uuid.New(), uuid.New(), time.Now(), PaymentMethod("TRANSFER"), "")
		assert.Error(t, err)
	})
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethodCash.IsValid())
	assert.True(t, PaymentMethodBank.IsValid())

	// Only the two canonical methods settle money movements.
	assert.False(t, PaymentMethod("TRANSFER").IsValid())
	assert.False(t, PaymentMethod("cash").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}

func TestSettlementItems(t *testing.T) {
	r, err := NewReceipt(testContext(), uuid.New(), uuid.New(), "RCP-2026-000007", time.Now(), PaymentMethodCash, "")
	require.NoError(t, err)

	first := r.AddItem(uuid.New(), decimal.RequireFromString("500.00"))
	second := r.AddItem(uuid.New(), decimal.RequireFromString("250.50"))

	assert.Equal(t, r.ID, first.SettlementID)
	assert.Equal(t, r.ID, second.SettlementID)
	assert.Equal(t, "750.5", r.TotalAmount.String())

	// total must always equal the item sum
	assert.True(t, r.TotalAmount.Equal(r.ItemSum()))
}
