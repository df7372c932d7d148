package allocation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMethod(name string) MethodAccount {
	return MethodAccount{
		MethodID:  uuid.New(),
		Method:    name,
		AccountID: uuid.New(),
		Account:   name + " Account",
	}
}

func TestNewLedger(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		l, err := NewLedger(100000, "TZS")
		require.NoError(t, err)
		assert.Equal(t, int64(100000), l.Total())
		assert.Equal(t, "TZS", l.Currency())
		assert.Equal(t, int64(100000), l.Remaining())
		assert.Empty(t, l.Entries())
	})

	t.Run("InvalidTotal", func(t *testing.T) {
		_, err := NewLedger(0, "TZS")
		assert.ErrorIs(t, err, ErrInvalidTotal)

		_, err = NewLedger(-500, "TZS")
		assert.ErrorIs(t, err, ErrInvalidTotal)
	})

	t.Run("InvalidCurrency", func(t *testing.T) {
		_, err := NewLedger(1000, "TZSH")
		assert.ErrorIs(t, err, ErrInvalidCurrency)
	})
}

func TestLedger_AddPayment(t *testing.T) {
	t.Run("ExplicitAmount", func(t *testing.T) {
		l, _ := NewLedger(100000, "TZS")
		entry, err := l.AddPayment(testMethod("Cash"), 40000, "RCPT-1", "")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, int64(40000), entry.Amount)
		assert.Equal(t, "RCPT-1", entry.Reference)
		assert.Equal(t, int64(60000), l.Remaining())
	})

	t.Run("ZeroAmountDefaultsToRemaining", func(t *testing.T) {
		l, _ := NewLedger(100000, "TZS")
		_, err := l.AddPayment(testMethod("Cash"), 40000, "", "")
		require.NoError(t, err)

		entry, err := l.AddPayment(testMethod("Mobile Money"), 0, "", "")
		require.NoError(t, err)
		assert.Equal(t, int64(60000), entry.Amount)
		assert.Equal(t, int64(0), l.Remaining())
	})

	t.Run("ZeroRemainingRejectsDefault", func(t *testing.T) {
		l, _ := NewLedger(100000, "TZS")
		_, err := l.AddPayment(testMethod("Cash"), 100000, "", "")
		require.NoError(t, err)

		// Fully allocated, so defaulting to remaining yields zero
		_, err = l.AddPayment(testMethod("Card"), 0, "", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		l, _ := NewLedger(100000, "TZS")
		_, err := l.AddPayment(testMethod("Cash"), -1, "", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Empty(t, l.Entries())
	})

	t.Run("ExceedsRemainingRejectedBeforeAdd", func(t *testing.T) {
		// Total 100000, entries 40000 + 35000, remaining 25000; a 30000
		// request must be rejected without touching state.
		l, _ := NewLedger(100000, "TZS")
		_, err := l.AddPayment(testMethod("Cash"), 40000, "", "")
		require.NoError(t, err)
		_, err = l.AddPayment(testMethod("Mobile Money"), 35000, "", "")
		require.NoError(t, err)
		assert.Equal(t, int64(25000), l.Remaining())

		_, err = l.AddPayment(testMethod("Card"), 30000, "", "")
		assert.ErrorIs(t, err, ErrExceedsRemaining)
		assert.Len(t, l.Entries(), 2)
		assert.Equal(t, int64(25000), l.Remaining())
	})
}

func TestLedger_RemovePayment(t *testing.T) {
	l, _ := NewLedger(100000, "TZS")
	cash := testMethod("Cash")
	momo := testMethod("Mobile Money")
	_, err := l.AddPayment(cash, 40000, "", "")
	require.NoError(t, err)
	_, err = l.AddPayment(momo, 35000, "", "")
	require.NoError(t, err)

	t.Run("RecomputesRemaining", func(t *testing.T) {
		require.NoError(t, l.RemovePayment(0))
		assert.Equal(t, int64(65000), l.Remaining())

		entries := l.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "Mobile Money", entries[0].Method)

		// Re-adding keeps the invariant remaining == total - sum(entries)
		_, err := l.AddPayment(cash, 50000, "", "")
		require.NoError(t, err)
		assert.Equal(t, int64(15000), l.Remaining())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		assert.ErrorIs(t, l.RemovePayment(-1), ErrIndexOutOfRange)
		assert.ErrorIs(t, l.RemovePayment(99), ErrIndexOutOfRange)
	})
}

func TestLedger_UpdateEntry(t *testing.T) {
	l, _ := NewLedger(100000, "TZS")
	_, err := l.AddPayment(testMethod("Cash"), 40000, "", "")
	require.NoError(t, err)

	t.Run("AmountNotRevalidated", func(t *testing.T) {
		// Field edits are deliberately unchecked against the total; the
		// over-allocation is caught at settle time instead.
		require.NoError(t, l.UpdateAmount(0, 150000))
		assert.Equal(t, int64(-50000), l.Remaining())

		_, err := l.Settle(ModeMultiple, nil)
		assert.ErrorIs(t, err, ErrOverAllocated)

		require.NoError(t, l.UpdateAmount(0, 40000))
	})

	t.Run("AccountAndText", func(t *testing.T) {
		accID := uuid.New()
		require.NoError(t, l.UpdateAccount(0, accID, "Petty Cash"))
		require.NoError(t, l.UpdateReference(0, "RCPT-9"))
		require.NoError(t, l.UpdateNotes(0, "partial payment"))

		e := l.Entries()[0]
		assert.Equal(t, accID, e.AccountID)
		assert.Equal(t, "Petty Cash", e.Account)
		assert.Equal(t, "RCPT-9", e.Reference)
		assert.Equal(t, "partial payment", e.Notes)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		assert.ErrorIs(t, l.UpdateAmount(5, 100), ErrIndexOutOfRange)
		assert.ErrorIs(t, l.UpdateAccount(5, uuid.New(), "x"), ErrIndexOutOfRange)
		assert.ErrorIs(t, l.UpdateReference(-1, "x"), ErrIndexOutOfRange)
		assert.ErrorIs(t, l.UpdateNotes(-1, "x"), ErrIndexOutOfRange)
	})
}

func TestLedger_Settle(t *testing.T) {
	t.Run("SingleMode", func(t *testing.T) {
		l, _ := NewLedger(100000, "TZS")
		cash := testMethod("Cash")

		entries, err := l.Settle(ModeSingle, &cash)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(100000), entries[0].Amount)
		assert.Equal(t, cash.MethodID, entries[0].MethodID)
		assert.Equal(t, cash.AccountID, entries[0].AccountID)
	})

	t.Run("SingleModeNoMethod", func(t *testing.T) {
		l, _ := NewLedger(100000, "TZS")

		_, err := l.Settle(ModeSingle, nil)
		assert.ErrorIs(t, err, ErrNoMethodSelected)

		_, err = l.Settle(ModeSingle, &MethodAccount{})
		assert.ErrorIs(t, err, ErrNoMethodSelected)
	})

	t.Run("MultipleModePartialAllowed", func(t *testing.T) {
		l, _ := NewLedger(100000, "TZS")
		_, err := l.AddPayment(testMethod("Cash"), 40000, "", "")
		require.NoError(t, err)
		_, err = l.AddPayment(testMethod("Mobile Money"), 35000, "", "")
		require.NoError(t, err)

		entries, err := l.Settle(ModeMultiple, nil)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, int64(25000), l.Remaining())
	})

	t.Run("MultipleModeEmpty", func(t *testing.T) {
		l, _ := NewLedger(100000, "TZS")
		_, err := l.Settle(ModeMultiple, nil)
		assert.ErrorIs(t, err, ErrNoEntries)
	})

	t.Run("UnknownMode", func(t *testing.T) {
		l, _ := NewLedger(100000, "TZS")
		_, err := l.Settle(Mode("CHEQUE"), nil)
		assert.ErrorIs(t, err, ErrUnknownMode)
	})
}

// The ledger total must never exceed the order total for any sequence of
// AddPayment calls, and remaining must track total - sum(entries) throughout.
func TestLedger_RemainingInvariant(t *testing.T) {
	l, _ := NewLedger(50000, "TZS")
	amounts := []int64{10000, 5000, 25000, 15000, 10000, 5000}

	var accepted int64
	for _, amt := range amounts {
		if _, err := l.AddPayment(testMethod("Cash"), amt, "", ""); err == nil {
			accepted += amt
		}
		assert.Equal(t, int64(50000)-accepted, l.Remaining())
		assert.GreaterOrEqual(t, l.Remaining(), int64(0))
	}
}
