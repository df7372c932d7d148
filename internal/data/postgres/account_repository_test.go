package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}

	acc := &registry.PaymentAccount{
		ID:        uuid.New(),
		Name:      "Main Till",
		Balance:   500000,
		Currency:  "TZS",
		IsActive:  true,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
		INSERT INTO payment_accounts \(id, name, balance, currency, is_active, version, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Name, acc.Balance, acc.Currency, acc.IsActive, acc.Version, acc.CreatedAt, acc.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Name, acc.Balance, acc.Currency, acc.IsActive, acc.Version, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, acc)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create payment account")
		assert.ErrorIs(t, err, expectedErr) // Check underlying error if wrapped
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	accID := uuid.New()
	now := time.Now()

	expectedAccount := &registry.PaymentAccount{
		ID:        accID,
		Name:      "Main Till",
		Balance:   500000,
		Currency:  "TZS",
		IsActive:  true,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		SELECT id, name, balance, currency, is_active, version, created_at, updated_at
		FROM payment_accounts
		WHERE id = \$1
	`
	rows := pgxmock.NewRows([]string{"id", "name", "balance", "currency", "is_active", "version", "created_at", "updated_at"}).
		AddRow(expectedAccount.ID, expectedAccount.Name, expectedAccount.Balance, expectedAccount.Currency, expectedAccount.IsActive, expectedAccount.Version, expectedAccount.CreatedAt, expectedAccount.UpdatedAt)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(accID).WillReturnRows(rows)

		acc, err := repo.GetByID(ctx, accID)
		assert.NoError(t, err)
		assert.Equal(t, expectedAccount, acc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(accID).WillReturnError(pgx.ErrNoRows)

		acc, err := repo.GetByID(ctx, accID)
		assert.Error(t, err)
		assert.Nil(t, acc)
		var accNotFoundErr registry.ErrAccountNotFound
		assert.ErrorAs(t, err, &accNotFoundErr)
		assert.Equal(t, accID, accNotFoundErr.AccountID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectQuery(query).WithArgs(accID).WillReturnError(dbErr)

		acc, err := repo.GetByID(ctx, accID)
		assert.Error(t, err)
		assert.Nil(t, acc)
		assert.Contains(t, err.Error(), "failed to get payment account")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_Update(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	now := time.Now()

	acc := &registry.PaymentAccount{
		ID:        uuid.New(),
		Name:      "Main Till",
		Balance:   460000,
		Currency:  "TZS",
		IsActive:  true,
		Version:   2,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		UPDATE payment_accounts
		SET name = \$1, balance = \$2, currency = \$3, is_active = \$4, version = \$5, updated_at = \$6
		WHERE id = \$7 AND version = \$8
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Name, acc.Balance, acc.Currency, acc.IsActive, acc.Version, acc.UpdatedAt, acc.ID, acc.Version-1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Update(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent modification", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Name, acc.Balance, acc.Currency, acc.IsActive, acc.Version, acc.UpdatedAt, acc.ID, acc.Version-1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, acc)
		assert.Error(t, err)
		var concurrentErr registry.ErrConcurrentModification
		assert.ErrorAs(t, err, &concurrentErr)
		assert.Equal(t, acc.ID, concurrentErr.AccountID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_LockForUpdate(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	accID := uuid.New()
	now := time.Now()

	query := `
		SELECT id, name, balance, currency, is_active, version, created_at, updated_at
		FROM payment_accounts
		WHERE id = \$1
		FOR UPDATE
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "name", "balance", "currency", "is_active", "version", "created_at", "updated_at"}).
			AddRow(accID, "Main Till", int64(500000), "TZS", true, 1, now, now)
		mock.ExpectQuery(query).WithArgs(accID).WillReturnRows(rows)

		acc, err := repo.LockForUpdate(ctx, accID)
		assert.NoError(t, err)
		require.NotNil(t, acc)
		assert.Equal(t, accID, acc.ID)
		assert.Equal(t, int64(500000), acc.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(accID).WillReturnError(pgx.ErrNoRows)

		acc, err := repo.LockForUpdate(ctx, accID)
		assert.Error(t, err)
		assert.Nil(t, acc)
		var accNotFoundErr registry.ErrAccountNotFound
		assert.ErrorAs(t, err, &accNotFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
