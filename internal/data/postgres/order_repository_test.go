package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OrderRepository{querier: mock, logger: logger}
	orderID := uuid.New()
	now := time.Now()

	expectedOrder := &order.PurchaseOrder{
		ID:           orderID,
		OrderNumber:  "PO-2024-0117",
		SupplierID:   uuid.New(),
		SupplierName: "Kariakoo Traders",
		TotalAmount:  100000,
		PaidAmount:   40000,
		Currency:     "TZS",
		Status:       order.StatusPartiallyPaid,
		Version:      2,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		SELECT id, order_number, supplier_id, supplier_name, total_amount, paid_amount, currency, status, version, created_at, updated_at
		FROM purchase_orders
		WHERE id = \$1
	`
	rows := pgxmock.NewRows([]string{"id", "order_number", "supplier_id", "supplier_name", "total_amount", "paid_amount", "currency", "status", "version", "created_at", "updated_at"}).
		AddRow(expectedOrder.ID, expectedOrder.OrderNumber, expectedOrder.SupplierID, expectedOrder.SupplierName, expectedOrder.TotalAmount, expectedOrder.PaidAmount, expectedOrder.Currency, expectedOrder.Status, expectedOrder.Version, expectedOrder.CreatedAt, expectedOrder.UpdatedAt)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(orderID).WillReturnRows(rows)

		po, err := repo.GetByID(ctx, orderID)
		assert.NoError(t, err)
		assert.Equal(t, expectedOrder, po)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(orderID).WillReturnError(pgx.ErrNoRows)

		po, err := repo.GetByID(ctx, orderID)
		assert.Error(t, err)
		assert.Nil(t, po)
		var notFoundErr order.ErrOrderNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, orderID, notFoundErr.OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectQuery(query).WithArgs(orderID).WillReturnError(dbErr)

		po, err := repo.GetByID(ctx, orderID)
		assert.Error(t, err)
		assert.Nil(t, po)
		assert.Contains(t, err.Error(), "failed to get purchase order")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_Update(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OrderRepository{querier: mock, logger: logger}
	now := time.Now()

	po := &order.PurchaseOrder{
		ID:           uuid.New(),
		OrderNumber:  "PO-2024-0117",
		SupplierID:   uuid.New(),
		SupplierName: "Kariakoo Traders",
		TotalAmount:  100000,
		PaidAmount:   75000,
		Currency:     "TZS",
		Status:       order.StatusPartiallyPaid,
		Version:      3,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		UPDATE purchase_orders
		SET supplier_name = \$1, total_amount = \$2, paid_amount = \$3, status = \$4, version = \$5, updated_at = \$6
		WHERE id = \$7 AND version = \$8
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(po.SupplierName, po.TotalAmount, po.PaidAmount, po.Status, po.Version, po.UpdatedAt, po.ID, po.Version-1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Update(ctx, po)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent modification", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(po.SupplierName, po.TotalAmount, po.PaidAmount, po.Status, po.Version, po.UpdatedAt, po.ID, po.Version-1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, po)
		assert.Error(t, err)
		var concurrentErr order.ErrConcurrentModification
		assert.ErrorAs(t, err, &concurrentErr)
		assert.Equal(t, po.ID, concurrentErr.OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_LockForUpdate(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OrderRepository{querier: mock, logger: logger}
	orderID := uuid.New()
	now := time.Now()

	query := `
		SELECT id, order_number, supplier_id, supplier_name, total_amount, paid_amount, currency, status, version, created_at, updated_at
		FROM purchase_orders
		WHERE id = \$1
		FOR UPDATE
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "order_number", "supplier_id", "supplier_name", "total_amount", "paid_amount", "currency", "status", "version", "created_at", "updated_at"}).
			AddRow(orderID, "PO-2024-0117", uuid.New(), "Kariakoo Traders", int64(100000), int64(0), "TZS", order.StatusUnpaid, 1, now, now)
		mock.ExpectQuery(query).WithArgs(orderID).WillReturnRows(rows)

		po, err := repo.LockForUpdate(ctx, orderID)
		assert.NoError(t, err)
		require.NotNil(t, po)
		assert.Equal(t, orderID, po.ID)
		assert.Equal(t, int64(100000), po.Outstanding())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(orderID).WillReturnError(pgx.ErrNoRows)

		po, err := repo.LockForUpdate(ctx, orderID)
		assert.Error(t, err)
		assert.Nil(t, po)
		var notFoundErr order.ErrOrderNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
