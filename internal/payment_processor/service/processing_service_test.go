package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock implementations of the dependencies

type MockPaymentValidator struct {
	mock.Mock
}

func (m *MockPaymentValidator) Validate(ctx context.Context, request *shared.PaymentRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockPaymentValidator) CheckIdempotency(ctx context.Context, request *shared.PaymentRequest) (bool, error) {
	args := m.Called(ctx, request)
	return args.Bool(0), args.Error(1)
}

type MockSettlementManager struct {
	mock.Mock
}

func (m *MockSettlementManager) Settle(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest) (*registry.PaymentAccount, *order.PurchaseOrder, error) {
	args := m.Called(ctx, tx, request)
	var acc *registry.PaymentAccount
	var po *order.PurchaseOrder
	if args.Get(0) != nil {
		acc = args.Get(0).(*registry.PaymentAccount)
	}
	if args.Get(1) != nil {
		po = args.Get(1).(*order.PurchaseOrder)
	}
	return acc, po, args.Error(2)
}

type MockOutboxManager struct {
	mock.Mock
}

func (m *MockOutboxManager) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest, updatedOrder *order.PurchaseOrder) error {
	args := m.Called(ctx, tx, request, updatedOrder)
	return args.Error(0)
}

type MockFailureRecorder struct {
	mock.Mock
}

func (m *MockFailureRecorder) RecordFailure(ctx context.Context, request *shared.PaymentRequest, failureReason string) error {
	args := m.Called(ctx, request, failureReason)
	return args.Error(0)
}

// MockTx implements the pgx.Tx interface for testing
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return &pgconn.StatementDescription{}, nil
}

func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *MockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *MockTx) Conn() *pgx.Conn {
	return nil
}

// TestProcessingService is a simplified implementation of ProcessingService for testing
type TestProcessingService struct {
	validator         PaymentValidator
	settlementManager SettlementManager
	outboxManager     OutboxManager
	failureRecorder   FailureRecorder
	logger            *slog.Logger
	beginTxFunc       func(ctx context.Context) (pgx.Tx, error)
}

// NewTestProcessingService creates a new TestProcessingService
func NewTestProcessingService(
	validator PaymentValidator,
	settlementManager SettlementManager,
	outboxManager OutboxManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
	beginTxFunc func(ctx context.Context) (pgx.Tx, error),
) *TestProcessingService {
	return &TestProcessingService{
		validator:         validator,
		settlementManager: settlementManager,
		outboxManager:     outboxManager,
		failureRecorder:   failureRecorder,
		logger:            logger,
		beginTxFunc:       beginTxFunc,
	}
}

// ProcessPayment implements the ProcessingService interface
func (s *TestProcessingService) ProcessPayment(ctx context.Context, request *shared.PaymentRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing payment", "payment_id", request.PaymentID.String(), "purchase_order_id", request.PurchaseOrderID.String())

	// 1. Validate the payment request
	if err := s.validator.Validate(ctx, request); err != nil {
		logger.Error("Payment validation failed", "payment_id", request.PaymentID.String(), "error", err)

		if recordErr := s.failureRecorder.RecordFailure(ctx, request, string(shared.FailureReasonInvalidAmount)); recordErr != nil {
			logger.Error("Failed to record payment failure", "payment_id", request.PaymentID.String(), "error", recordErr)
		}

		return nil // Return nil to Kafka consumer to acknowledge the message
	}

	// 2. Check idempotency
	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err // Let Kafka retry
	}
	if skip {
		return nil // Already processed, return success
	}

	// 3. Begin database transaction
	var tx pgx.Tx
	tx, err = s.beginTxFunc(ctx)
	if err != nil {
		logger.Error("Failed to begin database transaction", "payment_id", request.PaymentID.String(), "error", err)
		return fmt.Errorf("failed to begin DB transaction for %s: %w", request.PaymentID.String(), err)
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("Panic recovered, rolling back transaction", "panic", p, "payment_id", request.PaymentID.String())
			_ = tx.Rollback(ctx)
			panic(p) // Re-panic
		} else if err != nil {
			logger.Error("Error occurred, rolling back transaction", "error", err, "payment_id", request.PaymentID.String())
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error("Failed to rollback transaction after error", "rollback_error", rbErr, "original_error", err, "payment_id", request.PaymentID.String())
			}
		}
	}()

	// 4. Settle against the account and the purchase order
	_, updatedOrder, err := s.settlementManager.Settle(ctx, tx, request)
	if err != nil {
		if reason, terminal := settlementFailureReason(request, err); terminal {
			if recordErr := s.failureRecorder.RecordFailure(ctx, request, reason); recordErr != nil {
				logger.Error("Failed to record settlement failure", "payment_id", request.PaymentID.String(), "error", recordErr)
			}
			return nil // Return nil to Kafka consumer
		}

		// For other errors, let them propagate for retry
		return err
	}

	// 5. Create outbox entry
	if err = s.outboxManager.CreateOutboxEntry(ctx, tx, request, updatedOrder); err != nil {
		return err // Let the defer handle rollback
	}

	// 6. Commit transaction
	if err = tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit database transaction",
			"payment_id", request.PaymentID.String(),
			"purchase_order_id", request.PurchaseOrderID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to commit DB transaction for payment %s: %w", request.PaymentID.String(), err)
	}

	logger.Info("Payment settled", "payment_id", request.PaymentID.String(), "purchase_order_id", request.PurchaseOrderID.String())
	return nil
}

func TestProcessingService_ProcessPayment(t *testing.T) {
	// Create mocks
	mockValidator := &MockPaymentValidator{}
	mockSettlementManager := &MockSettlementManager{}
	mockOutboxManager := &MockOutboxManager{}
	mockFailureRecorder := &MockFailureRecorder{}
	mockTx := &MockTx{}
	logger := slog.Default()

	// Create a test request
	paymentID := uuid.New()
	orderID := uuid.New()
	accountID := uuid.New()
	request := &shared.PaymentRequest{
		PaymentID:       paymentID,
		BatchID:         uuid.New(),
		PurchaseOrderID: orderID,
		MethodID:        uuid.New(),
		AccountID:       accountID,
		Amount:          250_000_00,
		Currency:        "TZS",
		IdempotencyKey:  "key1",
		CorrelationID:   "corr1",
		CreatedBy:       "j.mwangi",
		Timestamp:       time.Now().UTC(),
	}

	testAccount := &registry.PaymentAccount{
		ID:       accountID,
		Name:     "NMB Operating",
		Balance:  1_000_000_00,
		Currency: "TZS",
	}
	testOrder := &order.PurchaseOrder{
		ID:          orderID,
		OrderNumber:  "PO-2024-0117",
		SupplierName: "Kariakoo Traders",
		TotalAmount:  250_000_00,
		PaidAmount:   250_000_00,
		Currency:     "TZS",
		Status:       order.StatusPaid,
	}

	// Test cases
	tests := []struct {
		name          string
		setupMocks    func()
		beginTxFunc   func(ctx context.Context) (pgx.Tx, error)
		expectedError error
	}{
		{
			name: "successful payment settlement",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
				mockSettlementManager.On("Settle", mock.Anything, mockTx, request).Return(testAccount, testOrder, nil).Once()
				mockOutboxManager.On("CreateOutboxEntry", mock.Anything, mockTx, request, testOrder).Return(nil).Once()
				mockTx.On("Commit", mock.Anything).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: nil,
		},
		{
			name: "validation failure",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(shared.ErrInvalidAmount).Once()
				mockFailureRecorder.On("RecordFailure", mock.Anything, request, string(shared.FailureReasonInvalidAmount)).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: nil, // We return nil to Kafka consumer on validation failure
		},
		{
			name: "idempotency check returns skip",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(true, nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: nil, // We return nil to Kafka consumer if already processed
		},
		{
			name: "idempotency check error",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, errors.New("db error")).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: errors.New("db error"),
		},
		{
			name: "begin transaction error",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return nil, errors.New("db error")
			},
			expectedError: errors.New("failed to begin DB transaction"),
		},
		{
			name: "account not found",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
				mockSettlementManager.On("Settle", mock.Anything, mockTx, request).Return(nil, nil, registry.ErrAccountNotFound{AccountID: accountID}).Once()
				mockFailureRecorder.On("RecordFailure", mock.Anything, request, string(shared.FailureReasonAccountNotFound)).Return(nil).Once()
				mockTx.On("Rollback", mock.Anything).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: nil, // We return nil to Kafka consumer on account not found
		},
		{
			name: "purchase order not found",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
				mockSettlementManager.On("Settle", mock.Anything, mockTx, request).Return(nil, nil, order.ErrOrderNotFound{OrderID: orderID}).Once()
				mockFailureRecorder.On("RecordFailure", mock.Anything, request, string(shared.FailureReasonOrderNotFound)).Return(nil).Once()
				mockTx.On("Rollback", mock.Anything).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: nil,
		},
		{
			name: "currency mismatch",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
				mockSettlementManager.On("Settle", mock.Anything, mockTx, request).Return(nil, nil, shared.ErrInvalidCurrency).Once()

				failureReasonStr := fmt.Sprintf(string(shared.FailureReasonCurrencyMismatchFormat), request.Currency, "account_currency")
				mockFailureRecorder.On("RecordFailure", mock.Anything, request, failureReasonStr).Return(nil).Once()
				mockTx.On("Rollback", mock.Anything).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: nil, // We return nil to Kafka consumer on currency mismatch
		},
		{
			name: "insufficient funds",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
				mockSettlementManager.On("Settle", mock.Anything, mockTx, request).Return(nil, nil, registry.ErrInsufficientFunds).Once()
				mockFailureRecorder.On("RecordFailure", mock.Anything, request, string(shared.FailureReasonInsufficientFunds)).Return(nil).Once()
				mockTx.On("Rollback", mock.Anything).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: nil, // We return nil to Kafka consumer on insufficient funds
		},
		{
			name: "order already fully paid",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
				mockSettlementManager.On("Settle", mock.Anything, mockTx, request).Return(nil, nil, order.ErrOverpaid).Once()
				mockFailureRecorder.On("RecordFailure", mock.Anything, request, string(shared.FailureReasonOrderOverpaid)).Return(nil).Once()
				mockTx.On("Rollback", mock.Anything).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: nil,
		},
		{
			name: "infrastructure error during settlement propagates",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
				mockSettlementManager.On("Settle", mock.Anything, mockTx, request).Return(nil, nil, errors.New("connection reset")).Once()
				mockTx.On("Rollback", mock.Anything).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: errors.New("connection reset"),
		},
		{
			name: "create outbox entry error",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
				mockSettlementManager.On("Settle", mock.Anything, mockTx, request).Return(testAccount, testOrder, nil).Once()
				mockOutboxManager.On("CreateOutboxEntry", mock.Anything, mockTx, request, testOrder).Return(errors.New("db error")).Once()
				mockTx.On("Rollback", mock.Anything).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: errors.New("db error"),
		},
		{
			name: "commit transaction error",
			setupMocks: func() {
				mockValidator.On("Validate", mock.Anything, request).Return(nil).Once()
				mockValidator.On("CheckIdempotency", mock.Anything, request).Return(false, nil).Once()
				mockSettlementManager.On("Settle", mock.Anything, mockTx, request).Return(testAccount, testOrder, nil).Once()
				mockOutboxManager.On("CreateOutboxEntry", mock.Anything, mockTx, request, testOrder).Return(nil).Once()
				mockTx.On("Commit", mock.Anything).Return(errors.New("db error")).Once()
				mockTx.On("Rollback", mock.Anything).Return(nil).Once()
			},
			beginTxFunc: func(ctx context.Context) (pgx.Tx, error) {
				return mockTx, nil
			},
			expectedError: errors.New("failed to commit DB transaction"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset mocks for each test
			mockValidator = &MockPaymentValidator{}
			mockSettlementManager = &MockSettlementManager{}
			mockOutboxManager = &MockOutboxManager{}
			mockFailureRecorder = &MockFailureRecorder{}
			mockTx = &MockTx{}

			// Create the test service
			service := NewTestProcessingService(
				mockValidator,
				mockSettlementManager,
				mockOutboxManager,
				mockFailureRecorder,
				logger,
				tt.beginTxFunc,
			)

			tt.setupMocks()
			ctx := context.Background()

			// Call the service
			err := service.ProcessPayment(ctx, request)

			// Check the result
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			// Verify that all expected mock calls were made
			mockValidator.AssertExpectations(t)
			mockSettlementManager.AssertExpectations(t)
			mockOutboxManager.AssertExpectations(t)
			mockFailureRecorder.AssertExpectations(t)
			mockTx.AssertExpectations(t)
		})
	}
}
