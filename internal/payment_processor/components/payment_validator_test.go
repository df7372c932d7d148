package components

import (
	"context"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPaymentLedgerRepo for testing
type MockPaymentLedgerRepo struct {
	mock.Mock
}

func (m *MockPaymentLedgerRepo) Create(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentLedgerRepo) GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentLedgerRepo) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*payment.Payment, error) {
	args := m.Called(ctx, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentLedgerRepo) GetByBatchID(ctx context.Context, batchID uuid.UUID) ([]*payment.Payment, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentLedgerRepo) GetByPurchaseOrderID(ctx context.Context, purchaseOrderID uuid.UUID, limit, offset int) ([]*payment.Payment, error) {
	args := m.Called(ctx, purchaseOrderID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentLedgerRepo) CountByPurchaseOrderID(ctx context.Context, purchaseOrderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, purchaseOrderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentLedgerRepo) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status shared.PaymentStatus, reason string) error {
	args := m.Called(ctx, paymentID, status, reason)
	return args.Error(0)
}

func (m *MockPaymentLedgerRepo) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*payment.Payment, error) {
	args := m.Called(ctx, startTime, endTime, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func TestPaymentValidator_Validate(t *testing.T) {
	mockRepo := &MockPaymentLedgerRepo{}
	logger := slog.Default()
	validator := NewPaymentValidator(mockRepo, logger)

	tests := []struct {
		name    string
		request *shared.PaymentRequest
		wantErr bool
	}{
		{
			name: "valid payment",
			request: &shared.PaymentRequest{
				PaymentID: uuid.New(),
				Amount:    100_000_00,
				Currency:  "TZS",
			},
			wantErr: false,
		},
		{
			name: "zero amount",
			request: &shared.PaymentRequest{
				PaymentID: uuid.New(),
				Amount:    0,
				Currency:  "TZS",
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			request: &shared.PaymentRequest{
				PaymentID: uuid.New(),
				Amount:    -500,
				Currency:  "TZS",
			},
			wantErr: true,
		},
		{
			name: "malformed currency",
			request: &shared.PaymentRequest{
				PaymentID: uuid.New(),
				Amount:    100_000_00,
				Currency:  "TZSH",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(context.Background(), tt.request)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPaymentValidator_CheckIdempotency(t *testing.T) {
	mockRepo := &MockPaymentLedgerRepo{}
	logger := slog.Default()
	validator := NewPaymentValidator(mockRepo, logger)
	ctx := context.Background()

	completedEntry := &payment.Payment{
		Status: shared.PaymentStatusCompleted,
	}

	failedEntry := &payment.Payment{
		Status: shared.PaymentStatusFailed,
	}

	processingEntry := &payment.Payment{
		Status: shared.PaymentStatusProcessing,
	}

	tests := []struct {
		name          string
		paymentID     uuid.UUID
		setupMock     func()
		wantProcessed bool
		wantErr       bool
	}{
		{
			name:      "payment not found",
			paymentID: uuid.New(),
			setupMock: func() {
				mockRepo.On("GetByPaymentID", ctx, mock.Anything).Return(nil, payment.ErrPaymentNotFound{}).Once()
			},
			wantProcessed: false,
			wantErr:       false,
		},
		{
			name:      "payment already completed",
			paymentID: uuid.New(),
			setupMock: func() {
				mockRepo.On("GetByPaymentID", ctx, mock.Anything).Return(completedEntry, nil).Once()
			},
			wantProcessed: true,
			wantErr:       false,
		},
		{
			name:      "payment already failed",
			paymentID: uuid.New(),
			setupMock: func() {
				mockRepo.On("GetByPaymentID", ctx, mock.Anything).Return(failedEntry, nil).Once()
			},
			wantProcessed: true,
			wantErr:       false,
		},
		{
			name:      "payment still processing",
			paymentID: uuid.New(),
			setupMock: func() {
				mockRepo.On("GetByPaymentID", ctx, mock.Anything).Return(processingEntry, nil).Once()
			},
			wantProcessed: false,
			wantErr:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()
			request := &shared.PaymentRequest{
				PaymentID: tt.paymentID,
			}
			processed, err := validator.CheckIdempotency(ctx, request)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantProcessed, processed)
			mockRepo.AssertExpectations(t)
		})
	}
}
