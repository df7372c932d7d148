package components

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestFailureRecorder_RecordFailure(t *testing.T) {
	logger := slog.Default()

	paymentID := uuid.New()
	orderID := uuid.New()
	accountID := uuid.New()
	failureReason := string(shared.FailureReasonInsufficientFunds)

	newRequest := func() *shared.PaymentRequest {
		return &shared.PaymentRequest{
			PaymentID:       paymentID,
			BatchID:         uuid.New(),
			PurchaseOrderID: orderID,
			AccountID:       accountID,
			Amount:          100_000_00,
			Currency:        "TZS",
			IdempotencyKey:  "key1",
			CorrelationID:   "corr1",
			CreatedBy:       "j.mwangi",
			Timestamp:       time.Now(),
		}
	}

	tests := []struct {
		name          string
		request       *shared.PaymentRequest
		setupMocks    func(mockRepo *MockPaymentLedgerRepo)
		expectedError error
	}{
		{
			name:    "create new failed entry",
			request: newRequest(),
			setupMocks: func(mockRepo *MockPaymentLedgerRepo) {
				mockRepo.On("GetByPaymentID", mock.Anything, paymentID).Return(nil, payment.ErrPaymentNotFound{}).Once()

				mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(entry *payment.Payment) bool {
					return entry.PaymentID == paymentID &&
						entry.Status == shared.PaymentStatusFailed &&
						entry.FailureReason == failureReason &&
						entry.ProcessedAt != nil
				})).Return(nil).Once()
			},
			expectedError: nil,
		},
		{
			name:    "update existing entry to failed",
			request: newRequest(),
			setupMocks: func(mockRepo *MockPaymentLedgerRepo) {
				existingEntry := &payment.Payment{
					PaymentID: paymentID,
					Status:    shared.PaymentStatusProcessing,
				}
				mockRepo.On("GetByPaymentID", mock.Anything, paymentID).Return(existingEntry, nil).Once()

				mockRepo.On("UpdateStatus", mock.Anything, paymentID, shared.PaymentStatusFailed, failureReason).Return(nil).Once()
			},
			expectedError: nil,
		},
		{
			name:    "entry already failed",
			request: newRequest(),
			setupMocks: func(mockRepo *MockPaymentLedgerRepo) {
				existingEntry := &payment.Payment{
					PaymentID: paymentID,
					Status:    shared.PaymentStatusFailed,
				}
				mockRepo.On("GetByPaymentID", mock.Anything, paymentID).Return(existingEntry, nil).Once()
			},
			expectedError: nil,
		},
		{
			name:    "error creating entry",
			request: newRequest(),
			setupMocks: func(mockRepo *MockPaymentLedgerRepo) {
				mockRepo.On("GetByPaymentID", mock.Anything, paymentID).Return(nil, payment.ErrPaymentNotFound{}).Once()

				mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockPaymentLedgerRepo{}
			recorder := NewFailureRecorder(mockRepo, logger)

			tt.setupMocks(mockRepo)
			ctx := context.Background()

			err := recorder.RecordFailure(ctx, tt.request, failureReason)

			if tt.expectedError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
