// Package mongo provides MongoDB implementations of the payment ledger
// repository. The ledger is append-mostly: entries are created when a
// payment is submitted and updated once when settlement resolves.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/shared"
)

const (
	// PaymentCollectionName is the name of the payment ledger collection in MongoDB
	PaymentCollectionName = "payments"
)

// PaymentRepository implements the payment.Repository interface for MongoDB
type PaymentRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewPaymentRepository creates a new MongoDB payment ledger repository
func NewPaymentRepository(logger *slog.Logger, db *mongo.Database) payment.Repository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new payment ledger entry after checking for duplicates.
// Returns ErrDuplicatePayment if an entry with the same payment ID exists.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	collection := r.db.Collection(PaymentCollectionName)

	// Check if entry already exists
	existing, err := r.GetByPaymentID(ctx, p.PaymentID)
	if err != nil && !errors.Is(err, payment.ErrPaymentNotFound{}) {
		r.logger.Error("Failed to check for existing payment",
			"payment_id", p.PaymentID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing payment: %w", err)
	}

	if existing != nil {
		return payment.ErrDuplicatePayment{PaymentID: p.PaymentID}
	}

	_, err = collection.InsertOne(ctx, p)
	if err != nil {
		r.logger.Error("Failed to create payment",
			"payment_id", p.PaymentID.String(),
			"error", err)
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByPaymentID retrieves a payment ledger entry by its payment ID.
// Returns ErrPaymentNotFound if no entry exists.
func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error) {
	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{"payment_id": paymentID}
	var p payment.Payment
	err := collection.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, payment.ErrPaymentNotFound{PaymentID: paymentID}
		}
		r.logger.Error("Failed to get payment",
			"payment_id", paymentID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &p, nil
}

// GetByIdempotencyKey retrieves a payment using its idempotency key.
// Returns nil if no entry exists, enabling idempotent payment submission.
func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*payment.Payment, error) {
	if idempotencyKey == "" {
		return nil, errors.New("idempotency key cannot be empty")
	}

	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{"idempotency_key": idempotencyKey}
	var p payment.Payment
	err := collection.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // No payment found with this idempotency key
		}
		r.logger.Error("Failed to get payment by idempotency key",
			"idempotency_key", idempotencyKey,
			"error", err)
		return nil, fmt.Errorf("failed to get payment by idempotency key: %w", err)
	}

	return &p, nil
}

// GetByBatchID retrieves all payments submitted together in one allocation.
// Results are sorted by creation time ascending to preserve entry order.
func (r *PaymentRepository) GetByBatchID(ctx context.Context, batchID uuid.UUID) ([]*payment.Payment, error) {
	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{"batch_id": batchID}
	opts := options.Find().SetSort(bson.M{"created_at": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get payments by batch",
			"batch_id", batchID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get payments by batch: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []*payment.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		r.logger.Error("Failed to decode payments",
			"batch_id", batchID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}

	return payments, nil
}

// GetByPurchaseOrderID retrieves paginated payments for a purchase order.
// Results are sorted by creation time in descending order (newest first).
func (r *PaymentRepository) GetByPurchaseOrderID(ctx context.Context, purchaseOrderID uuid.UUID, limit, offset int) ([]*payment.Payment, error) {
	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{"purchase_order_id": purchaseOrderID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}). // Sort by created_at in descending order
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get payments",
			"purchase_order_id", purchaseOrderID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []*payment.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		r.logger.Error("Failed to decode payments",
			"purchase_order_id", purchaseOrderID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}

	return payments, nil
}

// CountByPurchaseOrderID counts the total number of payments for a purchase order
func (r *PaymentRepository) CountByPurchaseOrderID(ctx context.Context, purchaseOrderID uuid.UUID) (int64, error) {
	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{"purchase_order_id": purchaseOrderID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count payments",
			"purchase_order_id", purchaseOrderID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}

	return count, nil
}

// UpdateStatus updates the payment's status, failure reason, and processed timestamp.
// Returns ErrPaymentNotFound if the payment doesn't exist.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status shared.PaymentStatus, reason string) error {
	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{"payment_id": paymentID}
	update := bson.M{
		"$set": bson.M{
			"status":         status,
			"failure_reason": reason,
			"processed_at":   time.Now(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update payment status",
			"payment_id", paymentID.String(),
			"status", string(status),
			"error", err)
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if result.MatchedCount == 0 {
		return payment.ErrPaymentNotFound{PaymentID: paymentID}
	}

	return nil
}

// GetByTimeRange retrieves paginated payments within the specified time window.
// Results are sorted by creation time in descending order for recent-first access.
func (r *PaymentRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*payment.Payment, error) {
	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{
		"created_at": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}). // Sort by created_at in descending order
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get payments by time range",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to get payments by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []*payment.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		r.logger.Error("Failed to decode payments",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}

	return payments, nil
}
