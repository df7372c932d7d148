package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolProcessingService implements the ProcessingService interface
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessPayment submits a payment to the worker pool for processing.
func (s *WorkerPoolProcessingService) ProcessPayment(ctx context.Context, request *shared.PaymentRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Submitting payment to worker pool",
		"payment_id", request.PaymentID.String(),
		"purchase_order_id", request.PurchaseOrderID.String(),
	)

	// Create a channel to receive the result of the payment processing
	resultChan := make(chan error, 1)

	paymentID := request.PaymentID.String()
	s.mu.Lock()
	s.results[paymentID] = resultChan
	s.mu.Unlock()

	// Create a copy of the request to avoid data races
	requestCopy := *request

	err := s.pool.Submit(func() {
		err := s.baseService.ProcessPayment(ctx, &requestCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, paymentID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, paymentID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit payment to worker pool",
			"payment_id", request.PaymentID.String(),
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
