package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/api_gateway/middleware"
	"github.com/lats-procurement-ledger/internal/api_gateway/service"
	"github.com/lats-procurement-ledger/internal/domain/allocation"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/registry"
)

// PaymentHandler handles HTTP requests for payment allocation operations
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(logger *slog.Logger, paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Submit accepts a payment allocation for a purchase order and queues it
// for asynchronous settlement
func (h *PaymentHandler) Submit(c *gin.Context) {
	orderIDParam := c.Param("id")
	orderID, err := uuid.Parse(orderIDParam)
	if err != nil {
		h.logger.Error("Invalid purchase order ID", "id", orderIDParam, "error", err)
		RespondBadRequest(c, "Invalid purchase order ID")
		return
	}

	var req SubmitPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.SubmitPaymentsInput{
		PurchaseOrderID: orderID,
		Mode:            allocation.Mode(req.Mode),
		IdempotencyKey:  req.IdempotencyKey,
		CorrelationID:   middleware.GetCorrelationID(c),
		CreatedBy:       req.CreatedBy,
	}

	if req.MethodID != "" {
		methodID, err := uuid.Parse(req.MethodID)
		if err != nil {
			RespondBadRequest(c, "Invalid method ID")
			return
		}
		input.MethodID = methodID
	}

	for _, e := range req.Entries {
		methodID, err := uuid.Parse(e.MethodID)
		if err != nil {
			RespondBadRequest(c, "Invalid method ID in entries")
			return
		}
		entry := service.PaymentEntryInput{
			MethodID:  methodID,
			Amount:    e.Amount,
			Reference: e.Reference,
			Notes:     e.Notes,
		}
		if e.AccountID != "" {
			accountID, err := uuid.Parse(e.AccountID)
			if err != nil {
				RespondBadRequest(c, "Invalid account ID in entries")
				return
			}
			entry.AccountID = accountID
		}
		input.Entries = append(input.Entries, entry)
	}

	result, err := h.paymentService.SubmitPayments(c.Request.Context(), input)
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	if result.Existing != nil {
		var payments []PaymentResponse
		for _, p := range result.Existing {
			payments = append(payments, mapPaymentToResponse(p))
		}
		RespondOK(c, gin.H{
			"batch_id": result.BatchID.String(),
			"payments": payments,
		})
		return
	}

	response := SubmitPaymentsResponse{
		BatchID: result.BatchID.String(),
		Status:  "PENDING",
	}
	for _, a := range result.Accepted {
		response.Payments = append(response.Payments, AcceptedPaymentSummary{
			PaymentID: a.PaymentID.String(),
			Method:    a.Method,
			Account:   a.Account,
			Amount:    a.Amount,
		})
	}

	RespondAccepted(c, response)
}

// respondSubmitError maps submission failures to HTTP status codes
func (h *PaymentHandler) respondSubmitError(c *gin.Context, err error) {
	var orderNotFound order.ErrOrderNotFound
	var methodNotFound registry.ErrMethodNotFound
	var accountNotFound registry.ErrAccountNotFound

	switch {
	case errors.As(err, &orderNotFound):
		RespondNotFound(c, "Purchase order not found")
	case errors.As(err, &methodNotFound):
		RespondBadRequest(c, "Unknown payment method")
	case errors.As(err, &accountNotFound):
		RespondBadRequest(c, "Unknown payment account")
	case errors.Is(err, service.ErrOrderAlreadyPaid):
		RespondConflict(c, "Purchase order has no outstanding balance")
	case errors.Is(err, allocation.ErrExceedsRemaining),
		errors.Is(err, allocation.ErrOverAllocated),
		errors.Is(err, allocation.ErrInvalidAmount),
		errors.Is(err, allocation.ErrNoEntries),
		errors.Is(err, allocation.ErrNoMethodSelected),
		errors.Is(err, allocation.ErrUnknownMode):
		RespondBadRequest(c, err.Error())
	default:
		h.logger.Error("Failed to submit payments", "error", err)
		RespondInternalError(c)
	}
}

// GetByID retrieves payment details by ID, returns 404 if not found
func (h *PaymentHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid payment ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid payment ID")
		return
	}

	p, err := h.paymentService.GetPaymentByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get payment", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	if p == nil {
		RespondNotFound(c, "Payment not found")
		return
	}

	RespondOK(c, mapPaymentToResponse(p))
}

// GetByOrderID retrieves paginated payment history for a purchase order
func (h *PaymentHandler) GetByOrderID(c *gin.Context) {
	orderIDParam := c.Param("id")
	orderID, err := uuid.Parse(orderIDParam)
	if err != nil {
		h.logger.Error("Invalid purchase order ID", "id", orderIDParam, "error", err)
		RespondBadRequest(c, "Invalid purchase order ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	payments, total, err := h.paymentService.GetPaymentsByOrderID(
		c.Request.Context(),
		orderID,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get payments", "purchase_order_id", orderIDParam, "error", err)
		RespondInternalError(c)
		return
	}

	var responses []PaymentResponse
	for _, p := range payments {
		responses = append(responses, mapPaymentToResponse(p))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// ListByTimeRange retrieves ledger entries created within a time window
func (h *PaymentHandler) ListByTimeRange(c *gin.Context) {
	var window TimeRangeParams
	if err := c.ShouldBindQuery(&window); err != nil {
		h.logger.Error("Invalid time range parameters", "error", err)
		RespondBadRequest(c, "Invalid time range: 'from' and 'to' must be RFC3339 timestamps with from < to")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	payments, err := h.paymentService.GetPaymentsByTimeRange(
		c.Request.Context(),
		window.From,
		window.To,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to list payments by time range", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, mapPaymentToResponse(p))
	}

	RespondOK(c, responses)
}

// mapPaymentToResponse maps a payment ledger entry to a response DTO
func mapPaymentToResponse(p *payment.Payment) PaymentResponse {
	response := PaymentResponse{
		PaymentID:       p.PaymentID.String(),
		BatchID:         p.BatchID.String(),
		PurchaseOrderID: p.PurchaseOrderID.String(),
		OrderNumber:     p.OrderNumber,
		Method:          p.Method,
		Account:         p.Account,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Reference:       p.Reference,
		Notes:           p.Notes,
		Status:          string(p.Status),
		FailureReason:   p.FailureReason,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}

	if p.ProcessedAt != nil {
		response.ProcessedAt = p.ProcessedAt.Format(time.RFC3339)
	}

	return response
}
