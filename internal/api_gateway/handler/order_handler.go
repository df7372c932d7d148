package handler

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/api_gateway/service"
	"github.com/lats-procurement-ledger/internal/domain/order"
)

// OrderHandler handles HTTP requests for purchase order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *slog.Logger
}

// NewOrderHandler creates a new purchase order handler
func NewOrderHandler(logger *slog.Logger, orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// Create registers a new purchase order, rejecting duplicate order numbers
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var supplierID uuid.UUID
	if req.SupplierID != "" {
		id, err := uuid.Parse(req.SupplierID)
		if err != nil {
			RespondBadRequest(c, "Invalid supplier ID")
			return
		}
		supplierID = id
	}

	po, err := h.orderService.CreateOrder(
		c.Request.Context(),
		req.OrderNumber,
		supplierID,
		req.SupplierName,
		req.TotalAmount,
		strings.ToUpper(req.Currency),
	)
	if err != nil {
		var duplicate order.ErrDuplicateOrderNumber
		switch {
		case errors.As(err, &duplicate):
			h.logger.Warn("Attempt to create purchase order with taken number", "order_number", duplicate.OrderNumber)
			RespondConflict(c, "Purchase order with this number already exists")
		case errors.Is(err, order.ErrEmptyNumber), errors.Is(err, order.ErrInvalidAmount):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to create purchase order", "order_number", req.OrderNumber, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapOrderToResponse(po))
}

// GetByID retrieves a purchase order by its ID, returning 404 if not found
func (h *OrderHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid purchase order ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid purchase order ID")
		return
	}

	po, err := h.orderService.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		var notFound order.ErrOrderNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Purchase order not found")
			return
		}
		h.logger.Error("Failed to get purchase order", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapOrderToResponse(po))
}

// mapOrderToResponse maps a purchase order to a response DTO
func mapOrderToResponse(po *order.PurchaseOrder) OrderResponse {
	response := OrderResponse{
		ID:           po.ID.String(),
		OrderNumber:  po.OrderNumber,
		SupplierName: po.SupplierName,
		TotalAmount:  po.TotalAmount,
		PaidAmount:   po.PaidAmount,
		Outstanding:  po.Outstanding(),
		Currency:     po.Currency,
		Status:       string(po.Status),
		CreatedAt:    po.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    po.UpdatedAt.Format(time.RFC3339),
	}

	if po.SupplierID != uuid.Nil {
		response.SupplierID = po.SupplierID.String()
	}

	return response
}
