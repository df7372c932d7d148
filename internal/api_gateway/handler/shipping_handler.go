package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/api_gateway/service"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/shipping"
)

// ShippingHandler handles HTTP requests for shipping record operations
type ShippingHandler struct {
	shippingService service.ShippingService
	logger          *slog.Logger
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(logger *slog.Logger, shippingService service.ShippingService) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
		logger:          logger,
	}
}

// Save creates or replaces the shipping record for a purchase order
func (h *ShippingHandler) Save(c *gin.Context) {
	orderIDParam := c.Param("id")
	orderID, err := uuid.Parse(orderIDParam)
	if err != nil {
		h.logger.Error("Invalid purchase order ID", "id", orderIDParam, "error", err)
		RespondBadRequest(c, "Invalid purchase order ID")
		return
	}

	var req ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.ShippingInput{
		PurchaseOrderID: orderID,
		Mode:            shipping.Mode(req.Mode),
		Apply: func(draft *shipping.Info) {
			applyShippingRequest(draft, &req)
		},
	}

	if req.AgentID != "" {
		agentID, err := uuid.Parse(req.AgentID)
		if err != nil {
			RespondBadRequest(c, "Invalid agent ID")
			return
		}
		input.AgentID = agentID
	}

	info, fieldErrs, err := h.shippingService.SaveShipping(c.Request.Context(), input)
	if err != nil {
		var orderNotFound order.ErrOrderNotFound
		var agentNotFound shipping.ErrAgentNotFound
		switch {
		case errors.As(err, &orderNotFound):
			RespondNotFound(c, "Purchase order not found")
		case errors.As(err, &agentNotFound):
			RespondBadRequest(c, "Unknown shipping agent")
		default:
			h.logger.Error("Failed to save shipping record", "purchase_order_id", orderIDParam, "error", err)
			RespondInternalError(c)
		}
		return
	}
	if len(fieldErrs) > 0 {
		RespondValidationFailed(c, fieldErrs)
		return
	}

	RespondOK(c, mapShipmentToResponse(info))
}

// Get retrieves the shipping record for a purchase order
func (h *ShippingHandler) Get(c *gin.Context) {
	orderIDParam := c.Param("id")
	orderID, err := uuid.Parse(orderIDParam)
	if err != nil {
		h.logger.Error("Invalid purchase order ID", "id", orderIDParam, "error", err)
		RespondBadRequest(c, "Invalid purchase order ID")
		return
	}

	info, err := h.shippingService.GetShipping(c.Request.Context(), orderID)
	if err != nil {
		h.logger.Error("Failed to get shipping record", "purchase_order_id", orderIDParam, "error", err)
		RespondInternalError(c)
		return
	}

	if info == nil {
		RespondNotFound(c, "Shipping record not found")
		return
	}

	RespondOK(c, mapShipmentToResponse(info))
}

// UpdateStatus transitions a shipment's internal status
func (h *ShippingHandler) UpdateStatus(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid shipment ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid shipment ID")
		return
	}

	var req UpdateShipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	info, err := h.shippingService.UpdateStatus(c.Request.Context(), id, shipping.Status(req.Status))
	if err != nil {
		h.logger.Error("Failed to update shipment status", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	if info == nil {
		RespondNotFound(c, "Shipment not found")
		return
	}

	RespondOK(c, mapShipmentToResponse(info))
}

// applyShippingRequest copies the request's detail fields into the draft.
// Empty strings leave the draft value alone so defaults and accumulated
// details survive partial submissions.
func applyShippingRequest(draft *shipping.Info, req *ShippingRequest) {
	setString(&draft.Address, req.Address)
	setString(&draft.City, req.City)
	setString(&draft.Country, req.Country)
	setString(&draft.Phone, req.Phone)
	setString(&draft.Contact, req.Contact)
	setString(&draft.CarrierTier, req.CarrierTier)
	setString(&draft.InternalNotes, req.InternalNotes)
	if req.Priority != "" {
		draft.Priority = shipping.Priority(req.Priority)
	}
	if req.ActualCost > 0 {
		draft.ActualCost = req.ActualCost
	}
	setDate(&draft.ExpectedDelivery, req.ExpectedDelivery)

	setString(&draft.FlightNumber, req.FlightNumber)
	setString(&draft.DepartureAirport, req.DepartureAirport)
	setString(&draft.ArrivalAirport, req.ArrivalAirport)
	setString(&draft.DepartureTime, req.DepartureTime)
	setString(&draft.ArrivalTime, req.ArrivalTime)

	setString(&draft.VesselName, req.VesselName)
	setString(&draft.PortOfLoading, req.PortOfLoading)
	setString(&draft.PortOfDischarge, req.PortOfDischarge)
	setString(&draft.ContainerNumber, req.ContainerNumber)

	setDate(&draft.DepartureDate, req.DepartureDate)
	setDate(&draft.ArrivalDate, req.ArrivalDate)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDate(dst *time.Time, v string) {
	if v == "" {
		return
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		*dst = t
		return
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		*dst = t
	}
}

// mapShipmentToResponse maps a shipping record to a response DTO. Detail
// fields of the inactive mode stay in the stored record across mode switches
// but never leave the API.
func mapShipmentToResponse(info *shipping.Info) ShipmentResponse {
	response := ShipmentResponse{
		ID:               info.ID.String(),
		PurchaseOrderID:  info.PurchaseOrderID.String(),
		Mode:             string(info.Mode),
		Address:          info.Address,
		City:             info.City,
		Country:          info.Country,
		Phone:            info.Phone,
		Contact:          info.Contact,
		CarrierTier:      info.CarrierTier,
		InternalRef:      info.InternalRef,
		Priority:         string(info.Priority),
		InternalStatus:   string(info.InternalStatus),
		DeliveryAttempts: info.DeliveryAttempts,
		ActualCost:       info.ActualCost,
		InternalNotes:    info.InternalNotes,
		CreatedAt:        info.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        info.UpdatedAt.Format(time.RFC3339),
	}

	if info.Mode == shipping.ModeAir {
		response.FlightNumber = info.FlightNumber
		response.DepartureAirport = info.DepartureAirport
		response.ArrivalAirport = info.ArrivalAirport
		response.DepartureTime = info.DepartureTime
		response.ArrivalTime = info.ArrivalTime
	}
	if info.Mode == shipping.ModeSea {
		response.VesselName = info.VesselName
		response.PortOfLoading = info.PortOfLoading
		response.PortOfDischarge = info.PortOfDischarge
		response.ContainerNumber = info.ContainerNumber
	}

	if info.AgentID != uuid.Nil {
		response.AgentID = info.AgentID.String()
	}
	if !info.ExpectedDelivery.IsZero() {
		response.ExpectedDelivery = info.ExpectedDelivery.Format(time.RFC3339)
	}
	if !info.AssignedDate.IsZero() {
		response.AssignedDate = info.AssignedDate.Format(time.RFC3339)
	}
	if !info.PickupDate.IsZero() {
		response.PickupDate = info.PickupDate.Format(time.RFC3339)
	}
	if !info.DepartureDate.IsZero() {
		response.DepartureDate = info.DepartureDate.Format(time.RFC3339)
	}
	if !info.ArrivalDate.IsZero() {
		response.ArrivalDate = info.ArrivalDate.Format(time.RFC3339)
	}

	return response
}
