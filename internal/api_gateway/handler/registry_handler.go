package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/lats-procurement-ledger/internal/api_gateway/service"
	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/lats-procurement-ledger/internal/domain/shipping"
)

// RegistryHandler serves the read-only reference data the payment and
// shipping forms are built from.
type RegistryHandler struct {
	registryService service.RegistryService
	logger          *slog.Logger
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(logger *slog.Logger, registryService service.RegistryService) *RegistryHandler {
	return &RegistryHandler{
		registryService: registryService,
		logger:          logger,
	}
}

// ListMethods returns all configured payment methods
func (h *RegistryHandler) ListMethods(c *gin.Context) {
	methods, err := h.registryService.ListMethods(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list payment methods", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]MethodResponse, 0, len(methods))
	for _, m := range methods {
		responses = append(responses, mapMethodToResponse(m))
	}
	RespondOK(c, responses)
}

// ListAccounts returns all active payment accounts
func (h *RegistryHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.registryService.ListAccounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list payment accounts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, mapAccountToResponse(a))
	}
	RespondOK(c, responses)
}

// ListAgents returns all active shipping agents
func (h *RegistryHandler) ListAgents(c *gin.Context) {
	agents, err := h.registryService.ListAgents(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list shipping agents", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AgentResponse, 0, len(agents))
	for _, a := range agents {
		responses = append(responses, mapAgentToResponse(a))
	}
	RespondOK(c, responses)
}

func mapMethodToResponse(m *registry.PaymentMethod) MethodResponse {
	return MethodResponse{
		ID:               m.ID.String(),
		Name:             m.Name,
		Kind:             m.Kind,
		DefaultAccountID: m.DefaultAccountID.String(),
	}
}

func mapAccountToResponse(a *registry.PaymentAccount) AccountResponse {
	return AccountResponse{
		ID:       a.ID.String(),
		Name:     a.Name,
		Balance:  a.Balance,
		Currency: a.Currency,
	}
}

func mapAgentToResponse(a *shipping.Agent) AgentResponse {
	contacts := make([]AgentContactResponse, 0, len(a.Contacts))
	for _, contact := range a.Contacts {
		contacts = append(contacts, AgentContactResponse{
			Name:    contact.Name,
			Role:    contact.Role,
			Phone:   contact.Phone,
			Primary: contact.Primary,
		})
	}
	return AgentResponse{
		ID:                  a.ID.String(),
		Name:                a.Name,
		Company:             a.Company,
		Phone:               a.Phone,
		Contacts:            contacts,
		Address:             a.Address,
		City:                a.City,
		Country:             a.Country,
		PricePerCBM:         a.PricePerCBM,
		PricePerKg:          a.PricePerKg,
		Specializations:     a.Specializations,
		AverageDeliveryDays: a.AverageDeliveryDays,
		Notes:               a.Notes,
	}
}
