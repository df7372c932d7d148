package service

import (
	"context"
	"log/slog"

	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/lats-procurement-ledger/internal/domain/shipping"
)

// RegistryServiceImpl implements the RegistryService interface
type RegistryServiceImpl struct {
	methodRepo  registry.MethodRepository
	accountRepo registry.AccountRepository
	agentRepo   shipping.AgentRepository
	logger      *slog.Logger
}

// NewRegistryService creates a new registry service
func NewRegistryService(
	logger *slog.Logger,
	methodRepo registry.MethodRepository,
	accountRepo registry.AccountRepository,
	agentRepo shipping.AgentRepository,
) RegistryService {
	return &RegistryServiceImpl{
		methodRepo:  methodRepo,
		accountRepo: accountRepo,
		agentRepo:   agentRepo,
		logger:      logger,
	}
}

// ListMethods lists the active payment methods
func (s *RegistryServiceImpl) ListMethods(ctx context.Context) ([]*registry.PaymentMethod, error) {
	methods, err := s.methodRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list payment methods", "error", err)
		return nil, err
	}
	return methods, nil
}

// ListAccounts lists the active payment accounts
func (s *RegistryServiceImpl) ListAccounts(ctx context.Context) ([]*registry.PaymentAccount, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list payment accounts", "error", err)
		return nil, err
	}
	return accounts, nil
}

// ListAgents lists the shipping agent directory
func (s *RegistryServiceImpl) ListAgents(ctx context.Context) ([]*shipping.Agent, error) {
	agents, err := s.agentRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list shipping agents", "error", err)
		return nil, err
	}
	return agents, nil
}
