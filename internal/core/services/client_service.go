package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/dto"
	"github.com/SscSPs/class_credits_crm/internal/utils/accounting"
)

// clientService manages clients and sells them credits.
type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
	txnRepo    portsrepo.TransactionReader
	uow        portsrepo.UnitOfWork
}

// NewClientService creates a new ClientSvcFacade.
func NewClientService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.ClientSvcFacade {
	return &clientService{
		BaseService: newBaseService(opts),
		clientRepo:  repos.ClientRepo,
		txnRepo:     repos.TransactionRepo,
		uow:         repos.UnitOfWork,
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, actorID string) (*domain.Client, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	children, err := buildChildren(req.Children)
	if err != nil {
		return nil, err
	}
	guardians := buildGuardians(req.Guardians)

	if err := s.ensurePhoneFree(ctx, s.clientRepo, req.PhoneNumber, ""); err != nil {
		s.LogWarn(ctx, "Client not created", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.Now()
	client := domain.Client{
		ClientID:       uuid.NewString(),
		PhoneNumber:    req.PhoneNumber,
		CampaignSource: req.CampaignSource,
		Children:       children,
		Guardians:      guardians,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
			Version:       1,
		},
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to save client", slog.String("client_id", client.ClientID))
		return nil, fmt.Errorf("failed to save client: %w", err)
	}

	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID), slog.Int("children", len(children)))
	return &client, nil
}

// UpdateClient applies the supplied profile fields in one versioned write.
func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, actorID string) (*domain.Client, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
	}

	var (
		children  []domain.Child
		guardians []domain.Guardian
	)
	if req.Children != nil {
		var err error
		if children, err = buildChildren(req.Children); err != nil {
			return nil, err
		}
	}
	if req.Guardians != nil {
		guardians = buildGuardians(req.Guardians)
	}

	var updated domain.Client
	err := s.retryOnConflict(ctx, "update_client", func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
			client, err := store.FindClientByID(ctx, clientID)
			if err != nil {
				return err
			}
			updated = *client

			if req.PhoneNumber != nil && *req.PhoneNumber != client.PhoneNumber {
				if err := s.ensurePhoneFree(ctx, store, *req.PhoneNumber, clientID); err != nil {
					return err
				}
				updated.PhoneNumber = *req.PhoneNumber
			}
			if req.CampaignSource != nil {
				updated.CampaignSource = *req.CampaignSource
			}
			if children != nil {
				updated.Children = children
			}
			if guardians != nil {
				updated.Guardians = guardians
			}

			updated.Touch(actorID, s.Now())
			if err := store.UpdateClient(ctx, updated); err != nil {
				return err
			}
			updated.Version++
			return nil
		})
	})
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, err
	}

	s.LogInfo(ctx, "Client updated", slog.String("client_id", clientID), slog.String("actor_id", actorID))
	return &updated, nil
}

func (s *clientService) FindClientByPhone(ctx context.Context, phoneNumber string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByPhone(ctx, phoneNumber)
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to find client by phone")
		return nil, err
	}
	return client, nil
}

func (s *clientService) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to find client", slog.String("client_id", clientID))
		return nil, err
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.clientRepo.ListClients(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients")
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string, actorID string) error {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to find client for deletion", slog.String("client_id", clientID))
		return err
	}

	if err := s.clientRepo.DeleteClient(ctx, clientID); err != nil {
		s.LogError(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if client.CreditsRemaining > 0 || client.MoneyBalance > 0 {
		s.LogWarn(ctx, "Deleted client still held a balance, nothing was refunded",
			slog.String("client_id", clientID),
			slog.Int64("credits_remaining", client.CreditsRemaining),
			slog.Int64("money_balance", client.MoneyBalance),
			slog.String("actor_id", actorID))
	} else {
		s.LogInfo(ctx, "Client deleted", slog.String("client_id", clientID), slog.String("actor_id", actorID))
	}
	return nil
}

func (s *clientService) ListClientTransactions(ctx context.Context, clientID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, clientID); err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to find client for ledger listing", slog.String("client_id", clientID))
		return nil, nil, err
	}

	txns, next, err := s.txnRepo.ListTransactionsPage(ctx, clientID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list client transactions", slog.String("client_id", clientID))
		return nil, nil, err
	}
	return txns, next, nil
}

func (s *clientService) PurchaseCredits(ctx context.Context, clientID string, req dto.PurchaseCreditsRequest, actorID string) (*domain.Client, *domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, nil, err
	}

	purchase := accounting.CreditPurchase{
		Count:          req.Count,
		AmountPaid:     req.AmountPaid,
		PricePerCredit: req.PricePerCredit,
		Description:    req.Description,
	}

	var (
		updated domain.Client
		txn     domain.Transaction
	)
	err := s.retryOnConflict(ctx, "purchase_credits", func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
			client, err := store.FindClientByID(ctx, clientID)
			if err != nil {
				return err
			}

			updated, txn, err = accounting.ApplyCredit(*client, purchase, accounting.EntryContext{
				ActorID:           actorID,
				At:                s.Now(),
				CurrencyPrecision: s.CurrencyPrecision,
			})
			if err != nil {
				return err
			}

			if _, err := store.AppendTransaction(ctx, txn); err != nil {
				return fmt.Errorf("failed to append credit entry: %w", err)
			}
			if err := store.UpdateClient(ctx, updated); err != nil {
				return err
			}
			updated.Version++
			return nil
		})
	})
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to purchase credits", slog.String("client_id", clientID))
		return nil, nil, err
	}

	s.Metrics.LedgerEntry(string(domain.Credit))
	s.LogInfo(ctx, "Credits purchased",
		slog.String("client_id", clientID),
		slog.Int64("count", req.Count),
		slog.Int64("amount_paid", req.AmountPaid),
		slog.Int64("credits_remaining", updated.CreditsRemaining),
		slog.String("transaction_id", txn.TransactionID))
	return &updated, &txn, nil
}

// ensurePhoneFree fails with ErrDuplicate when phoneNumber belongs to a
// client other than ownerID.
func (s *clientService) ensurePhoneFree(ctx context.Context, repo portsrepo.ClientReader, phoneNumber, ownerID string) error {
	existing, err := repo.FindClientByPhone(ctx, phoneNumber)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up phone number: %w", err)
	case existing.ClientID != ownerID:
		return fmt.Errorf("%w: phone %s already belongs to client %s", apperrors.ErrDuplicate, phoneNumber, existing.ClientID)
	}
	return nil
}

func buildChildren(in []dto.ChildInput) ([]domain.Child, error) {
	children := make([]domain.Child, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		childID := c.ChildID
		if childID == "" {
			childID = uuid.NewString()
		}
		if _, dup := seen[childID]; dup {
			return nil, fmt.Errorf("%w: child ID %s appears twice", apperrors.ErrValidation, childID)
		}
		seen[childID] = struct{}{}
		children = append(children, domain.Child{
			ChildID:   childID,
			Name:      c.Name,
			BirthDate: c.BirthDate,
			School:    c.School,
		})
	}
	return children, nil
}

func buildGuardians(in []dto.GuardianInput) []domain.Guardian {
	guardians := make([]domain.Guardian, 0, len(in))
	for _, g := range in {
		guardianID := g.GuardianID
		if guardianID == "" {
			guardianID = uuid.NewString()
		}
		guardians = append(guardians, domain.Guardian{
			GuardianID: guardianID,
			Name:       g.Name,
			Contact:    g.Contact,
		})
	}
	return guardians
}
