// Package memory is an in-process ledger store. Writes inside WithinTx are
// staged and validated against the committed versions at commit, so it
// behaves like the SQL stores under concurrent units of work.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	"github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	"github.com/SscSPs/class_credits_crm/internal/utils/pagination"
)

// Store keeps clients, sessions and the ledger in maps guarded by one lock.
type Store struct {
	mu           sync.RWMutex
	clients      map[string]domain.Client
	sessions     map[string]domain.ClassSession
	transactions []domain.Transaction
}

// Ensure Store implements the ledger store port
var _ repositories.LedgerStoreWithTx = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		clients:  make(map[string]domain.Client),
		sessions: make(map[string]domain.ClassSession),
	}
}

// --- committed reads ---

func (s *Store) FindClientByID(_ context.Context, clientID string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	c = cloneClient(c)
	return &c, nil
}

func (s *Store) ListClients(_ context.Context) ([]domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, cloneClient(c))
	}
	sortClients(out)
	return out, nil
}

func (s *Store) FindClientByPhone(_ context.Context, phoneNumber string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.PhoneNumber == phoneNumber {
			c = cloneClient(c)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: client with phone %s", apperrors.ErrNotFound, phoneNumber)
}

func (s *Store) ListClientIDs(ctx context.Context) ([]string, error) {
	clients, err := s.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return clientIDs(clients), nil
}

func (s *Store) ListTransactionsByClientID(_ context.Context, clientID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterTransactions(s.transactions, clientID), nil
}

func (s *Store) ListTransactionsPage(_ context.Context, clientID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	s.mu.RLock()
	txns := filterTransactions(s.transactions, clientID)
	s.mu.RUnlock()
	return paginate(txns, limit, nextToken)
}

func (s *Store) FindClassSessionByID(_ context.Context, sessionID string) (*domain.ClassSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: class session %s", apperrors.ErrNotFound, sessionID)
	}
	cs = cloneSession(cs)
	return &cs, nil
}

func (s *Store) ListClassSessionsByDate(_ context.Context, date string) ([]domain.ClassSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ClassSession
	for _, cs := range s.sessions {
		if cs.Date == date {
			out = append(out, cloneSession(cs))
		}
	}
	sortSessions(out)
	return out, nil
}

// --- direct writes, each its own implicit transaction ---

func (s *Store) SaveClient(ctx context.Context, client domain.Client) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repositories.LedgerStore) error {
		return tx.SaveClient(ctx, client)
	})
}

func (s *Store) UpdateClient(ctx context.Context, client domain.Client) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repositories.LedgerStore) error {
		return tx.UpdateClient(ctx, client)
	})
}

func (s *Store) DeleteClient(ctx context.Context, clientID string) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repositories.LedgerStore) error {
		return tx.DeleteClient(ctx, clientID)
	})
}

func (s *Store) AppendTransaction(ctx context.Context, txn domain.Transaction) (string, error) {
	var id string
	err := s.WithinTx(ctx, func(ctx context.Context, tx repositories.LedgerStore) error {
		var err error
		id, err = tx.AppendTransaction(ctx, txn)
		return err
	})
	return id, err
}

func (s *Store) SaveClassSession(ctx context.Context, session domain.ClassSession) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repositories.LedgerStore) error {
		return tx.SaveClassSession(ctx, session)
	})
}

func (s *Store) UpdateClassSession(ctx context.Context, session domain.ClassSession) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repositories.LedgerStore) error {
		return tx.UpdateClassSession(ctx, session)
	})
}

func (s *Store) DeleteClassSession(ctx context.Context, sessionID string) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repositories.LedgerStore) error {
		return tx.DeleteClassSession(ctx, sessionID)
	})
}

// WithinTx stages every write made by fn and applies them only if fn succeeds
// and no staged record was changed by someone else in the meantime.
func (s *Store) WithinTx(ctx context.Context, fn repositories.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := newTxStore(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

func filterTransactions(all []domain.Transaction, clientID string) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range all {
		if t.ClientID == clientID {
			out = append(out, cloneTransaction(t))
		}
	}
	return out
}

func paginate(txns []domain.Transaction, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].TransactionDate.Equal(txns[j].TransactionDate) {
			return txns[i].TransactionID > txns[j].TransactionID
		}
		return txns[i].TransactionDate.After(txns[j].TransactionDate)
	})

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		start := len(txns)
		for i, t := range txns {
			if cursor.After(t.TransactionDate, t.TransactionID) {
				start = i
				break
			}
		}
		txns = txns[start:]
	}

	if len(txns) <= limit {
		return txns, nil, nil
	}
	page := txns[:limit]
	last := page[limit-1]
	token := pagination.EncodeToken(last.TransactionDate, last.TransactionID)
	return page, &token, nil
}

func sortClients(clients []domain.Client) {
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].CreatedAt.Equal(clients[j].CreatedAt) {
			return clients[i].ClientID < clients[j].ClientID
		}
		return clients[i].CreatedAt.Before(clients[j].CreatedAt)
	})
}

func clientIDs(clients []domain.Client) []string {
	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ClientID)
	}
	return ids
}

func sortSessions(sessions []domain.ClassSession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Time == sessions[j].Time {
			return sessions[i].ClassSessionID < sessions[j].ClassSessionID
		}
		return sessions[i].Time < sessions[j].Time
	})
}

func cloneClient(c domain.Client) domain.Client {
	c.Children = append([]domain.Child(nil), c.Children...)
	c.Guardians = append([]domain.Guardian(nil), c.Guardians...)
	return c
}

func cloneSession(cs domain.ClassSession) domain.ClassSession {
	cs.Registrations = append([]domain.Registration(nil), cs.Registrations...)
	return cs
}

func cloneTransaction(t domain.Transaction) domain.Transaction {
	if t.CreditsCount != nil {
		v := *t.CreditsCount
		t.CreditsCount = &v
	}
	if t.ClassSessionID != nil {
		v := *t.ClassSessionID
		t.ClassSessionID = &v
	}
	return t
}
