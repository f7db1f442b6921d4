package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	"github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// staged is a pending write to a versioned record. base is the committed
// version the write was made against.
type staged[T any] struct {
	value   T
	base    int64
	insert  bool
	deleted bool
}

type txStore struct {
	parent       *Store
	clients      map[string]*staged[domain.Client]
	sessions     map[string]*staged[domain.ClassSession]
	transactions []domain.Transaction
}

var _ repositories.LedgerStore = (*txStore)(nil)

func newTxStore(parent *Store) *txStore {
	return &txStore{
		parent:   parent,
		clients:  make(map[string]*staged[domain.Client]),
		sessions: make(map[string]*staged[domain.ClassSession]),
	}
}

// visibleClient returns the client as seen by this transaction.
func (t *txStore) visibleClient(clientID string) (domain.Client, bool) {
	if st, ok := t.clients[clientID]; ok {
		if st.deleted {
			return domain.Client{}, false
		}
		return cloneClient(st.value), true
	}
	t.parent.mu.RLock()
	defer t.parent.mu.RUnlock()
	c, ok := t.parent.clients[clientID]
	return cloneClient(c), ok
}

func (t *txStore) visibleSession(sessionID string) (domain.ClassSession, bool) {
	if st, ok := t.sessions[sessionID]; ok {
		if st.deleted {
			return domain.ClassSession{}, false
		}
		return cloneSession(st.value), true
	}
	t.parent.mu.RLock()
	defer t.parent.mu.RUnlock()
	cs, ok := t.parent.sessions[sessionID]
	return cloneSession(cs), ok
}

func (t *txStore) FindClientByID(_ context.Context, clientID string) (*domain.Client, error) {
	c, ok := t.visibleClient(clientID)
	if !ok {
		return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	return &c, nil
}

func (t *txStore) ListClients(ctx context.Context) ([]domain.Client, error) {
	committed, _ := t.parent.ListClients(ctx)
	out := make([]domain.Client, 0, len(committed)+len(t.clients))
	for _, c := range committed {
		if _, ok := t.clients[c.ClientID]; !ok {
			out = append(out, c)
		}
	}
	for _, st := range t.clients {
		if !st.deleted {
			out = append(out, cloneClient(st.value))
		}
	}
	sortClients(out)
	return out, nil
}

func (t *txStore) FindClientByPhone(ctx context.Context, phoneNumber string) (*domain.Client, error) {
	clients, _ := t.ListClients(ctx)
	for _, c := range clients {
		if c.PhoneNumber == phoneNumber {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: client with phone %s", apperrors.ErrNotFound, phoneNumber)
}

func (t *txStore) ListClientIDs(ctx context.Context) ([]string, error) {
	clients, _ := t.ListClients(ctx)
	return clientIDs(clients), nil
}

func (t *txStore) SaveClient(_ context.Context, client domain.Client) error {
	if _, exists := t.visibleClient(client.ClientID); exists {
		return fmt.Errorf("%w: client %s", apperrors.ErrDuplicate, client.ClientID)
	}
	t.clients[client.ClientID] = &staged[domain.Client]{value: cloneClient(client), insert: true}
	return nil
}

func (t *txStore) UpdateClient(_ context.Context, client domain.Client) error {
	current, ok := t.visibleClient(client.ClientID)
	if !ok {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, client.ClientID)
	}
	if current.Version != client.Version {
		return fmt.Errorf("%w: client %s is at version %d, update was based on %d",
			apperrors.ErrConcurrencyConflict, client.ClientID, current.Version, client.Version)
	}
	next := cloneClient(client)
	next.Version = client.Version + 1
	if st, ok := t.clients[client.ClientID]; ok {
		st.value = next
		return nil
	}
	t.clients[client.ClientID] = &staged[domain.Client]{value: next, base: client.Version}
	return nil
}

func (t *txStore) DeleteClient(_ context.Context, clientID string) error {
	current, ok := t.visibleClient(clientID)
	if !ok {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	if st, ok := t.clients[clientID]; ok {
		if st.insert {
			delete(t.clients, clientID)
			return nil
		}
		st.deleted = true
		return nil
	}
	t.clients[clientID] = &staged[domain.Client]{base: current.Version, deleted: true}
	return nil
}

func (t *txStore) ListTransactionsByClientID(ctx context.Context, clientID string) ([]domain.Transaction, error) {
	committed, _ := t.parent.ListTransactionsByClientID(ctx, clientID)
	return append(committed, filterTransactions(t.transactions, clientID)...), nil
}

func (t *txStore) ListTransactionsPage(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	txns, _ := t.ListTransactionsByClientID(ctx, clientID)
	return paginate(txns, limit, nextToken)
}

func (t *txStore) AppendTransaction(_ context.Context, txn domain.Transaction) (string, error) {
	if !txn.Kind.IsValid() {
		return "", fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, txn.Kind)
	}
	if txn.TransactionID == "" {
		txn.TransactionID = uuid.NewString()
	}
	t.transactions = append(t.transactions, cloneTransaction(txn))
	return txn.TransactionID, nil
}

func (t *txStore) FindClassSessionByID(_ context.Context, sessionID string) (*domain.ClassSession, error) {
	cs, ok := t.visibleSession(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: class session %s", apperrors.ErrNotFound, sessionID)
	}
	return &cs, nil
}

func (t *txStore) ListClassSessionsByDate(ctx context.Context, date string) ([]domain.ClassSession, error) {
	committed, _ := t.parent.ListClassSessionsByDate(ctx, date)
	out := make([]domain.ClassSession, 0, len(committed))
	for _, cs := range committed {
		if _, ok := t.sessions[cs.ClassSessionID]; !ok {
			out = append(out, cs)
		}
	}
	for _, st := range t.sessions {
		if !st.deleted && st.value.Date == date {
			out = append(out, cloneSession(st.value))
		}
	}
	sortSessions(out)
	return out, nil
}

func (t *txStore) SaveClassSession(_ context.Context, session domain.ClassSession) error {
	if _, exists := t.visibleSession(session.ClassSessionID); exists {
		return fmt.Errorf("%w: class session %s", apperrors.ErrDuplicate, session.ClassSessionID)
	}
	t.sessions[session.ClassSessionID] = &staged[domain.ClassSession]{value: cloneSession(session), insert: true}
	return nil
}

func (t *txStore) UpdateClassSession(_ context.Context, session domain.ClassSession) error {
	current, ok := t.visibleSession(session.ClassSessionID)
	if !ok {
		return fmt.Errorf("%w: class session %s", apperrors.ErrNotFound, session.ClassSessionID)
	}
	if current.Version != session.Version {
		return fmt.Errorf("%w: class session %s is at version %d, update was based on %d",
			apperrors.ErrConcurrencyConflict, session.ClassSessionID, current.Version, session.Version)
	}
	next := cloneSession(session)
	next.Version = session.Version + 1
	if st, ok := t.sessions[session.ClassSessionID]; ok {
		st.value = next
		return nil
	}
	t.sessions[session.ClassSessionID] = &staged[domain.ClassSession]{value: next, base: session.Version}
	return nil
}

func (t *txStore) DeleteClassSession(_ context.Context, sessionID string) error {
	current, ok := t.visibleSession(sessionID)
	if !ok {
		return fmt.Errorf("%w: class session %s", apperrors.ErrNotFound, sessionID)
	}
	if st, ok := t.sessions[sessionID]; ok {
		if st.insert {
			delete(t.sessions, sessionID)
			return nil
		}
		st.deleted = true
		return nil
	}
	t.sessions[sessionID] = &staged[domain.ClassSession]{base: current.Version, deleted: true}
	return nil
}

// commit validates every staged record against the committed state and
// applies all of them, or none.
func (t *txStore) commit() error {
	p := t.parent
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, st := range t.clients {
		committed, exists := p.clients[id]
		if err := validate(st, exists, committed.Version, "client", id); err != nil {
			return err
		}
	}
	for id, st := range t.clients {
		if st.deleted {
			continue
		}
		if otherID, taken := t.phoneTaken(id, st.value.PhoneNumber); taken {
			return fmt.Errorf("%w: phone %s already belongs to client %s", apperrors.ErrDuplicate, st.value.PhoneNumber, otherID)
		}
	}
	for id, st := range t.sessions {
		committed, exists := p.sessions[id]
		if err := validate(st, exists, committed.Version, "class session", id); err != nil {
			return err
		}
	}

	for id, st := range t.clients {
		if st.deleted {
			delete(p.clients, id)
			continue
		}
		p.clients[id] = st.value
	}
	for id, st := range t.sessions {
		if st.deleted {
			delete(p.sessions, id)
			continue
		}
		p.sessions[id] = st.value
	}
	p.transactions = append(p.transactions, t.transactions...)
	return nil
}

// phoneTaken reports another client that would hold phone after commit.
// The caller holds the parent lock.
func (t *txStore) phoneTaken(clientID, phone string) (string, bool) {
	if phone == "" {
		return "", false
	}
	for otherID, other := range t.parent.clients {
		if otherID == clientID {
			continue
		}
		if st, ok := t.clients[otherID]; ok {
			if st.deleted {
				continue
			}
			other = st.value
		}
		if other.PhoneNumber == phone {
			return otherID, true
		}
	}
	return "", false
}

func validate[T any](st *staged[T], exists bool, committedVersion int64, kind, id string) error {
	if st.insert {
		if exists {
			return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicate, kind, id)
		}
		return nil
	}
	if !exists || committedVersion != st.base {
		return fmt.Errorf("%w: %s %s changed during the unit of work", apperrors.ErrConcurrencyConflict, kind, id)
	}
	return nil
}
