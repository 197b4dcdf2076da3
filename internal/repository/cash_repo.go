package repository

import (
	"context"
	"sync"

	"ledgercore/internal/apierror"
	"ledgercore/internal/model"

	"github.com/google/uuid"
)

// CashRepository owns till sessions and their transactions. The single-open-
// session invariant is the system's one true global-exclusion resource:
// OpenSession is an atomic check-and-set and CloseSession the matching
// check-and-clear, both under the repository lock.
type CashRepository interface {
	// OpenSession stores s as the open session, or fails with InvalidState
	// when one is already open.
	OpenSession(ctx context.Context, s *model.CashSession) error
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashSession, bool)
	// FindOpenSession returns the currently open session, if any.
	FindOpenSession(ctx context.Context) (*model.CashSession, bool)
	// CloseSession transitions the open session with id to closed, applying
	// fn to stamp closing fields while the lock is held.
	CloseSession(ctx context.Context, id uuid.UUID, fn func(*model.CashSession)) error
	ListSessions(ctx context.Context) ([]model.CashSession, error)

	// AddTransaction appends tx to its session and moves the session's
	// expected balance by the signed amount. Fails with InvalidState when
	// the session is closed and NotFound when it does not exist.
	AddTransaction(ctx context.Context, tx *model.CashTransaction) error
	ListTransactions(ctx context.Context, sessionID uuid.UUID) ([]model.CashTransaction, error)
}

type cashRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.CashSession
	order    []uuid.UUID
	openID   *uuid.UUID // nil when no session is open
	txs      []model.CashTransaction

	newID IDGenerator
	now   Clock
}

func NewCashRepository(newID IDGenerator, now Clock) CashRepository {
	return &cashRepo{
		sessions: make(map[uuid.UUID]*model.CashSession),
		newID:    newID,
		now:      now,
	}
}

func (r *cashRepo) OpenSession(_ context.Context, s *model.CashSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.openID != nil {
		return apierror.InvalidState("a cash session is already open")
	}
	if s.ID == uuid.Nil {
		s.ID = r.newID()
	}
	s.Status = model.SessionOpen
	s.OpenedAt = r.now()
	cp := *s
	r.sessions[s.ID] = &cp
	r.order = append(r.order, s.ID)
	id := s.ID
	r.openID = &id
	return nil
}

func (r *cashRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*model.CashSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	cp := *s
	return &cp, true
}

func (r *cashRepo) FindOpenSession(_ context.Context) (*model.CashSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.openID == nil {
		return nil, false
	}
	cp := *r.sessions[*r.openID]
	return &cp, true
}

func (r *cashRepo) CloseSession(_ context.Context, id uuid.UUID, fn func(*model.CashSession)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return apierror.NotFound("cash session %s not found", id)
	}
	if s.Status != model.SessionOpen {
		return apierror.InvalidState("cash session %s is already closed", id)
	}
	fn(s)
	s.Status = model.SessionClosed
	closedAt := r.now()
	s.ClosedAt = &closedAt
	r.openID = nil
	return nil
}

func (r *cashRepo) ListSessions(_ context.Context) ([]model.CashSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.CashSession, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.sessions[id])
	}
	return out, nil
}

func (r *cashRepo) AddTransaction(_ context.Context, tx *model.CashTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[tx.SessionID]
	if !ok {
		return apierror.NotFound("cash session %s not found", tx.SessionID)
	}
	if s.Status != model.SessionOpen {
		return apierror.InvalidState("cash session %s is closed", tx.SessionID)
	}
	if tx.ID == uuid.Nil {
		tx.ID = r.newID()
	}
	tx.CreatedAt = r.now()
	r.txs = append(r.txs, *tx)
	s.ExpectedBalance = s.ExpectedBalance.Add(tx.Amount)
	return nil
}

func (r *cashRepo) ListTransactions(_ context.Context, sessionID uuid.UUID) ([]model.CashTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.CashTransaction
	for _, tx := range r.txs {
		if tx.SessionID == sessionID {
			out = append(out, tx)
		}
	}
	return out, nil
}
