package repository

import (
	"context"
	"sync"

	"ledgercore/internal/apierror"
	"ledgercore/internal/model"

	"github.com/google/uuid"
)

// SaleRepository stores point-of-sale transactions. Ticket numbers come from
// a monotonic counter, never from the wall clock.
type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, bool)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.SaleStatus) error
	List(ctx context.Context) ([]model.Sale, error)
}

type saleRepo struct {
	mu     sync.RWMutex
	sales  map[uuid.UUID]*model.Sale
	order  []uuid.UUID
	ticket NextTicket

	newID IDGenerator
	now   Clock
}

func NewSaleRepository(newID IDGenerator, now Clock) SaleRepository {
	return &saleRepo{
		sales: make(map[uuid.UUID]*model.Sale),
		newID: newID,
		now:   now,
	}
}

func (r *saleRepo) Create(_ context.Context, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = r.newID()
	}
	s.TicketNumber = r.ticket.Next()
	s.CreatedAt = r.now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	r.sales[s.ID] = &cp
	r.order = append(r.order, s.ID)
	return nil
}

func (r *saleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, false
	}
	cp := *s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	return &cp, true
}

func (r *saleRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.SaleStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return apierror.NotFound("sale %s not found", id)
	}
	s.Status = status
	s.UpdatedAt = r.now()
	return nil
}

func (r *saleRepo) List(_ context.Context) ([]model.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Sale, 0, len(r.order))
	for _, id := range r.order {
		s := r.sales[id]
		cp := *s
		cp.Items = append([]model.SaleItem(nil), s.Items...)
		out = append(out, cp)
	}
	return out, nil
}
