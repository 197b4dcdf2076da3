package repository

import (
	"context"
	"sync"

	"ledgercore/internal/model"

	"github.com/google/uuid"
)

// DocumentRepository is the document store. It performs no arithmetic
// validation — callers supply pre-computed totals — and uniqueness of id is
// its only structural invariant. Update and Delete of a missing id are
// no-ops here; the service layer above turns missing ids into NotFound
// where that matters (payments).
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, bool)
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns documents of a kind in insertion order.
	List(ctx context.Context, kind model.DocumentKind) ([]model.Document, error)
}

type documentRepo struct {
	mu    sync.RWMutex
	docs  map[uuid.UUID]*model.Document
	order []uuid.UUID

	newID IDGenerator
	now   Clock
	seq   map[model.DocumentKind]*Sequencer
}

// NewDocumentRepository builds the in-memory document store. Sequence
// numbers come from per-kind monotonic counters, ids from newID.
func NewDocumentRepository(newID IDGenerator, now Clock) DocumentRepository {
	return &documentRepo{
		docs:  make(map[uuid.UUID]*model.Document),
		newID: newID,
		now:   now,
		seq: map[model.DocumentKind]*Sequencer{
			model.KindSales:    NewSequencer("INV"),
			model.KindPurchase: NewSequencer("PUR"),
		},
	}
}

func (r *documentRepo) Create(_ context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID == uuid.Nil {
		doc.ID = r.newID()
	}
	if doc.Sequence == "" {
		doc.Sequence = r.seq[doc.Kind].Next()
	}
	doc.CreatedAt = r.now()
	doc.UpdatedAt = doc.CreatedAt
	cp := *doc
	r.docs[doc.ID] = &cp
	r.order = append(r.order, doc.ID)
	return nil
}

func (r *documentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, false
	}
	cp := *doc
	return &cp, true
}

// Update replaces by id, last-writer-wins. Missing id is a silent no-op at
// this layer.
func (r *documentRepo) Update(_ context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return nil
	}
	doc.UpdatedAt = r.now()
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

// Delete removes unconditionally and irrecoverably.
func (r *documentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return nil
	}
	delete(r.docs, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *documentRepo) List(_ context.Context, kind model.DocumentKind) ([]model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Document
	for _, id := range r.order {
		if doc := r.docs[id]; doc.Kind == kind {
			out = append(out, *doc)
		}
	}
	return out, nil
}
