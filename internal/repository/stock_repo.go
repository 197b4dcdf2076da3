package repository

import (
	"context"
	"sync"

	"ledgercore/internal/apierror"
	"ledgercore/internal/model"

	"github.com/google/uuid"
)

// StockRepository owns warehouses, products and the stock audit trail.
// Transfer mutates both warehouse quantities and appends the audit record
// under one lock, so conservation never breaks mid-operation.
type StockRepository interface {
	CreateWarehouse(ctx context.Context, w *model.Warehouse) error
	FindWarehouseByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, bool)
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)

	CreateProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, bool)
	UpdateProduct(ctx context.Context, p *model.Product) error
	ListProducts(ctx context.Context) ([]model.Product, error)

	// Transfer moves qty of product from one warehouse to another and appends
	// the immutable StockTransfer record as one atomic unit. Missing warehouse
	// keys read as zero. Fails with InsufficientStock when availability is
	// exceeded, leaving stock untouched.
	Transfer(ctx context.Context, productID, fromID, toID uuid.UUID, qty int) (*model.StockTransfer, error)
	ListTransfers(ctx context.Context) ([]model.StockTransfer, error)

	// AdjustStock applies a signed quantity delta in a single warehouse and
	// records a StockMovement. Negative results are rejected.
	AdjustStock(ctx context.Context, productID, warehouseID uuid.UUID, delta int, kind model.StockMovementKind, reason string, ref *uuid.UUID) (*model.StockMovement, error)
	ListMovements(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
}

type stockRepo struct {
	mu         sync.RWMutex
	warehouses map[uuid.UUID]*model.Warehouse
	whOrder    []uuid.UUID
	products   map[uuid.UUID]*model.Product
	prodOrder  []uuid.UUID
	transfers  []model.StockTransfer
	movements  []model.StockMovement

	newID IDGenerator
	now   Clock
}

func NewStockRepository(newID IDGenerator, now Clock) StockRepository {
	return &stockRepo{
		warehouses: make(map[uuid.UUID]*model.Warehouse),
		products:   make(map[uuid.UUID]*model.Product),
		newID:      newID,
		now:        now,
	}
}

func (r *stockRepo) CreateWarehouse(_ context.Context, w *model.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = r.newID()
	}
	w.CreatedAt = r.now()
	cp := *w
	r.warehouses[w.ID] = &cp
	r.whOrder = append(r.whOrder, w.ID)
	return nil
}

func (r *stockRepo) FindWarehouseByID(_ context.Context, id uuid.UUID) (*model.Warehouse, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.warehouses[id]
	if !ok {
		return nil, false
	}
	cp := *w
	return &cp, true
}

func (r *stockRepo) ListWarehouses(_ context.Context) ([]model.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Warehouse, 0, len(r.whOrder))
	for _, id := range r.whOrder {
		out = append(out, *r.warehouses[id])
	}
	return out, nil
}

func (r *stockRepo) CreateProduct(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = r.newID()
	}
	if p.Stock == nil {
		p.Stock = make(map[uuid.UUID]int)
	}
	p.CreatedAt = r.now()
	p.UpdatedAt = p.CreatedAt
	r.products[p.ID] = cloneProduct(p)
	r.prodOrder = append(r.prodOrder, p.ID)
	return nil
}

func (r *stockRepo) FindProductByID(_ context.Context, id uuid.UUID) (*model.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, false
	}
	return cloneProduct(p), true
}

func (r *stockRepo) UpdateProduct(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[p.ID]
	if !ok {
		return apierror.NotFound("product %s not found", p.ID)
	}
	// The stock map is owned by Transfer/AdjustStock; plain updates only
	// touch descriptive fields.
	existing.Name = p.Name
	existing.SKU = p.SKU
	existing.Price = p.Price
	existing.MinStock = p.MinStock
	existing.Active = p.Active
	existing.UpdatedAt = r.now()
	return nil
}

func (r *stockRepo) ListProducts(_ context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Product, 0, len(r.prodOrder))
	for _, id := range r.prodOrder {
		out = append(out, *cloneProduct(r.products[id]))
	}
	return out, nil
}

func (r *stockRepo) Transfer(_ context.Context, productID, fromID, toID uuid.UUID, qty int) (*model.StockTransfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, apierror.NotFound("product %s not found", productID)
	}
	fromBefore := p.Stock[fromID] // missing key reads as zero
	toBefore := p.Stock[toID]
	if fromBefore < qty {
		return nil, apierror.InsufficientStock(
			"product %q has %d units in the source warehouse, %d requested",
			p.Name, fromBefore, qty)
	}
	p.Stock[fromID] = fromBefore - qty
	p.Stock[toID] = toBefore + qty
	p.UpdatedAt = r.now()

	transfer := model.StockTransfer{
		ID:              r.newID(),
		ProductID:       productID,
		ProductName:     p.Name,
		FromWarehouseID: fromID,
		ToWarehouseID:   toID,
		Quantity:        qty,
		FromBefore:      fromBefore,
		FromAfter:       fromBefore - qty,
		ToBefore:        toBefore,
		ToAfter:         toBefore + qty,
		CreatedAt:       r.now(),
	}
	r.transfers = append(r.transfers, transfer)
	return &transfer, nil
}

func (r *stockRepo) ListTransfers(_ context.Context) ([]model.StockTransfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.StockTransfer, len(r.transfers))
	copy(out, r.transfers)
	return out, nil
}

func (r *stockRepo) AdjustStock(_ context.Context, productID, warehouseID uuid.UUID, delta int, kind model.StockMovementKind, reason string, ref *uuid.UUID) (*model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, apierror.NotFound("product %s not found", productID)
	}
	before := p.Stock[warehouseID]
	after := before + delta
	if after < 0 {
		return nil, apierror.InsufficientStock(
			"product %q has %d units, adjustment of %d would go negative", p.Name, before, delta)
	}
	p.Stock[warehouseID] = after
	p.UpdatedAt = r.now()

	mov := model.StockMovement{
		ID:          r.newID(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Kind:        kind,
		Quantity:    delta,
		Before:      before,
		After:       after,
		Reason:      reason,
		ReferenceID: ref,
		CreatedAt:   r.now(),
	}
	r.movements = append(r.movements, mov)
	return &mov, nil
}

func (r *stockRepo) ListMovements(_ context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func cloneProduct(p *model.Product) *model.Product {
	cp := *p
	cp.Stock = make(map[uuid.UUID]int, len(p.Stock))
	for k, v := range p.Stock {
		cp.Stock[k] = v
	}
	return &cp
}
