package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Warehouse is a leaf entity: a named location stock can sit in.
type Warehouse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Product carries per-warehouse quantities. Missing warehouse keys read as
// zero; quantities never go negative — transfers exceeding availability are
// rejected before any mutation.
type Product struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	SKU   string          `json:"sku"`
	Price decimal.Decimal `json:"price"`
	// Stock maps warehouse id to on-hand quantity.
	Stock    map[uuid.UUID]int `json:"stock"`
	MinStock int               `json:"min_stock"`
	Active   bool              `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalStock sums quantities across all warehouses.
func (p *Product) TotalStock() int {
	total := 0
	for _, qty := range p.Stock {
		total += qty
	}
	return total
}

// StockTransfer is an append-only audit record of a warehouse-to-warehouse
// move. Immutable once created; ProductName is a point-in-time snapshot so
// the audit trail survives later renames.
type StockTransfer struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name"`
	FromWarehouseID uuid.UUID `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id"`
	Quantity        int       `json:"quantity"`
	FromBefore      int       `json:"from_before"`
	FromAfter       int       `json:"from_after"`
	ToBefore        int       `json:"to_before"`
	ToAfter         int       `json:"to_after"`
	CreatedAt       time.Time `json:"created_at"`
}

// StockMovementKind: "sale" | "void_restore" | "adjustment"
type StockMovementKind string

const (
	MovementSale        StockMovementKind = "sale"
	MovementVoidRestore StockMovementKind = "void_restore"
	MovementAdjustment  StockMovementKind = "adjustment"
)

// StockMovement records every non-transfer stock change on a product within
// a single warehouse, with before/after snapshots.
type StockMovement struct {
	ID          uuid.UUID         `json:"id"`
	ProductID   uuid.UUID         `json:"product_id"`
	WarehouseID uuid.UUID         `json:"warehouse_id"`
	Kind        StockMovementKind `json:"kind"`
	Quantity    int               `json:"quantity"` // positive = in, negative = out
	Before      int               `json:"before"`
	After       int               `json:"after"`
	Reason      string            `json:"reason"`
	ReferenceID *uuid.UUID        `json:"reference_id"`
	CreatedAt   time.Time         `json:"created_at"`
}
