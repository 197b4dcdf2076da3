package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateWarehouseRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type CreateProductRequest struct {
	Name     string          `json:"name"      validate:"required,min=2"`
	SKU      string          `json:"sku"       validate:"required"`
	Price    decimal.Decimal `json:"price"     validate:"min=0"`
	MinStock int             `json:"min_stock" validate:"min=0"`
}

type AdjustStockRequest struct {
	ProductID   string `json:"product_id"   validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Delta       int    `json:"delta"        validate:"required"`
	Reason      string `json:"reason"       validate:"required,min=3"`
}

type TransferStockRequest struct {
	ProductID       string `json:"product_id"        validate:"required,uuid"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string `json:"to_warehouse_id"   validate:"required,uuid"`
	Quantity        int    `json:"quantity"          validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type WarehouseResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	Stock      map[string]int  `json:"stock"` // warehouse id → quantity
	TotalStock int             `json:"total_stock"`
	MinStock   int             `json:"min_stock"`
	Active     bool            `json:"active"`
}

type StockTransferResponse struct {
	ID              string `json:"id"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int    `json:"quantity"`
	FromBefore      int    `json:"from_before"`
	FromAfter       int    `json:"from_after"`
	ToBefore        int    `json:"to_before"`
	ToAfter         int    `json:"to_after"`
	CreatedAt       string `json:"created_at"`
}

type StockAlertResponse struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	TotalStock int    `json:"total_stock"`
	MinStock   int    `json:"min_stock"`
}
