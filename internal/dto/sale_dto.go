package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID   string `json:"product_id"   validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity"     validate:"required,gt=0"`
}

type RegisterSaleRequest struct {
	Operator     string            `json:"operator"      validate:"required,min=2"`
	CustomerName string            `json:"customer_name"`
	Items        []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID           string             `json:"id"`
	TicketNumber int64              `json:"ticket_number"`
	SessionID    string             `json:"session_id"`
	Operator     string             `json:"operator"`
	Items        []SaleItemResponse `json:"items"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Total        decimal.Decimal    `json:"total"`
	Status       string             `json:"status"`
	CreatedAt    string             `json:"created_at"`
}
