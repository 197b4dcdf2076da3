package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus: "draft" | "completed" | "voided"
type SaleStatus string

const (
	SaleDraft     SaleStatus = "draft"
	SaleCompleted SaleStatus = "completed"
	SaleVoided    SaleStatus = "voided"
)

// Sale is a point-of-sale transaction: the domain event the invoice bridge
// consumes. The generated invoice carries a LinkedDocumentID back to the
// sale; the sale itself is never written to by the bridge.
type Sale struct {
	ID           uuid.UUID       `json:"id"`
	TicketNumber int64           `json:"ticket_number"`
	SessionID    uuid.UUID       `json:"session_id"`
	Operator     string          `json:"operator"`
	Items        []SaleItem      `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Total        decimal.Decimal `json:"total"`
	Status       SaleStatus      `json:"status"`
	CustomerName string          `json:"customer_name"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SaleItem is one sold line, priced at sale time. WarehouseID records where
// the stock was taken from, so a void can put it back in the same place.
type SaleItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
