package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LineItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"    validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"  validate:"min=0"`
}

type CreateDocumentRequest struct {
	CounterpartyID   *string           `json:"counterparty_id" validate:"omitempty,uuid"`
	CounterpartyName string            `json:"counterparty_name"`
	Items            []LineItemRequest `json:"items"          validate:"required,min=1,dive"`
	DiscountType     string            `json:"discount_type"  validate:"omitempty,oneof=percent fixed"`
	DiscountValue    decimal.Decimal   `json:"discount_value" validate:"min=0"`
	TaxRate          decimal.Decimal   `json:"tax_rate"       validate:"min=0"`
	Status           string            `json:"status"         validate:"omitempty,oneof=draft pending paid completed cancelled"`
	DueDate          *string           `json:"due_date"`
}

type UpdateDocumentRequest struct {
	// ID comes from the URL path, not the body.
	ID string `json:"-" validate:"omitempty,uuid"`
	CreateDocumentRequest
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type DocumentResponse struct {
	ID               string             `json:"id"`
	Kind             string             `json:"kind"`
	Sequence         string             `json:"sequence"`
	CounterpartyID   *string            `json:"counterparty_id"`
	CounterpartyName string             `json:"counterparty_name"`
	Items            []LineItemResponse `json:"items"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	DiscountType     string             `json:"discount_type"`
	DiscountValue    decimal.Decimal    `json:"discount_value"`
	DiscountAmount   decimal.Decimal    `json:"discount_amount"`
	TaxRate          decimal.Decimal    `json:"tax_rate"`
	TaxAmount        decimal.Decimal    `json:"tax_amount"`
	Total            decimal.Decimal    `json:"total"`
	Status           string             `json:"status"`
	LinkedDocumentID *string            `json:"linked_document_id"`
	IssueDate        string             `json:"issue_date"`
	DueDate          *string            `json:"due_date"`
	CreatedAt        string             `json:"created_at"`
}
