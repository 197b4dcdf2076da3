package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes the two document families in the store.
type DocumentKind string

const (
	KindSales    DocumentKind = "sales"
	KindPurchase DocumentKind = "purchase"
)

// DocumentStatus is the document lifecycle. Sales documents settle as
// "paid", purchase documents as "completed".
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusPending   DocumentStatus = "pending"
	StatusPaid      DocumentStatus = "paid"
	StatusCompleted DocumentStatus = "completed"
	StatusCancelled DocumentStatus = "cancelled"
)

// Settled reports whether the status is terminal for payment purposes.
func (s DocumentStatus) Settled() bool {
	return s == StatusPaid || s == StatusCompleted || s == StatusCancelled
}

// DiscountType selects how DiscountValue is interpreted.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// LineItem is a single document line. Total = Quantity * UnitPrice, computed
// by the service layer; the store holds lines verbatim.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Document is a sales invoice or a purchase bill.
// Invariant (maintained by DocumentService, not by the repository):
//
//	Total = Subtotal - DiscountAmount + TaxAmount
//
// recomputed whenever subtotal, discount or tax rate change.
type Document struct {
	ID       uuid.UUID    `json:"id"`
	Kind     DocumentKind `json:"kind"`
	Sequence string       `json:"sequence"`

	CounterpartyID   *uuid.UUID `json:"counterparty_id"`
	CounterpartyName string     `json:"counterparty_name"`

	Items []LineItem `json:"items"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountType   DiscountType    `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxRate        decimal.Decimal `json:"tax_rate"` // percent, e.g. 19
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`

	Status DocumentStatus `json:"status"`

	// LinkedDocumentID points back to the domain sale when the document was
	// auto-generated by the invoice bridge. One-way: the sale carries no
	// reference to this document.
	LinkedDocumentID *uuid.UUID `json:"linked_document_id"`

	IssueDate time.Time  `json:"issue_date"`
	DueDate   *time.Time `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
