package dto

import "github.com/shopspring/decimal"

// RecordPaymentRequest settles a document against the bank or cash ledger.
// AccountID is required when method is "bank" and ignored for "cash".
type RecordPaymentRequest struct {
	Kind       string          `json:"kind"       validate:"required,oneof=sales purchase"`
	DocumentID string          `json:"document_id" validate:"required,uuid"`
	Amount     decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Method     string          `json:"method"     validate:"required,oneof=bank cash"`
	AccountID  *string         `json:"account_id" validate:"omitempty,uuid"`
}

type RecordPaymentResponse struct {
	DocumentID     string `json:"document_id"`
	DocumentStatus string `json:"document_status"`
	Method         string `json:"method"`
	// PostingID is the id of the bank or cash transaction created.
	PostingID string `json:"posting_id"`
}
