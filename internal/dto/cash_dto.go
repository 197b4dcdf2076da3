package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	Operator       string          `json:"operator"        validate:"required,min=2"`
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
}

type CloseSessionRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount" validate:"min=0"`
	Notes         *string         `json:"notes"`
}

type AddCashTransactionRequest struct {
	Kind        string          `json:"kind"        validate:"required,oneof=sale expense"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VarianceResponse struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Class      string          `json:"class"` // normal | warning | critical
}

type CloseSessionResponse struct {
	SessionID       string           `json:"session_id"`
	ExpectedBalance decimal.Decimal  `json:"expected_balance"`
	CountedAmount   decimal.Decimal  `json:"counted_amount"`
	Variance        VarianceResponse `json:"variance"`
	Status          string           `json:"status"`
}

type CashTransactionResponse struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"session_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
}

type SessionReportResponse struct {
	SessionID       string                    `json:"session_id"`
	Operator        string                    `json:"operator"`
	OpeningBalance  decimal.Decimal           `json:"opening_balance"`
	ExpectedBalance decimal.Decimal           `json:"expected_balance"`
	ClosingBalance  *decimal.Decimal          `json:"closing_balance"`
	Variance        *VarianceResponse         `json:"variance"`
	Status          string                    `json:"status"`
	Notes           *string                   `json:"notes"`
	Transactions    []CashTransactionResponse `json:"transactions"`
	OpenedAt        string                    `json:"opened_at"`
	ClosedAt        *string                   `json:"closed_at"`
}
