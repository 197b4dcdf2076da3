package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateBankAccountRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Currency string `json:"currency" validate:"required,len=3"`
}

type UpdateBankAccountRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Currency string `json:"currency" validate:"required,len=3"`
}

type AddBankTransactionRequest struct {
	AccountID   string          `json:"account_id"  validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Kind        string          `json:"kind"        validate:"required,oneof=deposit payment transfer"`
	Status      string          `json:"status"      validate:"omitempty,oneof=cleared pending"`
	Description string          `json:"description"`
	Date        *string         `json:"date"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BankAccountResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

type BankTransactionResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	Status      string          `json:"status"`
	ReferenceID *string         `json:"reference_id"`
	Description string          `json:"description"`
}
