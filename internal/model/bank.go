package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccount holds a running balance.
// Invariant: Balance equals the sum of the signed amounts of every live
// BankTransaction owned by the account. The repository applies each
// transaction's delta in the same guarded step that stores the record, so
// callers never observe one effect without the other.
type BankAccount struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BankTransactionKind: "deposit" | "payment" | "transfer"
type BankTransactionKind string

const (
	BankDeposit  BankTransactionKind = "deposit"
	BankPayment  BankTransactionKind = "payment"
	BankTransfer BankTransactionKind = "transfer"
)

// BankTransactionStatus: "cleared" | "pending"
type BankTransactionStatus string

const (
	BankCleared BankTransactionStatus = "cleared"
	BankPending BankTransactionStatus = "pending"
)

// BankTransaction is a signed movement on exactly one account.
// Positive amounts are inflows, negative amounts are outflows.
type BankTransaction struct {
	ID        uuid.UUID             `json:"id"`
	AccountID uuid.UUID             `json:"account_id"`
	Date      time.Time             `json:"date"`
	Amount    decimal.Decimal       `json:"amount"`
	Kind      BankTransactionKind   `json:"kind"`
	Status    BankTransactionStatus `json:"status"`
	// ReferenceID links to the document that produced the movement, if any.
	ReferenceID *uuid.UUID `json:"reference_id"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}
