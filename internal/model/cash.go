package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashSessionStatus: "open" | "closed"
type CashSessionStatus string

const (
	SessionOpen   CashSessionStatus = "open"
	SessionClosed CashSessionStatus = "closed"
)

// VarianceClass buckets the closing variance for reconciliation review.
type VarianceClass string

const (
	VarianceNormal   VarianceClass = "normal"
	VarianceWarning  VarianceClass = "warning"
	VarianceCritical VarianceClass = "critical"
)

// CashSession represents the lifecycle of a till session.
// Invariant: at most one session system-wide has status "open" — enforced by
// the repository with an atomic check-and-set on open and check-and-clear on
// close.
type CashSession struct {
	ID             uuid.UUID       `json:"id"`
	Operator       string          `json:"operator"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	// ExpectedBalance is the running total: opening balance plus every
	// session-scoped transaction, reconciled against a physical count at close.
	ExpectedBalance decimal.Decimal   `json:"expected_balance"`
	ClosingBalance  *decimal.Decimal  `json:"closing_balance"`
	Variance        *decimal.Decimal  `json:"variance"`
	VariancePct     *decimal.Decimal  `json:"variance_pct"`
	VarianceClass   *VarianceClass    `json:"variance_class"`
	Status          CashSessionStatus `json:"status"`
	Notes           *string           `json:"notes"`
	OpenedAt        time.Time         `json:"opened_at"`
	ClosedAt        *time.Time        `json:"closed_at"`
}

// CashTransactionKind: "sale" | "expense"
type CashTransactionKind string

const (
	CashSale    CashTransactionKind = "sale"
	CashExpense CashTransactionKind = "expense"
)

// CashTransaction is an immutable event in a session's ledger, owned by the
// session that was open at creation time. Entries are never modified or
// deleted — corrections post inverse entries.
type CashTransaction struct {
	ID          uuid.UUID           `json:"id"`
	SessionID   uuid.UUID           `json:"session_id"`
	Kind        CashTransactionKind `json:"kind"`
	Amount      decimal.Decimal     `json:"amount"` // signed
	Description string              `json:"description"`
	ReferenceID *uuid.UUID          `json:"reference_id"`
	CreatedAt   time.Time           `json:"created_at"`
}
