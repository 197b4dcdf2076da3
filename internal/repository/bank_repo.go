package repository

import (
	"context"
	"sync"

	"ledgercore/internal/apierror"
	"ledgercore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankRepository owns accounts and their transactions. AddTransaction and
// DeleteTransaction mutate the owning account's balance under the same lock
// that stores or removes the record, so balance == sum(live transactions)
// holds at every observable point.
type BankRepository interface {
	CreateAccount(ctx context.Context, a *model.BankAccount) error
	FindAccountByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, bool)
	UpdateAccount(ctx context.Context, a *model.BankAccount) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	ListAccounts(ctx context.Context) ([]model.BankAccount, error)

	// AddTransaction appends tx and applies balance += tx.Amount atomically.
	AddTransaction(ctx context.Context, tx *model.BankTransaction) error
	FindTransactionByID(ctx context.Context, id uuid.UUID) (*model.BankTransaction, bool)
	// DeleteTransaction applies the inverse amount to the account balance
	// before removing the record.
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context, accountID uuid.UUID) ([]model.BankTransaction, error)
}

type bankRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*model.BankAccount
	order    []uuid.UUID
	txs      map[uuid.UUID]*model.BankTransaction
	txOrder  []uuid.UUID

	newID IDGenerator
	now   Clock
}

func NewBankRepository(newID IDGenerator, now Clock) BankRepository {
	return &bankRepo{
		accounts: make(map[uuid.UUID]*model.BankAccount),
		txs:      make(map[uuid.UUID]*model.BankTransaction),
		newID:    newID,
		now:      now,
	}
}

func (r *bankRepo) CreateAccount(_ context.Context, a *model.BankAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = r.newID()
	}
	a.CreatedAt = r.now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.accounts[a.ID] = &cp
	r.order = append(r.order, a.ID)
	return nil
}

func (r *bankRepo) FindAccountByID(_ context.Context, id uuid.UUID) (*model.BankAccount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, false
	}
	cp := *a
	return &cp, true
}

// UpdateAccount replaces name and currency only — the balance is owned by
// the transaction log and is never written directly.
func (r *bankRepo) UpdateAccount(_ context.Context, a *model.BankAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.accounts[a.ID]
	if !ok {
		return apierror.NotFound("bank account %s not found", a.ID)
	}
	existing.Name = a.Name
	existing.Currency = a.Currency
	existing.UpdatedAt = r.now()
	return nil
}

func (r *bankRepo) DeleteAccount(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return apierror.NotFound("bank account %s not found", id)
	}
	delete(r.accounts, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	// Drop orphaned transactions with the account.
	kept := r.txOrder[:0]
	for _, tid := range r.txOrder {
		if r.txs[tid].AccountID == id {
			delete(r.txs, tid)
			continue
		}
		kept = append(kept, tid)
	}
	r.txOrder = kept
	return nil
}

func (r *bankRepo) ListAccounts(_ context.Context) ([]model.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.BankAccount, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.accounts[id])
	}
	return out, nil
}

func (r *bankRepo) AddTransaction(_ context.Context, tx *model.BankTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[tx.AccountID]
	if !ok {
		return apierror.NotFound("bank account %s not found", tx.AccountID)
	}
	if tx.ID == uuid.Nil {
		tx.ID = r.newID()
	}
	if tx.Date.IsZero() {
		tx.Date = r.now()
	}
	tx.CreatedAt = r.now()
	cp := *tx
	r.txs[tx.ID] = &cp
	r.txOrder = append(r.txOrder, tx.ID)
	account.Balance = account.Balance.Add(tx.Amount)
	account.UpdatedAt = r.now()
	return nil
}

func (r *bankRepo) FindTransactionByID(_ context.Context, id uuid.UUID) (*model.BankTransaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, false
	}
	cp := *tx
	return &cp, true
}

func (r *bankRepo) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return apierror.NotFound("bank transaction %s not found", id)
	}
	// Reverse the balance effect first; removing without reversing would
	// break balance == sum(transactions).
	if account, ok := r.accounts[tx.AccountID]; ok {
		account.Balance = account.Balance.Sub(tx.Amount)
		account.UpdatedAt = r.now()
	}
	delete(r.txs, id)
	for i, tid := range r.txOrder {
		if tid == id {
			r.txOrder = append(r.txOrder[:i], r.txOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *bankRepo) ListTransactions(_ context.Context, accountID uuid.UUID) ([]model.BankTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.BankTransaction
	for _, tid := range r.txOrder {
		if tx := r.txs[tid]; tx.AccountID == accountID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

// SumTransactions recomputes the balance from the live transaction log.
// Exposed for reconciliation checks.
func SumTransactions(txs []model.BankTransaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	return sum
}
