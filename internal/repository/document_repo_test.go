package repository

import (
	"context"
	"testing"
	"time"

	"ledgercore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() Clock {
	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestDocumentRepoSequencesPerKind(t *testing.T) {
	repo := NewDocumentRepository(uuid.New, fixedClock())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &model.Document{Kind: model.KindSales}))
	}
	require.NoError(t, repo.Create(ctx, &model.Document{Kind: model.KindPurchase}))

	sales, err := repo.List(ctx, model.KindSales)
	require.NoError(t, err)
	purchases, err := repo.List(ctx, model.KindPurchase)
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", sales[0].Sequence)
	assert.Equal(t, "INV-000002", sales[1].Sequence)
	assert.Equal(t, "PUR-000001", purchases[0].Sequence)
}

// The raw store treats a missing id as a no-op on update and delete; the
// service layer above is where that becomes an error.
func TestDocumentRepoMissingIDIsNoOp(t *testing.T) {
	repo := NewDocumentRepository(uuid.New, fixedClock())
	ctx := context.Background()

	assert.NoError(t, repo.Update(ctx, &model.Document{ID: uuid.New(), Kind: model.KindSales}))
	assert.NoError(t, repo.Delete(ctx, uuid.New()))

	docs, err := repo.List(ctx, model.KindSales)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentRepoCopyOnRead(t *testing.T) {
	repo := NewDocumentRepository(uuid.New, fixedClock())
	ctx := context.Background()

	doc := &model.Document{Kind: model.KindSales, Status: model.StatusPending}
	require.NoError(t, repo.Create(ctx, doc))

	read, ok := repo.FindByID(ctx, doc.ID)
	require.True(t, ok)
	read.Status = model.StatusCancelled

	// Mutating the returned copy does not leak into the store.
	again, ok := repo.FindByID(ctx, doc.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusPending, again.Status)
}

func TestDocumentRepoDeleteRemovesFromOrder(t *testing.T) {
	repo := NewDocumentRepository(uuid.New, fixedClock())
	ctx := context.Background()

	first := &model.Document{Kind: model.KindSales}
	second := &model.Document{Kind: model.KindSales}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Delete(ctx, first.ID))

	docs, err := repo.List(ctx, model.KindSales)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, second.ID, docs[0].ID)
}

func TestSumTransactionsMatchesBalance(t *testing.T) {
	repo := NewBankRepository(uuid.New, fixedClock())
	ctx := context.Background()

	account := &model.BankAccount{Name: "Ops", Currency: "EUR"}
	require.NoError(t, repo.CreateAccount(ctx, account))

	amounts := []int64{500, -120, 75}
	for _, a := range amounts {
		require.NoError(t, repo.AddTransaction(ctx, &model.BankTransaction{
			AccountID: account.ID,
			Amount:    decimal.NewFromInt(a),
			Kind:      model.BankDeposit,
			Status:    model.BankCleared,
		}))
	}

	txs, err := repo.ListTransactions(ctx, account.ID)
	require.NoError(t, err)
	got, _ := repo.FindAccountByID(ctx, account.ID)
	assert.True(t, got.Balance.Equal(SumTransactions(txs)))
	assert.True(t, decimal.NewFromInt(455).Equal(got.Balance))
}
