package service

import (
	"context"
	"testing"

	"ledgercore/internal/apierror"
	"ledgercore/internal/config"
	"ledgercore/internal/dto"
	"ledgercore/internal/model"
	"ledgercore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	docs     DocumentService
	docRepo  repository.DocumentRepository
	bank     BankService
	bankRepo repository.BankRepository
	cash     CashService
	payments PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	docRepo := repository.NewDocumentRepository(uuid.New, testClock())
	bankRepo := repository.NewBankRepository(uuid.New, testClock())
	cashRepo := repository.NewCashRepository(uuid.New, testClock())
	bank := NewBankService(bankRepo, testConfig())
	cash := NewCashService(cashRepo, testConfig())
	return &paymentFixture{
		docs:     NewDocumentService(docRepo),
		docRepo:  docRepo,
		bank:     bank,
		bankRepo: bankRepo,
		cash:     cash,
		payments: NewPaymentService(docRepo, bank, cash),
	}
}

func (f *paymentFixture) pendingSalesDoc(t *testing.T, total string) *dto.DocumentResponse {
	t.Helper()
	doc, err := f.docs.CreateSales(context.Background(), dto.CreateDocumentRequest{
		CounterpartyName: "Acme",
		Items:            []dto.LineItemRequest{{Description: "Consulting", Quantity: dec("1"), UnitPrice: dec(total)}},
		Status:           "pending",
	})
	require.NoError(t, err)
	return doc
}

func (f *paymentFixture) pendingPurchaseDoc(t *testing.T, total string) *dto.DocumentResponse {
	t.Helper()
	doc, err := f.docs.CreatePurchase(context.Background(), dto.CreateDocumentRequest{
		CounterpartyName: "Supplies Inc",
		Items:            []dto.LineItemRequest{{Description: "Paper", Quantity: dec("1"), UnitPrice: dec(total)}},
		Status:           "pending",
	})
	require.NoError(t, err)
	return doc
}

func (f *paymentFixture) bankAccount(t *testing.T) *dto.BankAccountResponse {
	t.Helper()
	account, err := f.bank.CreateAccount(context.Background(), dto.CreateBankAccountRequest{
		Name: "Operating", Currency: "EUR",
	})
	require.NoError(t, err)
	return account
}

func TestRecordSalesPaymentViaBank(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	doc := f.pendingSalesDoc(t, "500")
	account := f.bankAccount(t)

	resp, err := f.payments.RecordDocumentPayment(ctx, dto.RecordPaymentRequest{
		Kind:       "sales",
		DocumentID: doc.ID,
		Amount:     dec("500"),
		Method:     "bank",
		AccountID:  &account.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "paid", resp.DocumentStatus)

	got, err := f.docs.Get(ctx, uuid.MustParse(doc.ID))
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Status)

	// Inflow of the full amount, referenced back to the document.
	acc, err := f.bank.GetAccount(ctx, uuid.MustParse(account.ID))
	require.NoError(t, err)
	assert.True(t, dec("500").Equal(acc.Balance))

	txs, err := f.bank.ListTransactions(ctx, uuid.MustParse(account.ID))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, resp.PostingID, txs[0].ID)
	assert.Equal(t, "deposit", txs[0].Kind)
	assert.Equal(t, "cleared", txs[0].Status)
	require.NotNil(t, txs[0].ReferenceID)
	assert.Equal(t, doc.ID, *txs[0].ReferenceID)
}

func TestRecordPurchasePaymentViaCash(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	doc := f.pendingPurchaseDoc(t, "80")

	opened, err := f.cash.OpenSession(ctx, dto.OpenSessionRequest{Operator: "ana", OpeningBalance: dec("200")})
	require.NoError(t, err)

	resp, err := f.payments.RecordDocumentPayment(ctx, dto.RecordPaymentRequest{
		Kind:       "purchase",
		DocumentID: doc.ID,
		Amount:     dec("80"),
		Method:     "cash",
	})
	require.NoError(t, err)

	// Purchases settle as completed and post an outflow.
	assert.Equal(t, "completed", resp.DocumentStatus)

	report, err := f.cash.Report(ctx, uuid.MustParse(opened.SessionID))
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(report.ExpectedBalance), "expected balance: %s", report.ExpectedBalance)
	require.Len(t, report.Transactions, 1)
	assert.Equal(t, "expense", report.Transactions[0].Kind)
	assert.True(t, dec("-80").Equal(report.Transactions[0].Amount))
}

func TestRecordPaymentMissingDocument(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.payments.RecordDocumentPayment(context.Background(), dto.RecordPaymentRequest{
		Kind:       "sales",
		DocumentID: uuid.NewString(),
		Amount:     dec("10"),
		Method:     "cash",
	})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestRecordPaymentKindMismatch(t *testing.T) {
	f := newPaymentFixture(t)
	doc := f.pendingSalesDoc(t, "10")

	_, err := f.payments.RecordDocumentPayment(context.Background(), dto.RecordPaymentRequest{
		Kind:       "purchase",
		DocumentID: doc.ID,
		Amount:     dec("10"),
		Method:     "cash",
	})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestRecordPaymentSettledDocument(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	doc := f.pendingSalesDoc(t, "10")
	account := f.bankAccount(t)

	req := dto.RecordPaymentRequest{
		Kind:       "sales",
		DocumentID: doc.ID,
		Amount:     dec("10"),
		Method:     "bank",
		AccountID:  &account.ID,
	}
	_, err := f.payments.RecordDocumentPayment(ctx, req)
	require.NoError(t, err)

	// A second payment against the now-paid document is rejected and the
	// ledger sees exactly one posting.
	_, err = f.payments.RecordDocumentPayment(ctx, req)
	assert.ErrorIs(t, err, apierror.ErrInvalidState)

	txs, err := f.bank.ListTransactions(ctx, uuid.MustParse(account.ID))
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestRecordPaymentNonPositiveAmount(t *testing.T) {
	f := newPaymentFixture(t)
	doc := f.pendingSalesDoc(t, "10")

	_, err := f.payments.RecordDocumentPayment(context.Background(), dto.RecordPaymentRequest{
		Kind:       "sales",
		DocumentID: doc.ID,
		Amount:     decimal.Zero,
		Method:     "cash",
	})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestRecordPaymentRollsBackStatusWhenPostingFails(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	doc := f.pendingSalesDoc(t, "100")

	// No cash session is open, so the posting fails after the status flip.
	_, err := f.payments.RecordDocumentPayment(ctx, dto.RecordPaymentRequest{
		Kind:       "sales",
		DocumentID: doc.ID,
		Amount:     dec("100"),
		Method:     "cash",
	})
	assert.ErrorIs(t, err, apierror.ErrInvalidState)

	// The compensation restored the document, so it stays payable.
	got, err := f.docs.Get(ctx, uuid.MustParse(doc.ID))
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
}

func TestRecordPaymentBankWithoutAccountRollsBack(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	doc := f.pendingPurchaseDoc(t, "50")

	_, err := f.payments.RecordDocumentPayment(ctx, dto.RecordPaymentRequest{
		Kind:       "purchase",
		DocumentID: doc.ID,
		Amount:     dec("50"),
		Method:     "bank",
	})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	got, err := f.docs.Get(ctx, uuid.MustParse(doc.ID))
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
}

func TestRecordPaymentDenyPolicyStillSettles(t *testing.T) {
	// The delete policy only governs deletion; settling payments is
	// unaffected by it.
	docRepo := repository.NewDocumentRepository(uuid.New, testClock())
	cfg := testConfig()
	cfg.BankTxDeletePolicy = config.DeletePolicyDeny
	bank := NewBankService(repository.NewBankRepository(uuid.New, testClock()), cfg)
	cash := NewCashService(repository.NewCashRepository(uuid.New, testClock()), cfg)
	docs := NewDocumentService(docRepo)
	payments := NewPaymentService(docRepo, bank, cash)

	ctx := context.Background()
	doc, err := docs.CreateSales(ctx, dto.CreateDocumentRequest{
		Items:  []dto.LineItemRequest{{Description: "X", Quantity: dec("1"), UnitPrice: dec("10")}},
		Status: "pending",
	})
	require.NoError(t, err)
	account, err := bank.CreateAccount(ctx, dto.CreateBankAccountRequest{Name: "Ops", Currency: "EUR"})
	require.NoError(t, err)

	resp, err := payments.RecordDocumentPayment(ctx, dto.RecordPaymentRequest{
		Kind:       "sales",
		DocumentID: doc.ID,
		Amount:     dec("10"),
		Method:     "bank",
		AccountID:  &account.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPaid), resp.DocumentStatus)
}
