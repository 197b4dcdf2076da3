package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ledgercore/internal/model"
	"ledgercore/internal/repository"
	"ledgercore/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestInvoiceWorkerGeneratesLinkedInvoice(t *testing.T) {
	ctx := context.Background()
	saleRepo := repository.NewSaleRepository(uuid.New, fixedClock())
	docRepo := repository.NewDocumentRepository(uuid.New, fixedClock())
	w := NewInvoiceWorker(saleRepo, service.NewInvoiceGenerator(docRepo))

	sale := &model.Sale{
		Operator:     "ana",
		CustomerName: "Walk-in",
		Items: []model.SaleItem{
			{ProductID: uuid.New(), ProductName: "Espresso beans", Quantity: 2, UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(20)},
		},
		Subtotal: decimal.NewFromInt(20),
		Total:    decimal.NewFromInt(20),
		Status:   model.SaleCompleted,
	}
	require.NoError(t, saleRepo.Create(ctx, sale))

	payload, err := json.Marshal(InvoicePayload{SaleID: sale.ID.String()})
	require.NoError(t, err)
	require.NoError(t, w.Handle(ctx, payload))

	docs, err := docRepo.List(ctx, model.KindSales)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.NotNil(t, docs[0].LinkedDocumentID)
	assert.Equal(t, sale.ID, *docs[0].LinkedDocumentID)
	assert.True(t, decimal.NewFromInt(20).Equal(docs[0].Total))
}

func TestInvoiceWorkerToleratesMissingSale(t *testing.T) {
	ctx := context.Background()
	saleRepo := repository.NewSaleRepository(uuid.New, fixedClock())
	docRepo := repository.NewDocumentRepository(uuid.New, fixedClock())
	w := NewInvoiceWorker(saleRepo, service.NewInvoiceGenerator(docRepo))

	payload, err := json.Marshal(InvoicePayload{SaleID: uuid.NewString()})
	require.NoError(t, err)

	// A sale that vanished before the job ran is logged and skipped, not an
	// error that would retry forever.
	assert.NoError(t, w.Handle(ctx, payload))

	docs, err := docRepo.List(ctx, model.KindSales)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestInvoiceWorkerRejectsBadPayload(t *testing.T) {
	w := NewInvoiceWorker(
		repository.NewSaleRepository(uuid.New, fixedClock()),
		service.NewInvoiceGenerator(repository.NewDocumentRepository(uuid.New, fixedClock())),
	)

	assert.Error(t, w.Handle(context.Background(), json.RawMessage(`{not json`)))
	assert.Error(t, w.Handle(context.Background(), json.RawMessage(`{"sale_id":"not-a-uuid"}`)))
}
