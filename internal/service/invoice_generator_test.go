package service

import (
	"context"
	"testing"
	"time"

	"ledgercore/internal/apierror"
	"ledgercore/internal/model"
	"ledgercore/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSale() *model.Sale {
	return &model.Sale{
		ID:           uuid.New(),
		TicketNumber: 42,
		SessionID:    uuid.New(),
		Operator:     "ana",
		CustomerName: "Walk-in",
		Items: []model.SaleItem{
			{ProductID: uuid.New(), ProductName: "Espresso beans", Quantity: 2, UnitPrice: dec("12.50"), Subtotal: dec("25")},
			{ProductID: uuid.New(), ProductName: "Filter papers", Quantity: 1, UnitPrice: dec("4"), Subtotal: dec("4")},
		},
		Subtotal:  dec("29"),
		Total:     dec("29"),
		Status:    model.SaleCompleted,
		CreatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestGenerateForSaleLinksInvoice(t *testing.T) {
	docRepo := repository.NewDocumentRepository(uuid.New, testClock())
	gen := NewInvoiceGenerator(docRepo)
	ctx := context.Background()
	sale := completedSale()

	invoice, err := gen.GenerateForSale(ctx, sale)
	require.NoError(t, err)

	assert.Equal(t, "sales", invoice.Kind)
	assert.Equal(t, "INV-000001", invoice.Sequence)
	require.NotNil(t, invoice.LinkedDocumentID)
	assert.Equal(t, sale.ID.String(), *invoice.LinkedDocumentID)
	assert.True(t, sale.Total.Equal(invoice.Total), "invoice total %s != sale total %s", invoice.Total, sale.Total)
	// A completed sale was collected at the till already.
	assert.Equal(t, string(model.StatusPaid), invoice.Status)
	assert.Equal(t, "Walk-in", invoice.CounterpartyName)
	require.Len(t, invoice.Items, 2)
	assert.Equal(t, "Espresso beans", invoice.Items[0].Description)

	// Due a month after the sale.
	require.NotNil(t, invoice.DueDate)
	assert.Equal(t, "2026-04-15", *invoice.DueDate)
}

func TestGenerateForSaleLeavesSaleUnmodified(t *testing.T) {
	docRepo := repository.NewDocumentRepository(uuid.New, testClock())
	gen := NewInvoiceGenerator(docRepo)
	sale := completedSale()
	before := *sale

	_, err := gen.GenerateForSale(context.Background(), sale)
	require.NoError(t, err)

	assert.Equal(t, before.Status, sale.Status)
	assert.Equal(t, before.ID, sale.ID)
	assert.True(t, before.Total.Equal(sale.Total))
	assert.Len(t, sale.Items, len(before.Items))
}

func TestGenerateForDraftSaleRejected(t *testing.T) {
	docRepo := repository.NewDocumentRepository(uuid.New, testClock())
	gen := NewInvoiceGenerator(docRepo)
	sale := completedSale()
	sale.Status = model.SaleDraft

	_, err := gen.GenerateForSale(context.Background(), sale)
	assert.ErrorIs(t, err, apierror.ErrInvalidState)

	// Nothing was written.
	docs, err := docRepo.List(context.Background(), model.KindSales)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestGenerateForNilSaleRejected(t *testing.T) {
	gen := NewInvoiceGenerator(repository.NewDocumentRepository(uuid.New, testClock()))

	_, err := gen.GenerateForSale(context.Background(), nil)
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestGenerateForVoidedSalePending(t *testing.T) {
	// Finalized but not completed: the invoice starts out pending.
	docRepo := repository.NewDocumentRepository(uuid.New, testClock())
	gen := NewInvoiceGenerator(docRepo)
	sale := completedSale()
	sale.Status = model.SaleVoided

	invoice, err := gen.GenerateForSale(context.Background(), sale)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPending), invoice.Status)
}
