package worker

import (
	"context"
	"encoding/json"

	"ledgercore/internal/repository"
	"ledgercore/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InvoicePayload is what the sale flow enqueues after commit.
type InvoicePayload struct {
	SaleID string `json:"sale_id"`
}

// InvoiceWorker turns finalized sales into linked invoices via the generator.
type InvoiceWorker struct {
	sales     repository.SaleRepository
	generator service.InvoiceGenerator
}

func NewInvoiceWorker(sales repository.SaleRepository, generator service.InvoiceGenerator) *InvoiceWorker {
	return &InvoiceWorker{sales: sales, generator: generator}
}

func (w *InvoiceWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p InvoicePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	saleID, err := uuid.Parse(p.SaleID)
	if err != nil {
		return err
	}
	sale, ok := w.sales.FindByID(ctx, saleID)
	if !ok {
		log.Warn().Str("sale_id", p.SaleID).Msg("sale gone before invoicing")
		return nil
	}
	invoice, err := w.generator.GenerateForSale(ctx, sale)
	if err != nil {
		return err
	}
	log.Info().
		Str("sale_id", p.SaleID).
		Str("invoice_id", invoice.ID).
		Str("sequence", invoice.Sequence).
		Msg("invoice generated")
	return nil
}
