package service

import (
	"context"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/model"
	"ledgercore/internal/repository"

	"github.com/shopspring/decimal"
)

// InvoiceGenerator bridges a finalized domain sale into an auto-created,
// linked invoice in the document store.
//
// This is a one-way, fire-and-forget bridge: no back-reference is written
// onto the sale, and nothing retracts the generated invoice if the sale is
// later voided or deleted. Callers who void sales must handle the orphaned
// invoice themselves.
type InvoiceGenerator interface {
	GenerateForSale(ctx context.Context, sale *model.Sale) (*dto.DocumentResponse, error)
}

type invoiceGenerator struct {
	docs repository.DocumentRepository
}

func NewInvoiceGenerator(docs repository.DocumentRepository) InvoiceGenerator {
	return &invoiceGenerator{docs: docs}
}

// GenerateForSale maps each sale line into a generic invoice line and creates
// the invoice. Draft sales are rejected — only finalized sales cross the
// bridge, and the generated invoice is never draft.
func (g *invoiceGenerator) GenerateForSale(ctx context.Context, sale *model.Sale) (*dto.DocumentResponse, error) {
	if sale == nil {
		return nil, apierror.Validation("sale is required")
	}
	if sale.Status == model.SaleDraft {
		return nil, apierror.InvalidState("sale %s is a draft and cannot be invoiced", sale.ID)
	}

	items := make([]model.LineItem, 0, len(sale.Items))
	for _, line := range sale.Items {
		items = append(items, model.LineItem{
			Description: line.ProductName,
			Quantity:    decimal.NewFromInt(int64(line.Quantity)),
			UnitPrice:   line.UnitPrice,
		})
	}

	saleID := sale.ID
	due := sale.CreatedAt.AddDate(0, 1, 0)
	doc := &model.Document{
		Kind:             model.KindSales,
		CounterpartyName: sale.CustomerName,
		Items:            items,
		Status:           invoiceStatusFor(sale.Status),
		LinkedDocumentID: &saleID,
		IssueDate:        sale.CreatedAt,
		DueDate:          &due,
	}
	ComputeTotals(doc)

	if err := g.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	return documentToResponse(doc), nil
}

// invoiceStatusFor derives the invoice status from the sale's: a completed
// sale was already collected at the till, so its invoice is paid; anything
// else finalized starts out pending.
func invoiceStatusFor(status model.SaleStatus) model.DocumentStatus {
	if status == model.SaleCompleted {
		return model.StatusPaid
	}
	return model.StatusPending
}
