package service

import (
	"context"
	"fmt"
	"time"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/model"
	"ledgercore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InvoiceEnqueuer decouples the sale flow from the worker package; the
// dispatcher satisfies it.
type InvoiceEnqueuer interface {
	EnqueueInvoice(ctx context.Context, payload interface{}) error
}

type SaleService interface {
	// RegisterSale records a point-of-sale transaction: validates the open
	// cash session, checks and decrements stock, posts the cash movement and
	// fires invoice generation. All-or-nothing on its stock and cash effects.
	RegisterSale(ctx context.Context, req dto.RegisterSaleRequest) (*dto.SaleResponse, error)
	// VoidSale restores stock and posts inverse cash entries. The invoice
	// generated for the sale is NOT retracted — see InvoiceGenerator.
	VoidSale(ctx context.Context, id uuid.UUID, reason string) error
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context) ([]dto.SaleResponse, error)
}

type saleService struct {
	sales      repository.SaleRepository
	stock      repository.StockRepository
	cash       repository.CashRepository
	dispatcher InvoiceEnqueuer
}

func NewSaleService(
	sales repository.SaleRepository,
	stock repository.StockRepository,
	cash repository.CashRepository,
	dispatcher InvoiceEnqueuer,
) SaleService {
	return &saleService{sales: sales, stock: stock, cash: cash, dispatcher: dispatcher}
}

func (s *saleService) RegisterSale(ctx context.Context, req dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	session, ok := s.cash.FindOpenSession(ctx)
	if !ok {
		return nil, apierror.InvalidState("no open cash session; open one before selling")
	}

	// Pre-flight: resolve every product and check availability before any
	// mutation, so a failing line rejects the whole sale.
	type resolvedItem struct {
		productID   uuid.UUID
		warehouseID uuid.UUID
		name        string
		price       decimal.Decimal
		quantity    int
	}
	var resolved []resolvedItem
	subtotal := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation("invalid product id: %v", err)
		}
		wid, err := uuid.Parse(item.WarehouseID)
		if err != nil {
			return nil, apierror.Validation("invalid warehouse id: %v", err)
		}
		p, ok := s.stock.FindProductByID(ctx, pid)
		if !ok {
			return nil, apierror.NotFound("product %s not found", item.ProductID)
		}
		if !p.Active {
			return nil, apierror.InvalidState("product %q is inactive and cannot be sold", p.Name)
		}
		if p.Stock[wid] < item.Quantity {
			return nil, apierror.InsufficientStock(
				"product %q has %d units in the selected warehouse, %d requested",
				p.Name, p.Stock[wid], item.Quantity)
		}
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		resolved = append(resolved, resolvedItem{
			productID:   pid,
			warehouseID: wid,
			name:        p.Name,
			price:       p.Price,
			quantity:    item.Quantity,
		})
	}

	sale := &model.Sale{
		SessionID:    session.ID,
		Operator:     req.Operator,
		CustomerName: req.CustomerName,
		Subtotal:     subtotal,
		Total:        subtotal,
		Status:       model.SaleCompleted,
	}
	for _, r := range resolved {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID:   r.productID,
			WarehouseID: r.warehouseID,
			ProductName: r.name,
			Quantity:    r.quantity,
			UnitPrice:   r.price,
			Subtotal:    r.price.Mul(decimal.NewFromInt(int64(r.quantity))),
		})
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}

	// Decrement stock, recording a movement per line. On a failure past the
	// pre-flight (possible only under unserialized concurrent mutation) the
	// applied decrements are compensated before returning.
	saleRef := sale.ID
	reason := fmt.Sprintf("Sale #%d", sale.TicketNumber)
	for i, r := range resolved {
		_, err := s.stock.AdjustStock(ctx, r.productID, r.warehouseID, -r.quantity, model.MovementSale, reason, &saleRef)
		if err != nil {
			for j := 0; j < i; j++ {
				rr := resolved[j]
				if _, rbErr := s.stock.AdjustStock(ctx, rr.productID, rr.warehouseID, rr.quantity, model.MovementVoidRestore, reason+" (rollback)", &saleRef); rbErr != nil {
					log.Error().Err(rbErr).Str("sale_id", sale.ID.String()).Msg("stock rollback failed")
				}
			}
			return nil, err
		}
	}

	cashTx := &model.CashTransaction{
		SessionID:   session.ID,
		Kind:        model.CashSale,
		Amount:      sale.Total,
		Description: reason,
		ReferenceID: &saleRef,
	}
	if err := s.cash.AddTransaction(ctx, cashTx); err != nil {
		return nil, err
	}

	// Fire-and-forget invoice generation.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueInvoice(ctx, map[string]string{"sale_id": sale.ID.String()}); err != nil {
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("invoice job not enqueued")
		}
	}

	return saleToResponse(sale), nil
}

func (s *saleService) VoidSale(ctx context.Context, id uuid.UUID, reason string) error {
	sale, ok := s.sales.FindByID(ctx, id)
	if !ok {
		return apierror.NotFound("sale %s not found", id)
	}
	if sale.Status == model.SaleVoided {
		return apierror.InvalidState("sale %s is already voided", id)
	}

	// Refunds go through the till, so a session must be open.
	session, open := s.cash.FindOpenSession(ctx)
	if !open {
		return apierror.InvalidState("no open cash session to post the refund into")
	}

	saleRef := sale.ID
	desc := fmt.Sprintf("Void of sale #%d — %s", sale.TicketNumber, reason)
	for _, item := range sale.Items {
		if _, err := s.stock.AdjustStock(ctx, item.ProductID, item.WarehouseID, item.Quantity, model.MovementVoidRestore, desc, &saleRef); err != nil {
			return err
		}
	}

	cashTx := &model.CashTransaction{
		SessionID:   session.ID,
		Kind:        model.CashExpense,
		Amount:      sale.Total.Neg(),
		Description: desc,
		ReferenceID: &saleRef,
	}
	if err := s.cash.AddTransaction(ctx, cashTx); err != nil {
		return err
	}

	return s.sales.UpdateStatus(ctx, id, model.SaleVoided)
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, ok := s.sales.FindByID(ctx, id)
	if !ok {
		return nil, apierror.NotFound("sale %s not found", id)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context) ([]dto.SaleResponse, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *saleToResponse(&sales[i]))
	}
	return out, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:           sale.ID.String(),
		TicketNumber: sale.TicketNumber,
		SessionID:    sale.SessionID.String(),
		Operator:     sale.Operator,
		Items:        items,
		Subtotal:     sale.Subtotal,
		Total:        sale.Total,
		Status:       string(sale.Status),
		CreatedAt:    sale.CreatedAt.Format(time.RFC3339),
	}
}
