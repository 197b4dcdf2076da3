package service

import (
	"context"
	"time"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/model"
	"ledgercore/internal/repository"

	"github.com/google/uuid"
)

type StockService interface {
	CreateWarehouse(ctx context.Context, req dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error)
	ListWarehouses(ctx context.Context) ([]dto.WarehouseResponse, error)

	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)

	// Transfer moves quantity between two warehouses of one product.
	// Conservation holds: the product's total across warehouses is unchanged,
	// and the source never goes negative.
	Transfer(ctx context.Context, req dto.TransferStockRequest) (*dto.StockTransferResponse, error)
	ListTransfers(ctx context.Context) ([]dto.StockTransferResponse, error)

	// Adjust applies a signed manual correction in one warehouse, recording
	// an audit movement. Used for intake and stocktake corrections.
	Adjust(ctx context.Context, req dto.AdjustStockRequest) (*dto.ProductResponse, error)

	// Alerts lists active products whose total stock is at or below their
	// minimum.
	Alerts(ctx context.Context) ([]dto.StockAlertResponse, error)
}

type stockService struct {
	repo repository.StockRepository
}

func NewStockService(repo repository.StockRepository) StockService {
	return &stockService{repo: repo}
}

func (s *stockService) CreateWarehouse(ctx context.Context, req dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w := &model.Warehouse{Name: req.Name}
	if err := s.repo.CreateWarehouse(ctx, w); err != nil {
		return nil, err
	}
	return &dto.WarehouseResponse{ID: w.ID.String(), Name: w.Name}, nil
}

func (s *stockService) ListWarehouses(ctx context.Context) ([]dto.WarehouseResponse, error) {
	warehouses, err := s.repo.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, dto.WarehouseResponse{ID: w.ID.String(), Name: w.Name})
	}
	return out, nil
}

func (s *stockService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Name:     req.Name,
		SKU:      req.SKU,
		Price:    req.Price,
		MinStock: req.MinStock,
		Active:   true,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *stockService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, ok := s.repo.FindProductByID(ctx, id)
	if !ok {
		return nil, apierror.NotFound("product %s not found", id)
	}
	return productToResponse(p), nil
}

func (s *stockService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *stockService) Transfer(ctx context.Context, req dto.TransferStockRequest) (*dto.StockTransferResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid product id: %v", err)
	}
	fromID, err := uuid.Parse(req.FromWarehouseID)
	if err != nil {
		return nil, apierror.Validation("invalid source warehouse id: %v", err)
	}
	toID, err := uuid.Parse(req.ToWarehouseID)
	if err != nil {
		return nil, apierror.Validation("invalid destination warehouse id: %v", err)
	}
	if req.Quantity <= 0 {
		return nil, apierror.Validation("transfer quantity must be positive")
	}
	if fromID == toID {
		return nil, apierror.Validation("source and destination warehouses must differ")
	}
	if _, ok := s.repo.FindWarehouseByID(ctx, fromID); !ok {
		return nil, apierror.NotFound("warehouse %s not found", fromID)
	}
	if _, ok := s.repo.FindWarehouseByID(ctx, toID); !ok {
		return nil, apierror.NotFound("warehouse %s not found", toID)
	}

	transfer, err := s.repo.Transfer(ctx, productID, fromID, toID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return transferToResponse(transfer), nil
}

func (s *stockService) ListTransfers(ctx context.Context) ([]dto.StockTransferResponse, error) {
	transfers, err := s.repo.ListTransfers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockTransferResponse, 0, len(transfers))
	for i := range transfers {
		out = append(out, *transferToResponse(&transfers[i]))
	}
	return out, nil
}

func (s *stockService) Adjust(ctx context.Context, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid product id: %v", err)
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apierror.Validation("invalid warehouse id: %v", err)
	}
	if req.Delta == 0 {
		return nil, apierror.Validation("adjustment delta must be non-zero")
	}
	if _, ok := s.repo.FindWarehouseByID(ctx, warehouseID); !ok {
		return nil, apierror.NotFound("warehouse %s not found", warehouseID)
	}
	if _, err := s.repo.AdjustStock(ctx, productID, warehouseID, req.Delta, model.MovementAdjustment, req.Reason, nil); err != nil {
		return nil, err
	}
	p, _ := s.repo.FindProductByID(ctx, productID)
	return productToResponse(p), nil
}

func (s *stockService) Alerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	var alerts []dto.StockAlertResponse
	for i := range products {
		p := &products[i]
		if !p.Active {
			continue
		}
		if total := p.TotalStock(); total <= p.MinStock {
			alerts = append(alerts, dto.StockAlertResponse{
				ProductID:  p.ID.String(),
				Name:       p.Name,
				TotalStock: total,
				MinStock:   p.MinStock,
			})
		}
	}
	return alerts, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product) *dto.ProductResponse {
	stock := make(map[string]int, len(p.Stock))
	for warehouseID, qty := range p.Stock {
		stock[warehouseID.String()] = qty
	}
	return &dto.ProductResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		SKU:        p.SKU,
		Price:      p.Price,
		Stock:      stock,
		TotalStock: p.TotalStock(),
		MinStock:   p.MinStock,
		Active:     p.Active,
	}
}

func transferToResponse(t *model.StockTransfer) *dto.StockTransferResponse {
	return &dto.StockTransferResponse{
		ID:              t.ID.String(),
		ProductID:       t.ProductID.String(),
		ProductName:     t.ProductName,
		FromWarehouseID: t.FromWarehouseID.String(),
		ToWarehouseID:   t.ToWarehouseID.String(),
		Quantity:        t.Quantity,
		FromBefore:      t.FromBefore,
		FromAfter:       t.FromAfter,
		ToBefore:        t.ToBefore,
		ToAfter:         t.ToAfter,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
}
