package service

import (
	"context"
	"time"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/model"
	"ledgercore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentService is the arithmetic-aware layer above the document store:
// it computes line totals, discount, tax and grand total before anything is
// persisted, and it is where a missing id stops being a harmless no-op.
type DocumentService interface {
	CreateSales(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	CreatePurchase(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	Update(ctx context.Context, req dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, kind model.DocumentKind) ([]dto.DocumentResponse, error)
}

type documentService struct {
	repo repository.DocumentRepository
}

func NewDocumentService(repo repository.DocumentRepository) DocumentService {
	return &documentService{repo: repo}
}

// ── Totals ───────────────────────────────────────────────────────────────────

var hundred = decimal.NewFromInt(100)

// ComputeTotals fills Subtotal, DiscountAmount, TaxAmount and Total from the
// document's lines, discount and tax rate. Idempotent: recomputing from the
// same inputs yields identical results. Tax applies to the discounted base.
func ComputeTotals(doc *model.Document) {
	subtotal := decimal.Zero
	for i := range doc.Items {
		doc.Items[i].Total = doc.Items[i].Quantity.Mul(doc.Items[i].UnitPrice)
		subtotal = subtotal.Add(doc.Items[i].Total)
	}
	doc.Subtotal = subtotal

	switch doc.DiscountType {
	case model.DiscountPercent:
		doc.DiscountAmount = subtotal.Mul(doc.DiscountValue).Div(hundred)
	case model.DiscountFixed:
		doc.DiscountAmount = doc.DiscountValue
	default:
		doc.DiscountAmount = decimal.Zero
	}

	taxable := subtotal.Sub(doc.DiscountAmount)
	doc.TaxAmount = taxable.Mul(doc.TaxRate).Div(hundred)
	doc.Total = taxable.Add(doc.TaxAmount)
}

// ── CRUD ─────────────────────────────────────────────────────────────────────

func (s *documentService) CreateSales(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	return s.create(ctx, model.KindSales, req)
}

func (s *documentService) CreatePurchase(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	return s.create(ctx, model.KindPurchase, req)
}

func (s *documentService) create(ctx context.Context, kind model.DocumentKind, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	doc, err := documentFromRequest(kind, req)
	if err != nil {
		return nil, err
	}
	ComputeTotals(doc)
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return documentToResponse(doc), nil
}

func (s *documentService) Get(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	doc, ok := s.repo.FindByID(ctx, id)
	if !ok {
		return nil, apierror.NotFound("document %s not found", id)
	}
	return documentToResponse(doc), nil
}

func (s *documentService) Update(ctx context.Context, req dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, apierror.Validation("invalid document id: %v", err)
	}
	existing, ok := s.repo.FindByID(ctx, id)
	if !ok {
		return nil, apierror.NotFound("document %s not found", id)
	}
	doc, err := documentFromRequest(existing.Kind, req.CreateDocumentRequest)
	if err != nil {
		return nil, err
	}
	doc.ID = existing.ID
	doc.Sequence = existing.Sequence
	doc.LinkedDocumentID = existing.LinkedDocumentID
	doc.IssueDate = existing.IssueDate
	doc.CreatedAt = existing.CreatedAt
	ComputeTotals(doc)
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return documentToResponse(doc), nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.repo.FindByID(ctx, id); !ok {
		return apierror.NotFound("document %s not found", id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *documentService) List(ctx context.Context, kind model.DocumentKind) ([]dto.DocumentResponse, error) {
	docs, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, *documentToResponse(&docs[i]))
	}
	return out, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func documentFromRequest(kind model.DocumentKind, req dto.CreateDocumentRequest) (*model.Document, error) {
	doc := &model.Document{
		Kind:             kind,
		CounterpartyName: req.CounterpartyName,
		DiscountType:     model.DiscountType(req.DiscountType),
		DiscountValue:    req.DiscountValue,
		TaxRate:          req.TaxRate,
		Status:           model.StatusDraft,
		IssueDate:        time.Now(),
	}
	if req.Status != "" {
		doc.Status = model.DocumentStatus(req.Status)
	}
	if req.CounterpartyID != nil {
		cid, err := uuid.Parse(*req.CounterpartyID)
		if err != nil {
			return nil, apierror.Validation("invalid counterparty id: %v", err)
		}
		doc.CounterpartyID = &cid
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, apierror.Validation("invalid due date %q: expected YYYY-MM-DD", *req.DueDate)
		}
		doc.DueDate = &due
	}
	for _, item := range req.Items {
		doc.Items = append(doc.Items, model.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return doc, nil
}

func documentToResponse(d *model.Document) *dto.DocumentResponse {
	items := make([]dto.LineItemResponse, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, dto.LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}
	resp := &dto.DocumentResponse{
		ID:               d.ID.String(),
		Kind:             string(d.Kind),
		Sequence:         d.Sequence,
		CounterpartyName: d.CounterpartyName,
		Items:            items,
		Subtotal:         d.Subtotal,
		DiscountType:     string(d.DiscountType),
		DiscountValue:    d.DiscountValue,
		DiscountAmount:   d.DiscountAmount,
		TaxRate:          d.TaxRate,
		TaxAmount:        d.TaxAmount,
		Total:            d.Total,
		Status:           string(d.Status),
		IssueDate:        d.IssueDate.Format("2006-01-02"),
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
	}
	if d.CounterpartyID != nil {
		cid := d.CounterpartyID.String()
		resp.CounterpartyID = &cid
	}
	if d.LinkedDocumentID != nil {
		lid := d.LinkedDocumentID.String()
		resp.LinkedDocumentID = &lid
	}
	if d.DueDate != nil {
		due := d.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}
