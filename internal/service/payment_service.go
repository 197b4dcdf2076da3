package service

import (
	"context"
	"fmt"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/model"
	"ledgercore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Payment methods accepted by the router.
const (
	MethodBank = "bank"
	MethodCash = "cash"
)

// PaymentService routes a payment event into a document-status change plus
// exactly one posting into the bank or cash ledger.
type PaymentService interface {
	// RecordDocumentPayment settles the document and posts the movement.
	// The status update happens first; if the posting then fails, the status
	// is rolled back so callers never observe a settled document without its
	// ledger entry.
	RecordDocumentPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error)
}

type paymentService struct {
	docs repository.DocumentRepository
	bank BankService
	cash CashService
}

func NewPaymentService(docs repository.DocumentRepository, bank BankService, cash CashService) PaymentService {
	return &paymentService{docs: docs, bank: bank, cash: cash}
}

func (s *paymentService) RecordDocumentPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("payment amount must be positive")
	}
	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return nil, apierror.Validation("invalid document id: %v", err)
	}

	// Unlike the raw store, a missing document here is a caller error.
	doc, ok := s.docs.FindByID(ctx, docID)
	if !ok {
		return nil, apierror.NotFound("document %s not found", docID)
	}
	if string(doc.Kind) != req.Kind {
		return nil, apierror.Validation("document %s is a %s document, not %s", docID, doc.Kind, req.Kind)
	}
	if doc.Status.Settled() {
		return nil, apierror.InvalidState("document %s is already settled (%s)", docID, doc.Status)
	}

	// Sales settle as paid, purchases as completed.
	settled := model.StatusPaid
	if doc.Kind == model.KindPurchase {
		settled = model.StatusCompleted
	}
	previous := doc.Status
	doc.Status = settled
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, err
	}

	// Sign convention: sales payments are inflows, purchase payments outflows.
	amount := req.Amount
	kind := model.BankDeposit
	cashKind := model.CashSale
	if doc.Kind == model.KindPurchase {
		amount = amount.Neg()
		kind = model.BankPayment
		cashKind = model.CashExpense
	}

	var postingID uuid.UUID
	switch req.Method {
	case MethodBank:
		postingID, err = s.postBank(ctx, doc, amount, kind, req.AccountID)
	case MethodCash:
		postingID, err = s.postCash(ctx, doc, amount, cashKind)
	default:
		err = apierror.Validation("unknown payment method %q", req.Method)
	}
	if err != nil {
		// Compensate: the posting failed, so the settlement must not stick.
		doc.Status = previous
		if rbErr := s.docs.Update(ctx, doc); rbErr != nil {
			log.Error().Err(rbErr).Str("document_id", docID.String()).
				Msg("status rollback failed after posting error")
		}
		return nil, err
	}

	return &dto.RecordPaymentResponse{
		DocumentID:     docID.String(),
		DocumentStatus: string(settled),
		Method:         req.Method,
		PostingID:      postingID.String(),
	}, nil
}

func (s *paymentService) postBank(ctx context.Context, doc *model.Document, amount decimal.Decimal, kind model.BankTransactionKind, accountID *string) (uuid.UUID, error) {
	if accountID == nil {
		return uuid.Nil, apierror.Validation("account_id is required for bank payments")
	}
	aid, err := uuid.Parse(*accountID)
	if err != nil {
		return uuid.Nil, apierror.Validation("invalid account id: %v", err)
	}
	ref := doc.ID
	tx := &model.BankTransaction{
		AccountID: aid,
		Amount:    amount,
		Kind:      kind,
		// Cleared immediately — there is no pending/clearing state machine
		// for router-synthesized transactions.
		Status:      model.BankCleared,
		ReferenceID: &ref,
		Description: fmt.Sprintf("Payment for %s", doc.Sequence),
	}
	if err := s.bank.Post(ctx, tx); err != nil {
		return uuid.Nil, err
	}
	return tx.ID, nil
}

func (s *paymentService) postCash(ctx context.Context, doc *model.Document, amount decimal.Decimal, kind model.CashTransactionKind) (uuid.UUID, error) {
	ref := doc.ID
	tx := &model.CashTransaction{
		Kind:        kind,
		Amount:      amount,
		ReferenceID: &ref,
		Description: fmt.Sprintf("Payment for %s", doc.Sequence),
	}
	// Post resolves the currently open session; no open session is an
	// InvalidState, never a silently dropped payment.
	if err := s.cash.Post(ctx, tx); err != nil {
		return uuid.Nil, err
	}
	return tx.ID, nil
}
