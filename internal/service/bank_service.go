package service

import (
	"context"
	"time"

	"ledgercore/internal/apierror"
	"ledgercore/internal/config"
	"ledgercore/internal/dto"
	"ledgercore/internal/model"
	"ledgercore/internal/repository"

	"github.com/google/uuid"
)

type BankService interface {
	CreateAccount(ctx context.Context, req dto.CreateBankAccountRequest) (*dto.BankAccountResponse, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*dto.BankAccountResponse, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, req dto.UpdateBankAccountRequest) (*dto.BankAccountResponse, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	ListAccounts(ctx context.Context) ([]dto.BankAccountResponse, error)

	AddTransaction(ctx context.Context, req dto.AddBankTransactionRequest) (*dto.BankTransactionResponse, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context, accountID uuid.UUID) ([]dto.BankTransactionResponse, error)

	// Post is the internal entry point used by the payment router: it appends
	// an already-shaped transaction, applying the balance delta in the same step.
	Post(ctx context.Context, tx *model.BankTransaction) error
}

type bankService struct {
	repo         repository.BankRepository
	deletePolicy string
}

func NewBankService(repo repository.BankRepository, cfg *config.Config) BankService {
	policy := config.DeletePolicyReverse
	if cfg != nil && cfg.BankTxDeletePolicy != "" {
		policy = cfg.BankTxDeletePolicy
	}
	return &bankService{repo: repo, deletePolicy: policy}
}

func (s *bankService) CreateAccount(ctx context.Context, req dto.CreateBankAccountRequest) (*dto.BankAccountResponse, error) {
	account := &model.BankAccount{Name: req.Name, Currency: req.Currency}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return accountToResponse(account), nil
}

func (s *bankService) GetAccount(ctx context.Context, id uuid.UUID) (*dto.BankAccountResponse, error) {
	account, ok := s.repo.FindAccountByID(ctx, id)
	if !ok {
		return nil, apierror.NotFound("bank account %s not found", id)
	}
	return accountToResponse(account), nil
}

func (s *bankService) UpdateAccount(ctx context.Context, id uuid.UUID, req dto.UpdateBankAccountRequest) (*dto.BankAccountResponse, error) {
	account := &model.BankAccount{ID: id, Name: req.Name, Currency: req.Currency}
	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	updated, _ := s.repo.FindAccountByID(ctx, id)
	return accountToResponse(updated), nil
}

func (s *bankService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, id)
}

func (s *bankService) ListAccounts(ctx context.Context) ([]dto.BankAccountResponse, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BankAccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, *accountToResponse(&accounts[i]))
	}
	return out, nil
}

func (s *bankService) AddTransaction(ctx context.Context, req dto.AddBankTransactionRequest) (*dto.BankTransactionResponse, error) {
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, apierror.Validation("invalid account id: %v", err)
	}
	if req.Amount.IsZero() {
		return nil, apierror.Validation("transaction amount must be non-zero")
	}
	status := model.BankCleared
	if req.Status != "" {
		status = model.BankTransactionStatus(req.Status)
	}
	tx := &model.BankTransaction{
		AccountID:   accountID,
		Amount:      req.Amount,
		Kind:        model.BankTransactionKind(req.Kind),
		Status:      status,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, apierror.Validation("invalid date %q: expected YYYY-MM-DD", *req.Date)
		}
		tx.Date = date
	}
	if err := s.repo.AddTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return txToResponse(tx), nil
}

// DeleteTransaction behavior depends on the configured policy:
//
//	reverse — the balance delta is reversed before the record is removed, so
//	          balance == sum(live transactions) keeps holding;
//	deny    — deletion is rejected with InvalidState; corrections must post
//	          an inverse transaction instead.
func (s *bankService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if s.deletePolicy == config.DeletePolicyDeny {
		return apierror.InvalidState("bank transaction deletion is disabled; post an inverse transaction instead")
	}
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *bankService) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]dto.BankTransactionResponse, error) {
	if _, ok := s.repo.FindAccountByID(ctx, accountID); !ok {
		return nil, apierror.NotFound("bank account %s not found", accountID)
	}
	txs, err := s.repo.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BankTransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, *txToResponse(&txs[i]))
	}
	return out, nil
}

func (s *bankService) Post(ctx context.Context, tx *model.BankTransaction) error {
	return s.repo.AddTransaction(ctx, tx)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func accountToResponse(a *model.BankAccount) *dto.BankAccountResponse {
	return &dto.BankAccountResponse{
		ID:       a.ID.String(),
		Name:     a.Name,
		Currency: a.Currency,
		Balance:  a.Balance,
	}
}

func txToResponse(tx *model.BankTransaction) *dto.BankTransactionResponse {
	resp := &dto.BankTransactionResponse{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Date:        tx.Date.Format("2006-01-02"),
		Amount:      tx.Amount,
		Kind:        string(tx.Kind),
		Status:      string(tx.Status),
		Description: tx.Description,
	}
	if tx.ReferenceID != nil {
		ref := tx.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	return resp
}
