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
	"github.com/shopspring/decimal"
)

type CashService interface {
	OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionReportResponse, error)
	// CloseSession reconciles the open session against a physical count and
	// returns the variance counted − expected with its classification.
	CloseSession(ctx context.Context, id uuid.UUID, req dto.CloseSessionRequest) (*dto.CloseSessionResponse, error)
	AddTransaction(ctx context.Context, sessionID uuid.UUID, req dto.AddCashTransactionRequest) (*dto.CashTransactionResponse, error)
	GetActive(ctx context.Context) (*dto.SessionReportResponse, error)
	Report(ctx context.Context, id uuid.UUID) (*dto.SessionReportResponse, error)
	ListSessions(ctx context.Context) ([]dto.SessionReportResponse, error)

	// Post is the internal entry point used by the payment router and the
	// sale flow. The transaction lands on the currently open session.
	Post(ctx context.Context, tx *model.CashTransaction) error
}

type cashService struct {
	repo        repository.CashRepository
	warningPct  decimal.Decimal
	criticalPct decimal.Decimal
}

func NewCashService(repo repository.CashRepository, cfg *config.Config) CashService {
	warning := decimal.NewFromInt(1)
	critical := decimal.NewFromInt(5)
	if cfg != nil {
		warning = decimal.NewFromFloat(cfg.VarianceWarningPct)
		critical = decimal.NewFromFloat(cfg.VarianceCriticalPct)
	}
	return &cashService{repo: repo, warningPct: warning, criticalPct: critical}
}

func (s *cashService) OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionReportResponse, error) {
	if req.OpeningBalance.IsNegative() {
		return nil, apierror.Validation("opening balance must not be negative")
	}
	session := &model.CashSession{
		Operator:        req.Operator,
		OpeningBalance:  req.OpeningBalance,
		ExpectedBalance: req.OpeningBalance,
	}
	if err := s.repo.OpenSession(ctx, session); err != nil {
		return nil, err
	}
	return s.buildReport(ctx, session)
}

func (s *cashService) CloseSession(ctx context.Context, id uuid.UUID, req dto.CloseSessionRequest) (*dto.CloseSessionResponse, error) {
	if req.CountedAmount.IsNegative() {
		return nil, apierror.Validation("counted amount must not be negative")
	}

	var variance, variancePct decimal.Decimal
	var class model.VarianceClass
	err := s.repo.CloseSession(ctx, id, func(session *model.CashSession) {
		variance = req.CountedAmount.Sub(session.ExpectedBalance)
		if !session.ExpectedBalance.IsZero() {
			variancePct = variance.Div(session.ExpectedBalance).Mul(decimal.NewFromInt(100)).Round(2)
		}
		class = s.classifyVariance(variancePct)

		counted := req.CountedAmount
		session.ClosingBalance = &counted
		session.Variance = &variance
		session.VariancePct = &variancePct
		session.VarianceClass = &class
		session.Notes = req.Notes
	})
	if err != nil {
		return nil, err
	}

	closed, _ := s.repo.FindSessionByID(ctx, id)
	return &dto.CloseSessionResponse{
		SessionID:       id.String(),
		ExpectedBalance: closed.ExpectedBalance,
		CountedAmount:   req.CountedAmount,
		Variance: dto.VarianceResponse{
			Amount:     variance,
			Percentage: variancePct,
			Class:      string(class),
		},
		Status: string(model.SessionClosed),
	}, nil
}

func (s *cashService) AddTransaction(ctx context.Context, sessionID uuid.UUID, req dto.AddCashTransactionRequest) (*dto.CashTransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("transaction amount must be positive")
	}
	amount := req.Amount
	if req.Kind == string(model.CashExpense) {
		amount = amount.Neg()
	}
	tx := &model.CashTransaction{
		SessionID:   sessionID,
		Kind:        model.CashTransactionKind(req.Kind),
		Amount:      amount,
		Description: req.Description,
	}
	if err := s.repo.AddTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return cashTxToResponse(tx), nil
}

func (s *cashService) GetActive(ctx context.Context) (*dto.SessionReportResponse, error) {
	session, ok := s.repo.FindOpenSession(ctx)
	if !ok {
		return nil, apierror.NotFound("no open cash session")
	}
	return s.buildReport(ctx, session)
}

func (s *cashService) Report(ctx context.Context, id uuid.UUID) (*dto.SessionReportResponse, error) {
	session, ok := s.repo.FindSessionByID(ctx, id)
	if !ok {
		return nil, apierror.NotFound("cash session %s not found", id)
	}
	return s.buildReport(ctx, session)
}

func (s *cashService) ListSessions(ctx context.Context) ([]dto.SessionReportResponse, error) {
	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionReportResponse, 0, len(sessions))
	for i := range sessions {
		report, err := s.buildReport(ctx, &sessions[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *report)
	}
	return out, nil
}

func (s *cashService) Post(ctx context.Context, tx *model.CashTransaction) error {
	if tx.SessionID == uuid.Nil {
		session, ok := s.repo.FindOpenSession(ctx)
		if !ok {
			return apierror.InvalidState("no open cash session to post into")
		}
		tx.SessionID = session.ID
	}
	return s.repo.AddTransaction(ctx, tx)
}

// ── helpers ──────────────────────────────────────────────────────────────────

// classifyVariance buckets the closing variance percentage:
// normal ≤ warning threshold, warning ≤ critical threshold, critical above.
func (s *cashService) classifyVariance(pct decimal.Decimal) model.VarianceClass {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(s.warningPct):
		return model.VarianceNormal
	case abs.LessThanOrEqual(s.criticalPct):
		return model.VarianceWarning
	default:
		return model.VarianceCritical
	}
}

func (s *cashService) buildReport(ctx context.Context, session *model.CashSession) (*dto.SessionReportResponse, error) {
	txs, err := s.repo.ListTransactions(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	txResponses := make([]dto.CashTransactionResponse, 0, len(txs))
	for i := range txs {
		txResponses = append(txResponses, *cashTxToResponse(&txs[i]))
	}

	report := &dto.SessionReportResponse{
		SessionID:       session.ID.String(),
		Operator:        session.Operator,
		OpeningBalance:  session.OpeningBalance,
		ExpectedBalance: session.ExpectedBalance,
		ClosingBalance:  session.ClosingBalance,
		Status:          string(session.Status),
		Notes:           session.Notes,
		Transactions:    txResponses,
		OpenedAt:        session.OpenedAt.Format(time.RFC3339),
	}
	if session.Variance != nil && session.VariancePct != nil && session.VarianceClass != nil {
		report.Variance = &dto.VarianceResponse{
			Amount:     *session.Variance,
			Percentage: *session.VariancePct,
			Class:      string(*session.VarianceClass),
		}
	}
	if session.ClosedAt != nil {
		t := session.ClosedAt.Format(time.RFC3339)
		report.ClosedAt = &t
	}
	return report, nil
}

func cashTxToResponse(tx *model.CashTransaction) *dto.CashTransactionResponse {
	return &dto.CashTransactionResponse{
		ID:          tx.ID.String(),
		SessionID:   tx.SessionID.String(),
		Kind:        string(tx.Kind),
		Amount:      tx.Amount,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}
