package transaction

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/school-payments/internal"
)

// Repository reads the joined order/status projection. It never mutates
// anything; all writes go through the payment orchestrator.
type Repository interface {
	List(params ListParams) ([]TransactionDTO, int64, error)
	GetByCustomOrderID(customOrderID string) (*TransactionDTO, error)
	StatusCounts() (map[string]int64, error)
	SuccessAmount() (float64, error)
}

type ServiceAPI interface {
	ListTransactions(ctx context.Context, params ListParams) ([]TransactionDTO, Pagination, error)
	ListBySchool(ctx context.Context, schoolID int64, params ListParams) ([]TransactionDTO, Pagination, error)
	StatusByOrderID(ctx context.Context, customOrderID string) (*StatusDTO, error)
	Overview(ctx context.Context) (*OverviewDTO, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListTransactions(ctx context.Context, params ListParams) ([]TransactionDTO, Pagination, error) {
	rows, total, err := s.repo.List(params)
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err)
		return nil, Pagination{}, internal.NewInternalError("failed to list transactions", err)
	}
	return rows, NewPagination(params.Page, params.Limit, total), nil
}

func (s *Service) ListBySchool(ctx context.Context, schoolID int64, params ListParams) ([]TransactionDTO, Pagination, error) {
	params.SchoolID = schoolID
	return s.ListTransactions(ctx, params)
}

// StatusByOrderID resolves the public order reference to its current
// lifecycle record. An order without a status row is reported as a missing
// status, not a missing order.
func (s *Service) StatusByOrderID(ctx context.Context, customOrderID string) (*StatusDTO, error) {
	if customOrderID == "" {
		return nil, internal.NewValidationError("order id is required", internal.ErrCodeMissingParameter)
	}

	row, err := s.repo.GetByCustomOrderID(customOrderID)
	if err != nil {
		return nil, err
	}

	return &StatusDTO{
		CustomOrderID:     row.CustomOrderID,
		Status:            row.Status,
		OrderAmount:       row.OrderAmount,
		TransactionAmount: row.TransactionAmount,
		PaymentMode:       row.PaymentMode,
		PaymentMessage:    row.PaymentMessage,
		ErrorMessage:      row.ErrorMessage,
		PaymentTime:       row.PaymentTime,
	}, nil
}

func (s *Service) Overview(ctx context.Context) (*OverviewDTO, error) {
	counts, err := s.repo.StatusCounts()
	if err != nil {
		return nil, internal.NewInternalError("failed to build overview", err)
	}

	amount, err := s.repo.SuccessAmount()
	if err != nil {
		return nil, internal.NewInternalError("failed to build overview", err)
	}

	overview := &OverviewDTO{
		SuccessCount:  counts["success"],
		PendingCount:  counts["pending"],
		FailedCount:   counts["failed"],
		SuccessAmount: amount,
	}
	for _, c := range counts {
		overview.TotalTransactions += c
	}
	return overview, nil
}
