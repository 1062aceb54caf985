package school

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/school-payments/internal"
	schoolmodel "github.com/frahmantamala/school-payments/internal/core/datamodel/school"
)

// Repository persists schools. GetByEmail returns (nil, nil) when no school
// exists with that email.
type Repository interface {
	Create(s *schoolmodel.School) error
	GetByID(id int64) (*schoolmodel.School, error)
	GetByEmail(email string) (*schoolmodel.School, error)
	GetAll() ([]schoolmodel.School, error)
}

type ServiceAPI interface {
	CreateSchool(ctx context.Context, dto CreateSchoolDTO) (*schoolmodel.School, error)
	GetSchool(ctx context.Context, id int64) (*schoolmodel.School, error)
	ListSchools(ctx context.Context) ([]schoolmodel.School, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateSchool(ctx context.Context, dto CreateSchoolDTO) (*schoolmodel.School, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to create school", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("school with this email already exists", internal.ErrCodeSchoolExists)
	}

	sch := &schoolmodel.School{
		Name:  dto.Name,
		Email: dto.Email,
	}

	if err := s.repo.Create(sch); err != nil {
		s.logger.Error("failed to persist school", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create school", err)
	}

	return sch, nil
}

func (s *Service) GetSchool(ctx context.Context, id int64) (*schoolmodel.School, error) {
	sch, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return sch, nil
}

func (s *Service) ListSchools(ctx context.Context) ([]schoolmodel.School, error) {
	schools, err := s.repo.GetAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to list schools", err)
	}
	return schools, nil
}
