package postgres

import (
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/school-payments/internal"
	schoolmodel "github.com/frahmantamala/school-payments/internal/core/datamodel/school"
)

type SchoolRepository struct {
	db *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

func (r *SchoolRepository) Create(s *schoolmodel.School) error {
	return r.db.Create(s).Error
}

func (r *SchoolRepository) GetByID(id int64) (*schoolmodel.School, error) {
	var s schoolmodel.School
	if err := r.db.First(&s, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrSchoolNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SchoolRepository) GetByEmail(email string) (*schoolmodel.School, error) {
	var s schoolmodel.School
	if err := r.db.Where("email = ?", email).First(&s).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SchoolRepository) GetAll() ([]schoolmodel.School, error) {
	var schools []schoolmodel.School
	if err := r.db.Order("name asc").Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}
