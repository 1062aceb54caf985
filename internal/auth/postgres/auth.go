package postgres

import (
	stderrors "errors"

	"gorm.io/gorm"

	usermodel "github.com/frahmantamala/school-payments/internal/core/datamodel/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *usermodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByEmail(email string) (*usermodel.User, error) {
	var u usermodel.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(id int64) (*usermodel.User, error) {
	var u usermodel.User
	if err := r.db.First(&u, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
