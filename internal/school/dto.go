package school

import (
	"github.com/frahmantamala/school-payments/internal/core/common/validation"
)

type CreateSchoolDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (dto CreateSchoolDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("email", dto.Email).Required().Email()

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
