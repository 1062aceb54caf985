package order

import (
	"encoding/json"

	errors "github.com/frahmantamala/school-payments/internal"
	"github.com/frahmantamala/school-payments/internal/core/common/validation"
)

type StudentInfoDTO struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CreatePaymentDTO is the create-payment request body. SchoolID and
// OrderAmount use json.Number so clients may send either strings or numbers;
// both shapes exist in the wild.
type CreatePaymentDTO struct {
	SchoolID    json.Number    `json:"school_id"`
	StudentInfo StudentInfoDTO `json:"student_info"`
	GatewayName string         `json:"gateway_name,omitempty"`
	OrderAmount json.Number    `json:"order_amount"`
}

// Amount coerces the order amount to a float. Callers must run Validate
// first; this only reports coercion failures.
func (dto CreatePaymentDTO) Amount() (float64, error) {
	return dto.OrderAmount.Float64()
}

func (dto CreatePaymentDTO) SchoolRef() (int64, error) {
	return dto.SchoolID.Int64()
}

func (dto CreatePaymentDTO) Validate() error {
	v := validation.NewValidator()

	v.Field("school_id", dto.SchoolID.String()).Required()
	v.Field("student_info.name", dto.StudentInfo.Name).Required()
	v.Field("student_info.id", dto.StudentInfo.ID).Required()
	v.Field("student_info.email", dto.StudentInfo.Email).Required().Email()
	v.Field("gateway_name", dto.GatewayName).OneOf(AllowedGateways, errors.ErrCodeInvalidGateway)

	amount, err := dto.OrderAmount.Float64()
	if err != nil || dto.OrderAmount.String() == "" {
		return errors.NewValidationFieldError("order_amount", "order_amount must be a number", errors.ErrCodeInvalidAmount)
	}
	v.Field("order_amount", amount).NonNegative(errors.ErrCodeInvalidAmount)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// PaymentCreatedDTO is the create-payment response payload. CustomOrderID is
// the gateway's collect request id: the public-facing reference callers poll
// status with.
type PaymentCreatedDTO struct {
	OrderID       int64   `json:"order_id"`
	CustomOrderID string  `json:"custom_order_id"`
	PaymentURL    string  `json:"payment_url"`
	OrderAmount   float64 `json:"order_amount"`
}
