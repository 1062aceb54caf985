package order

import (
	"time"
)

// Payment lifecycle states. These are the only values that may ever be
// persisted into Status.Status.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusSuccess || s == StatusFailed
}

// StudentInfo is embedded into Order; all three fields are required at
// creation time and immutable afterwards.
type StudentInfo struct {
	Name  string `json:"name" gorm:"column:student_name;not null"`
	ID    string `json:"id" gorm:"column:student_ref;not null;index"`
	Email string `json:"email" gorm:"column:student_email;not null"`
}

// Order is one fee-collection intent. It is created exactly once by the
// payment orchestrator and never mutated afterwards.
type Order struct {
	ID            int64       `json:"id" gorm:"primaryKey"`
	SchoolID      int64       `json:"school_id" gorm:"column:school_id;not null;index"`
	TrusteeID     int64       `json:"trustee_id" gorm:"column:trustee_id;not null;index"`
	StudentInfo   StudentInfo `json:"student_info" gorm:"embedded"`
	GatewayName   string      `json:"gateway_name" gorm:"column:gateway_name;not null"`
	CustomOrderID string      `json:"custom_order_id" gorm:"column:custom_order_id;uniqueIndex;not null"`
	OrderAmount   float64     `json:"order_amount" gorm:"column:order_amount;not null"`
	CreatedAt     time.Time   `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time   `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Order) TableName() string {
	return "orders"
}

// Status is the mutable payment-lifecycle record for one Order. CollectID
// carries a unique index: exactly one status row per order, enforced at the
// store rather than by application discipline.
type Status struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	CollectID         int64     `json:"collect_id" gorm:"column:collect_id;not null;uniqueIndex"`
	CollectRequestID  *string   `json:"collect_request_id,omitempty" gorm:"column:collect_request_id;index"`
	OrderAmount       float64   `json:"order_amount" gorm:"column:order_amount;not null"`
	TransactionAmount float64   `json:"transaction_amount" gorm:"column:transaction_amount;not null"`
	PaymentMode       string    `json:"payment_mode" gorm:"column:payment_mode;not null"`
	PaymentDetails    string    `json:"payment_details" gorm:"column:payment_details;not null"`
	BankReference     string    `json:"bank_reference" gorm:"column:bank_reference;not null"`
	PaymentMessage    string    `json:"payment_message" gorm:"column:payment_message;not null"`
	Status            string    `json:"status" gorm:"column:status;not null;default:pending;index"`
	ErrorMessage      string    `json:"error_message" gorm:"column:error_message;default:NA"`
	PaymentTime       time.Time `json:"payment_time" gorm:"column:payment_time;not null;index:idx_order_statuses_payment_time,sort:desc"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Status) TableName() string {
	return "order_statuses"
}

// CanTransition implements the monotonic lifecycle: pending may move to any
// state, terminal states may only be re-applied, never reopened.
func CanTransition(current, next string) bool {
	if current == next {
		return true
	}
	return current == StatusPending
}
