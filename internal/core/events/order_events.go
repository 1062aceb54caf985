package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentInitiated = "payment.initiated"
	EventTypePaymentVerified  = "payment.verified"
	EventTypePaymentFailed    = "payment.failed"
)

type PaymentInitiatedEvent struct {
	BaseEvent
	OrderID          int64   `json:"order_id"`
	CustomOrderID    string  `json:"custom_order_id"`
	CollectRequestID string  `json:"collect_request_id"`
	SchoolID         int64   `json:"school_id"`
	Amount           float64 `json:"amount"`
}

func NewPaymentInitiatedEvent(orderID int64, customOrderID, collectRequestID string, schoolID int64, amount float64) *PaymentInitiatedEvent {
	return &PaymentInitiatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentInitiated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":           orderID,
				"custom_order_id":    customOrderID,
				"collect_request_id": collectRequestID,
				"school_id":          schoolID,
				"amount":             amount,
			},
		},
		OrderID:          orderID,
		CustomOrderID:    customOrderID,
		CollectRequestID: collectRequestID,
		SchoolID:         schoolID,
		Amount:           amount,
	}
}

type PaymentVerifiedEvent struct {
	BaseEvent
	CollectRequestID  string  `json:"collect_request_id"`
	Status            string  `json:"status"`
	TransactionAmount float64 `json:"transaction_amount"`
	PaymentMode       string  `json:"payment_mode"`
}

func NewPaymentVerifiedEvent(collectRequestID, status string, transactionAmount float64, paymentMode string) *PaymentVerifiedEvent {
	return &PaymentVerifiedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentVerified,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"collect_request_id": collectRequestID,
				"status":             status,
				"transaction_amount": transactionAmount,
				"payment_mode":       paymentMode,
			},
		},
		CollectRequestID:  collectRequestID,
		Status:            status,
		TransactionAmount: transactionAmount,
		PaymentMode:       paymentMode,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	CollectRequestID string `json:"collect_request_id"`
	Reason           string `json:"reason"`
}

func NewPaymentFailedEvent(collectRequestID, reason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"collect_request_id": collectRequestID,
				"reason":             reason,
			},
		},
		CollectRequestID: collectRequestID,
		Reason:           reason,
	}
}
