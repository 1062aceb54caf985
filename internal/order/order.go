package order

import (
	"context"

	ordermodel "github.com/frahmantamala/school-payments/internal/core/datamodel/order"
	"github.com/frahmantamala/school-payments/internal/gateway"
)

// AllowedGateways is the closed set of gateway names an order may carry.
var AllowedGateways = []string{"NetBanking", "PhonePe", "Paytm", "Razorpay", "UPI"}

// GatewayAPI is the slice of the gateway client the orchestrator needs.
type GatewayAPI interface {
	CreateCollectRequest(ctx context.Context, amount string, callbackURL string) (*gateway.CollectResponse, error)
	GetCollectStatus(ctx context.Context, collectRequestID string) (*gateway.CollectStatus, error)
}

// OrderRepository persists fee-collection intents.
type OrderRepository interface {
	Create(o *ordermodel.Order) error
	Delete(id int64) error
	GetByID(id int64) (*ordermodel.Order, error)
	GetByCustomOrderID(customOrderID string) (*ordermodel.Order, error)
}

// StatusRepository persists the lifecycle record. Not-found lookups return
// internal.ErrOrderStatusNotFound so callers can distinguish a missing row
// from a failed store.
type StatusRepository interface {
	Create(s *ordermodel.Status) error
	GetByCollectID(collectID int64) (*ordermodel.Status, error)
	GetByCollectRequestID(collectRequestID string) (*ordermodel.Status, error)
	StampCollectRequestID(collectID int64, collectRequestID string) error
	Update(s *ordermodel.Status) error
}

type ServiceAPI interface {
	CreatePayment(ctx context.Context, trusteeID int64, dto CreatePaymentDTO) (*PaymentCreatedDTO, error)
	VerifyPayment(ctx context.Context, collectRequestID string) (*ordermodel.Status, error)
}
