package order

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/school-payments/internal"
	ordermodel "github.com/frahmantamala/school-payments/internal/core/datamodel/order"
	"github.com/frahmantamala/school-payments/internal/core/events"
	"github.com/frahmantamala/school-payments/internal/gateway"
)

// Sentinel values written into a fresh status row before the gateway has
// reported anything real.
const (
	pendingPaymentDetails = "Pending"
	pendingBankReference  = "PENDING"
	pendingMessage        = "Payment initiated"
	pendingErrorMessage   = "N/A"

	notAvailable = "NA"
)

type Service struct {
	orders   OrderRepository
	statuses StatusRepository
	gateway  GatewayAPI
	cfg      internal.GatewayConfig
	eventBus *events.EventBus
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(
	orders OrderRepository,
	statuses StatusRepository,
	gw GatewayAPI,
	cfg internal.GatewayConfig,
	eventBus *events.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		orders:   orders,
		statuses: statuses,
		gateway:  gw,
		cfg:      cfg,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// CreatePayment records a fee-collection intent, registers it with the
// gateway, and hands the caller the gateway's payment URL. The order and its
// pending status row are written before the gateway call so a crash mid-flow
// leaves an auditable pending record rather than a dangling gateway request.
func (s *Service) CreatePayment(ctx context.Context, trusteeID int64, dto CreatePaymentDTO) (*PaymentCreatedDTO, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	schoolID, err := dto.SchoolRef()
	if err != nil {
		return nil, internal.NewValidationFieldError("school_id", "school_id must be numeric", internal.ErrCodeValidationFailed)
	}
	amount, err := dto.Amount()
	if err != nil {
		return nil, internal.NewValidationFieldError("order_amount", "order_amount must be a number", internal.ErrCodeInvalidAmount)
	}

	gatewayName := dto.GatewayName
	if gatewayName == "" {
		gatewayName = s.cfg.DefaultGateway
	}

	ord := &ordermodel.Order{
		SchoolID:  schoolID,
		TrusteeID: trusteeID,
		StudentInfo: ordermodel.StudentInfo{
			Name:  dto.StudentInfo.Name,
			ID:    dto.StudentInfo.ID,
			Email: dto.StudentInfo.Email,
		},
		GatewayName:   gatewayName,
		CustomOrderID: s.newCustomOrderID(),
		OrderAmount:   amount,
	}

	if err := s.orders.Create(ord); err != nil {
		s.logger.Error("failed to persist order", "error", err, "school_id", schoolID)
		return nil, internal.NewInternalError("failed to create payment request", err)
	}

	status := &ordermodel.Status{
		CollectID:         ord.ID,
		OrderAmount:       amount,
		TransactionAmount: amount,
		PaymentMode:       strings.ToLower(gatewayName),
		PaymentDetails:    pendingPaymentDetails,
		BankReference:     pendingBankReference,
		PaymentMessage:    pendingMessage,
		Status:            ordermodel.StatusPending,
		ErrorMessage:      pendingErrorMessage,
		PaymentTime:       s.now(),
	}

	if err := s.statuses.Create(status); err != nil {
		s.logger.Error("failed to persist order status, rolling back order",
			"error", err, "order_id", ord.ID)
		if delErr := s.orders.Delete(ord.ID); delErr != nil {
			s.logger.Error("order rollback failed, row is orphaned",
				"error", delErr, "order_id", ord.ID)
		}
		return nil, internal.NewInternalError("failed to create payment request", err)
	}

	callbackURL := strings.TrimRight(s.cfg.CallbackBaseURL, "/") + "/payment-callback"
	amountStr := strconv.FormatFloat(amount, 'f', -1, 64)

	collect, err := s.gateway.CreateCollectRequest(ctx, amountStr, callbackURL)
	if err != nil {
		s.logger.Error("gateway create-collect-request failed",
			"error", err, "order_id", ord.ID)
		return nil, internal.NewExternalError("failed to create payment request", internal.ErrCodePaymentCreateFailed, err)
	}

	// Stamping is best effort. The gateway side succeeded, so the caller
	// gets its payment URL even if the local link write fails; verification
	// for the row is degraded until it is repaired.
	if err := s.statuses.StampCollectRequestID(ord.ID, collect.CollectRequestID); err != nil {
		s.logger.Error("failed to stamp collect_request_id on order status",
			"error", err, "order_id", ord.ID, "collect_request_id", collect.CollectRequestID)
	}

	s.eventBus.Publish(ctx, events.NewPaymentInitiatedEvent(
		ord.ID, ord.CustomOrderID, collect.CollectRequestID, schoolID, amount))

	return &PaymentCreatedDTO{
		OrderID:       ord.ID,
		CustomOrderID: collect.CollectRequestID,
		PaymentURL:    collect.CollectRequestURL,
		OrderAmount:   amount,
	}, nil
}

// VerifyPayment pulls the gateway's current view of one collect request and
// reconciles the local status row with it. The gateway is the source of
// truth for terminal states; local state never moves out of a terminal
// status once reached.
func (s *Service) VerifyPayment(ctx context.Context, collectRequestID string) (*ordermodel.Status, error) {
	if strings.TrimSpace(collectRequestID) == "" {
		return nil, internal.NewValidationError("collect_request_id is required", internal.ErrCodeMissingParameter)
	}

	current, err := s.statuses.GetByCollectRequestID(collectRequestID)
	if err != nil {
		return nil, err
	}

	report, err := s.gateway.GetCollectStatus(ctx, collectRequestID)
	if err != nil {
		s.logger.Error("gateway status lookup failed",
			"error", err, "collect_request_id", collectRequestID)
		return nil, internal.NewExternalError("payment verification failed", internal.ErrCodePaymentVerifyFailed, err)
	}

	next := strings.ToLower(report.Status)
	if !ordermodel.ValidStatus(next) {
		s.logger.Error("gateway reported unrecognized status, refusing to persist",
			"status", report.Status, "collect_request_id", collectRequestID)
		return nil, internal.NewExternalError("payment verification failed", internal.ErrCodePaymentVerifyFailed,
			fmt.Errorf("unrecognized gateway status %q", report.Status))
	}

	if !ordermodel.CanTransition(current.Status, next) {
		s.logger.Warn("ignoring stale gateway report, status is terminal",
			"current", current.Status, "reported", next,
			"collect_request_id", collectRequestID)
		return current, nil
	}

	s.applyReport(current, report, next)

	if err := s.statuses.Update(current); err != nil {
		s.logger.Error("failed to persist verified status",
			"error", err, "collect_request_id", collectRequestID)
		return nil, internal.NewInternalError("payment verification failed", err)
	}

	switch next {
	case ordermodel.StatusSuccess:
		s.eventBus.Publish(ctx, events.NewPaymentVerifiedEvent(
			collectRequestID, next, current.TransactionAmount, current.PaymentMode))
	case ordermodel.StatusFailed:
		s.eventBus.Publish(ctx, events.NewPaymentFailedEvent(collectRequestID, current.PaymentMessage))
	}

	return current, nil
}

// applyReport maps a gateway report onto the status row. Absent optional
// fields collapse to the NA sentinel so downstream consumers never see
// empty strings.
func (s *Service) applyReport(status *ordermodel.Status, report *gateway.CollectStatus, next string) {
	status.Status = next
	status.OrderAmount = report.Amount

	if report.TransactionAmount != nil {
		status.TransactionAmount = *report.TransactionAmount
	} else {
		status.TransactionAmount = report.Amount
	}

	status.PaymentMode = notAvailable
	status.PaymentDetails = notAvailable
	status.BankReference = notAvailable
	if d := report.Details; d != nil {
		if d.PaymentMode != "" {
			status.PaymentMode = d.PaymentMode
		}
		if d.BankRef != "" {
			status.BankReference = d.BankRef
		}
		if d.PaymentMethods != nil && d.PaymentMethods.UPI != nil && d.PaymentMethods.UPI.UPIID != "" {
			status.PaymentDetails = d.PaymentMethods.UPI.UPIID
		}
	}

	if report.StatusCode == 200 {
		status.PaymentMessage = "Payment verified"
		status.ErrorMessage = notAvailable
	} else {
		status.PaymentMessage = "Payment pending"
		status.ErrorMessage = "Payment failed"
	}

	if report.PaymentTime != nil {
		status.PaymentTime = *report.PaymentTime
	} else {
		status.PaymentTime = s.now()
	}
}

// newCustomOrderID mints the merchant-side order reference. Timestamp prefix
// keeps the ids roughly sortable, uuid suffix makes collisions a non-issue.
func (s *Service) newCustomOrderID() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("ORD_%d_%s", s.now().UnixMilli(), suffix)
}
