package order_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-payments/internal"
	ordermodel "github.com/frahmantamala/school-payments/internal/core/datamodel/order"
	"github.com/frahmantamala/school-payments/internal/core/events"
	"github.com/frahmantamala/school-payments/internal/gateway"
	"github.com/frahmantamala/school-payments/internal/order"
)

func TestOrder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Order Suite")
}

type mockOrderRepo struct {
	orders    map[int64]*ordermodel.Order
	nextID    int64
	createErr error
	deleted   []int64
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[int64]*ordermodel.Order)}
}

func (m *mockOrderRepo) Create(o *ordermodel.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	o.ID = m.nextID
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepo) Delete(id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepo) GetByID(id int64) (*ordermodel.Order, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, internal.ErrOrderNotFound
}

func (m *mockOrderRepo) GetByCustomOrderID(customOrderID string) (*ordermodel.Order, error) {
	for _, o := range m.orders {
		if o.CustomOrderID == customOrderID {
			return o, nil
		}
	}
	return nil, internal.ErrOrderNotFound
}

type mockStatusRepo struct {
	statuses  map[int64]*ordermodel.Status
	nextID    int64
	createErr error
	updateErr error
	stampErr  error
	updated   int
}

func newMockStatusRepo() *mockStatusRepo {
	return &mockStatusRepo{statuses: make(map[int64]*ordermodel.Status)}
}

func (m *mockStatusRepo) Create(s *ordermodel.Status) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	s.ID = m.nextID
	m.statuses[s.ID] = s
	return nil
}

func (m *mockStatusRepo) GetByCollectID(collectID int64) (*ordermodel.Status, error) {
	for _, s := range m.statuses {
		if s.CollectID == collectID {
			return s, nil
		}
	}
	return nil, internal.ErrOrderStatusNotFound
}

func (m *mockStatusRepo) GetByCollectRequestID(collectRequestID string) (*ordermodel.Status, error) {
	for _, s := range m.statuses {
		if s.CollectRequestID != nil && *s.CollectRequestID == collectRequestID {
			return s, nil
		}
	}
	return nil, internal.ErrOrderStatusNotFound
}

func (m *mockStatusRepo) StampCollectRequestID(collectID int64, collectRequestID string) error {
	if m.stampErr != nil {
		return m.stampErr
	}
	for _, s := range m.statuses {
		if s.CollectID == collectID && s.CollectRequestID == nil {
			id := collectRequestID
			s.CollectRequestID = &id
		}
	}
	return nil
}

func (m *mockStatusRepo) Update(s *ordermodel.Status) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated++
	m.statuses[s.ID] = s
	return nil
}

type mockGateway struct {
	createFn func(ctx context.Context, amount, callbackURL string) (*gateway.CollectResponse, error)
	statusFn func(ctx context.Context, collectRequestID string) (*gateway.CollectStatus, error)
}

func (m *mockGateway) CreateCollectRequest(ctx context.Context, amount, callbackURL string) (*gateway.CollectResponse, error) {
	return m.createFn(ctx, amount, callbackURL)
}

func (m *mockGateway) GetCollectStatus(ctx context.Context, collectRequestID string) (*gateway.CollectStatus, error) {
	return m.statusFn(ctx, collectRequestID)
}

func testGatewayConfig() internal.GatewayConfig {
	return internal.GatewayConfig{
		BaseURL:          "https://gateway.test",
		MerchantSchoolID: "merchant-123",
		SigningSecret:    "sign-secret",
		APIKey:           "api-key",
		CallbackBaseURL:  "https://dashboard.test",
		DefaultGateway:   "NetBanking",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("Payment Orchestrator", func() {
	var (
		orders   *mockOrderRepo
		statuses *mockStatusRepo
		gw       *mockGateway
		svc      *order.Service
		ctx      context.Context
	)

	validDTO := func() order.CreatePaymentDTO {
		return order.CreatePaymentDTO{
			SchoolID: json.Number("42"),
			StudentInfo: order.StudentInfoDTO{
				Name:  "Asha Rao",
				ID:    "STU-001",
				Email: "asha@example.com",
			},
			GatewayName: "PhonePe",
			OrderAmount: json.Number("1500.50"),
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		orders = newMockOrderRepo()
		statuses = newMockStatusRepo()
		gw = &mockGateway{
			createFn: func(ctx context.Context, amount, callbackURL string) (*gateway.CollectResponse, error) {
				return &gateway.CollectResponse{
					CollectRequestID:  "collect-abc",
					CollectRequestURL: "https://gateway.test/pay/collect-abc",
				}, nil
			},
		}
		svc = order.NewService(orders, statuses, gw, testGatewayConfig(), events.NewEventBus(discardLogger()), discardLogger())
	})

	Describe("CreatePayment", func() {
		It("creates the order, a pending status, and returns the payment URL", func() {
			resp, err := svc.CreatePayment(ctx, 7, validDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.OrderID).To(Equal(int64(1)))
			Expect(resp.CustomOrderID).To(Equal("collect-abc"))
			Expect(resp.PaymentURL).To(Equal("https://gateway.test/pay/collect-abc"))
			Expect(resp.OrderAmount).To(Equal(1500.50))

			ord := orders.orders[1]
			Expect(ord.SchoolID).To(Equal(int64(42)))
			Expect(ord.TrusteeID).To(Equal(int64(7)))
			Expect(ord.CustomOrderID).To(HavePrefix("ORD_"))

			status, err := statuses.GetByCollectID(ord.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Status).To(Equal(ordermodel.StatusPending))
			Expect(status.PaymentDetails).To(Equal("Pending"))
			Expect(status.BankReference).To(Equal("PENDING"))
			Expect(status.PaymentMessage).To(Equal("Payment initiated"))
			Expect(status.ErrorMessage).To(Equal("N/A"))
			Expect(status.PaymentMode).To(Equal("phonepe"))
			Expect(status.TransactionAmount).To(Equal(1500.50))
			Expect(status.CollectRequestID).NotTo(BeNil())
			Expect(*status.CollectRequestID).To(Equal("collect-abc"))
		})

		It("sends the configured callback URL and a plain decimal amount to the gateway", func() {
			var gotAmount, gotCallback string
			gw.createFn = func(ctx context.Context, amount, callbackURL string) (*gateway.CollectResponse, error) {
				gotAmount = amount
				gotCallback = callbackURL
				return &gateway.CollectResponse{CollectRequestID: "c1", CollectRequestURL: "u"}, nil
			}

			_, err := svc.CreatePayment(ctx, 7, validDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(gotAmount).To(Equal("1500.5"))
			Expect(gotCallback).To(Equal("https://dashboard.test/payment-callback"))
		})

		It("falls back to the default gateway when none is given", func() {
			dto := validDTO()
			dto.GatewayName = ""

			_, err := svc.CreatePayment(ctx, 7, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(orders.orders[1].GatewayName).To(Equal("NetBanking"))
		})

		It("accepts a string order amount", func() {
			dto := validDTO()
			dto.OrderAmount = json.Number("250")

			resp, err := svc.CreatePayment(ctx, 7, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.OrderAmount).To(Equal(250.0))
		})

		It("rejects a negative amount", func() {
			dto := validDTO()
			dto.OrderAmount = json.Number("-10")

			_, err := svc.CreatePayment(ctx, 7, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(orders.orders).To(BeEmpty())
		})

		It("rejects an unknown gateway name", func() {
			dto := validDTO()
			dto.GatewayName = "CashOnDelivery"

			_, err := svc.CreatePayment(ctx, 7, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("deletes the order when the status row cannot be created", func() {
			statuses.createErr = fmt.Errorf("disk full")

			_, err := svc.CreatePayment(ctx, 7, validDTO())

			Expect(err).To(HaveOccurred())
			Expect(orders.deleted).To(Equal([]int64{1}))
			Expect(orders.orders).To(BeEmpty())
		})

		It("returns an opaque failure when the gateway rejects the request", func() {
			gw.createFn = func(ctx context.Context, amount, callbackURL string) (*gateway.CollectResponse, error) {
				return nil, &gateway.Error{Op: "create-collect-request", StatusCode: 502, Body: "upstream broke"}
			}

			_, err := svc.CreatePayment(ctx, 7, validDTO())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(appErr.Message).To(Equal("failed to create payment request"))
			Expect(appErr.Message).NotTo(ContainSubstring("upstream"))

			// The pending records survive for reconciliation; only the
			// gateway link is missing.
			Expect(orders.orders).To(HaveLen(1))
			status, getErr := statuses.GetByCollectID(1)
			Expect(getErr).NotTo(HaveOccurred())
			Expect(status.Status).To(Equal(ordermodel.StatusPending))
			Expect(status.CollectRequestID).To(BeNil())
		})

		It("still succeeds when stamping the collect request id fails", func() {
			statuses.stampErr = fmt.Errorf("write timeout")

			resp, err := svc.CreatePayment(ctx, 7, validDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.PaymentURL).NotTo(BeEmpty())

			status, err := statuses.GetByCollectID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.CollectRequestID).To(BeNil())
		})
	})

	Describe("VerifyPayment", func() {
		var stored *ordermodel.Status

		seedPending := func(collectRequestID string) {
			id := collectRequestID
			stored = &ordermodel.Status{
				CollectID:         1,
				CollectRequestID:  &id,
				OrderAmount:       1500.50,
				TransactionAmount: 1500.50,
				PaymentMode:       "phonepe",
				PaymentDetails:    "Pending",
				BankReference:     "PENDING",
				PaymentMessage:    "Payment initiated",
				Status:            ordermodel.StatusPending,
				ErrorMessage:      "N/A",
				PaymentTime:       time.Now().Add(-time.Hour),
			}
			Expect(statuses.Create(stored)).To(Succeed())
		}

		It("requires a collect request id", func() {
			_, err := svc.VerifyPayment(ctx, "  ")

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("returns not found for an unknown collect request id", func() {
			gw.statusFn = func(ctx context.Context, id string) (*gateway.CollectStatus, error) {
				Fail("gateway must not be called for unknown ids")
				return nil, nil
			}

			_, err := svc.VerifyPayment(ctx, "nope")

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
			Expect(appErr.Code).To(Equal(internal.ErrCodeOrderStatusNotFound))
		})

		It("maps a successful report onto the status row", func() {
			seedPending("collect-abc")
			paidAt := time.Date(2025, 8, 10, 14, 30, 0, 0, time.UTC)
			txn := 1499.00
			gw.statusFn = func(ctx context.Context, id string) (*gateway.CollectStatus, error) {
				return &gateway.CollectStatus{
					Status:            "SUCCESS",
					Amount:            1500.50,
					TransactionAmount: &txn,
					StatusCode:        200,
					PaymentTime:       &paidAt,
					Details: &gateway.CollectDetails{
						PaymentMode: "upi",
						BankRef:     "HDFC123",
						PaymentMethods: &gateway.PaymentMethods{
							UPI: &gateway.UPIMethod{UPIID: "asha@okhdfc"},
						},
					},
				}, nil
			}

			result, err := svc.VerifyPayment(ctx, "collect-abc")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(ordermodel.StatusSuccess))
			Expect(result.TransactionAmount).To(Equal(1499.00))
			Expect(result.PaymentMode).To(Equal("upi"))
			Expect(result.PaymentDetails).To(Equal("asha@okhdfc"))
			Expect(result.BankReference).To(Equal("HDFC123"))
			Expect(result.PaymentMessage).To(Equal("Payment verified"))
			Expect(result.ErrorMessage).To(Equal("NA"))
			Expect(result.PaymentTime).To(Equal(paidAt))
			Expect(statuses.updated).To(Equal(1))
		})

		It("collapses missing optional fields to NA and falls back to the report amount", func() {
			seedPending("collect-abc")
			gw.statusFn = func(ctx context.Context, id string) (*gateway.CollectStatus, error) {
				return &gateway.CollectStatus{
					Status:     "PENDING",
					Amount:     1500.50,
					StatusCode: 202,
				}, nil
			}

			result, err := svc.VerifyPayment(ctx, "collect-abc")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(ordermodel.StatusPending))
			Expect(result.TransactionAmount).To(Equal(1500.50))
			Expect(result.PaymentMode).To(Equal("NA"))
			Expect(result.PaymentDetails).To(Equal("NA"))
			Expect(result.BankReference).To(Equal("NA"))
			Expect(result.PaymentMessage).To(Equal("Payment pending"))
			Expect(result.ErrorMessage).To(Equal("Payment failed"))
			Expect(result.PaymentTime).To(BeTemporally("~", time.Now(), time.Minute))
		})

		It("refuses to persist an unrecognized gateway status", func() {
			seedPending("collect-abc")
			gw.statusFn = func(ctx context.Context, id string) (*gateway.CollectStatus, error) {
				return &gateway.CollectStatus{Status: "ON_HOLD", StatusCode: 200}, nil
			}

			_, err := svc.VerifyPayment(ctx, "collect-abc")

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(statuses.updated).To(BeZero())
			Expect(stored.Status).To(Equal(ordermodel.StatusPending))
		})

		It("keeps a terminal status when the gateway reports a stale pending", func() {
			seedPending("collect-abc")
			stored.Status = ordermodel.StatusSuccess
			gw.statusFn = func(ctx context.Context, id string) (*gateway.CollectStatus, error) {
				return &gateway.CollectStatus{Status: "PENDING", Amount: 1500.50, StatusCode: 202}, nil
			}

			result, err := svc.VerifyPayment(ctx, "collect-abc")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(ordermodel.StatusSuccess))
			Expect(statuses.updated).To(BeZero())
		})

		It("returns an opaque failure when the gateway lookup fails", func() {
			seedPending("collect-abc")
			gw.statusFn = func(ctx context.Context, id string) (*gateway.CollectStatus, error) {
				return nil, &gateway.Error{Op: "collect-request-status", StatusCode: 503, Body: "maintenance"}
			}

			_, err := svc.VerifyPayment(ctx, "collect-abc")

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(appErr.Message).To(Equal("payment verification failed"))
			Expect(stored.Status).To(Equal(ordermodel.StatusPending))
		})

		It("lowercases the reported status before persisting", func() {
			seedPending("collect-abc")
			gw.statusFn = func(ctx context.Context, id string) (*gateway.CollectStatus, error) {
				return &gateway.CollectStatus{Status: "FAILED", Amount: 1500.50, StatusCode: 400}, nil
			}

			result, err := svc.VerifyPayment(ctx, "collect-abc")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(ordermodel.StatusFailed))
		})
	})
})
