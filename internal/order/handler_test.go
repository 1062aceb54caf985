package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-payments/internal"
	ordermodel "github.com/frahmantamala/school-payments/internal/core/datamodel/order"
	"github.com/frahmantamala/school-payments/internal/order"
)

type stubService struct {
	createFn func(ctx context.Context, trusteeID int64, dto order.CreatePaymentDTO) (*order.PaymentCreatedDTO, error)
	verifyFn func(ctx context.Context, collectRequestID string) (*ordermodel.Status, error)
}

func (s *stubService) CreatePayment(ctx context.Context, trusteeID int64, dto order.CreatePaymentDTO) (*order.PaymentCreatedDTO, error) {
	return s.createFn(ctx, trusteeID, dto)
}

func (s *stubService) VerifyPayment(ctx context.Context, collectRequestID string) (*ordermodel.Status, error) {
	return s.verifyFn(ctx, collectRequestID)
}

var _ = Describe("Order Handler", func() {
	var (
		stub    *stubService
		handler *order.Handler
	)

	BeforeEach(func() {
		stub = &stubService{}
		handler = order.NewHandler(discardLogger(), stub)
	})

	Describe("CreatePayment", func() {
		It("rejects requests without an authenticated user", func() {
			req := httptest.NewRequest(http.MethodPost, "/order/create-payment", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()

			handler.CreatePayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/order/create-payment", strings.NewReader(`{not json`))
			req = req.WithContext(internal.ContextWithUserID(req.Context(), 7))
			rec := httptest.NewRecorder()

			handler.CreatePayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 200 with the success envelope", func() {
			stub.createFn = func(ctx context.Context, trusteeID int64, dto order.CreatePaymentDTO) (*order.PaymentCreatedDTO, error) {
				Expect(trusteeID).To(Equal(int64(7)))
				return &order.PaymentCreatedDTO{
					OrderID:       1,
					CustomOrderID: "collect-abc",
					PaymentURL:    "https://gateway.test/pay",
					OrderAmount:   100,
				}, nil
			}

			body := `{"school_id":"42","student_info":{"name":"A","id":"S1","email":"a@b.co"},"order_amount":100}`
			req := httptest.NewRequest(http.MethodPost, "/order/create-payment", strings.NewReader(body))
			req = req.WithContext(internal.ContextWithUserID(req.Context(), 7))
			rec := httptest.NewRecorder()

			handler.CreatePayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("success"))
			data := resp["data"].(map[string]interface{})
			Expect(data["custom_order_id"]).To(Equal("collect-abc"))
			Expect(data["payment_url"]).To(Equal("https://gateway.test/pay"))
		})
	})

	Describe("VerifyPayment", func() {
		It("propagates the missing-parameter validation error", func() {
			stub.verifyFn = func(ctx context.Context, id string) (*ordermodel.Status, error) {
				return nil, internal.NewValidationError("collect_request_id is required", internal.ErrCodeMissingParameter)
			}

			req := httptest.NewRequest(http.MethodGet, "/order/verify-payment", nil)
			rec := httptest.NewRecorder()

			handler.VerifyPayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns the reconciled status", func() {
			stub.verifyFn = func(ctx context.Context, id string) (*ordermodel.Status, error) {
				Expect(id).To(Equal("collect-abc"))
				return &ordermodel.Status{Status: ordermodel.StatusSuccess}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/order/verify-payment?collect_request_id=collect-abc", nil)
			rec := httptest.NewRecorder()

			handler.VerifyPayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"status":"success"`))
		})

		It("returns 404 for unknown collect request ids", func() {
			stub.verifyFn = func(ctx context.Context, id string) (*ordermodel.Status, error) {
				return nil, internal.ErrOrderStatusNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/order/verify-payment?collect_request_id=nope", nil)
			rec := httptest.NewRecorder()

			handler.VerifyPayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("HandleCallback", func() {
		It("reports cancellation without touching stored state", func() {
			stub.verifyFn = func(ctx context.Context, id string) (*ordermodel.Status, error) {
				Fail("verification must not run for non-success redirects")
				return nil, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/payment/callback?EdvironCollectRequestId=c1&status=FAILURE", nil)
			rec := httptest.NewRecorder()

			handler.HandleCallback(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("cancelled"))
		})

		It("verifies the payment on a success redirect", func() {
			called := false
			stub.verifyFn = func(ctx context.Context, id string) (*ordermodel.Status, error) {
				called = true
				Expect(id).To(Equal("c1"))
				return &ordermodel.Status{Status: ordermodel.StatusSuccess}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/payment/callback?EdvironCollectRequestId=c1&status=SUCCESS", nil)
			rec := httptest.NewRecorder()

			handler.HandleCallback(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(called).To(BeTrue())
		})
	})
})
