package transaction_test

import (
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-payments/internal/transaction"
)

func TestTransaction(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transaction Suite")
}

var _ = Describe("ListParams", func() {
	parse := func(rawQuery string) transaction.ListParams {
		req := httptest.NewRequest("GET", "/transaction?"+rawQuery, nil)
		return transaction.ParseListParams(req)
	}

	It("applies defaults for an empty query", func() {
		p := parse("")

		Expect(p.Page).To(Equal(1))
		Expect(p.Limit).To(Equal(10))
		Expect(p.SortBy).To(Equal("payment_time"))
		Expect(p.SortOrder).To(Equal("desc"))
		Expect(p.Statuses).To(BeEmpty())
	})

	It("clamps the limit", func() {
		p := parse("limit=5000")
		Expect(p.Limit).To(Equal(100))
	})

	It("ignores a sort key outside the whitelist", func() {
		p := parse("sort=password_hash%3BDROP%20TABLE%20users")
		Expect(p.SortBy).To(Equal("payment_time"))
		Expect(p.OrderColumn()).To(Equal("order_statuses.payment_time"))
	})

	It("accepts whitelisted sort keys", func() {
		p := parse("sort=order_amount&order=asc")
		Expect(p.SortBy).To(Equal("order_amount"))
		Expect(p.SortOrder).To(Equal("asc"))
	})

	It("splits and lowercases the status filter", func() {
		p := parse("status=Success,%20FAILED")
		Expect(p.Statuses).To(Equal([]string{"success", "failed"}))
	})

	It("parses the date range inclusively", func() {
		p := parse("from_date=2025-08-01&to_date=2025-08-02")

		Expect(p.StartDate).NotTo(BeNil())
		Expect(p.EndDate).NotTo(BeNil())
		Expect(p.StartDate.Format("2006-01-02")).To(Equal("2025-08-01"))
		// The end bound covers the whole end day.
		Expect(p.EndDate.After(time.Date(2025, 8, 2, 23, 0, 0, 0, time.UTC))).To(BeTrue())
	})

	It("ignores the old date parameter names", func() {
		p := parse("start_date=2025-08-01&end_date=2025-08-02")
		Expect(p.StartDate).To(BeNil())
		Expect(p.EndDate).To(BeNil())
	})

	It("degrades bad values to defaults instead of failing", func() {
		p := parse("page=-3&limit=abc&order=sideways")
		Expect(p.Page).To(Equal(1))
		Expect(p.Limit).To(Equal(10))
		Expect(p.SortOrder).To(Equal("desc"))
	})
})

var _ = Describe("Pagination", func() {
	It("computes page bounds", func() {
		p := transaction.NewPagination(2, 10, 35)

		Expect(p.TotalPages).To(Equal(4))
		Expect(p.HasNext).To(BeTrue())
		Expect(p.HasPrev).To(BeTrue())
	})

	It("handles the last page", func() {
		p := transaction.NewPagination(4, 10, 35)
		Expect(p.HasNext).To(BeFalse())
		Expect(p.HasPrev).To(BeTrue())
	})

	It("handles an empty result", func() {
		p := transaction.NewPagination(1, 10, 0)
		Expect(p.TotalPages).To(BeZero())
		Expect(p.HasNext).To(BeFalse())
		Expect(p.HasPrev).To(BeFalse())
	})
})
