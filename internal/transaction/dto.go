package transaction

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// sortWhitelist maps accepted sort keys to the columns they order by. Keys
// not listed here fall back to the default; user input never reaches the
// ORDER BY clause directly.
var sortWhitelist = map[string]string{
	"payment_time":       "order_statuses.payment_time",
	"order_amount":       "order_statuses.order_amount",
	"transaction_amount": "order_statuses.transaction_amount",
	"status":             "order_statuses.status",
	"custom_order_id":    "orders.custom_order_id",
	"created_at":         "orders.created_at",
}

// ListParams are the decoded query parameters of the transactions listing.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Statuses  []string
	SchoolID  int64
	Gateway   string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}

// ParseListParams decodes listing parameters with clamped pagination and a
// whitelisted sort. Bad values degrade to defaults instead of erroring; a
// dashboard retains its data even when one filter is mistyped.
func ParseListParams(r *http.Request) ListParams {
	q := r.URL.Query()

	p := ListParams{
		Page:      defaultPage,
		Limit:     defaultLimit,
		SortBy:    "payment_time",
		SortOrder: "desc",
	}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		if v > maxLimit {
			v = maxLimit
		}
		p.Limit = v
	}

	if sort := q.Get("sort"); sort != "" {
		if _, ok := sortWhitelist[sort]; ok {
			p.SortBy = sort
		}
	}
	if order := strings.ToLower(q.Get("order")); order == "asc" {
		p.SortOrder = "asc"
	}

	if status := q.Get("status"); status != "" {
		for _, s := range strings.Split(status, ",") {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				p.Statuses = append(p.Statuses, s)
			}
		}
	}

	if v, err := strconv.ParseInt(q.Get("school_id"), 10, 64); err == nil && v > 0 {
		p.SchoolID = v
	}
	p.Gateway = strings.TrimSpace(q.Get("gateway"))
	p.Search = strings.TrimSpace(q.Get("search"))

	if v, err := time.Parse("2006-01-02", q.Get("from_date")); err == nil {
		p.StartDate = &v
	}
	if v, err := time.Parse("2006-01-02", q.Get("to_date")); err == nil {
		end := v.Add(24*time.Hour - time.Nanosecond)
		p.EndDate = &end
	}

	return p
}

// OrderColumn resolves the whitelisted sort column.
func (p ListParams) OrderColumn() string {
	return sortWhitelist[p.SortBy]
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TransactionDTO is one row of the dashboard listing: an order joined with
// its lifecycle record and the school's display name.
type TransactionDTO struct {
	CollectID         int64     `json:"collect_id"`
	SchoolID          int64     `json:"school_id"`
	SchoolName        string    `json:"school_name,omitempty"`
	Gateway           string    `json:"gateway"`
	OrderAmount       float64   `json:"order_amount"`
	TransactionAmount float64   `json:"transaction_amount"`
	Status            string    `json:"status"`
	CustomOrderID     string    `json:"custom_order_id"`
	CollectRequestID  *string   `json:"collect_request_id,omitempty"`
	StudentName       string    `json:"student_name"`
	StudentRef        string    `json:"student_id"`
	StudentEmail      string    `json:"student_email"`
	PaymentMode       string    `json:"payment_mode"`
	PaymentDetails    string    `json:"payment_details"`
	BankReference     string    `json:"bank_reference"`
	PaymentMessage    string    `json:"payment_message"`
	ErrorMessage      string    `json:"error_message"`
	PaymentTime       time.Time `json:"payment_time"`
}

// Pagination is the envelope metadata for listings.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}

// StatusDTO is the slim payload of the status-by-order lookup.
type StatusDTO struct {
	CustomOrderID     string    `json:"custom_order_id"`
	Status            string    `json:"status"`
	OrderAmount       float64   `json:"order_amount"`
	TransactionAmount float64   `json:"transaction_amount"`
	PaymentMode       string    `json:"payment_mode"`
	PaymentMessage    string    `json:"payment_message"`
	ErrorMessage      string    `json:"error_message"`
	PaymentTime       time.Time `json:"payment_time"`
}

// OverviewDTO aggregates the dashboard headline numbers. SuccessAmount sums
// transaction amounts over successful payments only.
type OverviewDTO struct {
	TotalTransactions int64   `json:"total_transactions"`
	SuccessCount      int64   `json:"success_count"`
	PendingCount      int64   `json:"pending_count"`
	FailedCount       int64   `json:"failed_count"`
	SuccessAmount     float64 `json:"success_amount"`
}
