package postgres

import (
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/school-payments/internal"
	"github.com/frahmantamala/school-payments/internal/transaction"
)

const selectColumns = `
	orders.id AS collect_id,
	orders.school_id AS school_id,
	schools.name AS school_name,
	orders.gateway_name AS gateway,
	orders.custom_order_id AS custom_order_id,
	orders.student_name AS student_name,
	orders.student_ref AS student_ref,
	orders.student_email AS student_email,
	order_statuses.collect_request_id AS collect_request_id,
	order_statuses.order_amount AS order_amount,
	order_statuses.transaction_amount AS transaction_amount,
	order_statuses.status AS status,
	order_statuses.payment_mode AS payment_mode,
	order_statuses.payment_details AS payment_details,
	order_statuses.bank_reference AS bank_reference,
	order_statuses.payment_message AS payment_message,
	order_statuses.error_message AS error_message,
	order_statuses.payment_time AS payment_time`

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// base builds the joined projection all reads share. The school join is a
// LEFT JOIN: orders may reference schools this instance has never stored.
func (r *TransactionRepository) base() *gorm.DB {
	return r.db.Table("orders").
		Joins("JOIN order_statuses ON order_statuses.collect_id = orders.id").
		Joins("LEFT JOIN schools ON schools.id = orders.school_id")
}

func (r *TransactionRepository) applyFilters(q *gorm.DB, params transaction.ListParams) *gorm.DB {
	if len(params.Statuses) > 0 {
		q = q.Where("order_statuses.status IN ?", params.Statuses)
	}
	if params.SchoolID > 0 {
		q = q.Where("orders.school_id = ?", params.SchoolID)
	}
	if params.Gateway != "" {
		q = q.Where("orders.gateway_name = ?", params.Gateway)
	}
	if params.StartDate != nil {
		q = q.Where("order_statuses.payment_time >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		q = q.Where("order_statuses.payment_time <= ?", *params.EndDate)
	}
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		q = q.Where(
			"LOWER(orders.custom_order_id) LIKE ? OR LOWER(orders.student_name) LIKE ? OR LOWER(orders.student_email) LIKE ? OR LOWER(schools.name) LIKE ? OR LOWER(order_statuses.bank_reference) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	return q
}

func (r *TransactionRepository) List(params transaction.ListParams) ([]transaction.TransactionDTO, int64, error) {
	var total int64
	countQuery := r.applyFilters(r.base(), params)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []transaction.TransactionDTO
	query := r.applyFilters(r.base(), params).
		Select(selectColumns).
		Order(params.OrderColumn() + " " + params.SortOrder).
		Limit(params.Limit).
		Offset(params.Offset())

	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *TransactionRepository) GetByCustomOrderID(customOrderID string) (*transaction.TransactionDTO, error) {
	var exists int64
	if err := r.db.Table("orders").Where("custom_order_id = ?", customOrderID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, internal.ErrOrderNotFound
	}

	var row transaction.TransactionDTO
	err := r.base().
		Select(selectColumns).
		Where("orders.custom_order_id = ?", customOrderID).
		Take(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrOrderStatusNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *TransactionRepository) StatusCounts() (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.db.Table("order_statuses").
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *TransactionRepository) SuccessAmount() (float64, error) {
	var total *float64
	err := r.db.Table("order_statuses").
		Select("SUM(transaction_amount)").
		Where("status = ?", "success").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
