package postgres

import (
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/school-payments/internal"
	ordermodel "github.com/frahmantamala/school-payments/internal/core/datamodel/order"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *ordermodel.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) Delete(id int64) error {
	return r.db.Delete(&ordermodel.Order{}, id).Error
}

func (r *OrderRepository) GetByID(id int64) (*ordermodel.Order, error) {
	var o ordermodel.Order
	if err := r.db.First(&o, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetByCustomOrderID(customOrderID string) (*ordermodel.Order, error) {
	var o ordermodel.Order
	if err := r.db.Where("custom_order_id = ?", customOrderID).First(&o).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

func (r *StatusRepository) Create(s *ordermodel.Status) error {
	return r.db.Create(s).Error
}

func (r *StatusRepository) GetByCollectID(collectID int64) (*ordermodel.Status, error) {
	var s ordermodel.Status
	if err := r.db.Where("collect_id = ?", collectID).First(&s).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrOrderStatusNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *StatusRepository) GetByCollectRequestID(collectRequestID string) (*ordermodel.Status, error) {
	var s ordermodel.Status
	if err := r.db.Where("collect_request_id = ?", collectRequestID).First(&s).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrOrderStatusNotFound
		}
		return nil, err
	}
	return &s, nil
}

// StampCollectRequestID links the gateway reference to its status row. The
// IS NULL guard keeps the link immutable once written.
func (r *StatusRepository) StampCollectRequestID(collectID int64, collectRequestID string) error {
	return r.db.Model(&ordermodel.Status{}).
		Where("collect_id = ? AND collect_request_id IS NULL", collectID).
		Update("collect_request_id", collectRequestID).Error
}

func (r *StatusRepository) Update(s *ordermodel.Status) error {
	return r.db.Model(&ordermodel.Status{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"status":             s.Status,
			"order_amount":       s.OrderAmount,
			"transaction_amount": s.TransactionAmount,
			"payment_mode":       s.PaymentMode,
			"payment_details":    s.PaymentDetails,
			"bank_reference":     s.BankReference,
			"payment_message":    s.PaymentMessage,
			"error_message":      s.ErrorMessage,
			"payment_time":       s.PaymentTime,
		}).Error
}
