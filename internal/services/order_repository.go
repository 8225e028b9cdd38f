package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/example/achievepack/internal/models"
)

// OrderRepository is the durable data-store boundary the checkout and
// confirmation flows write through.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	OrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	// UpdateOrderStatus must be safe to call more than once with the same
	// arguments: re-confirming a confirmed order is a no-op.
	UpdateOrderStatus(ctx context.Context, orderNumber, sessionRef, status string) error
	CreateQuoteRequest(ctx context.Context, quote *models.QuoteRequest) error
}

// GormOrderRepository implements OrderRepository on Postgres.
type GormOrderRepository struct {
	db *gorm.DB
}

var _ OrderRepository = (*GormOrderRepository)(nil)

// NewGormOrderRepository constructs a GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) OrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) UpdateOrderStatus(ctx context.Context, orderNumber, sessionRef, status string) error {
	updates := map[string]any{
		"status":              status,
		"payment_session_ref": sessionRef,
	}
	if status == models.OrderStatusConfirmed {
		now := time.Now()
		updates["confirmed_at"] = &now
	}

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number = ? AND status <> ?", orderNumber, status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		// Either the order is already in the target state (fine, the
		// confirmation page was refreshed) or it does not exist.
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("order_number = ?", orderNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}

	return nil
}

func (r *GormOrderRepository) CreateQuoteRequest(ctx context.Context, quote *models.QuoteRequest) error {
	return r.db.WithContext(ctx).Create(quote).Error
}
