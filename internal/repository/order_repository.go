package repository

import (
	"context"
	"errors"

	"github.com/cloudkitchen/backend/internal/model"
	"gorm.io/gorm"
)

var ErrInsufficientCapacity = errors.New("insufficient capacity")

type OrderRepository interface {
	// CreateWithCapacity inserts the order and decrements every line's
	// remaining capacity in one transaction. If any decrement would drive a
	// counter negative the whole write is rolled back.
	CreateWithCapacity(ctx context.Context, order *model.Order) error
	CancelWithRestore(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint64) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerUID string) ([]model.Order, error)
	ListAll(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error
	SetDB(db *gorm.DB)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *orderRepository) CreateWithCapacity(ctx context.Context, order *model.Order) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range order.Lines {
			res := tx.Model(&model.MenuItem{}).
				Where("id = ? AND remaining >= ?", line.MenuItemID, line.Quantity).
				Update("remaining", gorm.Expr("remaining - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientCapacity
			}
		}
		return tx.Create(order).Error
	})
}

func (r *orderRepository) CancelWithRestore(ctx context.Context, order *model.Order) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Order{}).
			Where("id = ? AND status = ?", order.ID, model.OrderStatusPending).
			Update("status", model.OrderStatusCanceled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		for _, line := range order.Lines {
			if err := tx.Model(&model.MenuItem{}).
				Where("id = ?", line.MenuItemID).
				Update("remaining", gorm.Expr("remaining + ?", line.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var o model.Order
	if err := r.db.WithContext(ctx).Preload("Lines").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerUID string) ([]model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("customer_uid = ?", customerUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) ListAll(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Preload("Lines")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []model.Order
	if err := q.Order("id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
