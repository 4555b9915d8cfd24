package repository

import (
	"context"
	"errors"

	"github.com/cloudkitchen/backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type MenuItemRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, id uint64) (*model.MenuItem, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.MenuItem, error)
	List(ctx context.Context, serveDate string, slot model.MenuSlot, availableOnly bool) ([]model.MenuItem, error)
	Update(ctx context.Context, item *model.MenuItem) error
	Delete(ctx context.Context, id uint64) error
	SetRemaining(ctx context.Context, id uint64, remaining int) error
	SetDB(db *gorm.DB)
}

type menuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *menuItemRepository) Create(ctx context.Context, item *model.MenuItem) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuItemRepository) FindByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var item model.MenuItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuItemRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.MenuItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var items []model.MenuItem
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *menuItemRepository) List(ctx context.Context, serveDate string, slot model.MenuSlot, availableOnly bool) ([]model.MenuItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Model(&model.MenuItem{})
	if serveDate != "" {
		q = q.Where("serve_date = ?", serveDate)
	}
	if slot != "" {
		q = q.Where("slot = ?", slot)
	}
	if availableOnly {
		q = q.Where("available = ? AND remaining > 0", true)
	}
	var items []model.MenuItem
	if err := q.Order("serve_date ASC, slot ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *menuItemRepository) Update(ctx context.Context, item *model.MenuItem) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *menuItemRepository) Delete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Delete(&model.MenuItem{}, id).Error
}

func (r *menuItemRepository) SetRemaining(ctx context.Context, id uint64, remaining int) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.MenuItem{}).
		Where("id = ?", id).
		Update("remaining", remaining)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
