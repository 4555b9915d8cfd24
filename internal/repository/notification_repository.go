package repository

import (
	"context"
	"time"

	"github.com/cloudkitchen/backend/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, uid string, includeAdmin bool, unreadOnly bool, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, uid string, includeAdmin bool) (int64, error)
	MarkAllRead(ctx context.Context, uid string, includeAdmin bool) error
	SetDB(db *gorm.DB)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) scope(uid string, includeAdmin bool) *gorm.DB {
	q := r.db.Model(&model.Notification{})
	if includeAdmin {
		return q.Where("user_uid = ? OR audience = ?", uid, "admin")
	}
	return q.Where("user_uid = ?", uid)
}

func (r *notificationRepository) ListByUser(ctx context.Context, uid string, includeAdmin bool, unreadOnly bool, limit int) ([]model.Notification, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := r.scope(uid, includeAdmin).WithContext(ctx)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	var list []model.Notification
	if err := q.Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, uid string, includeAdmin bool) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var cnt int64
	if err := r.scope(uid, includeAdmin).WithContext(ctx).
		Where("read_at IS NULL").
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, uid string, includeAdmin bool) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	now := time.Now()
	return r.scope(uid, includeAdmin).WithContext(ctx).
		Where("read_at IS NULL").
		Update("read_at", now).Error
}
