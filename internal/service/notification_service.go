package service

import (
	"context"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, userUID, typ, title, body string, convID *string, orderID *uint64)
	NotifyAdmins(ctx context.Context, typ, title, body string, convID *string, orderID *uint64)
	List(ctx context.Context, userUID string, admin bool, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userUID string, admin bool) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Notify is best-effort; failures are swallowed so they never break the
// main write path.
func (s *notificationService) Notify(ctx context.Context, userUID, typ, title, body string, convID *string, orderID *uint64) {
	if userUID == "" || typ == "" {
		return
	}
	_ = s.repo.Create(ctx, &model.Notification{
		UserUID:        userUID,
		Audience:       "user",
		Type:           typ,
		Title:          title,
		Body:           body,
		ConversationID: convID,
		OrderID:        orderID,
	})
}

func (s *notificationService) NotifyAdmins(ctx context.Context, typ, title, body string, convID *string, orderID *uint64) {
	if typ == "" {
		return
	}
	_ = s.repo.Create(ctx, &model.Notification{
		Audience:       "admin",
		Type:           typ,
		Title:          title,
		Body:           body,
		ConversationID: convID,
		OrderID:        orderID,
	})
}

func (s *notificationService) List(ctx context.Context, userUID string, admin bool, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if userUID == "" {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userUID, admin, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userUID, admin)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userUID string, admin bool) error {
	if userUID == "" {
		return nil
	}
	return s.repo.MarkAllRead(ctx, userUID, admin)
}
