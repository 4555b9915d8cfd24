package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/observability"
	"github.com/cloudkitchen/backend/internal/repository"
	"gorm.io/gorm"
)

// ChangeNotifier receives a ping after a message commits so live subscribers
// can be pushed a fresh snapshot. stream.Broker satisfies it.
type ChangeNotifier interface {
	Notify(ctx context.Context, conversationID string)
}

type ContactFields struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type ConversationService interface {
	// Ensure creates the customer's conversation on first contact and merges
	// changed contact fields on later calls. Status, unread flags and message
	// history are never touched by a contact-field edit.
	Ensure(ctx context.Context, customerUID string, contact ContactFields) (*model.Conversation, error)
	Get(ctx context.Context, convID, viewerUID string, admin bool) (*model.Conversation, error)
	List(ctx context.Context) ([]model.Conversation, error)
	ListMessages(ctx context.Context, convID, viewerUID string, admin bool) ([]model.Message, error)
	SendMessage(ctx context.Context, convID, viewerUID string, admin bool, body string, contact ContactFields) (*model.Message, error)
	MarkRead(ctx context.Context, convID string, viewer model.SenderRole) error
	Archive(ctx context.Context, convID string) error
	SaveDraft(ctx context.Context, convID, viewerUID string, admin bool, text string) error
	LoadDraft(ctx context.Context, convID, viewerUID string, admin bool) (string, error)
}

type conversationService struct {
	convRepo  repository.ConversationRepository
	draftRepo repository.DraftRepository
	notifier  ChangeNotifier
	notifSvc  NotificationService
}

func NewConversationService(convRepo repository.ConversationRepository, draftRepo repository.DraftRepository, notifier ChangeNotifier, notifSvc NotificationService) ConversationService {
	return &conversationService{
		convRepo:  convRepo,
		draftRepo: draftRepo,
		notifier:  notifier,
		notifSvc:  notifSvc,
	}
}

// contactDiff returns only the contact columns whose values differ from the
// stored snapshot. Empty incoming fields are ignored rather than clearing.
func contactDiff(cv *model.Conversation, contact ContactFields) map[string]interface{} {
	fields := make(map[string]interface{})
	if contact.Name != "" && contact.Name != cv.CustomerName {
		fields["customer_name"] = contact.Name
	}
	if contact.Email != "" && contact.Email != cv.CustomerEmail {
		fields["customer_email"] = contact.Email
	}
	if contact.Phone != "" && contact.Phone != cv.CustomerPhone {
		fields["customer_phone"] = contact.Phone
	}
	if contact.Address != "" && contact.Address != cv.CustomerAddress {
		fields["customer_address"] = contact.Address
	}
	return fields
}

func (s *conversationService) Ensure(ctx context.Context, customerUID string, contact ContactFields) (*model.Conversation, error) {
	if customerUID == "" {
		return nil, errors.New("customer is required")
	}
	cv, err := s.convRepo.FindByID(ctx, customerUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.convRepo.FindOrCreate(ctx, &model.Conversation{
			ID:              customerUID,
			CustomerName:    contact.Name,
			CustomerEmail:   contact.Email,
			CustomerPhone:   contact.Phone,
			CustomerAddress: contact.Address,
			Status:          model.ConversationOpen,
		})
	}
	if err != nil {
		return nil, err
	}
	fields := contactDiff(cv, contact)
	if len(fields) == 0 {
		return cv, nil
	}
	if err := s.convRepo.UpdateFields(ctx, customerUID, fields); err != nil {
		return nil, err
	}
	return s.convRepo.FindByID(ctx, customerUID)
}

func (s *conversationService) access(cv *model.Conversation, viewerUID string, admin bool) error {
	if admin {
		return nil
	}
	if cv.ID != viewerUID {
		return ErrForbidden
	}
	return nil
}

func (s *conversationService) Get(ctx context.Context, convID, viewerUID string, admin bool) (*model.Conversation, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.access(cv, viewerUID, admin); err != nil {
		return nil, err
	}
	return cv, nil
}

func (s *conversationService) List(ctx context.Context) ([]model.Conversation, error) {
	return s.convRepo.List(ctx)
}

func (s *conversationService) ListMessages(ctx context.Context, convID, viewerUID string, admin bool) ([]model.Message, error) {
	if _, err := s.Get(ctx, convID, viewerUID, admin); err != nil {
		return nil, err
	}
	return s.convRepo.ListMessages(ctx, convID)
}

func (s *conversationService) SendMessage(ctx context.Context, convID, viewerUID string, admin bool, body string, contact ContactFields) (*model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("message body is required")
	}

	sender := model.SenderCustomer
	if admin {
		sender = model.SenderAdmin
		if _, err := s.convRepo.FindByID(ctx, convID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	} else {
		if convID != viewerUID {
			return nil, ErrForbidden
		}
		// Lazy creation on first message, seeded with the sender's contact
		// snapshot.
		if _, err := s.Ensure(ctx, convID, contact); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{
		"last_message": body,
		"last_sender":  sender,
	}
	if sender == model.SenderCustomer {
		fields["status"] = model.ConversationOpen
		fields["unread_by_admin"] = true
		fields["unread_by_customer"] = false
	} else {
		fields["status"] = model.ConversationReplied
		fields["unread_by_customer"] = true
		fields["unread_by_admin"] = false
	}

	msg := &model.Message{
		ConversationID: convID,
		Sender:         sender,
		Body:           body,
	}
	if err := s.convRepo.AppendMessage(ctx, msg, fields); err != nil {
		return nil, err
	}

	observability.IncMessageSent(string(sender))
	if s.notifier != nil {
		s.notifier.Notify(ctx, convID)
	}
	if s.notifSvc != nil {
		if sender == model.SenderCustomer {
			s.notifSvc.NotifyAdmins(ctx, "message", "New message", body, &convID, nil)
		} else {
			s.notifSvc.Notify(ctx, convID, "message", "Reply from support", body, &convID, nil)
		}
	}
	return msg, nil
}

// MarkRead clears the viewer's unread flag. Best-effort: it is not
// transactional against concurrent message inserts.
func (s *conversationService) MarkRead(ctx context.Context, convID string, viewer model.SenderRole) error {
	col := "unread_by_customer"
	if viewer == model.SenderAdmin {
		col = "unread_by_admin"
	}
	return s.convRepo.UpdateFields(ctx, convID, map[string]interface{}{col: false})
}

func (s *conversationService) Archive(ctx context.Context, convID string) error {
	if _, err := s.convRepo.FindByID(ctx, convID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.convRepo.UpdateFields(ctx, convID, map[string]interface{}{
		"status": model.ConversationArchived,
	})
}

func (s *conversationService) SaveDraft(ctx context.Context, convID, viewerUID string, admin bool, text string) error {
	if !admin && convID != viewerUID {
		return ErrForbidden
	}
	return s.draftRepo.SaveDraft(ctx, viewerUID, convID, text)
}

func (s *conversationService) LoadDraft(ctx context.Context, convID, viewerUID string, admin bool) (string, error) {
	if !admin && convID != viewerUID {
		return "", ErrForbidden
	}
	return s.draftRepo.LoadDraft(ctx, viewerUID, convID)
}
