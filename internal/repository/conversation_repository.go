package repository

import (
	"context"

	"github.com/cloudkitchen/backend/internal/model"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	FindOrCreate(ctx context.Context, conv *model.Conversation) (*model.Conversation, error)
	FindByID(ctx context.Context, id string) (*model.Conversation, error)
	List(ctx context.Context) ([]model.Conversation, error)
	// UpdateFields writes only the given columns, leaving everything else
	// (status, unread flags, message history) untouched.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// AppendMessage inserts the message and applies the conversation summary
	// update in one transaction.
	AppendMessage(ctx context.Context, msg *model.Message, convFields map[string]interface{}) error
	ListMessages(ctx context.Context, convID string) ([]model.Message, error)
	SetDB(db *gorm.DB)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, conv *model.Conversation) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if err := r.db.WithContext(ctx).
		Where("id = ?", conv.ID).
		FirstOrCreate(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cv model.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cv).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) List(ctx context.Context) ([]model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Conversation
	if err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *conversationRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *conversationRepository) AppendMessage(ctx context.Context, msg *model.Message, convFields map[string]interface{}) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if len(convFields) == 0 {
			return nil
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(convFields).Error
	})
}

func (r *conversationRepository) ListMessages(ctx context.Context, convID string) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
