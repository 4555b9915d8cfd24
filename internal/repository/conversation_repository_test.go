package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedConversation(t *testing.T, db *gorm.DB, id string) *model.Conversation {
	t.Helper()
	cv := &model.Conversation{
		ID:           id,
		CustomerName: "Asha",
		Status:       model.ConversationOpen,
	}
	require.NoError(t, db.Create(cv).Error)
	return cv
}

func TestListMessagesAscendingSendTime(t *testing.T) {
	db := openTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	seedConversation(t, db, "uid-1")

	// Insert out of order; the thread must come back in send-time order
	// regardless of insertion order.
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&model.Message{
		ConversationID: "uid-1", Sender: model.SenderAdmin, Body: "third", CreatedAt: base.Add(2 * time.Second),
	}).Error)
	require.NoError(t, db.Create(&model.Message{
		ConversationID: "uid-1", Sender: model.SenderCustomer, Body: "first", CreatedAt: base,
	}).Error)
	require.NoError(t, db.Create(&model.Message{
		ConversationID: "uid-1", Sender: model.SenderAdmin, Body: "second", CreatedAt: base.Add(time.Second),
	}).Error)

	msgs, err := repo.ListMessages(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Body)
	assert.Equal(t, "second", msgs[1].Body)
	assert.Equal(t, "third", msgs[2].Body)
}

func TestListMessagesBreaksTimestampTiesByID(t *testing.T) {
	db := openTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	seedConversation(t, db, "uid-1")

	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&model.Message{
		ConversationID: "uid-1", Sender: model.SenderCustomer, Body: "earlier id", CreatedAt: ts,
	}).Error)
	require.NoError(t, db.Create(&model.Message{
		ConversationID: "uid-1", Sender: model.SenderCustomer, Body: "later id", CreatedAt: ts,
	}).Error)

	msgs, err := repo.ListMessages(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "earlier id", msgs[0].Body)
	assert.Equal(t, "later id", msgs[1].Body)
	assert.Less(t, msgs[0].ID, msgs[1].ID)
}

func TestAppendMessageUpdatesSummaryAtomically(t *testing.T) {
	db := openTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	seedConversation(t, db, "uid-1")

	msg := &model.Message{ConversationID: "uid-1", Sender: model.SenderCustomer, Body: "hello"}
	require.NoError(t, repo.AppendMessage(ctx, msg, map[string]interface{}{
		"last_message":       "hello",
		"last_sender":        model.SenderCustomer,
		"status":             model.ConversationOpen,
		"unread_by_admin":    true,
		"unread_by_customer": false,
	}))

	cv, err := repo.FindByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", cv.LastMessage)
	assert.Equal(t, model.SenderCustomer, cv.LastSender)
	assert.True(t, cv.UnreadByAdmin)
	assert.False(t, cv.UnreadByCustomer)

	msgs, err := repo.ListMessages(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Body)
}

func TestUpdateFieldsLeavesOtherColumnsUntouched(t *testing.T) {
	db := openTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	cv := seedConversation(t, db, "uid-1")
	cv.UnreadByAdmin = true
	cv.LastMessage = "hello"
	require.NoError(t, db.Save(cv).Error)

	require.NoError(t, repo.UpdateFields(ctx, "uid-1", map[string]interface{}{
		"customer_phone": "8888888888",
	}))

	got, err := repo.FindByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "8888888888", got.CustomerPhone)
	assert.Equal(t, "Asha", got.CustomerName)
	assert.Equal(t, "hello", got.LastMessage)
	assert.True(t, got.UnreadByAdmin)
	assert.Equal(t, model.ConversationOpen, got.Status)
}
