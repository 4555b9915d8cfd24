package service

import (
	"context"
	"testing"

	"github.com/cloudkitchen/backend/internal/mocks"
	"github.com/cloudkitchen/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConvService(convRepo *mocks.ConversationRepositoryMock, notifier ChangeNotifier) ConversationService {
	return NewConversationService(convRepo, mocks.NewFakeDraftRepository(), notifier, nil)
}

func storedConversation() *model.Conversation {
	return &model.Conversation{
		ID:            "uid-1",
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9999999999",
		Status:        model.ConversationOpen,
	}
}

func TestEnsureCreatesOnFirstContact(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	convRepo.On("FindByID", mock.Anything, "uid-1").Return(nil, gorm.ErrRecordNotFound)
	convRepo.On("FindOrCreate", mock.Anything, mock.AnythingOfType("*model.Conversation")).
		Return(storedConversation(), nil)

	cv, err := svc.Ensure(context.Background(), "uid-1", ContactFields{Name: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", cv.ID)

	created := convRepo.Calls[1].Arguments.Get(1).(*model.Conversation)
	assert.Equal(t, "Asha", created.CustomerName)
	assert.Equal(t, model.ConversationOpen, created.Status)
}

func TestEnsureMergesOnlyChangedContactFields(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	convRepo.On("FindByID", mock.Anything, "uid-1").Return(storedConversation(), nil)
	convRepo.On("UpdateFields", mock.Anything, "uid-1", map[string]interface{}{
		"customer_phone":   "8888888888",
		"customer_address": "12 MG Road",
	}).Return(nil)

	_, err := svc.Ensure(context.Background(), "uid-1", ContactFields{
		Name:    "Asha",
		Phone:   "8888888888",
		Address: "12 MG Road",
	})
	require.NoError(t, err)
	convRepo.AssertExpectations(t)
}

func TestEnsureNoWriteWhenNothingChanged(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	convRepo.On("FindByID", mock.Anything, "uid-1").Return(storedConversation(), nil)

	cv, err := svc.Ensure(context.Background(), "uid-1", ContactFields{Name: "Asha", Email: ""})
	require.NoError(t, err)
	assert.Equal(t, "Asha", cv.CustomerName)
	convRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessageFromCustomer(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	notifier := new(mocks.ChangeNotifierMock)
	svc := newConvService(convRepo, notifier)

	convRepo.On("FindByID", mock.Anything, "uid-1").Return(storedConversation(), nil)
	convRepo.On("AppendMessage", mock.Anything, mock.AnythingOfType("*model.Message"), map[string]interface{}{
		"last_message":       "hello, my order is late",
		"last_sender":        model.SenderCustomer,
		"status":             model.ConversationOpen,
		"unread_by_admin":    true,
		"unread_by_customer": false,
	}).Return(nil)

	msg, err := svc.SendMessage(context.Background(), "uid-1", "uid-1", false, "  hello, my order is late  ", ContactFields{})
	require.NoError(t, err)
	assert.Equal(t, model.SenderCustomer, msg.Sender)
	assert.Equal(t, "hello, my order is late", msg.Body)
	assert.Equal(t, []string{"uid-1"}, notifier.Pinged)
	convRepo.AssertExpectations(t)
}

func TestSendMessageFromAdminFlipsFlags(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	notifier := new(mocks.ChangeNotifierMock)
	svc := newConvService(convRepo, notifier)

	convRepo.On("FindByID", mock.Anything, "uid-1").Return(storedConversation(), nil)
	convRepo.On("AppendMessage", mock.Anything, mock.AnythingOfType("*model.Message"), map[string]interface{}{
		"last_message":       "on its way",
		"last_sender":        model.SenderAdmin,
		"status":             model.ConversationReplied,
		"unread_by_customer": true,
		"unread_by_admin":    false,
	}).Return(nil)

	msg, err := svc.SendMessage(context.Background(), "uid-1", "admin-1", true, "on its way", ContactFields{})
	require.NoError(t, err)
	assert.Equal(t, model.SenderAdmin, msg.Sender)
	convRepo.AssertExpectations(t)
}

func TestSendMessageRejectsEmptyBody(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	_, err := svc.SendMessage(context.Background(), "uid-1", "uid-1", false, "   ", ContactFields{})
	assert.Error(t, err)
	convRepo.AssertNotCalled(t, "AppendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessageForbiddenForForeignThread(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	_, err := svc.SendMessage(context.Background(), "uid-1", "uid-2", false, "hi", ContactFields{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSendMessageAdminToUnknownThread(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	convRepo.On("FindByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.SendMessage(context.Background(), "ghost", "admin-1", true, "hi", ContactFields{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkReadClearsViewerFlag(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	convRepo.On("UpdateFields", mock.Anything, "uid-1", map[string]interface{}{
		"unread_by_admin": false,
	}).Return(nil)
	require.NoError(t, svc.MarkRead(context.Background(), "uid-1", model.SenderAdmin))

	convRepo.On("UpdateFields", mock.Anything, "uid-1", map[string]interface{}{
		"unread_by_customer": false,
	}).Return(nil)
	require.NoError(t, svc.MarkRead(context.Background(), "uid-1", model.SenderCustomer))

	convRepo.AssertExpectations(t)
}

func TestArchiveSetsStatus(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	convRepo.On("FindByID", mock.Anything, "uid-1").Return(storedConversation(), nil)
	convRepo.On("UpdateFields", mock.Anything, "uid-1", map[string]interface{}{
		"status": model.ConversationArchived,
	}).Return(nil)

	require.NoError(t, svc.Archive(context.Background(), "uid-1"))
	convRepo.AssertExpectations(t)
}

func TestDraftRoundTripAndClear(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)
	ctx := context.Background()

	require.NoError(t, svc.SaveDraft(ctx, "uid-1", "uid-1", false, "half-typed reply"))
	text, err := svc.LoadDraft(ctx, "uid-1", "uid-1", false)
	require.NoError(t, err)
	assert.Equal(t, "half-typed reply", text)

	// Saving empty text clears the draft.
	require.NoError(t, svc.SaveDraft(ctx, "uid-1", "uid-1", false, ""))
	text, err = svc.LoadDraft(ctx, "uid-1", "uid-1", false)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestDraftForbiddenForForeignThread(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	err := svc.SaveDraft(context.Background(), "uid-1", "uid-2", false, "nope")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.LoadDraft(context.Background(), "uid-1", "uid-2", false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetForbiddenForForeignViewer(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	svc := newConvService(convRepo, nil)

	convRepo.On("FindByID", mock.Anything, "uid-1").Return(storedConversation(), nil)

	_, err := svc.Get(context.Background(), "uid-1", "uid-2", false)
	assert.ErrorIs(t, err, ErrForbidden)

	cv, err := svc.Get(context.Background(), "uid-1", "admin-1", true)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", cv.ID)
}
