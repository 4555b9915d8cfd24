package mocks

import (
	"context"
	"sync"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MenuItemRepositoryMock struct {
	mock.Mock
}

func (m *MenuItemRepositoryMock) Create(ctx context.Context, item *model.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuItemRepositoryMock) FindByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	var item *model.MenuItem
	if val := args.Get(0); val != nil {
		item = val.(*model.MenuItem)
	}
	return item, args.Error(1)
}

func (m *MenuItemRepositoryMock) FindByIDs(ctx context.Context, ids []uint64) ([]model.MenuItem, error) {
	args := m.Called(ctx, ids)
	var items []model.MenuItem
	if val := args.Get(0); val != nil {
		items = val.([]model.MenuItem)
	}
	return items, args.Error(1)
}

func (m *MenuItemRepositoryMock) List(ctx context.Context, serveDate string, slot model.MenuSlot, availableOnly bool) ([]model.MenuItem, error) {
	args := m.Called(ctx, serveDate, slot, availableOnly)
	var items []model.MenuItem
	if val := args.Get(0); val != nil {
		items = val.([]model.MenuItem)
	}
	return items, args.Error(1)
}

func (m *MenuItemRepositoryMock) Update(ctx context.Context, item *model.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuItemRepositoryMock) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MenuItemRepositoryMock) SetRemaining(ctx context.Context, id uint64, remaining int) error {
	args := m.Called(ctx, id, remaining)
	return args.Error(0)
}

func (m *MenuItemRepositoryMock) SetDB(db *gorm.DB) {}

type OrderRepositoryMock struct {
	mock.Mock
}

func (m *OrderRepositoryMock) CreateWithCapacity(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepositoryMock) CancelWithRestore(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepositoryMock) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	args := m.Called(ctx, id)
	var o *model.Order
	if val := args.Get(0); val != nil {
		o = val.(*model.Order)
	}
	return o, args.Error(1)
}

func (m *OrderRepositoryMock) ListByCustomer(ctx context.Context, customerUID string) ([]model.Order, error) {
	args := m.Called(ctx, customerUID)
	var list []model.Order
	if val := args.Get(0); val != nil {
		list = val.([]model.Order)
	}
	return list, args.Error(1)
}

func (m *OrderRepositoryMock) ListAll(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	args := m.Called(ctx, status)
	var list []model.Order
	if val := args.Get(0); val != nil {
		list = val.([]model.Order)
	}
	return list, args.Error(1)
}

func (m *OrderRepositoryMock) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *OrderRepositoryMock) SetDB(db *gorm.DB) {}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) FindOrCreate(ctx context.Context, conv *model.Conversation) (*model.Conversation, error) {
	args := m.Called(ctx, conv)
	var cv *model.Conversation
	if val := args.Get(0); val != nil {
		cv = val.(*model.Conversation)
	}
	return cv, args.Error(1)
}

func (m *ConversationRepositoryMock) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	args := m.Called(ctx, id)
	var cv *model.Conversation
	if val := args.Get(0); val != nil {
		cv = val.(*model.Conversation)
	}
	return cv, args.Error(1)
}

func (m *ConversationRepositoryMock) List(ctx context.Context) ([]model.Conversation, error) {
	args := m.Called(ctx)
	var list []model.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]model.Conversation)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) AppendMessage(ctx context.Context, msg *model.Message, convFields map[string]interface{}) error {
	args := m.Called(ctx, msg, convFields)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) ListMessages(ctx context.Context, convID string) ([]model.Message, error) {
	args := m.Called(ctx, convID)
	var msgs []model.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]model.Message)
	}
	return msgs, args.Error(1)
}

func (m *ConversationRepositoryMock) SetDB(db *gorm.DB) {}

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) FindByUID(ctx context.Context, uid string) (*model.UserProfile, error) {
	args := m.Called(ctx, uid)
	var p *model.UserProfile
	if val := args.Get(0); val != nil {
		p = val.(*model.UserProfile)
	}
	return p, args.Error(1)
}

func (m *ProfileRepositoryMock) Upsert(ctx context.Context, profile *model.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) SetDB(db *gorm.DB) {}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) ListByUser(ctx context.Context, uid string, includeAdmin bool, unreadOnly bool, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, uid, includeAdmin, unreadOnly, limit)
	var list []model.Notification
	if val := args.Get(0); val != nil {
		list = val.([]model.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) CountUnread(ctx context.Context, uid string, includeAdmin bool) (int64, error) {
	args := m.Called(ctx, uid, includeAdmin)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkAllRead(ctx context.Context, uid string, includeAdmin bool) error {
	args := m.Called(ctx, uid, includeAdmin)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) SetDB(db *gorm.DB) {}

// ChangeNotifierMock records conversation ids it was pinged for.
type ChangeNotifierMock struct {
	mu     sync.Mutex
	Pinged []string
}

func (m *ChangeNotifierMock) Notify(ctx context.Context, conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pinged = append(m.Pinged, conversationID)
}

// FakeDraftRepository is an in-memory stand-in for the Redis-backed store.
type FakeDraftRepository struct {
	mu    sync.Mutex
	data  map[string]string
	prefs map[string]string
}

func NewFakeDraftRepository() *FakeDraftRepository {
	return &FakeDraftRepository{
		data:  make(map[string]string),
		prefs: make(map[string]string),
	}
}

func (f *FakeDraftRepository) SaveDraft(ctx context.Context, uid, conversationID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := uid + ":" + conversationID
	if text == "" {
		delete(f.data, key)
		return nil
	}
	f.data[key] = text
	return nil
}

func (f *FakeDraftRepository) LoadDraft(ctx context.Context, uid, conversationID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[uid+":"+conversationID], nil
}

func (f *FakeDraftRepository) SavePreference(ctx context.Context, uid, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := uid + ":" + key
	if value == "" {
		delete(f.prefs, k)
		return nil
	}
	f.prefs[k] = value
	return nil
}

func (f *FakeDraftRepository) LoadPreference(ctx context.Context, uid, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs[uid+":"+key], nil
}
