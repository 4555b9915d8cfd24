package service

import (
	"context"
	"testing"

	"github.com/cloudkitchen/backend/internal/mocks"
	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testMenuItems() []model.MenuItem {
	return []model.MenuItem{
		{ID: 1, Name: "Special Veg Thali", Price: 50, Available: true, Remaining: 10},
		{ID: 2, Name: "Aloo Paratha Feast", Price: 30, Available: true, Remaining: 5},
	}
}

func TestOrderSubmitComputesTotals(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	menuRepo.On("FindByIDs", mock.Anything, []uint64{1, 2}).Return(testMenuItems(), nil)
	orderRepo.On("CreateWithCapacity", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)

	order, err := svc.Submit(context.Background(), "uid-1", SubmitOrderInput{
		Name:    "Asha",
		Phone:   "9999999999",
		Address: "12 MG Road",
		Lines: []OrderLineInput{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(130), order.Subtotal)
	assert.Equal(t, int64(30), order.DeliveryFee)
	assert.Equal(t, int64(160), order.Total)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "uid-1", order.CustomerUID)
	assert.NotEmpty(t, order.PublicID)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Special Veg Thali", order.Lines[0].Name)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	orderRepo.AssertExpectations(t)
}

func TestOrderSubmitMergesDuplicateLines(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	menuRepo.On("FindByIDs", mock.Anything, []uint64{1}).Return(testMenuItems()[:1], nil)
	orderRepo.On("CreateWithCapacity", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)

	order, err := svc.Submit(context.Background(), "uid-1", SubmitOrderInput{
		Name:    "Asha",
		Phone:   "9999999999",
		Address: "12 MG Road",
		Lines: []OrderLineInput{
			{MenuItemID: 1, Quantity: 1},
			{MenuItemID: 1, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 3, order.Lines[0].Quantity)
	assert.Equal(t, int64(150), order.Subtotal)
}

func TestOrderSubmitRejectsEmptyOrder(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	_, err := svc.Submit(context.Background(), "uid-1", SubmitOrderInput{
		Name:    "Asha",
		Phone:   "9999999999",
		Address: "12 MG Road",
	})
	assert.ErrorIs(t, err, ErrInvalidOrder)
	menuRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "CreateWithCapacity", mock.Anything, mock.Anything)
}

func TestOrderSubmitRejectsMissingContact(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	_, err := svc.Submit(context.Background(), "uid-1", SubmitOrderInput{
		Name:  "Asha",
		Lines: []OrderLineInput{{MenuItemID: 1, Quantity: 1}},
	})
	assert.Error(t, err)
	orderRepo.AssertNotCalled(t, "CreateWithCapacity", mock.Anything, mock.Anything)
}

func TestOrderSubmitRejectsUnavailableItem(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	items := testMenuItems()[:1]
	items[0].Available = false
	menuRepo.On("FindByIDs", mock.Anything, []uint64{1}).Return(items, nil)

	_, err := svc.Submit(context.Background(), "uid-1", SubmitOrderInput{
		Name:    "Asha",
		Phone:   "9999999999",
		Address: "12 MG Road",
		Lines:   []OrderLineInput{{MenuItemID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidOrder)
	orderRepo.AssertNotCalled(t, "CreateWithCapacity", mock.Anything, mock.Anything)
}

func TestOrderSubmitCapacityExhausted(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	menuRepo.On("FindByIDs", mock.Anything, []uint64{1}).Return(testMenuItems()[:1], nil)
	orderRepo.On("CreateWithCapacity", mock.Anything, mock.AnythingOfType("*model.Order")).
		Return(repository.ErrInsufficientCapacity)

	_, err := svc.Submit(context.Background(), "uid-1", SubmitOrderInput{
		Name:    "Asha",
		Phone:   "9999999999",
		Address: "12 MG Road",
		Lines:   []OrderLineInput{{MenuItemID: 1, Quantity: 20}},
	})
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
}

func TestOrderCancel(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	pending := &model.Order{ID: 7, CustomerUID: "uid-1", Status: model.OrderStatusPending}
	orderRepo.On("FindByID", mock.Anything, uint64(7)).Return(pending, nil)
	orderRepo.On("CancelWithRestore", mock.Anything, pending).Return(nil)

	order, err := svc.Cancel(context.Background(), 7, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, order.Status)
	orderRepo.AssertExpectations(t)
}

func TestOrderCancelForbiddenForOtherCustomer(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	orderRepo.On("FindByID", mock.Anything, uint64(7)).
		Return(&model.Order{ID: 7, CustomerUID: "uid-1", Status: model.OrderStatusPending}, nil)

	_, err := svc.Cancel(context.Background(), 7, "uid-2")
	assert.ErrorIs(t, err, ErrForbidden)
	orderRepo.AssertNotCalled(t, "CancelWithRestore", mock.Anything, mock.Anything)
}

func TestOrderCancelRejectsNonPending(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	orderRepo.On("FindByID", mock.Anything, uint64(7)).
		Return(&model.Order{ID: 7, CustomerUID: "uid-1", Status: model.OrderStatusPreparing}, nil)

	_, err := svc.Cancel(context.Background(), 7, "uid-1")
	assert.Error(t, err)
	orderRepo.AssertNotCalled(t, "CancelWithRestore", mock.Anything, mock.Anything)
}

func TestOrderUpdateStatusRejectsUnknownStatus(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	_, err := svc.UpdateStatus(context.Background(), 7, model.OrderStatus("cooked"))
	assert.Error(t, err)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderGetEnforcesOwnership(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	menuRepo := new(mocks.MenuItemRepositoryMock)
	svc := NewOrderService(orderRepo, menuRepo, nil, 30)

	orderRepo.On("FindByID", mock.Anything, uint64(7)).
		Return(&model.Order{ID: 7, CustomerUID: "uid-1"}, nil)

	_, err := svc.Get(context.Background(), 7, "uid-2", false)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Get(context.Background(), 7, "uid-2", true)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.ID)
}
