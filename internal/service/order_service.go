package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/observability"
	"github.com/cloudkitchen/backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInsufficientCapacity = errors.New("insufficient capacity")

// ErrInvalidOrder marks submissions rejected by validation, as opposed to
// store failures.
var ErrInvalidOrder = errors.New("invalid order")

type OrderLineInput struct {
	MenuItemID uint64
	Quantity   int
}

type SubmitOrderInput struct {
	Name         string
	Phone        string
	Address      string
	DeliveryDate string
	TimeSlot     string
	Instructions string
	Lines        []OrderLineInput
}

type OrderService interface {
	Submit(ctx context.Context, customerUID string, in SubmitOrderInput) (*model.Order, error)
	Get(ctx context.Context, id uint64, uid string, admin bool) (*model.Order, error)
	ListMine(ctx context.Context, customerUID string) ([]model.Order, error)
	ListAll(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) (*model.Order, error)
	Cancel(ctx context.Context, id uint64, customerUID string) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	menuRepo    repository.MenuItemRepository
	notifSvc    NotificationService
	deliveryFee int64
}

func NewOrderService(orderRepo repository.OrderRepository, menuRepo repository.MenuItemRepository, notifSvc NotificationService, deliveryFee int64) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		menuRepo:    menuRepo,
		notifSvc:    notifSvc,
		deliveryFee: deliveryFee,
	}
}

// Submit validates everything up front; nothing is written unless the whole
// order (document plus every capacity decrement) can commit together.
func (s *orderService) Submit(ctx context.Context, customerUID string, in SubmitOrderInput) (*model.Order, error) {
	if customerUID == "" {
		return nil, fmt.Errorf("%w: customer is required", ErrInvalidOrder)
	}
	if in.Name == "" || in.Phone == "" || in.Address == "" {
		observability.IncOrderRejected("missing_contact")
		return nil, fmt.Errorf("%w: name, phone and address are required", ErrInvalidOrder)
	}
	if len(in.Lines) == 0 {
		observability.IncOrderRejected("no_items")
		return nil, fmt.Errorf("%w: select at least one menu item", ErrInvalidOrder)
	}

	// Merge duplicate item ids so a single conditional decrement covers the
	// full ordered quantity.
	quantities := make(map[uint64]int, len(in.Lines))
	ids := make([]uint64, 0, len(in.Lines))
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			observability.IncOrderRejected("bad_quantity")
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
		}
		if _, seen := quantities[line.MenuItemID]; !seen {
			ids = append(ids, line.MenuItemID)
		}
		quantities[line.MenuItemID] += line.Quantity
	}

	items, err := s.menuRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	var subtotal int64
	lines := make([]model.OrderLine, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			observability.IncOrderRejected("unknown_item")
			return nil, fmt.Errorf("%w: menu item %d not found", ErrInvalidOrder, id)
		}
		if !item.Available {
			observability.IncOrderRejected("unavailable_item")
			return nil, fmt.Errorf("%w: menu item %q is not available", ErrInvalidOrder, item.Name)
		}
		qty := quantities[id]
		subtotal += item.Price * int64(qty)
		lines = append(lines, model.OrderLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   qty,
		})
	}

	order := &model.Order{
		PublicID:        uuid.NewString(),
		CustomerUID:     customerUID,
		CustomerName:    in.Name,
		CustomerPhone:   in.Phone,
		CustomerAddress: in.Address,
		DeliveryDate:    in.DeliveryDate,
		TimeSlot:        in.TimeSlot,
		Instructions:    in.Instructions,
		Subtotal:        subtotal,
		DeliveryFee:     s.deliveryFee,
		Total:           subtotal + s.deliveryFee,
		Status:          model.OrderStatusPending,
		Lines:           lines,
	}

	if err := s.orderRepo.CreateWithCapacity(ctx, order); err != nil {
		if errors.Is(err, repository.ErrInsufficientCapacity) {
			observability.IncOrderRejected("capacity")
			return nil, ErrInsufficientCapacity
		}
		return nil, err
	}

	observability.IncOrderPlaced()
	if s.notifSvc != nil {
		s.notifSvc.NotifyAdmins(ctx, "order_placed", "New order",
			fmt.Sprintf("Order %s from %s, total %d", order.PublicID, order.CustomerName, order.Total),
			nil, &order.ID)
	}
	return order, nil
}

func (s *orderService) Get(ctx context.Context, id uint64, uid string, admin bool) (*model.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !admin && o.CustomerUID != uid {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *orderService) ListMine(ctx context.Context, customerUID string) ([]model.Order, error) {
	if customerUID == "" {
		return nil, errors.New("customer is required")
	}
	return s.orderRepo.ListByCustomer(ctx, customerUID)
}

func (s *orderService) ListAll(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx, status)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) (*model.Order, error) {
	switch status {
	case model.OrderStatusPreparing, model.OrderStatusOutForDelivery, model.OrderStatusDelivered, model.OrderStatusCanceled:
	default:
		return nil, fmt.Errorf("invalid status %q", status)
	}
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.Status == model.OrderStatusCanceled {
		return nil, errors.New("order is canceled")
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	o.Status = status
	if s.notifSvc != nil {
		s.notifSvc.Notify(ctx, o.CustomerUID, "order_status", "Order update",
			fmt.Sprintf("Your order %s is now %s", o.PublicID, status), nil, &o.ID)
	}
	return o, nil
}

func (s *orderService) Cancel(ctx context.Context, id uint64, customerUID string) (*model.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.CustomerUID != customerUID {
		return nil, ErrForbidden
	}
	if o.Status != model.OrderStatusPending {
		return nil, errors.New("only pending orders can be canceled")
	}
	if err := s.orderRepo.CancelWithRestore(ctx, o); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Lost the race with a status change.
			return nil, errors.New("only pending orders can be canceled")
		}
		return nil, err
	}
	o.Status = model.OrderStatusCanceled
	if s.notifSvc != nil {
		s.notifSvc.NotifyAdmins(ctx, "order_canceled", "Order canceled",
			fmt.Sprintf("Order %s was canceled by the customer", o.PublicID), nil, &o.ID)
	}
	return o, nil
}
