package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

type MenuItemInput struct {
	Name        string
	Description string
	Price       int64
	ServeDate   string
	Slot        model.MenuSlot
	Remaining   int
	ImageURL    *string
}

type MenuService interface {
	Create(ctx context.Context, in MenuItemInput) (*model.MenuItem, error)
	Update(ctx context.Context, id uint64, in MenuItemInput) (*model.MenuItem, error)
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*model.MenuItem, error)
	List(ctx context.Context, serveDate string, slot model.MenuSlot, availableOnly bool) ([]model.MenuItem, error)
	SetCapacity(ctx context.Context, id uint64, remaining int) error
	SetImageURL(ctx context.Context, id uint64, url string) error
}

type menuService struct {
	repo repository.MenuItemRepository
}

func NewMenuService(repo repository.MenuItemRepository) MenuService {
	return &menuService{repo: repo}
}

func validateMenuInput(in *MenuItemInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || len(in.Name) > 120 {
		return errors.New("invalid name")
	}
	if in.Description == "" {
		return errors.New("invalid description")
	}
	if in.Price <= 0 {
		return errors.New("price must be positive")
	}
	if in.Slot != model.MenuSlotLunch && in.Slot != model.MenuSlotDinner {
		return errors.New("slot must be lunch or dinner")
	}
	if in.Remaining < 0 {
		return errors.New("remaining cannot be negative")
	}
	if _, err := time.Parse("2006-01-02", in.ServeDate); err != nil {
		return errors.New("serveDate must be YYYY-MM-DD")
	}
	return nil
}

func (s *menuService) Create(ctx context.Context, in MenuItemInput) (*model.MenuItem, error) {
	if err := validateMenuInput(&in); err != nil {
		return nil, err
	}
	item := &model.MenuItem{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ServeDate:   in.ServeDate,
		Slot:        in.Slot,
		Remaining:   in.Remaining,
		Available:   true,
		ImageURL:    in.ImageURL,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *menuService) Update(ctx context.Context, id uint64, in MenuItemInput) (*model.MenuItem, error) {
	if err := validateMenuInput(&in); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	item.Name = in.Name
	item.Description = in.Description
	item.Price = in.Price
	item.ServeDate = in.ServeDate
	item.Slot = in.Slot
	item.Remaining = in.Remaining
	if in.ImageURL != nil {
		item.ImageURL = in.ImageURL
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *menuService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *menuService) Get(ctx context.Context, id uint64) (*model.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *menuService) List(ctx context.Context, serveDate string, slot model.MenuSlot, availableOnly bool) ([]model.MenuItem, error) {
	return s.repo.List(ctx, serveDate, slot, availableOnly)
}

func (s *menuService) SetCapacity(ctx context.Context, id uint64, remaining int) error {
	if remaining < 0 {
		return errors.New("remaining cannot be negative")
	}
	if err := s.repo.SetRemaining(ctx, id, remaining); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *menuService) SetImageURL(ctx context.Context, id uint64, url string) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	item.ImageURL = &url
	return s.repo.Update(ctx, item)
}
