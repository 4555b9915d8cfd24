package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/repository"
	"gorm.io/gorm"
)

type ProfileInput struct {
	Name    string
	Phone   string
	Address string
	Email   string
}

type ProfileService interface {
	Get(ctx context.Context, uid string) (*model.UserProfile, error)
	// Upsert saves the profile and reconciles the contact snapshot on the
	// customer's conversation, creating the conversation if this is the
	// first profile save.
	Upsert(ctx context.Context, uid string, in ProfileInput) (*model.UserProfile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	convSvc     ConversationService
}

func NewProfileService(profileRepo repository.ProfileRepository, convSvc ConversationService) ProfileService {
	return &profileService{profileRepo: profileRepo, convSvc: convSvc}
}

func (s *profileService) Get(ctx context.Context, uid string) (*model.UserProfile, error) {
	p, err := s.profileRepo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *profileService) Upsert(ctx context.Context, uid string, in ProfileInput) (*model.UserProfile, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > 120 {
		return nil, errors.New("invalid name")
	}

	existing, err := s.profileRepo.FindByUID(ctx, uid)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.UserProfile{
		UID:     uid,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		Role:    "customer",
	}
	if existing != nil {
		p.Role = existing.Role
	}
	if err := s.profileRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	// Admin profiles have no customer-facing thread to reconcile.
	if p.Role != "admin" {
		if _, err := s.convSvc.Ensure(ctx, uid, ContactFields{
			Name:    p.Name,
			Email:   p.Email,
			Phone:   p.Phone,
			Address: p.Address,
		}); err != nil {
			return nil, err
		}
	}
	return p, nil
}
