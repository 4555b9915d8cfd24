package repository

import (
	"context"

	"github.com/cloudkitchen/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	FindByUID(ctx context.Context, uid string) (*model.UserProfile, error)
	Upsert(ctx context.Context, profile *model.UserProfile) error
	SetDB(db *gorm.DB)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *profileRepository) FindByUID(ctx context.Context, uid string) (*model.UserProfile, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var p model.UserProfile
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *model.UserProfile) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "address"}),
		}).
		Create(profile).Error
}
