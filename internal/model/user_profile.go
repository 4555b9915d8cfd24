package model

import "time"

type UserProfile struct {
	UID       string    `gorm:"primaryKey;size:128" json:"uid"`
	Name      string    `gorm:"size:120" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Address   string    `gorm:"size:255" json:"address"`
	Role      string    `gorm:"size:32;not null;default:customer" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (p *UserProfile) IsAdmin() bool {
	return p != nil && p.Role == "admin"
}
