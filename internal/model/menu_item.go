package model

import "time"

type MenuSlot string

const (
	MenuSlotLunch  MenuSlot = "lunch"
	MenuSlotDinner MenuSlot = "dinner"
)

type MenuItem struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       int64     `gorm:"not null" json:"price"`
	ServeDate   string    `gorm:"column:serve_date;size:10;index:idx_menu_date_slot" json:"serveDate"`
	Slot        MenuSlot  `gorm:"size:16;index:idx_menu_date_slot" json:"slot"`
	Remaining   int       `gorm:"not null;default:0" json:"remaining"`
	Available   bool      `gorm:"not null;default:true" json:"available"`
	ImageURL    *string   `gorm:"size:512" json:"imageUrl"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
