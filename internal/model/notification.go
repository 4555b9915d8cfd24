package model

import "time"

// Notification rows with an empty UserUID and Audience "admin" are visible
// to any operator.
type Notification struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserUID        string     `gorm:"column:user_uid;size:128;index" json:"userUid"`
	Audience       string     `gorm:"size:16;not null;default:user" json:"audience"`
	Type           string     `gorm:"size:64;not null" json:"type"`
	Title          string     `gorm:"size:255" json:"title"`
	Body           string     `gorm:"type:text" json:"body"`
	ConversationID *string    `gorm:"column:conversation_id;size:128;index" json:"conversationId"`
	OrderID        *uint64    `gorm:"column:order_id;index" json:"orderId"`
	ReadAt         *time.Time `gorm:"column:read_at" json:"readAt"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
