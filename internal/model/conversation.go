package model

import "time"

type SenderRole string

const (
	SenderCustomer SenderRole = "customer"
	SenderAdmin    SenderRole = "admin"
)

type ConversationStatus string

const (
	ConversationOpen     ConversationStatus = "open"
	ConversationReplied  ConversationStatus = "replied"
	ConversationArchived ConversationStatus = "archived"
)

// Conversation is the per-customer support thread. Its primary key is the
// customer's auth uid, so a customer can have at most one thread.
type Conversation struct {
	ID               string             `gorm:"primaryKey;size:128" json:"id"`
	CustomerName     string             `gorm:"column:customer_name;size:120" json:"customerName"`
	CustomerEmail    string             `gorm:"column:customer_email;size:255" json:"customerEmail"`
	CustomerPhone    string             `gorm:"column:customer_phone;size:32" json:"customerPhone"`
	CustomerAddress  string             `gorm:"column:customer_address;size:255" json:"customerAddress"`
	LastMessage      string             `gorm:"column:last_message;type:text" json:"lastMessage"`
	LastSender       SenderRole         `gorm:"column:last_sender;size:16" json:"lastSender"`
	Status           ConversationStatus `gorm:"size:16;not null" json:"status"`
	UnreadByAdmin    bool               `gorm:"column:unread_by_admin;not null;default:false" json:"unreadByAdmin"`
	UnreadByCustomer bool               `gorm:"column:unread_by_customer;not null;default:false" json:"unreadByCustomer"`
	CreatedAt        time.Time          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}
