package model

import "time"

// Message is append-only; there is no edit or delete path.
type Message struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID string     `gorm:"column:conversation_id;size:128;index" json:"conversationId"`
	Sender         SenderRole `gorm:"size:16;not null" json:"sender"`
	Body           string     `gorm:"type:text;not null" json:"body"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}
