package models

import (
	"time"

	"gorm.io/gorm"
)

// Message represents a chat message within a conversation.
// Messages are immutable once created and are never deleted when a
// conversation is deactivated.
type Message struct {
	gorm.Model
	ConversationID uint   `gorm:"not null;index"`
	SenderID       uint   `gorm:"not null"`
	Content        string `gorm:"not null"`
	ReadAt         *time.Time

	Sender User `gorm:"foreignKey:SenderID"`
}
