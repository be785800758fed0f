package models

import "gorm.io/gorm"

// Conversation is the chat channel attached to a match. There is at most
// one conversation per match; unmatching deactivates it without touching
// the message history.
type Conversation struct {
	gorm.Model
	MatchID uint `gorm:"not null;uniqueIndex"`
	Active  bool `gorm:"not null;default:true"`

	Match Match `gorm:"foreignKey:MatchID"`
}
