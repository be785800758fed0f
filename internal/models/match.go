package models

import (
	"time"

	"gorm.io/gorm"
)

// Match represents a mutual pairing between two users, created when both
// have swiped positively on each other.
//
// The pair is stored normalized (UserAID < UserBID) under a composite
// unique index, so at most one match row can ever exist for an unordered
// pair regardless of which side's swipe landed last.
type Match struct {
	gorm.Model
	UserAID   uint `gorm:"not null;uniqueIndex:idx_matches_pair,priority:1"`
	UserBID   uint `gorm:"not null;uniqueIndex:idx_matches_pair,priority:2"`
	Active    bool `gorm:"not null;default:true;index"`
	MatchedAt time.Time

	UserA User `gorm:"foreignKey:UserAID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserB User `gorm:"foreignKey:UserBID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// NormalizePair orders two user IDs into the canonical (low, high) form.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// HasUser reports whether the given user participates in the match.
func (m *Match) HasUser(userID uint) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// OtherUserID returns the counterpart of the given participant.
func (m *Match) OtherUserID(userID uint) uint {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// OtherUser returns the preloaded counterpart of the given participant.
func (m *Match) OtherUser(userID uint) User {
	if m.UserAID == userID {
		return m.UserB
	}
	return m.UserA
}
