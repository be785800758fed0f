package models

import "time"

// SwipeAction is the kind of decision a swiper made about a target.
type SwipeAction string

const (
	ActionLike      SwipeAction = "like"
	ActionDislike   SwipeAction = "dislike"
	ActionSuperLike SwipeAction = "super_like"
)

// Valid reports whether the action is one of the known values.
func (a SwipeAction) Valid() bool {
	switch a {
	case ActionLike, ActionDislike, ActionSuperLike:
		return true
	}
	return false
}

// Positive reports whether the action can contribute to a match.
func (a SwipeAction) Positive() bool {
	return a == ActionLike || a == ActionSuperLike
}

// Swipe represents a directed decision by one user about another.
// The primary key is a composite of (SwiperID, TargetID): a pair can be
// swiped exactly once per direction, and the row is never updated.
type Swipe struct {
	SwiperID  uint        `gorm:"primaryKey"`
	TargetID  uint        `gorm:"primaryKey;index:idx_swipes_target"`
	Action    SwipeAction `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time

	Swiper User `gorm:"foreignKey:SwiperID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Target User `gorm:"foreignKey:TargetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
