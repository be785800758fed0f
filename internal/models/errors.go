package models

import "errors"

// Domain sentinel errors shared by repositories, services and handlers.
var (
	ErrInvalidAction        = errors.New("invalid swipe action")
	ErrInvalidTarget        = errors.New("cannot swipe on yourself")
	ErrUserNotFound         = errors.New("user not found")
	ErrSwipeExists          = errors.New("swipe already exists")
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchInactive        = errors.New("match is no longer active")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationInactive = errors.New("conversation is no longer active")
	ErrUnderage             = errors.New("user must be at least 18 years old")
)
