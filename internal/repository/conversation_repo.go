package repository

import (
	"context"
	"errors"
	"time"

	"chugr/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository provides data access for conversations and their
// messages.
type ConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new repository bound to the given DB connection.
func NewConversationRepository(database *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: database}
}

// CreateForMatch creates the conversation for a match, or returns the
// existing one. The match_id unique index plus ON CONFLICT DO NOTHING
// makes creation idempotent per match.
func (r *ConversationRepository) CreateForMatch(ctx context.Context, matchID uint) (*models.Conversation, bool, error) {
	conv := models.Conversation{MatchID: matchID, Active: true}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&conv)
	if result.Error != nil {
		return nil, false, result.Error
	}

	if result.RowsAffected == 0 {
		var existing models.Conversation
		err := r.db.WithContext(ctx).
			Where("match_id = ?", matchID).
			First(&existing).Error
		if err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}

	return &conv, true, nil
}

// GetForUser returns the conversation if the user participates in its
// match. Non-participants get models.ErrConversationNotFound.
func (r *ConversationRepository) GetForUser(ctx context.Context, convID, userID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Match.UserA").
		Preload("Match.UserB").
		Preload("Match").
		First(&conv, convID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrConversationNotFound
		}
		return nil, err
	}

	if !conv.Match.HasUser(userID) {
		return nil, models.ErrConversationNotFound
	}

	return &conv, nil
}

// ListForUser returns all conversations whose match involves the user,
// most recent first.
func (r *ConversationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN matches ON matches.id = conversations.match_id").
		Where("matches.user_a_id = ? OR matches.user_b_id = ?", userID, userID).
		Preload("Match.UserA").
		Preload("Match.UserB").
		Preload("Match").
		Order("conversations.updated_at DESC").
		Find(&convs).Error
	return convs, err
}

// Messages returns a page of a conversation's messages in chronological
// order, along with the total count.
func (r *ConversationRepository) Messages(ctx context.Context, convID uint, page, limit int) ([]models.Message, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ?", convID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

// CreateMessage appends a message to a conversation.
func (r *ConversationRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// MarkRead stamps every unread message from the counterpart as read.
// Messages are otherwise immutable.
func (r *ConversationRepository) MarkRead(ctx context.Context, convID, readerID uint, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", convID, readerID).
		Update("read_at", now).Error
}

// DeactivateByMatch marks the match's conversation inactive, retaining
// its message history.
func (r *ConversationRepository) DeactivateByMatch(ctx context.Context, matchID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("match_id = ?", matchID).
		Update("active", false).Error
}

// DeactivateByMatches marks several matches' conversations inactive.
func (r *ConversationRepository) DeactivateByMatches(ctx context.Context, matchIDs []uint) error {
	if len(matchIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("match_id IN ?", matchIDs).
		Update("active", false).Error
}
