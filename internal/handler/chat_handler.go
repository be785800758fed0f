package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"chugr/backend/internal/hub"
	"chugr/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// ConversationInput opens a conversation over a match.
type ConversationInput struct {
	MatchID uint `json:"matchId" binding:"required"`
}

// ConversationResponse describes one conversation.
type ConversationResponse struct {
	ID          uint               `json:"id"`
	MatchID     uint               `json:"matchId"`
	Active      bool               `json:"active"`
	Counterpart PublicUserResponse `json:"counterpart"`
}

// MessageInput carries a new chat message.
type MessageInput struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// MessageResponse describes one chat message.
type MessageResponse struct {
	ID             uint       `json:"id"`
	ConversationID uint       `json:"conversationId"`
	SenderID       uint       `json:"senderId"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"createdAt"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
}

func newConversationResponse(conv models.Conversation, viewerID uint) ConversationResponse {
	return ConversationResponse{
		ID:          conv.ID,
		MatchID:     conv.MatchID,
		Active:      conv.Active,
		Counterpart: buildPublicUserResponse(conv.Match.OtherUser(viewerID)),
	}
}

func newMessageResponse(msg models.Message) MessageResponse {
	return MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
		ReadAt:         msg.ReadAt,
	}
}

// endregion

// CreateConversation godoc
// @Summary      Open a conversation
// @Description  Creates the conversation for an active match the caller participates in. Idempotent per match.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ConversationInput true "Match"
// @Success      201 {object} ConversationResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "MATCH_NOT_FOUND"
// @Router       /chat/conversations [post]
func CreateConversation(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input ConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	// Only participants of an active match can open its conversation.
	match, err := matchSvc.MatchByID(c.Request.Context(), input.MatchID, viewerID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	conv, created, err := convos.CreateForMatch(c.Request.Context(), match.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}
	conv.Match = *match

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, newConversationResponse(*conv, viewerID.(uint)))
}

// GetConversations godoc
// @Summary      List conversations
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} ConversationResponse
// @Failure      401 {object} ErrorResponse
// @Router       /chat/conversations [get]
func GetConversations(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	conversations, err := convos.ListForUser(c.Request.Context(), viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	response := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		response = append(response, newConversationResponse(conv, viewerID.(uint)))
	}
	c.JSON(http.StatusOK, response)
}

// GetMessages godoc
// @Summary      Get conversation messages
// @Description  Returns a page of messages in chronological order. Works on inactive conversations too: unmatching keeps history readable.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true  "Conversation ID"
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Messages per page" default(20)
// @Success      200 {object} PaginatedResponse[MessageResponse]
// @Failure      404 {object} ErrorResponse "CONVERSATION_NOT_FOUND"
// @Router       /chat/conversations/{id}/messages [get]
func GetMessages(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID", "code": "VALIDATION_ERROR"})
		return
	}

	if _, err := convos.GetForUser(c.Request.Context(), uint(convID), viewerID.(uint)); err != nil {
		respondError(c, err)
		return
	}

	page, limit := pageParams(c)
	messages, total, err := convos.Messages(c.Request.Context(), uint(convID), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, newMessageResponse(msg))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, total, page, limit))
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Appends a message to an active conversation and broadcasts it to streaming participants.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int          true "Conversation ID"
// @Param        input body MessageInput true "Message"
// @Success      201 {object} MessageResponse
// @Failure      404 {object} ErrorResponse "CONVERSATION_NOT_FOUND"
// @Failure      409 {object} ErrorResponse "CONVERSATION_INACTIVE"
// @Router       /chat/conversations/{id}/messages [post]
func SendMessage(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID", "code": "VALIDATION_ERROR"})
		return
	}

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	conv, err := convos.GetForUser(c.Request.Context(), uint(convID), viewerID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}
	if !conv.Active {
		respondError(c, models.ErrConversationInactive)
		return
	}

	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       viewerID.(uint),
		Content:        input.Content,
	}
	if err := convos.CreateMessage(c.Request.Context(), &msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	response := newMessageResponse(msg)
	hub.GlobalHub.Broadcast(conv.ID, hub.Event{Type: "message.created", Payload: response})

	c.JSON(http.StatusCreated, response)
}

// MarkConversationRead godoc
// @Summary      Mark messages read
// @Description  Stamps every unread counterpart message in the conversation as read.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Conversation ID"
// @Success      200 {object} map[string]string "{"message": "Messages marked read"}"
// @Failure      404 {object} ErrorResponse "CONVERSATION_NOT_FOUND"
// @Router       /chat/conversations/{id}/read [post]
func MarkConversationRead(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID", "code": "VALIDATION_ERROR"})
		return
	}

	if _, err := convos.GetForUser(c.Request.Context(), uint(convID), viewerID.(uint)); err != nil {
		respondError(c, err)
		return
	}

	if err := convos.MarkRead(c.Request.Context(), uint(convID), viewerID.(uint), time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked read"})
}

// StreamConversation godoc
// @Summary      Stream conversation events
// @Description  Server-sent events stream of new messages in the conversation.
// @Tags         chat
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id path int true "Conversation ID"
// @Failure      404 {object} ErrorResponse "CONVERSATION_NOT_FOUND"
// @Router       /chat/conversations/{id}/stream [get]
func StreamConversation(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID", "code": "VALIDATION_ERROR"})
		return
	}

	if _, err := convos.GetForUser(c.Request.Context(), uint(convID), viewerID.(uint)); err != nil {
		respondError(c, err)
		return
	}

	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(uint(convID), client)
	defer hub.GlobalHub.Unsubscribe(uint(convID), client)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
