package handler

import (
	"net/http"

	"chugr/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// SwipeInput defines the structure for recording a swipe.
type SwipeInput struct {
	TargetUserID uint   `json:"targetUserId" binding:"required"`
	Action       string `json:"action" binding:"required" example:"like"`
}

// SwipeResponse is the outcome of a swipe, including whether it
// completed a match.
type SwipeResponse struct {
	Success      bool   `json:"success"`
	Action       string `json:"action"`
	TargetUserID uint   `json:"targetUserId"`
	Match        bool   `json:"match"`
	MatchID      *uint  `json:"matchId,omitempty"`
}

// endregion

// RecordSwipe godoc
// @Summary      Swipe on a user
// @Description  Records a like/dislike/super_like on the target user. When the target has already liked the caller, a match is created.
// @Tags         matching
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SwipeInput true "Swipe"
// @Success      200  {object}  SwipeResponse
// @Failure      400  {object}  ErrorResponse "VALIDATION_ERROR / INVALID_TARGET"
// @Failure      404  {object}  ErrorResponse "USER_NOT_FOUND"
// @Failure      409  {object}  ErrorResponse "SWIPE_EXISTS"
// @Router       /matching/swipe [post]
func RecordSwipe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input SwipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	result, err := matchSvc.RecordSwipe(c.Request.Context(), viewerID.(uint), input.TargetUserID, models.SwipeAction(input.Action))
	if err != nil {
		respondError(c, err)
		return
	}

	response := SwipeResponse{
		Success:      true,
		Action:       string(result.Swipe.Action),
		TargetUserID: result.Swipe.TargetID,
		Match:        result.Matched,
	}
	if result.Match != nil {
		matchID := result.Match.ID
		response.MatchID = &matchID
	}

	c.JSON(http.StatusOK, response)
}
