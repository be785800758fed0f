package handler

import (
	"net/http"
	"strconv"
	"time"

	"chugr/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RecommendationResponse pairs a candidate with their compatibility score.
type RecommendationResponse struct {
	RecommendedUser PublicUserResponse `json:"recommendedUser"`
	MatchScore      float64            `json:"matchScore"`
	DistanceKm      float64            `json:"distanceKm"`
}

// MatchResponse describes a match with both participants.
type MatchResponse struct {
	ID           uint                 `json:"id"`
	MatchedAt    time.Time            `json:"matchedAt"`
	Participants []PublicUserResponse `json:"participants"`
	Counterpart  PublicUserResponse   `json:"counterpart"`
}

func newMatchResponse(match models.Match, viewerID uint) MatchResponse {
	return MatchResponse{
		ID:        match.ID,
		MatchedAt: match.MatchedAt,
		Participants: []PublicUserResponse{
			buildPublicUserResponse(match.UserA),
			buildPublicUserResponse(match.UserB),
		},
		Counterpart: buildPublicUserResponse(match.OtherUser(viewerID)),
	}
}

// endregion

// GetPotentialMatches godoc
// @Summary      Get potential matches
// @Description  Returns candidates passing the caller's filters, scored by compatibility and sorted best first. Users already swiped on or blocked are excluded.
// @Tags         matching
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max candidates" default(20)
// @Success      200 {object} map[string][]RecommendationResponse
// @Failure      401 {object} ErrorResponse
// @Router       /matching/potential-matches [get]
func GetPotentialMatches(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	recommendations, err := matchSvc.PotentialMatches(c.Request.Context(), viewerID.(uint), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RecommendationResponse, 0, len(recommendations))
	for _, rec := range recommendations {
		response = append(response, RecommendationResponse{
			RecommendedUser: buildPublicUserResponse(rec.User),
			MatchScore:      rec.Score.Total,
			DistanceKm:      rec.Score.DistanceKm,
		})
	}

	c.JSON(http.StatusOK, gin.H{"matches": response})
}

// GetMatches godoc
// @Summary      Get matches
// @Description  Returns the caller's active matches, newest first.
// @Tags         matching
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string][]MatchResponse
// @Failure      401 {object} ErrorResponse
// @Router       /matching/matches [get]
func GetMatches(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	matches, err := matchSvc.Matches(c.Request.Context(), viewerID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MatchResponse, 0, len(matches))
	for _, match := range matches {
		response = append(response, newMatchResponse(match, viewerID.(uint)))
	}

	c.JSON(http.StatusOK, gin.H{"matches": response})
}

// GetMatchByID godoc
// @Summary      Get a match
// @Description  Returns one match. Non-participants receive 404 regardless of the match's existence.
// @Tags         matching
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Match ID"
// @Success      200 {object} MatchResponse
// @Failure      404 {object} ErrorResponse "MATCH_NOT_FOUND"
// @Router       /matching/matches/{id} [get]
func GetMatchByID(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match ID", "code": "VALIDATION_ERROR"})
		return
	}

	match, err := matchSvc.MatchByID(c.Request.Context(), uint(matchID), viewerID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newMatchResponse(*match, viewerID.(uint)))
}

// Unmatch godoc
// @Summary      Unmatch
// @Description  Deactivates a match for both participants and marks the conversation inactive. Message history is retained.
// @Tags         matching
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Match ID"
// @Success      200 {object} map[string]string "{"message": "Unmatched"}"
// @Failure      404 {object} ErrorResponse "MATCH_NOT_FOUND"
// @Router       /matching/matches/{id} [delete]
func Unmatch(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match ID", "code": "VALIDATION_ERROR"})
		return
	}

	if err := matchSvc.Unmatch(c.Request.Context(), uint(matchID), viewerID.(uint)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unmatched"})
}

// GetLikesCount godoc
// @Summary      Get received likes count
// @Description  Returns how many users liked the caller. Served from the Redis counter when warm.
// @Tags         matching
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]int64 "{"count": 3}"
// @Failure      401 {object} ErrorResponse
// @Router       /matching/likes/count [get]
func GetLikesCount(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	count, err := matchSvc.LikesReceived(c.Request.Context(), viewerID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
