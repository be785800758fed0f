package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"chugr/backend/internal/database"
	"chugr/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type InterestInput struct {
	Name string `json:"name" binding:"required"`
}

type InterestResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
}

func newInterestResponse(interest models.Interest) InterestResponse {
	return InterestResponse{
		ID:        interest.ID,
		CreatedAt: interest.CreatedAt,
		UpdatedAt: interest.UpdatedAt,
		Name:      interest.Name,
	}
}

// CreateInterest godoc
// @Summary      Create a new interest
// @Description  Adds an entry to the interest catalog.
// @Tags         admin-interests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body InterestInput true "Interest Info"
// @Success      201  {object}  InterestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Interest already exists"
// @Router       /admin/interests [post]
func CreateInterest(c *gin.Context) {
	var input InterestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	interest := models.Interest{Name: strings.ToLower(strings.TrimSpace(input.Name))}
	if err := database.DB.Create(&interest).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Interest already exists or another error occurred"})
		return
	}

	c.JSON(http.StatusCreated, newInterestResponse(interest))
}

// GetInterests godoc
// @Summary      Get all interests
// @Description  Retrieves the interest catalog.
// @Tags         interests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   InterestResponse
// @Router       /interests [get]
func GetInterests(c *gin.Context) {
	var interests []models.Interest
	database.DB.Order("name ASC").Find(&interests)

	var response []InterestResponse
	for _, interest := range interests {
		response = append(response, newInterestResponse(interest))
	}
	c.JSON(http.StatusOK, response)
}

// UpdateInterest godoc
// @Summary      Update an interest
// @Description  Renames an existing interest catalog entry.
// @Tags         admin-interests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int           true  "Interest ID"
// @Param        input body     InterestInput true  "New Interest Info"
// @Success      200  {object}  InterestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Interest not found"
// @Router       /admin/interests/{id} [put]
func UpdateInterest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID", "code": "VALIDATION_ERROR"})
		return
	}

	var input InterestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	var interest models.Interest
	if err := database.DB.First(&interest, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interest not found"})
		return
	}

	database.DB.Model(&interest).Update("name", strings.ToLower(strings.TrimSpace(input.Name)))
	c.JSON(http.StatusOK, newInterestResponse(interest))
}

// DeleteInterest godoc
// @Summary      Delete an interest
// @Tags         admin-interests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Interest ID"
// @Success      200  {object}  map[string]string "{"message": "Interest deleted"}"
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Interest not found"
// @Router       /admin/interests/{id} [delete]
func DeleteInterest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID", "code": "VALIDATION_ERROR"})
		return
	}

	result := database.DB.Delete(&models.Interest{}, id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interest not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interest deleted"})
}
