package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"chugr/backend/internal/database"
	"chugr/backend/internal/models"
	"chugr/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Nickname  string `json:"nickname" binding:"required" example:"testuser"`
	Email     string `json:"email" binding:"required,email" example:"test@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"password123"`
	Gender    string `json:"gender" binding:"required" example:"female"`
	BirthDate string `json:"birth_date" binding:"required" example:"1999-04-21"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// ProfileUpdateInput defines the mutable profile fields.
type ProfileUpdateInput struct {
	Bio       string   `json:"bio"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Interests []string `json:"interests"`
}

// PreferencesInput defines the discovery preference fields.
type PreferencesInput struct {
	MinAge        int      `json:"min_age" binding:"required,min=18"`
	MaxAge        int      `json:"max_age" binding:"required,min=18"`
	MaxDistanceKm float64  `json:"max_distance_km" binding:"required,gt=0"`
	ShowMe        *bool    `json:"show_me" binding:"required"`
	Genders       []string `json:"genders"`
}

// PublicUserResponse defines the structure for a user's public profile.
// It deliberately carries no email, password hash or exact location.
type PublicUserResponse struct {
	ID        uint     `json:"id" example:"1"`
	Nickname  string   `json:"nickname" example:"testuser"`
	Age       int      `json:"age" example:"25"`
	Gender    string   `json:"gender" example:"female"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID        uint     `json:"id" example:"1"`
	Nickname  string   `json:"nickname" example:"testuser"`
	Email     string   `json:"email" example:"test@example.com"`
	Age       int      `json:"age" example:"25"`
	Gender    string   `json:"gender" example:"female"`
	Bio       string   `json:"bio"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Interests []string `json:"interests"`

	MinAge        int      `json:"min_age"`
	MaxAge        int      `json:"max_age"`
	MaxDistanceKm float64  `json:"max_distance_km"`
	ShowMe        bool     `json:"show_me"`
	Genders       []string `json:"genders"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	birthDate, err := time.Parse("2006-01-02", input.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth_date, expected YYYY-MM-DD", "code": "VALIDATION_ERROR"})
		return
	}

	user := models.User{
		Nickname:  input.Nickname,
		Email:     input.Email,
		Gender:    strings.ToLower(input.Gender),
		BirthDate: birthDate,
	}
	if user.Age() < models.MinimumAge {
		respondError(c, models.ErrUnderage)
		return
	}

	taken, err := users.NicknameOrEmailTaken(c.Request.Context(), input.Nickname, input.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Nickname or email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	user.PasswordHash = string(hashedPassword)

	if err := users.Create(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with nickname/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	user, err := users.FindByLogin(c.Request.Context(), input.Login)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// region --- User Handlers ---

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	user, err := users.FindByID(c.Request.Context(), viewerID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(*user))
}

// UpdateMe godoc
// @Summary      Update profile
// @Description  Updates the authenticated user's bio, location and interests.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProfileUpdateInput true "Profile fields"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input ProfileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	user, err := users.FindByID(c.Request.Context(), viewerID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	user.Bio = input.Bio
	if input.Lat != nil {
		user.Lat = *input.Lat
	}
	if input.Lon != nil {
		user.Lon = *input.Lon
	}

	if err := users.Save(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	if input.Interests != nil {
		interests := make([]*models.Interest, 0, len(input.Interests))
		for _, name := range input.Interests {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			var interest models.Interest
			if err := database.DB.Where("name = ?", name).FirstOrCreate(&interest, models.Interest{Name: name}).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve interests"})
				return
			}
			interests = append(interests, &interest)
		}
		if err := users.ReplaceInterests(c.Request.Context(), user, interests); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update interests"})
			return
		}
		user.Interests = interests
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(*user))
}

// UpdatePreferences godoc
// @Summary      Update discovery preferences
// @Description  Updates the authenticated user's partner preferences.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PreferencesInput true "Preference fields"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/preferences [put]
func UpdatePreferences(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input PreferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}
	if input.MaxAge < input.MinAge {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_age must be >= min_age", "code": "VALIDATION_ERROR"})
		return
	}

	user, err := users.FindByID(c.Request.Context(), viewerID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	user.Preferences = models.Preferences{
		MinAge:        input.MinAge,
		MaxAge:        input.MaxAge,
		MaxDistanceKm: input.MaxDistanceKm,
		ShowMe:        *input.ShowMe,
		Genders:       strings.ToLower(strings.Join(input.Genders, ",")),
	}

	if err := users.Save(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(*user))
}

// DeleteMe godoc
// @Summary      Delete account
// @Description  Deletes the authenticated user. All their matches are unmatched and shared conversations are deactivated; message history is kept.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string "{"message": "Account deleted"}"
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [delete]
func DeleteMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	if err := matchSvc.DeleteAccount(c.Request.Context(), viewerID.(uint)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user by their ID.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "code": "VALIDATION_ERROR"})
		return
	}

	user, err := users.FindByID(c.Request.Context(), uint(targetUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponse(*user))
}

// BlockUser godoc
// @Summary      Block a user
// @Description  Hides the target user from the caller's discovery and vice versa. Idempotent.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "User blocked"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/block [post]
func BlockUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "code": "VALIDATION_ERROR"})
		return
	}
	if viewerID.(uint) == uint(targetUserID) {
		respondError(c, models.ErrInvalidTarget)
		return
	}

	if _, err := users.FindByID(c.Request.Context(), uint(targetUserID)); err != nil {
		respondError(c, err)
		return
	}

	if err := blocks.Create(c.Request.Context(), viewerID.(uint), uint(targetUserID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to block user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

// UnblockUser godoc
// @Summary      Unblock a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "User unblocked"}"
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/block [delete]
func UnblockUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "code": "VALIDATION_ERROR"})
		return
	}

	if err := blocks.Delete(c.Request.Context(), viewerID.(uint), uint(targetUserID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unblocked"})
}

// endregion

// region --- Helpers ---

func buildPublicUserResponse(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:        user.ID,
		Nickname:  user.Nickname,
		Age:       user.Age(),
		Gender:    user.Gender,
		Bio:       user.Bio,
		Interests: user.InterestNames(),
	}
}

func buildPrivateUserResponse(user models.User) PrivateUserResponse {
	return PrivateUserResponse{
		ID:            user.ID,
		Nickname:      user.Nickname,
		Email:         user.Email,
		Age:           user.Age(),
		Gender:        user.Gender,
		Bio:           user.Bio,
		Lat:           user.Lat,
		Lon:           user.Lon,
		Interests:     user.InterestNames(),
		MinAge:        user.Preferences.MinAge,
		MaxAge:        user.Preferences.MaxAge,
		MaxDistanceKm: user.Preferences.MaxDistanceKm,
		ShowMe:        user.Preferences.ShowMe,
		Genders:       user.Preferences.AcceptedGenders(),
	}
}

// endregion
