package handlers

import (
	"net/http"

	"qrdine_backend/internal/services"
	"qrdine_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterUser handles owner sign-up.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req services.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	user, err := h.authService.RegisterUser(req)
	if err != nil {
		respondServiceError(c, err, "RegisterUser: Error from authService.RegisterUser")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// LoginUser handles login and token issuance.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.authService.LoginUser(req)
	if err != nil {
		respondServiceError(c, err, "LoginUser: Error from authService.LoginUser")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken exchanges a valid refresh token for a fresh access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired refresh token.", ""))
		return
	}

	user, err := h.authService.GetUserProfile(claims.UserID)
	if err != nil {
		respondServiceError(c, err, "RefreshToken: Error from authService.GetUserProfile")
		return
	}
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, roleName)
	if err != nil {
		utils.LogError(err, "RefreshToken: Failed to generate access token")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to issue token.", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

// LogoutUser exists for API symmetry; tokens are stateless so the client just
// discards them.
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetCurrentUser returns the authenticated user's profile.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.GetUserProfile(userID)
	if err != nil {
		respondServiceError(c, err, "GetCurrentUser: Error from authService.GetUserProfile")
		return
	}
	c.JSON(http.StatusOK, user)
}
