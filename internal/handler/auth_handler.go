package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/middleware"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/internal/response"
	"github.com/kelasku/kelasku-backend/internal/service"
	"github.com/kelasku/kelasku-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a new account and returns a JWT. The role stays empty until the
// user picks one.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	profile := &model.Profile{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
	}
	if err := h.profileService.Create(c.Request.Context(), profile); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
			return
		}
		failFromError(c, err)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), profile.ID, profile.Email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, model.LoginResponse{
		Token:   token,
		Profile: *profile,
	})
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password, returns JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.profileService.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(profile.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), profile.ID, profile.Email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.LoginResponse{
		Token:   token,
		Profile: *profile,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Invalidates the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.InvalidateSession(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.profileService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}
