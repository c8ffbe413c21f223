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

// ProfileHandler handles profile endpoints.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Update godoc
// PATCH /api/v1/profile
// Updates the authenticated user's profile. The role can be set once and is
// locked afterwards.
func (h *ProfileHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), claims.UserID, req)
	if err != nil {
		if apperror.Is(err, apperror.KindForbidden) {
			response.Fail(c, http.StatusForbidden, response.ErrRoleLocked)
			return
		}
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}
