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

// ScheduleHandler handles schedule endpoints.
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// ListByClass godoc
// GET /api/v1/classes/:class_id/schedules
// Lists a class's schedules ordered by date then time. Creator and approved
// members only.
func (h *ScheduleHandler) ListByClass(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID, ok := parseIDParam(c, "class_id")
	if !ok {
		return
	}

	schedules, err := h.scheduleService.ListByClass(c.Request.Context(), classID, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.KindForbidden) {
			response.Fail(c, http.StatusForbidden, response.ErrNotClassMember)
			return
		}
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"schedules": schedules})
}

// Create godoc
// POST /api/v1/classes/:class_id/schedules
// Adds a schedule entry. Creator only.
func (h *ScheduleHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID, ok := parseIDParam(c, "class_id")
	if !ok {
		return
	}

	var req model.CreateScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	schedule, err := h.scheduleService.Create(c.Request.Context(), classID, claims.UserID, req)
	if err != nil {
		if apperror.Is(err, apperror.KindForbidden) {
			response.Fail(c, http.StatusForbidden, response.ErrNotClassCreator)
			return
		}
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"schedule": schedule})
}

// Update godoc
// PATCH /api/v1/schedules/:schedule_id
// Modifies a schedule entry. Creator only.
func (h *ScheduleHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	scheduleID, ok := parseIDParam(c, "schedule_id")
	if !ok {
		return
	}

	var req model.UpdateScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	schedule, err := h.scheduleService.Update(c.Request.Context(), scheduleID, claims.UserID, req)
	if err != nil {
		if apperror.Is(err, apperror.KindForbidden) {
			response.Fail(c, http.StatusForbidden, response.ErrNotClassCreator)
			return
		}
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"schedule": schedule})
}

// Delete godoc
// DELETE /api/v1/schedules/:schedule_id
// Removes a schedule entry. Creator only.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	scheduleID, ok := parseIDParam(c, "schedule_id")
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), scheduleID, claims.UserID); err != nil {
		if apperror.Is(err, apperror.KindForbidden) {
			response.Fail(c, http.StatusForbidden, response.ErrNotClassCreator)
			return
		}
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
