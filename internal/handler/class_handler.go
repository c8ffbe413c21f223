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

// ClassHandler handles class CRUD and search.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// Create godoc
// POST /api/v1/classes
// Creates a class owned by the authenticated user. The member limit is
// fixed at creation.
func (h *ClassHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// Update godoc
// PATCH /api/v1/classes/:class_id
// Updates class settings. Creator only; the member limit never changes.
func (h *ClassHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID, ok := parseIDParam(c, "class_id")
	if !ok {
		return
	}

	var req model.UpdateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Update(c.Request.Context(), classID, claims.UserID, req)
	if err != nil {
		if apperror.Is(err, apperror.KindForbidden) {
			response.Fail(c, http.StatusForbidden, response.ErrNotClassCreator)
			return
		}
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Get godoc
// GET /api/v1/classes/:class_id
// Returns a class with its membership stats.
func (h *ClassHandler) Get(c *gin.Context) {
	classID, ok := parseIDParam(c, "class_id")
	if !ok {
		return
	}

	class, err := h.classService.GetWithStats(c.Request.Context(), classID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Search godoc
// GET /api/v1/classes?search=term
// Finds active classes matching the term across name, description, and
// prodi.
func (h *ClassHandler) Search(c *gin.Context) {
	term := c.Query("search")

	classes, err := h.classService.Search(c.Request.Context(), term)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// Mine godoc
// GET /api/v1/classes/mine
// Returns the classes the authenticated user created.
func (h *ClassHandler) Mine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classes, err := h.classService.ListByCreator(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}
