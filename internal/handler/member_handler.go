package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/middleware"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/internal/response"
	"github.com/kelasku/kelasku-backend/internal/service"
	"github.com/kelasku/kelasku-backend/internal/validator"
)

// MemberHandler handles class membership endpoints.
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// Join godoc
// POST /api/v1/classes/:class_id/join
// Requests to join a class. The membership starts pending and waits for the
// creator's decision.
func (h *MemberHandler) Join(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID, ok := parseIDParam(c, "class_id")
	if !ok {
		return
	}

	member, err := h.memberService.JoinClass(c.Request.Context(), classID, claims.UserID)
	if err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindConflict:
			// Unique (class_id, user_id): the user already has a request.
			response.Fail(c, http.StatusConflict, response.ErrAlreadyRequested)
		case apperror.KindCapacity:
			response.FailWithMessage(c, http.StatusConflict, response.ErrClassFull, apperror.Translate(err))
		default:
			failFromError(c, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"member": member})
}

// ListByClass godoc
// GET /api/v1/classes/:class_id/members
// Lists a class's memberships. Creator and approved members only.
func (h *MemberHandler) ListByClass(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID, ok := parseIDParam(c, "class_id")
	if !ok {
		return
	}

	members, err := h.memberService.ListByClass(c.Request.Context(), classID, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.KindForbidden) {
			response.Fail(c, http.StatusForbidden, response.ErrNotClassMember)
			return
		}
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// MembershipStatus godoc
// GET /api/v1/classes/:class_id/membership
// Returns the authenticated user's membership in one class, 404 when none
// exists.
func (h *MemberHandler) MembershipStatus(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID, ok := parseIDParam(c, "class_id")
	if !ok {
		return
	}

	member, err := h.memberService.GetMembershipStatus(c.Request.Context(), classID, claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"member": member})
}

// MyMemberships godoc
// GET /api/v1/memberships?status=approved,pending
// Lists the authenticated user's memberships joined with their classes.
func (h *MemberHandler) MyMemberships(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var statuses []model.MemberStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			switch status := model.MemberStatus(strings.TrimSpace(s)); status {
			case model.MemberStatusPending, model.MemberStatusApproved, model.MemberStatusRejected:
				statuses = append(statuses, status)
			default:
				response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "status tidak valid: "+s)
				return
			}
		}
	}

	memberships, err := h.memberService.ListUserMemberships(c.Request.Context(), claims.UserID, statuses...)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"memberships": memberships})
}

// UpdateStatus godoc
// PATCH /api/v1/members/:member_id
// Approves or rejects a pending membership. Creator only; both outcomes are
// terminal.
func (h *MemberHandler) UpdateStatus(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	memberID, ok := parseIDParam(c, "member_id")
	if !ok {
		return
	}

	var req model.UpdateMemberStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	member, err := h.memberService.UpdateStatus(c.Request.Context(), memberID, claims.UserID, req.Status)
	if err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindForbidden:
			response.Fail(c, http.StatusForbidden, response.ErrNotClassCreator)
		case apperror.KindValidation:
			// The membership already left the pending state.
			response.Fail(c, http.StatusConflict, response.ErrMemberNotPending)
		case apperror.KindCapacity:
			response.FailWithMessage(c, http.StatusConflict, response.ErrClassFull, apperror.Translate(err))
		default:
			failFromError(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"member": member})
}
