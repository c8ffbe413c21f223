package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/response"
)

// errInvalidScope rejects malformed or unauthorized feed scope names.
var errInvalidScope = errors.New("invalid feed scope")

// failFromError maps a classified service error onto an HTTP status and
// error code. Handlers with endpoint-specific codes check the kind
// themselves before falling back here.
func failFromError(c *gin.Context, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindCapacity:
		response.FailWithMessage(c, http.StatusConflict, response.ErrClassFull, apperror.Translate(err))
	case apperror.KindConflict:
		response.FailWithMessage(c, http.StatusConflict, response.ErrConflict, apperror.Translate(err))
	case apperror.KindNotFound:
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case apperror.KindUnauthorized:
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	case apperror.KindForbidden:
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case apperror.KindValidation:
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, apperror.Translate(err))
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// parseIDParam parses a UUID path parameter, failing the request on bad
// input.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
