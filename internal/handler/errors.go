package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"socialnet/backend/internal/logger"
	"socialnet/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"this page doesn't exist"`
}

var kindStatus = map[service.Kind]int{
	service.KindNotFound:     http.StatusNotFound,
	service.KindConflict:     http.StatusConflict,
	service.KindBadRequest:   http.StatusBadRequest,
	service.KindUnauthorized: http.StatusUnauthorized,
	service.KindForbidden:    http.StatusForbidden,
}

// respondError writes the status for a service error. Unclassified errors are logged
// and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	if status, ok := kindStatus[service.KindOf(err)]; ok {
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	_ = c.Error(err)
	lg := logger.For("handler")
	lg.Error().Err(err).
		Str("request_id", logger.RequestIDFrom(c.Request.Context())).
		Str("route", c.FullPath()).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondBindError answers a payload that failed to decode or validate.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload: " + strings.Join(msgs, ", ")})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload: " + err.Error()})
}
