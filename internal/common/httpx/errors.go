package httpx

import (
	"errors"
	"net/http"

	"restaurant-ops/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// StatusFor maps the domain error kinds onto HTTP statuses.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as {"message": ...}. Internal errors are logged and
// their details kept out of the response.
func WriteError(c *gin.Context, log zerolog.Logger, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
