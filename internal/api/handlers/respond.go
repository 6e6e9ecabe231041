package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/opslane/inventory-engine/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Persistence
// and unknown errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	var status int
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": domain.MessageOf(err)})
}

func parseInt64Query(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, domain.Validationf("invalid %s value %q", name, raw)
	}
	return &v, nil
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}
