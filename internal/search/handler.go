package search

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	minQueryLen  = 2
	defaultLimit = 5
	maxLimit     = 20
)

type Handler struct {
	Agg *Aggregator
}

func NewHandler(agg *Aggregator) *Handler {
	return &Handler{Agg: agg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.search) // GET /search
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len([]rune(query)) < minQueryLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must be at least 2 characters"})
		return
	}

	limit := defaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	c.JSON(http.StatusOK, h.Agg.Search(c.Request.Context(), query, limit))
}
