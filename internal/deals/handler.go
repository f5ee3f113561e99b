package deals

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gamestore/internal/sources"
	"gamestore/pkg/utils"
)

type Handler struct {
	Client *sources.DealsClient
}

func NewHandler(client *sources.DealsClient) *Handler {
	return &Handler{Client: client}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list) // GET /deals
}

// list fetches live listings from the deals provider and returns them
// consolidated by title, cheapest first. Listings are never cached; every
// call reflects the provider's current state.
func (h *Handler) list(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	pageSize := utils.ParseInt(c.Query("page_size"), 60)
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 60
	}

	raw, err := h.Client.List(c.Request.Context(), q, pageSize)
	if err != nil {
		log.Printf("[deals] fetch failed (%s): %v", sources.KindOf(err), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "deals upstream failed"})
		return
	}

	items := Consolidate(raw)
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}
