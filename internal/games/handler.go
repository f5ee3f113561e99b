package games

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gamestore/pkg/utils"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)        // GET /games
	rg.GET("/:id", h.getByID) // GET /games/:id
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:        c.Query("q"),
		Ordering: c.Query("ordering"),
		Limit:    utils.ParseInt(c.Query("limit"), 20),
		Offset:   utils.ParseInt(c.Query("offset"), 0),
	}

	// genres=Action,Indie OR genres=Action&genres=Indie; same for platforms
	q.Genres = multiValue(c, "genres")
	q.Platforms = multiValue(c, "platforms")

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := c.Param("id")
	g, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

func multiValue(c *gin.Context, key string) []string {
	values := c.QueryArray(key)
	if len(values) == 0 {
		if s := c.Query(key); s != "" {
			values = strings.Split(s, ",")
		}
	}
	return values
}
