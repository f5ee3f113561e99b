package history

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gamestore/internal/auth"
	"gamestore/pkg/models"
	"gamestore/pkg/utils"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.list)
	rg.POST("/history", h.add)
}

type addReq struct {
	GameID string `json:"game_id"`
}

func (h *Handler) add(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	gameID := strings.TrimSpace(req.GameID)
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id required"})
		return
	}

	ev := models.ViewEvent{
		UserID:   claims.UserID,
		GameID:   gameID,
		ViewedAt: time.Now().UTC(),
	}

	if err := h.Repo.Add(c.Request.Context(), ev); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.JSON(http.StatusOK, ev)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := utils.ParseInt(c.Query("limit"), 20)
	offset := utils.ParseInt(c.Query("offset"), 0)

	items, err := h.Repo.List(c.Request.Context(), claims.UserID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}
