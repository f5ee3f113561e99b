package favorites

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gamestore/internal/auth"
	"gamestore/internal/games"
	"gamestore/internal/sync"
	"gamestore/pkg/models"
	"gamestore/pkg/utils"
)

type Handler struct {
	Repo  *Repo
	Games *games.Repo
	Hub   *sync.Hub
}

func NewHandler(repo *Repo, gamesRepo *games.Repo, hub *sync.Hub) *Handler {
	return &Handler{Repo: repo, Games: gamesRepo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/favorites", h.list)
	rg.POST("/favorites", h.add)
	rg.DELETE("/favorites/:game_id", h.remove)
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

	game, err := h.Games.GetByID(c.Request.Context(), gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if game == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	fav := models.Favorite{UserID: claims.UserID, GameID: game.ID, GameName: game.Name}
	if err := h.Repo.Add(c.Request.Context(), fav); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	h.broadcast(sync.EventFavoriteAdd, claims.UserID, game.ID)
	c.JSON(http.StatusCreated, fav)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	gameID := strings.TrimSpace(c.Param("game_id"))
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id required"})
		return
	}

	ok, err := h.Repo.Remove(c.Request.Context(), claims.UserID, gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.broadcast(sync.EventFavoriteRemove, claims.UserID, gameID)
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := utils.ParseInt(c.Query("limit"), 20)
	offset := utils.ParseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) broadcast(eventType, userID, gameID string) {
	if h.Hub == nil {
		return
	}
	ev := sync.FavoriteEvent{
		Type:   eventType,
		UserID: userID,
		GameID: gameID,
		At:     time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}
