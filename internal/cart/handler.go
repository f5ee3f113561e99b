package cart

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

const maxQuantity = 99

type Handler struct {
	Repo  *Repo
	Games *games.Repo
	Hub   *sync.Hub
}

func NewHandler(repo *Repo, gamesRepo *games.Repo, hub *sync.Hub) *Handler {
	return &Handler{Repo: repo, Games: gamesRepo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cart", h.list)
	rg.POST("/cart", h.add)
	rg.PUT("/cart/:game_id", h.updateQuantity)
	rg.DELETE("/cart/:game_id", h.remove)
	rg.DELETE("/cart", h.clear)
	rg.POST("/checkout", h.checkout)
	rg.GET("/orders", h.listOrders)
	rg.GET("/orders/:id", h.getOrder)
}

type addReq struct {
	GameID   string `json:"game_id"`
	Quantity int    `json:"quantity"`
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
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if quantity > maxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity too large"})
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

	if err := h.Repo.Upsert(c.Request.Context(), cartItem(claims.UserID, game.ID, game.Name, game.Price, quantity)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, game.ID)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}

	h.broadcastCart(sync.EventCartUpdate, claims.UserID, saved.GameID, saved.Quantity, saved.UnitPrice)
	c.JSON(http.StatusOK, saved)
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateQuantity(c *gin.Context) {
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

	var req quantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Quantity <= 0 || req.Quantity > maxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be 1-99"})
		return
	}

	existing, err := h.Repo.Get(c.Request.Context(), claims.UserID, gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not in cart"})
		return
	}

	existing.Quantity = req.Quantity
	if err := h.Repo.Upsert(c.Request.Context(), *existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, gameID)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}

	h.broadcastCart(sync.EventCartUpdate, claims.UserID, saved.GameID, saved.Quantity, saved.UnitPrice)
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	var total float64
	count := 0
	for _, it := range items {
		total += it.UnitPrice * float64(it.Quantity)
		count += it.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total_items": count,
		"total":       total,
	})
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

	h.broadcastCart(sync.EventCartRemove, claims.UserID, gameID, 0, 0)
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

func (h *Handler) clear(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.Repo.Clear(c.Request.Context(), claims.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clear failed"})
		return
	}

	h.broadcastCart(sync.EventCartRemove, claims.UserID, "", 0, 0)
	c.JSON(http.StatusOK, gin.H{"message": "cleared"})
}

func (h *Handler) checkout(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	order, err := h.Repo.Checkout(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}
	if order == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	if h.Hub != nil {
		ev := sync.CartEvent{
			Type:    sync.EventCartCheckout,
			UserID:  claims.UserID,
			OrderID: order.ID,
			Total:   order.Total,
			At:      time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) listOrders(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := utils.ParseInt(c.Query("limit"), 20)
	offset := utils.ParseInt(c.Query("offset"), 0)

	orders, total, err := h.Repo.ListOrders(c.Request.Context(), claims.UserID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  orders,
	})
}

func (h *Handler) getOrder(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orderID := strings.TrimSpace(c.Param("id"))
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	order, err := h.Repo.GetOrder(c.Request.Context(), claims.UserID, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) broadcastCart(eventType, userID, gameID string, quantity int, unitPrice float64) {
	if h.Hub == nil {
		return
	}
	ev := sync.CartEvent{
		Type:      eventType,
		UserID:    userID,
		GameID:    gameID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		At:        time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}

func cartItem(userID, gameID, name string, price float64, quantity int) (it models.CartItem) {
	it.UserID = userID
	it.GameID = gameID
	it.GameName = name
	it.UnitPrice = price
	it.Quantity = quantity
	return
}
