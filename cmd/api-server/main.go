package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gamestore/internal/auth"
	"gamestore/internal/cart"
	"gamestore/internal/deals"
	"gamestore/internal/favorites"
	"gamestore/internal/games"
	"gamestore/internal/history"
	"gamestore/internal/notify"
	"gamestore/internal/reviews"
	"gamestore/internal/search"
	"gamestore/internal/sources"
	synchub "gamestore/internal/sync"
	"gamestore/pkg/database"
	"gamestore/pkg/utils"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start TCP sync first (so you notice binding errors early)
	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))
	tcpSrv := synchub.NewServer(":7070", hub)

	// UDP price-drop alerts; cmd/refresh feeds this
	notifyRegistry := notify.NewRegistry()
	notifySrv := notify.NewServer(":9091", notifyRegistry, nil)
	go func() {
		if err := notifySrv.Run(); err != nil {
			log.Printf("notify server stopped: %v", err)
		}
	}()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Upstream clients
	srcCfg := utils.LoadSourceConfig()
	catalogClient := sources.NewCatalogClient(srcCfg)
	dealsClient := sources.NewDealsClient(srcCfg)

	// Catalog (public)
	gamesRepo := games.NewRepo(db)
	gamesHandler := games.NewHandler(gamesRepo)
	gamesHandler.RegisterRoutes(router.Group("/games"))

	// Deals (public, live fetch + consolidation)
	dealsHandler := deals.NewHandler(dealsClient)
	dealsHandler.RegisterRoutes(router.Group("/deals"))

	// Multi-source search (public)
	agg := search.NewAggregator(
		search.NewCatalogSource(catalogClient),
		search.NewDealsSource(dealsClient),
		search.NewCuratedSource(gamesRepo),
	)
	searchHandler := search.NewHandler(agg)
	searchHandler.RegisterRoutes(router.Group("/search"))

	cartRepo := cart.NewRepo(db)
	favRepo := favorites.NewRepo(db)

	// Auth; login/register responses carry the profile summary
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc, profileCounter{favorites: favRepo, orders: cartRepo})
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Reviews: public listing, protected create/delete
	reviewsRepo := reviews.NewRepo(db)
	reviewsHandler := reviews.NewHandler(reviewsRepo)
	reviewsHandler.RegisterPublicRoutes(&router.RouterGroup)

	// Protected routes
	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	protected.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
		})
	})

	cartHandler := cart.NewHandler(cartRepo, gamesRepo, hub)
	cartHandler.RegisterRoutes(protected)

	favHandler := favorites.NewHandler(favRepo, gamesRepo, hub)
	favHandler.RegisterRoutes(protected)

	histRepo := history.NewRepo(db)
	histHandler := history.NewHandler(histRepo)
	histHandler.RegisterRoutes(protected)

	reviewsHandler.RegisterProtectedRoutes(protected)

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}

// profileCounter backs the profile summary in auth responses with the
// favorites and orders tables.
type profileCounter struct {
	favorites *favorites.Repo
	orders    *cart.Repo
}

func (p profileCounter) ProfileCounts(ctx context.Context, userID string) (int, int, error) {
	_, favs, err := p.favorites.List(ctx, userID, 1, 0)
	if err != nil {
		return 0, 0, err
	}
	_, orders, err := p.orders.ListOrders(ctx, userID, 1, 0)
	if err != nil {
		return 0, 0, err
	}
	return favs, orders, nil
}
