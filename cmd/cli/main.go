package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"gamestore/internal/search"
	"gamestore/internal/sources"
	"gamestore/pkg/models"
	"gamestore/pkg/utils"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

type gameListResponse struct {
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Items  []models.Game `json:"items"`
}

func main() {
	global := flag.NewFlagSet("gamestore", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "games":
		handleGames(ctx, client, *baseURL, sub, args[2:])
	case "deals":
		handleDeals(ctx, client, *baseURL, sub, args[2:])
	case "search":
		handleSearch(ctx, client, *baseURL, sub, args[2:])
	case "cart":
		handleCart(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "checkout":
		handleCheckout(ctx, client, *baseURL, *tokenPath)
	case "orders":
		handleOrders(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "favorites":
		handleFavorites(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "sync":
		handleSync(sub, args[2:])
	case "notify":
		handleNotify(sub, args[2:])
	case "export":
		handleExport(ctx, client, *baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		payload := map[string]string{"email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("logged in")
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *email == "" || *password == "" {
			log.Fatal("username, email, and password are required")
		}

		payload := map[string]string{"username": *username, "email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/register", "", payload, &resp); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("registered and logged in")
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")
	default:
		log.Fatal("usage: gamestore auth <login|register|logout>")
	}
}

func handleGames(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		fs := flag.NewFlagSet("games list", flag.ExitOnError)
		query := fs.String("q", "", "search query")
		genres := fs.String("genres", "", "comma-separated genres")
		platforms := fs.String("platforms", "", "comma-separated platforms")
		ordering := fs.String("ordering", "", "ordering (name, -rating, price, ...)")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/games")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *query != "" {
			qv.Set("q", *query)
		}
		if *genres != "" {
			qv.Set("genres", *genres)
		}
		if *platforms != "" {
			qv.Set("platforms", *platforms)
		}
		if *ordering != "" {
			qv.Set("ordering", *ordering)
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp gameListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("games show", flag.ExitOnError)
		id := fs.String("id", "", "game id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("game id is required")
		}

		var resp models.Game
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/games/"+url.PathEscape(*id), "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: gamestore games <list|show>")
	}
}

func handleDeals(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		fs := flag.NewFlagSet("deals list", flag.ExitOnError)
		query := fs.String("q", "", "title filter")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/deals")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		if *query != "" {
			qv := u.Query()
			qv.Set("q", *query)
			u.RawQuery = qv.Encode()
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("deals failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: gamestore deals list")
	}
}

func handleSearch(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "run":
		fs := flag.NewFlagSet("search run", flag.ExitOnError)
		query := fs.String("q", "", "search query (min 2 chars)")
		limit := fs.Int("limit", 5, "display limit")
		_ = fs.Parse(args)
		if len([]rune(strings.TrimSpace(*query))) < 2 {
			log.Fatal("query must be at least 2 characters")
		}

		u, err := url.Parse(baseURL + "/search")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		qv.Set("q", *query)
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		u.RawQuery = qv.Encode()

		var resp models.SearchResult
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("search failed: %v", err)
		}
		printJSON(resp)
	case "live":
		fs := flag.NewFlagSet("search live", flag.ExitOnError)
		limit := fs.Int("limit", 5, "display limit")
		_ = fs.Parse(args)
		runLiveSearch(ctx, *limit)
	default:
		log.Fatal("usage: gamestore search <run|live>")
	}
}

// runLiveSearch is the type-as-you-go mode: it talks to the upstream
// sources directly (the way the web storefront does), debounces input by
// 300ms, and drops any response that was superseded by a newer query.
func runLiveSearch(ctx context.Context, limit int) {
	srcCfg := utils.LoadSourceConfig()
	agg := search.NewAggregator(
		search.NewCatalogSource(sources.NewCatalogClient(srcCfg)),
		search.NewDealsSource(sources.NewDealsClient(srcCfg)),
	)
	session := search.NewSession(agg)

	fmt.Println("type a query (min 2 chars), empty line to quit:")

	const debounce = 300 * time.Millisecond
	var timer *time.Timer

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			return
		}
		if len([]rune(query)) < 2 {
			fmt.Println("(need at least 2 characters)")
			continue
		}

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			result, gen := session.Search(ctx, query, limit)
			if session.Stale(gen) {
				return // a newer query started while this one was in flight
			}
			fmt.Printf("\n%q: %d total\n", query, result.Count)
			for _, g := range result.Games {
				fmt.Printf("  [%s] %s\n", g.Source, g.Name)
			}
			fmt.Print("> ")
		})
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("stdin: %v", err)
	}
}

func handleCart(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "add":
		fs := flag.NewFlagSet("cart add", flag.ExitOnError)
		gameID := fs.String("game-id", "", "game id")
		quantity := fs.Int("quantity", 1, "quantity")
		_ = fs.Parse(args)
		if *gameID == "" {
			log.Fatal("game-id is required")
		}

		payload := map[string]any{
			"game_id":  *gameID,
			"quantity": *quantity,
		}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/users/cart", token, payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	case "remove":
		fs := flag.NewFlagSet("cart remove", flag.ExitOnError)
		gameID := fs.String("game-id", "", "game id")
		_ = fs.Parse(args)
		if *gameID == "" {
			log.Fatal("game-id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/users/cart/"+url.PathEscape(*gameID), token, nil, &resp); err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		printJSON(resp)
	case "list":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/users/cart", token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "clear":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/users/cart", token, nil, &resp); err != nil {
			log.Fatalf("clear failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: gamestore cart <add|remove|list|clear>")
	}
}

func handleCheckout(ctx context.Context, client *http.Client, baseURL, tokenPath string) {
	token := mustToken(tokenPath)
	var resp map[string]any
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/users/checkout", token, nil, &resp); err != nil {
		log.Fatalf("checkout failed: %v", err)
	}
	printJSON(resp)
}

func handleOrders(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "list":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/users/orders", token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("orders show", flag.ExitOnError)
		id := fs.String("id", "", "order id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("order id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/users/orders/"+url.PathEscape(*id), token, nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: gamestore orders <list|show>")
	}
}

func handleFavorites(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "add":
		fs := flag.NewFlagSet("favorites add", flag.ExitOnError)
		gameID := fs.String("game-id", "", "game id")
		_ = fs.Parse(args)
		if *gameID == "" {
			log.Fatal("game-id is required")
		}

		payload := map[string]any{"game_id": *gameID}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/users/favorites", token, payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	case "remove":
		fs := flag.NewFlagSet("favorites remove", flag.ExitOnError)
		gameID := fs.String("game-id", "", "game id")
		_ = fs.Parse(args)
		if *gameID == "" {
			log.Fatal("game-id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/users/favorites/"+url.PathEscape(*gameID), token, nil, &resp); err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		printJSON(resp)
	case "list":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/users/favorites", token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: gamestore favorites <add|remove|list>")
	}
}

func handleSync(sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("sync listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP sync server address")
		wsURL := fs.String("ws", "", "WebSocket URL (e.g. ws://localhost:8080/ws); overrides -addr")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			var err error
			if *wsURL != "" {
				err = runSyncWS(*wsURL, *pretty)
			} else {
				err = runSyncTCP(*addr, *pretty)
			}
			if err != nil {
				log.Printf("[sync] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	default:
		log.Fatal("usage: gamestore sync listen")
	}
}

func handleNotify(sub string, args []string) {
	switch sub {
	case "subscribe":
		fs := flag.NewFlagSet("notify subscribe", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:9091", "UDP notify server address")
		userID := fs.String("user", "guest", "user id to register as")
		_ = fs.Parse(args)
		if err := runNotifyUDP(*addr, *userID); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: gamestore notify subscribe")
	}
}

func handleExport(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "json":
		fs := flag.NewFlagSet("export json", flag.ExitOnError)
		out := fs.String("out", "data/games.json", "output JSON path")
		limit := fs.Int("limit", 200, "max games to export")
		_ = fs.Parse(args)

		items, err := fetchGames(ctx, client, baseURL, *limit)
		if err != nil {
			log.Fatalf("export json failed: %v", err)
		}
		if err := writeJSON(*out, items); err != nil {
			log.Fatalf("write json failed: %v", err)
		}
		log.Printf("exported %d games to %s", len(items), *out)
	case "csv":
		fs := flag.NewFlagSet("export csv", flag.ExitOnError)
		out := fs.String("out", "data/games.csv", "output CSV path")
		limit := fs.Int("limit", 200, "max games to export")
		_ = fs.Parse(args)

		items, err := fetchGames(ctx, client, baseURL, *limit)
		if err != nil {
			log.Fatalf("export csv failed: %v", err)
		}
		if err := writeCSV(*out, items); err != nil {
			log.Fatalf("write csv failed: %v", err)
		}
		log.Printf("exported %d games to %s", len(items), *out)
	default:
		log.Fatal("usage: gamestore export <json|csv>")
	}
}

func runSyncTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runSyncWS(wsURL string, pretty bool) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	log.Printf("[sync] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if !pretty {
			fmt.Println(string(msg))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(msg, &obj); err != nil {
			fmt.Println(string(msg))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
}

func runNotifyUDP(addr, userID string) error {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	reg, _ := json.Marshal(map[string]string{"type": "register", "user_id": userID})
	if _, err := conn.Write(reg); err != nil {
		return err
	}
	log.Printf("[notify] registered as %s at %s, waiting for price drops", userID, addr)

	buf := make([]byte, 2048)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return err
		}
		fmt.Println(string(buf[:n]))
	}
}

func fetchGames(ctx context.Context, client *http.Client, baseURL string, limit int) ([]models.Game, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}

	var out []models.Game
	offset := 0
	for len(out) < limit {
		pageSize := 50
		if remaining := limit - len(out); remaining < pageSize {
			pageSize = remaining
		}
		u, err := url.Parse(baseURL + "/games")
		if err != nil {
			return nil, err
		}
		qv := u.Query()
		qv.Set("limit", fmt.Sprintf("%d", pageSize))
		qv.Set("offset", fmt.Sprintf("%d", offset))
		u.RawQuery = qv.Encode()

		var resp gameListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}
		out = append(out, resp.Items...)
		offset += len(resp.Items)
		if offset >= resp.Total {
			break
		}
	}

	return out, nil
}

func writeJSON(path string, items []models.Game) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func writeCSV(path string, items []models.Game) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{
		"id", "name", "genres", "platforms", "released", "rating", "price", "background_image",
	}); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{
			item.ID,
			item.Name,
			strings.Join(item.Genres, ","),
			strings.Join(item.Platforms, ","),
			item.Released,
			fmt.Sprintf("%.2f", item.Rating),
			fmt.Sprintf("%.2f", item.Price),
			item.BackgroundImage,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.gamestore-token.json"
	}
	return filepath.Join(home, ".gamestore", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func mustToken(path string) string {
	token, err := readToken(path)
	if err != nil {
		log.Fatalf("token not found, please login: %v", err)
	}
	if token == "" {
		log.Fatal("token empty, please login")
	}
	return token
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func printUsage() {
	fmt.Println("gamestore <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  games list|show")
	fmt.Println("  deals list")
	fmt.Println("  search run|live")
	fmt.Println("  cart add|remove|list|clear")
	fmt.Println("  checkout")
	fmt.Println("  orders list|show")
	fmt.Println("  favorites add|remove|list")
	fmt.Println("  sync listen")
	fmt.Println("  notify subscribe")
	fmt.Println("  export json|csv")
}
