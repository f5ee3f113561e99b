package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

type stubCounter struct {
	favorites int
	orders    int
}

func (s stubCounter) ProfileCounts(ctx context.Context, userID string) (int, int, error) {
	return s.favorites, s.orders, nil
}

func authRouter(t *testing.T, counter ProfileCounter) (*gin.Engine, *Repo) {
	t.Helper()
	repo := testAuthRepo(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(repo, testTokens(), counter).RegisterRoutes(router.Group("/auth"))
	return router, repo
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type sessionResp struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
	Profile struct {
		FavoritesCount int    `json:"favorites_count"`
		OrdersCount    int    `json:"orders_count"`
		MemberSince    string `json:"member_since"`
	} `json:"profile"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func TestRegister_ReturnsSessionWithProfile(t *testing.T) {
	router, _ := authRouter(t, stubCounter{})

	w := postJSON(router, "/auth/register",
		`{"username":"alice","email":"Alice@Example.com","password":"secret-pass"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp sessionResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.ExpiresAt)
	assert.Equal(t, 0, resp.Profile.FavoritesCount)
	assert.Equal(t, 0, resp.Profile.OrdersCount)
	assert.NotEmpty(t, resp.Profile.MemberSince)
}

func TestRegister_ValidationAndConflicts(t *testing.T) {
	router, _ := authRouter(t, stubCounter{})

	w := postJSON(router, "/auth/register", `{"username":"al","email":"a@b.c","password":"secret-pass"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/auth/register", `{"username":"alice","email":"no-at-sign","password":"secret-pass"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/auth/register", `{"username":"alice","email":"a@b.c","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusCreated,
		postJSON(router, "/auth/register", `{"username":"alice","email":"a@b.c","password":"secret-pass"}`).Code)
	w = postJSON(router, "/auth/register", `{"username":"alice2","email":"a@b.c","password":"secret-pass"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = postJSON(router, "/auth/register", `{"username":"alice","email":"other@b.c","password":"secret-pass"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_CarriesStorefrontCounts(t *testing.T) {
	router, repo := authRouter(t, stubCounter{favorites: 4, orders: 2})

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(context.Background(), User{
		ID: "u1", Username: "alice", Email: "a@b.c", PasswordHash: string(hash),
	}))

	w := postJSON(router, "/auth/login", `{"email":"A@B.C","password":"secret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp sessionResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, 4, resp.Profile.FavoritesCount)
	assert.Equal(t, 2, resp.Profile.OrdersCount)
}

func TestLogin_BadCredentials(t *testing.T) {
	router, repo := authRouter(t, stubCounter{})

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(context.Background(), User{
		ID: "u1", Username: "alice", Email: "a@b.c", PasswordHash: string(hash),
	}))

	w := postJSON(router, "/auth/login", `{"email":"a@b.c","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(router, "/auth/login", `{"email":"nobody@b.c","password":"secret-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
