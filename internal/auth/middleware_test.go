package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/pkg/database"
)

func testAuthRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.MigrateFrom(db, filepath.Join("..", "..", "docs", "schema.sql")))
	return NewRepo(db)
}

func protectedRouter(tokens TokenService, repo *Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", AuthMiddleware(tokens, repo), func(c *gin.Context) {
		claims := MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID})
	})
	return router
}

func get(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_RejectsMissingOrMalformedHeader(t *testing.T) {
	repo := testAuthRepo(t)
	router := protectedRouter(testTokens(), repo)

	assert.Equal(t, http.StatusUnauthorized, get(router, "").Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_AcceptsCurrentToken(t *testing.T) {
	ctx := context.Background()
	repo := testAuthRepo(t)
	tokens := testTokens()
	router := protectedRouter(tokens, repo)

	u := User{ID: "u1", Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, repo.CreateUser(ctx, u))

	token, _, err := tokens.Sign(&u)
	require.NoError(t, err)

	w := get(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"u1"`)
}

func TestAuthMiddleware_StaleTokenVersionRejected(t *testing.T) {
	ctx := context.Background()
	repo := testAuthRepo(t)
	tokens := testTokens()
	router := protectedRouter(tokens, repo)

	u := User{ID: "u1", Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, repo.CreateUser(ctx, u))

	token, _, err := tokens.Sign(&u)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, get(router, token).Code)

	// logout bumps the stored version; the old token must stop working
	require.NoError(t, repo.BumpTokenVersion(ctx, u.ID))
	assert.Equal(t, http.StatusUnauthorized, get(router, token).Code)

	// a token minted against the new version is accepted again
	fresh, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, 1, fresh.TokenVersion)

	newToken, _, err := tokens.Sign(fresh)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(router, newToken).Code)
}

func TestAuthMiddleware_UnknownUserRejected(t *testing.T) {
	repo := testAuthRepo(t)
	tokens := testTokens()
	router := protectedRouter(tokens, repo)

	// token for a user that was never created: stored version lookup
	// returns 0, claims carry 1
	ghost := User{ID: "ghost", TokenVersion: 1}
	token, _, err := tokens.Sign(&ghost)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(router, token).Code)
}
