package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxClaimsKey = "auth_claims"

// bearerToken extracts the raw token from an Authorization header.
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}

func reject(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// AuthMiddleware authenticates storefront requests. A token must parse
// under the configured secret AND carry the user's current token
// version: logout and change-password bump the stored version, which
// turns every previously minted token into a 401 on its next use.
func AuthMiddleware(tokens TokenService, repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			reject(c, "missing bearer token")
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			reject(c, "invalid token")
			return
		}

		if repo != nil {
			current, err := repo.GetTokenVersion(c.Request.Context(), claims.UserID)
			if err != nil || current != claims.TokenVersion {
				reject(c, "session expired")
				return
			}
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
