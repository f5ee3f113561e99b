package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("GAMESTORE_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("GAMESTORE_JWT_ISSUER")
	if issuer == "" {
		issuer = "gamestore"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("GAMESTORE_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

// SourceConfig points at the two upstream game-data APIs. Base URLs are
// overridable so cmd/mirror-server can stand in for both during demos.
type SourceConfig struct {
	CatalogBaseURL string
	CatalogAPIKey  string
	DealsBaseURL   string
}

func LoadSourceConfig() SourceConfig {
	catalogURL := os.Getenv("GAMESTORE_CATALOG_URL")
	if catalogURL == "" {
		catalogURL = "https://api.rawg.io/api"
	}

	dealsURL := os.Getenv("GAMESTORE_DEALS_URL")
	if dealsURL == "" {
		dealsURL = "https://www.cheapshark.com/api/1.0"
	}

	return SourceConfig{
		CatalogBaseURL: catalogURL,
		CatalogAPIKey:  os.Getenv("GAMESTORE_CATALOG_KEY"),
		DealsBaseURL:   dealsURL,
	}
}
