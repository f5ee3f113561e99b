package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gamestore/pkg/models"
	"gamestore/pkg/utils"
)

// CatalogClient talks to the game catalog API (RAWG-shaped): paginated
// results with nested genre/platform/screenshot structures that get
// flattened into models.Game.
type CatalogClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewCatalogClient(cfg utils.SourceConfig) *CatalogClient {
	return &CatalogClient{
		BaseURL: cfg.CatalogBaseURL,
		APIKey:  cfg.CatalogAPIKey,
		Client:  &http.Client{Timeout: 12 * time.Second},
	}
}

// Query mirrors the catalog API's list parameters. Zero values are omitted
// from the request.
type CatalogQuery struct {
	Search    string
	Page      int
	PageSize  int
	Ordering  string
	Genres    string // comma-separated slugs
	Platforms string // comma-separated ids
}

type catalogResponse struct {
	Count   int `json:"count"`
	Results []struct {
		ID              int     `json:"id"`
		Slug            string  `json:"slug"`
		Name            string  `json:"name"`
		Released        string  `json:"released"`
		Rating          float64 `json:"rating"`
		BackgroundImage string  `json:"background_image"`
		Genres          []struct {
			Name string `json:"name"`
		} `json:"genres"`
		Platforms []struct {
			Platform struct {
				Name string `json:"name"`
			} `json:"platform"`
		} `json:"platforms"`
		ShortScreenshots []struct {
			Image string `json:"image"`
		} `json:"short_screenshots"`
	} `json:"results"`
}

// List fetches one page and returns the flattened games plus the API's
// total count for the query.
func (c *CatalogClient) List(ctx context.Context, q CatalogQuery) ([]models.Game, int, error) {
	u, err := url.Parse(c.BaseURL + "/games")
	if err != nil {
		return nil, 0, srcErr("catalog", ErrBadRequest, fmt.Errorf("base url: %w", err))
	}
	qv := u.Query()
	if c.APIKey != "" {
		qv.Set("key", c.APIKey)
	}
	if q.Search != "" {
		qv.Set("search", q.Search)
	}
	if q.Page > 0 {
		qv.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		qv.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Ordering != "" {
		qv.Set("ordering", q.Ordering)
	}
	if q.Genres != "" {
		qv.Set("genres", q.Genres)
	}
	if q.Platforms != "" {
		qv.Set("platforms", q.Platforms)
	}
	u.RawQuery = qv.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, srcErr("catalog", ErrBadRequest, fmt.Errorf("build request: %w", err))
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, 0, srcErr("catalog", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, 0, srcErr("catalog", classifyStatus(resp.StatusCode),
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var cr catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, 0, srcErr("catalog", ErrDecode, err)
	}

	games := make([]models.Game, 0, len(cr.Results))
	for _, r := range cr.Results {
		if r.Name == "" {
			continue
		}

		id := r.Slug
		if id == "" {
			id = strconv.Itoa(r.ID)
		}

		genres := make([]string, 0, len(r.Genres))
		for _, g := range r.Genres {
			if g.Name != "" {
				genres = append(genres, g.Name)
			}
		}

		platforms := make([]string, 0, len(r.Platforms))
		for _, p := range r.Platforms {
			if p.Platform.Name != "" {
				platforms = append(platforms, p.Platform.Name)
			}
		}

		image := r.BackgroundImage
		if image == "" && len(r.ShortScreenshots) > 0 {
			image = r.ShortScreenshots[0].Image
		}

		games = append(games, models.Game{
			ID:              id,
			Name:            r.Name,
			Slug:            r.Slug,
			Genres:          genres,
			Platforms:       platforms,
			Released:        r.Released,
			Rating:          r.Rating,
			BackgroundImage: image,
			CatalogID:       r.ID,
		})
	}

	return games, cr.Count, nil
}

// FetchAll pages through the catalog until max items are collected or the
// API runs out of results.
func (c *CatalogClient) FetchAll(ctx context.Context, pageSize, max int) ([]models.Game, error) {
	if pageSize <= 0 {
		pageSize = 40
	}

	var all []models.Game
	page := 1
	for len(all) < max {
		games, _, err := c.List(ctx, CatalogQuery{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		if len(games) == 0 {
			break
		}
		all = append(all, games...)
		page++
	}
	if len(all) > max {
		all = all[:max]
	}
	return all, nil
}
