package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gamestore/pkg/models"
	"gamestore/pkg/utils"
)

// DealsClient talks to the price-comparison API (CheapShark-shaped): a
// flat list of per-store listings with prices encoded as strings.
type DealsClient struct {
	BaseURL string
	Client  *http.Client
}

func NewDealsClient(cfg utils.SourceConfig) *DealsClient {
	return &DealsClient{
		BaseURL: cfg.DealsBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type dealRecord struct {
	DealID      string `json:"dealID"`
	Title       string `json:"title"`
	SalePrice   string `json:"salePrice"`
	NormalPrice string `json:"normalPrice"`
	StoreID     string `json:"storeID"`
	Thumb       string `json:"thumb"`
}

// List fetches deal listings, optionally filtered by a free-text title
// query. Prices that fail to parse come back as NaN so the consolidation
// layer can decide what to do with them.
func (c *DealsClient) List(ctx context.Context, title string, pageSize int) ([]models.RawDeal, error) {
	u, err := url.Parse(c.BaseURL + "/deals")
	if err != nil {
		return nil, srcErr("deals", ErrBadRequest, fmt.Errorf("base url: %w", err))
	}
	qv := u.Query()
	if title != "" {
		qv.Set("title", title)
	}
	if pageSize > 0 {
		qv.Set("pageSize", strconv.Itoa(pageSize))
	}
	u.RawQuery = qv.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, srcErr("deals", ErrBadRequest, fmt.Errorf("build request: %w", err))
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, srcErr("deals", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, srcErr("deals", classifyStatus(resp.StatusCode),
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var raw []dealRecord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, srcErr("deals", ErrDecode, err)
	}

	deals := make([]models.RawDeal, 0, len(raw))
	for _, r := range raw {
		deals = append(deals, models.RawDeal{
			ID:          r.DealID,
			Title:       r.Title,
			SalePrice:   parsePrice(r.SalePrice),
			NormalPrice: parsePrice(r.NormalPrice),
			StoreID:     r.StoreID,
			Thumb:       r.Thumb,
		})
	}
	return deals, nil
}

func parsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
