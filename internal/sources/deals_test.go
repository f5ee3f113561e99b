package sources

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDealsClient(baseURL string) *DealsClient {
	return &DealsClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 2 * time.Second},
	}
}

func TestDealsClient_ListParsesStringPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deals", r.URL.Path)
		assert.Equal(t, "doom", r.URL.Query().Get("title"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"dealID": "d1", "title": "Doom", "salePrice": "9.99", "normalPrice": "19.99", "storeID": "1", "thumb": "t.jpg"},
			{"dealID": "d2", "title": "Doom Eternal", "salePrice": "garbage", "normalPrice": "", "storeID": "3"}
		]`))
	}))
	defer srv.Close()

	deals, err := newDealsClient(srv.URL).List(context.Background(), "doom", 10)
	require.NoError(t, err)
	require.Len(t, deals, 2)

	assert.Equal(t, "d1", deals[0].ID)
	assert.Equal(t, 9.99, deals[0].SalePrice)
	assert.Equal(t, 19.99, deals[0].NormalPrice)
	assert.Equal(t, "1", deals[0].StoreID)

	// unparseable prices surface as NaN, the record itself is kept
	assert.True(t, math.IsNaN(deals[1].SalePrice))
	assert.True(t, math.IsNaN(deals[1].NormalPrice))
}

func TestDealsClient_StatusClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newDealsClient(srv.URL).List(context.Background(), "", 0)
	require.Error(t, err)
	assert.Equal(t, ErrUpstream, KindOf(err))
}

func TestDealsClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	_, err := newDealsClient(srv.URL).List(context.Background(), "", 0)
	require.Error(t, err)
	assert.Equal(t, ErrDecode, KindOf(err))
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 7.5, parsePrice("7.50"))
	assert.Equal(t, 0.0, parsePrice("0"))
	assert.True(t, math.IsNaN(parsePrice("")))
	assert.True(t, math.IsNaN(parsePrice("   ")))
	assert.True(t, math.IsNaN(parsePrice("free")))
}
