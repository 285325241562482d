package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/clients"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newStorefront starts catalog, cart and gateway in-process and returns the
// gateway base URL.
func newStorefront(t *testing.T) string {
	t.Helper()

	src, err := catalog.NewStaticSource(catalog.SampleProducts())
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(src)
	require.NoError(t, err)
	catalogRouter := chi.NewRouter()
	catalog.NewHandler(catalogSvc).Routes(catalogRouter)
	catalogSrv := httptest.NewServer(catalogRouter)
	t.Cleanup(catalogSrv.Close)

	lookup := clients.NewCatalogClient(catalogSrv.URL, 2*time.Second)
	t.Cleanup(func() { lookup.Close() })
	cartSvc, err := cart.NewService(cart.NewMemoryStore(time.Hour), lookup, cart.DefaultPricing())
	require.NoError(t, err)
	cartRouter := chi.NewRouter()
	cart.NewHandler(cartSvc).Routes(cartRouter)
	cartSrv := httptest.NewServer(cartRouter)
	t.Cleanup(cartSrv.Close)

	h, err := NewRouter(Upstreams{CatalogURL: catalogSrv.URL, CartURL: cartSrv.URL}, rate.NewLimiter(rate.Inf, 1))
	require.NoError(t, err)
	gw := httptest.NewServer(h)
	t.Cleanup(gw.Close)
	return gw.URL
}

func send(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestStorefront_ShoppingFlow(t *testing.T) {
	base := newStorefront(t)

	var results catalog.Results
	require.Equal(t, http.StatusOK, send(t, http.MethodGet, base+"/api/v1/catalog/products?on_sale=true&sort=price-desc", nil, &results))
	require.Equal(t, 3, results.Count)
	assert.Equal(t, "1", results.Products[0].ID)

	var view cart.View
	require.Equal(t, http.StatusCreated, send(t, http.MethodPost, base+"/api/v1/cart/carts", nil, &view))
	cartURL := fmt.Sprintf("%s/api/v1/cart/carts/%s", base, view.ID)

	add := map[string]string{"product_id": "1"}
	require.Equal(t, http.StatusOK, send(t, http.MethodPost, cartURL+"/items", add, &view))
	require.Equal(t, http.StatusOK, send(t, http.MethodPost, cartURL+"/items", add, &view))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)

	require.Equal(t, http.StatusOK, send(t, http.MethodPatch, cartURL+"/items/1", map[string]int{"quantity": 3}, &view))

	var handoff cart.Handoff
	require.Equal(t, http.StatusOK, send(t, http.MethodPost, cartURL+"/checkout", nil, &handoff))
	assert.True(t, handoff.Summary.Subtotal.Equal(decimal.RequireFromString("899.97")))
	assert.True(t, handoff.Summary.Total.Equal(decimal.RequireFromString("971.9676")))

	assert.Equal(t, http.StatusConflict, send(t, http.MethodPost, cartURL+"/items", map[string]string{"product_id": "5"}, nil))
	assert.Equal(t, http.StatusNotFound, send(t, http.MethodPost, cartURL+"/items", map[string]string{"product_id": "404"}, nil))
}

func TestStorefront_ConcurrentAddsAllLand(t *testing.T) {
	base := newStorefront(t)

	var view cart.View
	require.Equal(t, http.StatusCreated, send(t, http.MethodPost, base+"/api/v1/cart/carts", nil, &view))
	cartURL := fmt.Sprintf("%s/api/v1/cart/carts/%s", base, view.ID)

	const shoppers = 10
	var wg sync.WaitGroup
	codes := make([]int, shoppers)
	for i := range shoppers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, _ := json.Marshal(map[string]string{"product_id": "2"})
			resp, err := http.Post(cartURL+"/items", "application/json", bytes.NewReader(body))
			if err != nil {
				return
			}
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "shopper %d", i)
	}

	require.Equal(t, http.StatusOK, send(t, http.MethodGet, cartURL, nil, &view))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, shoppers, view.Lines[0].Quantity)
}
