package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(token string) TokenProvider {
	return func() string { return token }
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, staticToken("tok"))
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("rejects empty base URL", func(t *testing.T) {
		_, err := NewClient(Config{}, staticToken("tok"))
		assert.Error(t, err)
	})

	t.Run("defaults the timeout", func(t *testing.T) {
		c, err := NewClient(Config{BaseURL: "http://localhost:8080"}, staticToken("tok"))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	})
}

func TestClient_Fetch(t *testing.T) {
	t.Run("decodes and normalizes items", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v1/cart", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{
				"success": true,
				"data": {"items": [
					{"item_id": "sku-1", "name": "Desk", "image_ref": "d.jpg", "unit_price": "249.99", "quantity": 2},
					{"product_id": "sku-legacy", "name": "Lamp", "unit_price": "34.50", "quantity": 1}
				]}
			}`))
		})

		items, err := c.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "sku-1", items[0].ItemID)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, "249.99", items[0].UnitPrice.StringFixed(2))

		// Legacy records keyed by product_id normalize to the same field.
		assert.Equal(t, "sku-legacy", items[1].ItemID)
	})

	t.Run("maps auth failures to ErrUnauthenticated", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("surfaces envelope errors", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"INTERNAL_ERROR","message":"boom"}}`))
		})

		_, err := c.Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INTERNAL_ERROR")
	})

	t.Run("times out slow responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		t.Cleanup(server.Close)

		c, err := NewClient(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond}, staticToken("tok"))
		require.NoError(t, err)

		_, err = c.Fetch(context.Background())
		assert.Error(t, err)
	})
}

func TestClient_Mutations(t *testing.T) {
	t.Run("AddItem posts item and quantity", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/cart/items", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "sku-1", body["item_id"])
			assert.Equal(t, float64(3), body["quantity"])

			_, _ = w.Write([]byte(`{"success":true}`))
		})

		assert.NoError(t, c.AddItem(context.Background(), "sku-1", 3))
	})

	t.Run("UpdateItem puts quantity to item path", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/v1/cart/items/sku-1", r.URL.Path)
			_, _ = w.Write([]byte(`{"success":true}`))
		})

		assert.NoError(t, c.UpdateItem(context.Background(), "sku-1", 5))
	})

	t.Run("RemoveItem deletes item path", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/v1/cart/items/sku-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, c.RemoveItem(context.Background(), "sku-1"))
	})

	t.Run("Clear deletes the cart", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/v1/cart", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, c.Clear(context.Background()))
	})

	t.Run("missing token fails before the request is sent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request should not reach the server")
		}))
		t.Cleanup(server.Close)

		c, err := NewClient(Config{BaseURL: server.URL}, staticToken(""))
		require.NoError(t, err)

		assert.ErrorIs(t, c.AddItem(context.Background(), "sku-1", 1), ErrUnauthenticated)
	})
}
