package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"mei-storefront/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestClient_Do(t *testing.T) {
	c := NewClient("http://api.test/api/", time.Second, nil)

	t.Run("Success", func(t *testing.T) {
		c.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPut, req.Method)
			assert.Equal(t, "http://api.test/api/cart/update/7?quantity=3", req.URL.String())
			assert.Equal(t, "Bearer abc.def", req.Header.Get("Authorization"))
			return jsonResponse(http.StatusOK, `{"id":7,"quantity":3}`)
		})

		var out struct {
			ID       int64 `json:"id"`
			Quantity int   `json:"quantity"`
		}
		q := url.Values{"quantity": []string{"3"}}
		err := c.Do(context.Background(), http.MethodPut, "/cart/update/7", q, nil, `"abc.def"`, &out)

		require.NoError(t, err)
		assert.Equal(t, int64(7), out.ID)
		assert.Equal(t, 3, out.Quantity)
		assert.Equal(t, uint64(1), c.Stats().Total)
	})

	t.Run("Sends JSON body", func(t *testing.T) {
		c.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			var body map[string]any
			assert.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, float64(4), body["productId"])
			return jsonResponse(http.StatusCreated, "")
		})

		err := c.Do(context.Background(), http.MethodPost, "cart/add", nil, map[string]int{"productId": 4}, "tok", nil)
		assert.NoError(t, err)
	})

	t.Run("No token no header", func(t *testing.T) {
		c.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Empty(t, req.Header.Get("Authorization"))
			return jsonResponse(http.StatusOK, `[]`)
		})

		assert.NoError(t, c.Do(context.Background(), http.MethodGet, "/product", nil, nil, "", nil))
	})

	t.Run("Network error", func(t *testing.T) {
		c.httpClient.Transport = MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		err := c.Do(context.Background(), http.MethodGet, "/product", nil, nil, "", nil)
		assert.True(t, apperr.IsKind(err, apperr.KindNetwork))
	})

	t.Run("Server error with message", func(t *testing.T) {
		c.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusInternalServerError, `{"message":"stock exhausted"}`)
		})

		err := c.Do(context.Background(), http.MethodPost, "/order", nil, map[string]string{}, "tok", nil)

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apperr.KindServer, ae.Kind)
		assert.Equal(t, "stock exhausted", ae.Message)
		assert.Equal(t, http.StatusInternalServerError, ae.Status)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		c.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusUnauthorized, "")
		})

		err := c.Do(context.Background(), http.MethodGet, "/cart/user/1", nil, nil, "expired", nil)
		assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	})

	t.Run("Decode failure", func(t *testing.T) {
		c.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `<html>`)
		})

		var out []int
		err := c.Do(context.Background(), http.MethodGet, "/product", nil, nil, "", &out)
		assert.True(t, apperr.IsKind(err, apperr.KindServer))
	})
}

func TestClient_Do_Httptest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"id":1},{"id":2}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, rate.NewLimiter(rate.Inf, 1))

	type row struct {
		ID int `json:"id"`
	}
	rows, err := GetList[row](context.Background(), c, "/brand", "")

	require.NoError(t, err)
	assert.Equal(t, []row{{ID: 1}, {ID: 2}}, rows)
}

func TestClient_Do_CanceledContext(t *testing.T) {
	c := NewClient("http://api.test", time.Second, rate.NewLimiter(rate.Limit(1), 1))
	c.httpClient.Transport = LimitTransport(rate.NewLimiter(rate.Limit(0.001), 1), MockRoundTripper(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, "")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Do(ctx, http.MethodGet, "/product", nil, nil, "", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindNetwork))
	assert.Equal(t, uint64(1), c.Stats().Failed)
}

func TestServerMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "Message", body: `{"message":"bad quantity"}`, want: "bad quantity"},
		{name: "Error", body: `{"error":"not allowed"}`, want: "not allowed"},
		{name: "Title", body: `{"title":"One or more validation errors occurred."}`, want: "One or more validation errors occurred."},
		{name: "Plain text", body: "Cart item not found", want: "Cart item not found"},
		{name: "JSON string", body: `"Order not found"`, want: "Order not found"},
		{name: "HTML", body: "<html></html>", want: ""},
		{name: "Empty", body: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serverMessage([]byte(tt.body)))
		})
	}
}
