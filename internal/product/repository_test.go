package product

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/product":
			_, _ = w.Write([]byte(`{"content":[{"id":1,"name":"Tint","price":120000,"brand":{"id":3,"name":"Mei"}},null]}`))
		case "/api/product/1":
			_, _ = w.Write([]byte(`{"id":1,"name":"Tint","brandId":3,"stock":4}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	repo := NewRepository(transport.NewClient(srv.URL+"/api", time.Second, nil))

	t.Run("List", func(t *testing.T) {
		list, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Nil(t, list[1])
		assert.True(t, list[0].InBrand(3))
		assert.Equal(t, "Mei", list[0].BrandName())
		assert.Equal(t, "120000", list[0].UnitPrice().String())
	})

	t.Run("Get", func(t *testing.T) {
		p, err := repo.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, p.InBrand(3))
		assert.Equal(t, 4, *p.Stock)
		assert.True(t, p.UnitPrice().IsZero())
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := repo.Get(context.Background(), 9)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}
