package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mei-storefront/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /api/auth/login":
			var c Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
			if c.Password != "secret1" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":42,"token":"jwt","fullName":"Mei","email":"mei@example.com"}`))
		case "POST /api/users":
			w.WriteHeader(http.StatusCreated)
		case "PUT /api/users/42":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, map[string]string{"password": "secret2"}, req)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	repo := NewRepository(transport.NewClient(srv.URL+"/api", time.Second, nil))
	ctx := context.Background()

	res, err := repo.Login(ctx, Credentials{Email: "mei@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, ID("42"), res.ID)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, "Mei", res.FullName)

	_, err = repo.Login(ctx, Credentials{Email: "mei@example.com", Password: "bad"})
	assert.ErrorContains(t, err, "invalid credentials")

	require.NoError(t, repo.Register(ctx, RegisterPayload{Email: "mei@example.com"}))

	acc, err := repo.Update(ctx, "tok", "42", UpdateRequest{Password: "secret2"})
	require.NoError(t, err)
	assert.Empty(t, acc.ID)
}

func TestID_UnmarshalJSON(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":7,"b":" 8 ","c":null}`), &v))
	assert.Equal(t, ID("7"), v.A)
	assert.Equal(t, ID("8"), v.B)
	assert.Equal(t, ID(""), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}
