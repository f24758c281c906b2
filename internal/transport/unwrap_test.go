package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"mei-storefront/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestUnwrapList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []item
		wantErr bool
	}{
		{name: "Bare array", raw: `[{"id":1,"name":"Lipstick"}]`, want: []item{{ID: 1, Name: "Lipstick"}}},
		{name: "Content wrapper", raw: `{"content":[{"id":2,"name":"Serum"}],"totalPages":1}`, want: []item{{ID: 2, Name: "Serum"}}},
		{name: "Wrapper without content", raw: `{"totalPages":0}`, want: []item{}},
		{name: "Null", raw: `null`, want: []item{}},
		{name: "Empty", raw: ``, want: []item{}},
		{name: "Scalar", raw: `42`, wantErr: true},
		{name: "Broken array", raw: `[{"id":"x"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnwrapList[item](json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnwrapList_KeepsNullEntries(t *testing.T) {
	got, err := UnwrapList[*item](json.RawMessage(`[{"id":1},null,{"id":3}]`))

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Nil(t, got[1])
}

type stubDoer struct {
	body string
	err  error
}

func (s stubDoer) Do(ctx context.Context, method, path string, query url.Values, body any, token string, out any) error {
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.body), out)
}

func TestGetList(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		got, err := GetList[item](context.Background(), stubDoer{body: `{"content":[{"id":9}]}`}, "/category", "")
		require.NoError(t, err)
		assert.Equal(t, []item{{ID: 9}}, got)
	})

	t.Run("Transport error passes through", func(t *testing.T) {
		_, err := GetList[item](context.Background(), stubDoer{err: apperr.FromStatus(http.StatusNotFound, "")}, "/category", "")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("Bad shape", func(t *testing.T) {
		_, err := GetList[item](context.Background(), stubDoer{body: `"nope"`}, "/category", "")
		assert.True(t, apperr.IsKind(err, apperr.KindServer))
	})
}
