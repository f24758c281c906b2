package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mei-storefront/internal/apperr"
)

// UnwrapList decodes a list endpoint body that is either a bare JSON array or
// an object wrapping the array under "content". null decodes to an empty list.
func UnwrapList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	switch trimmed[0] {
	case '[':
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return list, nil
	case '{':
		var wrapped struct {
			Content []T `json:"content"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decode wrapped list: %w", err)
		}
		if wrapped.Content == nil {
			return []T{}, nil
		}
		return wrapped.Content, nil
	default:
		return nil, fmt.Errorf("decode list: unexpected token %q", trimmed[0])
	}
}

// GetList fetches a list endpoint and unwraps it.
func GetList[T any](ctx context.Context, d Doer, path, token string) ([]T, error) {
	var raw json.RawMessage
	if err := d.Do(ctx, http.MethodGet, path, nil, nil, token, &raw); err != nil {
		return nil, err
	}
	list, err := UnwrapList[T](raw)
	if err != nil {
		e := apperr.Server(http.StatusOK, "unexpected response from server")
		e.Cause = err
		return nil, e
	}
	return list, nil
}
