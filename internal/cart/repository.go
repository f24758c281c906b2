package cart

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"mei-storefront/internal/transport"
)

// Repository is the remote cart resource.
type Repository interface {
	List(ctx context.Context, token, userID string) ([]Item, error)
	UpdateQuantity(ctx context.Context, token string, lineID int64, quantity int) error
	Delete(ctx context.Context, token string, lineID int64) error
	Clear(ctx context.Context, token, userID string) error
	Add(ctx context.Context, token string, params AddParams) error
}

type repository struct {
	client transport.Doer
}

func NewRepository(client transport.Doer) Repository {
	return &repository{client: client}
}

func (r *repository) List(ctx context.Context, token, userID string) ([]Item, error) {
	return transport.GetList[Item](ctx, r.client, "/cart/user/"+url.PathEscape(userID), token)
}

func (r *repository) UpdateQuantity(ctx context.Context, token string, lineID int64, quantity int) error {
	q := url.Values{}
	q.Set("quantity", strconv.Itoa(quantity))
	return r.client.Do(ctx, http.MethodPut, fmt.Sprintf("/cart/update/%d", lineID), q, nil, token, nil)
}

func (r *repository) Delete(ctx context.Context, token string, lineID int64) error {
	return r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/cart/delete/%d", lineID), nil, nil, token, nil)
}

func (r *repository) Clear(ctx context.Context, token, userID string) error {
	return r.client.Do(ctx, http.MethodDelete, "/cart/clear/"+url.PathEscape(userID), nil, nil, token, nil)
}

func (r *repository) Add(ctx context.Context, token string, params AddParams) error {
	return r.client.Do(ctx, http.MethodPost, "/cart/add", nil, params, token, nil)
}
