package order

import (
	"context"
	"fmt"
	"net/http"

	"mei-storefront/internal/transport"
)

type Repository interface {
	Create(ctx context.Context, token string, p Payload) error
	ListByUser(ctx context.Context, token string) ([]Order, error)
	Get(ctx context.Context, token string, id int64) (*Order, error)
	Cancel(ctx context.Context, token string, id int64, reason string) error
}

type repository struct {
	client transport.Doer
}

func NewRepository(client transport.Doer) Repository {
	return &repository{client: client}
}

func (r *repository) Create(ctx context.Context, token string, p Payload) error {
	return r.client.Do(ctx, http.MethodPost, "/order", nil, p, token, nil)
}

func (r *repository) ListByUser(ctx context.Context, token string) ([]Order, error) {
	return transport.GetList[Order](ctx, r.client, "/order/user", token)
}

func (r *repository) Get(ctx context.Context, token string, id int64) (*Order, error) {
	var o Order
	if err := r.client.Do(ctx, http.MethodGet, fmt.Sprintf("/order/%d", id), nil, nil, token, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Cancel(ctx context.Context, token string, id int64, reason string) error {
	body := struct {
		Reason string `json:"reason"`
	}{Reason: reason}
	return r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/order/%d", id), nil, body, token, nil)
}
