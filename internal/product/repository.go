package product

import (
	"context"
	"fmt"
	"net/http"

	"mei-storefront/internal/transport"
)

type Repository interface {
	List(ctx context.Context) ([]*Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
}

type repository struct {
	client transport.Doer
}

func NewRepository(client transport.Doer) Repository {
	return &repository{client: client}
}

// List may contain nil entries when the backend sends nulls.
func (r *repository) List(ctx context.Context) ([]*Product, error) {
	return transport.GetList[*Product](ctx, r.client, "/product", "")
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := r.client.Do(ctx, http.MethodGet, fmt.Sprintf("/product/%d", id), nil, nil, "", &p); err != nil {
		return nil, err
	}
	return &p, nil
}
