package wishlist

import (
	"context"
	"net/http"

	"mei-storefront/internal/transport"
)

type Repository interface {
	// Toggle flips the product on the server side.
	Toggle(ctx context.Context, token string, productID int64) error
}

type repository struct {
	client transport.Doer
}

func NewRepository(client transport.Doer) Repository {
	return &repository{client: client}
}

func (r *repository) Toggle(ctx context.Context, token string, productID int64) error {
	body := struct {
		ProductID int64 `json:"productId"`
	}{ProductID: productID}
	return r.client.Do(ctx, http.MethodPost, "/wishlist", nil, body, token, nil)
}
