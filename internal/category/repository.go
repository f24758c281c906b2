package category

import (
	"context"

	"mei-storefront/internal/transport"
)

// Repository reads the two taxonomy lists of the catalog.
type Repository interface {
	Brands(ctx context.Context) ([]Brand, error)
	Categories(ctx context.Context) ([]Category, error)
}

type repository struct {
	client transport.Doer
}

func NewRepository(client transport.Doer) Repository {
	return &repository{client: client}
}

func (r *repository) Brands(ctx context.Context) ([]Brand, error) {
	return transport.GetList[Brand](ctx, r.client, "/brand", "")
}

func (r *repository) Categories(ctx context.Context) ([]Category, error) {
	return transport.GetList[Category](ctx, r.client, "/category", "")
}
