// Package catalog fetches the catalog snapshot the filter screen works on.
package catalog

import (
	"context"
	"time"

	"mei-storefront/internal/category"
	"mei-storefront/internal/logger"
	"mei-storefront/internal/product"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the client-held copy of the catalog. Products never contain
// nil entries.
type Snapshot struct {
	Brands     []category.Brand
	Categories []category.Category
	Products   []*product.Product
}

// Filter applies c to the snapshot's products.
func (s *Snapshot) Filter(c product.Criteria) []*product.Product {
	return product.Filter(s.Products, c)
}

type Loader struct {
	products product.Repository
	taxonomy category.Repository
}

func NewLoader(products product.Repository, taxonomy category.Repository) *Loader {
	return &Loader{products: products, taxonomy: taxonomy}
}

// Load issues the three list requests concurrently. The first failure
// cancels the rest and no partial snapshot is returned.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "LoadCatalog"),
	)
	start := time.Now()

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		brands, err := l.taxonomy.Brands(gctx)
		snap.Brands = brands
		return err
	})
	g.Go(func() error {
		cats, err := l.taxonomy.Categories(gctx)
		snap.Categories = cats
		return err
	})
	g.Go(func() error {
		list, err := l.products.List(gctx)
		snap.Products = product.Compact(list)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("failed to load catalog",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	log.Info("catalog loaded",
		zap.Int("brands", len(snap.Brands)),
		zap.Int("categories", len(snap.Categories)),
		zap.Int("products", len(snap.Products)),
		zap.Duration("duration", time.Since(start)),
	)
	return &snap, nil
}
