package main

import (
	"context"
	"io"

	"mei-storefront/internal/cart"
	"mei-storefront/internal/catalog"
	"mei-storefront/internal/category"
	"mei-storefront/internal/config"
	"mei-storefront/internal/confirm"
	"mei-storefront/internal/logger"
	"mei-storefront/internal/order"
	"mei-storefront/internal/product"
	"mei-storefront/internal/session"
	"mei-storefront/internal/storage"
	"mei-storefront/internal/transport"
	"mei-storefront/internal/user"
	"mei-storefront/internal/wishlist"
)

type app struct {
	cfg    *config.Config
	out    io.Writer
	client *transport.Client

	sessions *session.Store
	users    user.Service
	cart     *cart.Synchronizer
	orders   order.Service
	catalog  *catalog.Loader
	products product.Service
	wishlist *wishlist.Wishlist
}

func setup(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, yes bool) (*app, func(), error) {
	kv, closeKV, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var confirmer confirm.Confirmer = confirm.Always
	if !yes {
		confirmer = newPromptConfirmer(in, out)
	}

	client := transport.NewFromConfig(cfg)
	sessions := session.NewStore(kv)
	cartRepo := cart.NewRepository(client)
	productRepo := product.NewRepository(client)

	a := &app{
		cfg:      cfg,
		out:      out,
		client:   client,
		sessions: sessions,
		users:    user.NewService(user.NewRepository(client), sessions),
		cart:     cart.NewSynchronizer(cartRepo, confirmer),
		orders:   order.NewService(order.NewRepository(client), cartRepo, confirmer),
		catalog:  catalog.NewLoader(productRepo, category.NewRepository(client)),
		products: product.NewService(productRepo),
		wishlist: wishlist.New(wishlist.NewRepository(client)),
	}

	closeFn := func() {
		if err := closeKV(); err != nil {
			logger.L().Warn("failed to close store")
		}
	}
	return a, closeFn, nil
}

// session loads the stored session and tags ctx with the user.
func (a *app) session(ctx context.Context) (context.Context, *session.Session, error) {
	sess, err := a.sessions.Load(ctx)
	if err != nil {
		return ctx, nil, err
	}
	return logger.WithUserID(ctx, sess.UserID), sess, nil
}
