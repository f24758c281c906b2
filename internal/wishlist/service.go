// Package wishlist holds the liked flag of products the user has seen.
package wishlist

import (
	"context"
	"sync"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/logger"
	"mei-storefront/internal/session"

	"go.uber.org/zap"
)

type Wishlist struct {
	repo Repository

	mu       sync.Mutex
	liked    map[int64]bool
	inFlight map[int64]bool
}

func New(repo Repository) *Wishlist {
	return &Wishlist{
		repo:     repo,
		liked:    make(map[int64]bool),
		inFlight: make(map[int64]bool),
	}
}

func (w *Wishlist) Liked(productID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.liked[productID]
}

// Toggle flips the liked flag optimistically and restores it when the
// request fails. Only one toggle per product may be in flight.
func (w *Wishlist) Toggle(ctx context.Context, sess *session.Session, productID int64) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ToggleWishlist"),
		zap.Int64("product_id", productID),
	)

	if !sess.Valid() {
		return false, apperr.Wrap(apperr.Auth("sign in to save products"), session.ErrAbsent)
	}

	w.mu.Lock()
	if w.inFlight[productID] {
		w.mu.Unlock()
		return false, apperr.Wrap(&apperr.Error{Kind: apperr.KindConflict, Message: "please wait"}, ErrInFlight)
	}
	prev := w.liked[productID]
	w.liked[productID] = !prev
	w.inFlight[productID] = true
	w.mu.Unlock()

	err := w.repo.Toggle(ctx, sess.Token, productID)

	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, productID)
	if err != nil {
		w.liked[productID] = prev
		log.Error("failed to toggle wishlist", zap.Error(err))
		return prev, err
	}
	return !prev, nil
}
