package product

import (
	"context"
	"fmt"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Detail(ctx context.Context, id int64) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Detail(ctx context.Context, id int64) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Detail"),
		zap.Int64("product_id", id),
	)

	if id <= 0 {
		return nil, apperr.Wrap(apperr.Validation("invalid product id", nil), ErrProductNotFound)
	}

	p, err := s.repo.Get(ctx, id)
	if apperr.IsKind(err, apperr.KindNotFound) {
		log.Info("product not found")
		return nil, fmt.Errorf("%w: %w", ErrProductNotFound, err)
	}
	if err != nil {
		log.Error("failed to load product", zap.Error(err))
		return nil, err
	}
	return p, nil
}
