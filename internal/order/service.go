package order

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/cart"
	"mei-storefront/internal/confirm"
	"mei-storefront/internal/logger"
	"mei-storefront/internal/session"
	"mei-storefront/internal/validate"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Service interface {
	Submit(ctx context.Context, draft Draft, selection []cart.Item, sess *session.Session) (*Receipt, error)
	History(ctx context.Context, sess *session.Session) ([]Order, error)
	Detail(ctx context.Context, sess *session.Session, id int64) (*Order, error)
	Cancel(ctx context.Context, sess *session.Session, id int64, reason string) error
	Reorder(ctx context.Context, sess *session.Session, details []Detail) error
}

type service struct {
	repo     Repository
	cartRepo cart.Repository
	confirm  confirm.Confirmer
}

func NewService(repo Repository, cartRepo cart.Repository, c confirm.Confirmer) Service {
	return &service{repo: repo, cartRepo: cartRepo, confirm: c}
}

func requireSession(sess *session.Session) error {
	if !sess.Valid() {
		return apperr.Wrap(apperr.Auth("please sign in again"), session.ErrAbsent)
	}
	return nil
}

// Submit places one order for the selection and then asks the server to
// clear the cart. The clear is advisory: its failure is logged and reported
// on the receipt, never as an error.
//
// Submit sends no idempotency key. Retrying after a timeout may create a
// second order.
func (s *service) Submit(ctx context.Context, draft Draft, selection []cart.Item, sess *session.Session) (*Receipt, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
	)

	draft = draft.normalized()
	if err := validate.Struct(draft); err != nil {
		log.Info("checkout form rejected", zap.Error(err))
		return nil, err
	}

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	if len(selection) == 0 {
		return nil, apperr.Wrap(apperr.Validation("select at least one item", nil), ErrEmptySelection)
	}

	payload := NewPayload(draft, selection)
	log = log.With(
		zap.String("user_id", sess.UserID),
		zap.Int("lines", len(payload.OrderDetails)),
		zap.Float64("total", payload.TotalAmount),
		zap.String("payment_method", string(payload.PaymentMethod)),
	)

	if err := s.repo.Create(ctx, sess.Token, payload); err != nil {
		log.Error("order creation failed", zap.Error(err))
		return nil, apperr.Rejected(err)
	}
	log.Info("order created")

	receipt := &Receipt{
		Total:         cart.Total(selection),
		Lines:         len(selection),
		PaymentMethod: draft.PaymentMethod,
		Name:          draft.Name,
		Address:       draft.Address,
		CartCleared:   true,
	}
	if err := s.cartRepo.Clear(ctx, sess.Token, sess.UserID); err != nil {
		log.Warn("cart clear after order failed", zap.Error(err))
		receipt.CartCleared = false
	}
	return receipt, nil
}

func (s *service) History(ctx context.Context, sess *session.Session) ([]Order, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	orders, err := s.repo.ListByUser(ctx, sess.Token)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load order history",
			zap.String("layer", "service"),
			zap.String("method", "History"),
			zap.Error(err),
		)
		return nil, err
	}
	return orders, nil
}

func (s *service) Detail(ctx context.Context, sess *session.Session, id int64) (*Order, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	o, err := s.repo.Get(ctx, sess.Token, id)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Cancel cancels a pending order after confirmation.
func (s *service) Cancel(ctx context.Context, sess *session.Session, id int64, reason string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.Int64("order_id", id),
	)

	o, err := s.Detail(ctx, sess, id)
	if err != nil {
		return err
	}
	if !o.Cancelable() {
		return apperr.Wrap(apperr.Validation("this order can no longer be canceled", nil), ErrNotCancelable)
	}

	if err := confirm.Ask(ctx, s.confirm, confirm.Prompt{Action: confirm.CancelOrder, Count: 1, Names: []string{"#" + strconv.FormatInt(id, 10)}}); err != nil {
		return err
	}

	if err := s.repo.Cancel(ctx, sess.Token, id, reason); err != nil {
		log.Error("failed to cancel order", zap.Error(err))
		return err
	}

	log.Info("order canceled")
	return nil
}

// Reorder adds every line of a past order back to the cart concurrently.
// Lines that made it stay in the cart even when others fail.
func (s *service) Reorder(ctx context.Context, sess *session.Session, details []Detail) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "service"), zap.String("method", "Reorder"))

	if err := requireSession(sess); err != nil {
		return err
	}
	if len(details) == 0 {
		return apperr.Wrap(apperr.Validation("nothing to reorder", nil), ErrEmptyReorder)
	}
	userID, err := strconv.ParseInt(sess.UserID, 10, 64)
	if err != nil {
		return apperr.Wrap(apperr.Auth("please sign in again"), cart.ErrInvalidUserID)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errAll error
	)
	for _, d := range details {
		wg.Add(1)
		go func(d Detail) {
			defer wg.Done()
			qty := max(d.Quantity, 1)
			err := s.cartRepo.Add(ctx, sess.Token, cart.AddParams{ProductID: d.ProductID, UserID: userID, Quantity: qty})
			if err != nil {
				mu.Lock()
				errAll = multierr.Append(errAll, fmt.Errorf("product %d: %w", d.ProductID, err))
				mu.Unlock()
			}
		}(d)
	}
	wg.Wait()

	if errAll != nil {
		log.Warn("reorder partially failed", zap.Int("failed", len(multierr.Errors(errAll))), zap.Error(errAll))
		return apperr.StaleState(fmt.Errorf("%w: %w", ErrPartialReorder, errAll))
	}

	log.Info("order lines added back to cart", zap.Int("lines", len(details)))
	return nil
}
