package cart

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/confirm"
	"mei-storefront/internal/logger"
	"mei-storefront/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Synchronizer owns the local view of the remote cart. All mutation goes
// through its methods; readers get copies.
type Synchronizer struct {
	repo    Repository
	confirm confirm.Confirmer

	mu      sync.Mutex
	items   []Item
	pending map[int64]State
	// busy gates quantity changes across the whole cart.
	busy    bool
	loading bool
}

// NewSynchronizer builds an empty cart. A nil confirm approves every prompt.
func NewSynchronizer(repo Repository, c confirm.Confirmer) *Synchronizer {
	return &Synchronizer{
		repo:    repo,
		confirm: c,
		items:   []Item{},
		pending: make(map[int64]State),
	}
}

func requireSession(sess *session.Session) error {
	if !sess.Valid() {
		return apperr.Wrap(apperr.Auth("please sign in"), session.ErrAbsent)
	}
	return nil
}

// Load replaces the local cart with the server's. Every line starts
// unselected. On failure the cart is emptied, unless ctx was canceled, in
// which case the caller is gone and state is left alone.
func (s *Synchronizer) Load(ctx context.Context, sess *session.Session) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "cart"), zap.String("method", "Load"))

	if err := requireSession(sess); err != nil {
		s.replace(nil)
		return err
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	items, err := s.repo.List(ctx, sess.Token, sess.UserID)
	if err != nil {
		if ctx.Err() != nil {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
			return err
		}
		log.Error("failed to load cart", zap.Error(err))
		s.replace(nil)
		return err
	}

	s.replace(items)
	log.Info("cart loaded", zap.Int("lines", len(items)))
	return nil
}

func (s *Synchronizer) replace(items []Item) {
	fresh := make([]Item, len(items))
	copy(fresh, items)
	for i := range fresh {
		fresh[i].Selected = false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = fresh
	s.pending = make(map[int64]State)
	s.loading = false
}

// ChangeQuantity applies delta optimistically and reverts the line if the
// server rejects it. A result below 1 is refused without any request, as is
// any change while another one is in flight.
func (s *Synchronizer) ChangeQuantity(ctx context.Context, sess *session.Session, lineID int64, delta int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "cart"),
		zap.String("method", "ChangeQuantity"),
		zap.Int64("line_id", lineID),
		zap.Int("delta", delta),
	)

	if err := requireSession(sess); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexOf(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return apperr.Wrap(apperr.Validation("item is no longer in the cart", nil), ErrItemNotFound)
	}
	prev := s.items[idx].Quantity
	next := prev + delta
	if next < 1 {
		s.mu.Unlock()
		return apperr.Wrap(apperr.Validation("quantity must be at least 1", nil), ErrQuantityFloor)
	}
	if s.busy {
		s.mu.Unlock()
		return apperr.Wrap(&apperr.Error{Kind: apperr.KindConflict, Message: "please wait for the previous update"}, ErrBusy)
	}
	s.busy = true
	s.items[idx].Quantity = next
	s.pending[lineID] = PendingUpdate
	s.mu.Unlock()

	err := s.repo.UpdateQuantity(ctx, sess.Token, lineID, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	delete(s.pending, lineID)

	if err != nil {
		// A concurrent delete may have removed the line meanwhile.
		if i := s.indexOf(lineID); i >= 0 && s.items[i].Quantity == next {
			s.items[i].Quantity = prev
		}
		log.Error("quantity update rejected, rolled back", zap.Error(err))
		return apperr.Rejected(err)
	}

	log.Info("quantity updated", zap.Int("quantity", next))
	return nil
}

// DeleteOne removes a line after confirmation. Nothing is removed locally
// until the server accepts the delete.
func (s *Synchronizer) DeleteOne(ctx context.Context, sess *session.Session, lineID int64) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "cart"), zap.String("method", "DeleteOne"), zap.Int64("line_id", lineID))

	if err := requireSession(sess); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexOf(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return apperr.Wrap(apperr.Validation("item is no longer in the cart", nil), ErrItemNotFound)
	}
	name := s.items[idx].Name()
	s.mu.Unlock()

	if err := confirm.Ask(ctx, s.confirm, confirm.Prompt{Action: confirm.DeleteOne, Count: 1, Names: []string{name}}); err != nil {
		return err
	}

	s.setPending(PendingDelete, lineID)
	err := s.repo.Delete(ctx, sess.Token, lineID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, lineID)
	if err != nil {
		log.Error("failed to delete cart item", zap.Error(err))
		return apperr.Rejected(err)
	}
	s.removeLocked(lineID)
	log.Info("cart item deleted")
	return nil
}

// DeleteSelected deletes every selected line concurrently. If any delete
// fails the whole cart is reloaded from the server and a STALE_STATE error
// is returned.
func (s *Synchronizer) DeleteSelected(ctx context.Context, sess *session.Session) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "cart"), zap.String("method", "DeleteSelected"))

	if err := requireSession(sess); err != nil {
		return err
	}

	selected := s.Selection()
	if len(selected) == 0 {
		return apperr.Wrap(apperr.Validation("select at least one item", nil), ErrNoSelection)
	}

	ids := make([]int64, len(selected))
	names := make([]string, len(selected))
	for i, it := range selected {
		ids[i] = it.ID
		names[i] = it.Name()
	}

	if err := confirm.Ask(ctx, s.confirm, confirm.Prompt{Action: confirm.DeleteSelected, Count: len(ids), Names: names}); err != nil {
		return err
	}

	s.setPending(PendingDelete, ids...)

	var (
		wg     sync.WaitGroup
		errMu  sync.Mutex
		errAll error
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := s.repo.Delete(ctx, sess.Token, id); err != nil {
				errMu.Lock()
				errAll = multierr.Append(errAll, fmt.Errorf("line %d: %w", id, apperr.Rejected(err)))
				errMu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	if errAll == nil {
		s.mu.Lock()
		for _, id := range ids {
			delete(s.pending, id)
			s.removeLocked(id)
		}
		s.mu.Unlock()
		log.Info("selected items deleted", zap.Int("count", len(ids)))
		return nil
	}

	log.Warn("bulk delete partially failed, reloading cart",
		zap.Int("failed", len(multierr.Errors(errAll))),
		zap.Int("requested", len(ids)),
		zap.Error(errAll),
	)
	cause := fmt.Errorf("%w: %w", ErrPartialDelete, errAll)
	reloadErr := s.Load(ctx, sess)
	// Load keeps state on a canceled context, pending marks included.
	s.clearPending(ids...)
	if reloadErr != nil {
		cause = multierr.Append(cause, reloadErr)
	}
	return apperr.StaleState(cause)
}

// ClearAll empties the remote cart after confirmation.
func (s *Synchronizer) ClearAll(ctx context.Context, sess *session.Session) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "cart"), zap.String("method", "ClearAll"))

	if err := requireSession(sess); err != nil {
		return err
	}

	if err := confirm.Ask(ctx, s.confirm, confirm.Prompt{Action: confirm.ClearCart, Count: s.Count()}); err != nil {
		return err
	}

	if err := s.repo.Clear(ctx, sess.Token, sess.UserID); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return apperr.Rejected(err)
	}

	s.replace(nil)
	log.Info("cart cleared")
	return nil
}

// Add puts a product in the remote cart and reloads, so line ids always
// come from the server.
func (s *Synchronizer) Add(ctx context.Context, sess *session.Session, productID int64, quantity int) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "cart"), zap.String("method", "Add"), zap.Int64("product_id", productID))

	if err := requireSession(sess); err != nil {
		return err
	}
	if quantity < 1 {
		return apperr.Wrap(apperr.Validation("quantity must be at least 1", nil), ErrQuantityFloor)
	}
	userID, err := strconv.ParseInt(sess.UserID, 10, 64)
	if err != nil {
		return apperr.Wrap(apperr.Auth("please sign in again"), ErrInvalidUserID)
	}

	err = s.repo.Add(ctx, sess.Token, AddParams{ProductID: productID, UserID: userID, Quantity: quantity})
	if err != nil {
		log.Error("failed to add to cart", zap.Error(err))
		return apperr.Rejected(err)
	}

	log.Info("added to cart", zap.Int("quantity", quantity))
	return s.Load(ctx, sess)
}

// ToggleSelectAll deselects everything when all lines are selected and
// selects everything otherwise.
func (s *Synchronizer) ToggleSelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := len(s.items) > 0
	for _, it := range s.items {
		if !it.Selected {
			all = false
			break
		}
	}
	for i := range s.items {
		s.items[i].Selected = !all
	}
}

func (s *Synchronizer) SetSelected(lineID int64, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(lineID)
	if idx < 0 {
		return apperr.Wrap(apperr.Validation("item is no longer in the cart", nil), ErrItemNotFound)
	}
	s.items[idx].Selected = selected
	return nil
}

// Items returns a copy of the cart lines.
func (s *Synchronizer) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Selection is recomputed from the live cart on every call.
func (s *Synchronizer) Selection() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if it.Selected {
			out = append(out, it)
		}
	}
	return out
}

// Total sums price*quantity over selected lines only.
func (s *Synchronizer) Total() decimal.Decimal {
	return Total(s.Selection())
}

// Total sums price*quantity over items; a missing price counts as zero.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func (s *Synchronizer) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Synchronizer) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// State reports whether a request for the line is in flight.
func (s *Synchronizer) State(lineID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[lineID]
}

func (s *Synchronizer) setPending(st State, ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.pending[id] = st
	}
}

func (s *Synchronizer) clearPending(ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.pending, id)
	}
}

func (s *Synchronizer) indexOf(lineID int64) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID == lineID })
}

func (s *Synchronizer) removeLocked(lineID int64) {
	s.items = slices.DeleteFunc(s.items, func(it Item) bool { return it.ID == lineID })
}
