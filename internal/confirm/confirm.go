// Package confirm is the contract between destructive core operations and
// whatever asks the user "are you sure?".
package confirm

import (
	"context"
	"errors"

	"mei-storefront/internal/apperr"
)

type Action string

const (
	DeleteOne      Action = "delete_one"
	DeleteSelected Action = "delete_selected"
	ClearCart      Action = "clear_cart"
	CancelOrder    Action = "cancel_order"
)

// Prompt describes the action awaiting approval.
type Prompt struct {
	Action Action
	// Count is the number of things affected.
	Count int
	Names []string
}

type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// Func adapts a function to Confirmer.
type Func func(ctx context.Context, p Prompt) (bool, error)

func (f Func) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// Always approves every prompt.
var Always = Func(func(context.Context, Prompt) (bool, error) { return true, nil })

var ErrCanceled = errors.New("canceled by user")

// Ask returns nil only when c approved p. A nil c approves.
func Ask(ctx context.Context, c Confirmer, p Prompt) error {
	if c == nil {
		return nil
	}
	ok, err := c.Confirm(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Wrap(apperr.Canceled("action canceled"), ErrCanceled)
	}
	return nil
}
