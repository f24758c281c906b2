package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"mei-storefront/internal/confirm"
)

// promptConfirmer asks on the terminal. Anything but y/yes declines.
type promptConfirmer struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in io.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *promptConfirmer) Confirm(ctx context.Context, pr confirm.Prompt) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(p.out, "%s [y/N] ", question(pr))
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func question(pr confirm.Prompt) string {
	names := ""
	if len(pr.Names) > 0 {
		names = " (" + strings.Join(pr.Names, ", ") + ")"
	}
	switch pr.Action {
	case confirm.DeleteOne:
		return "Remove this item from the cart" + names + "?"
	case confirm.DeleteSelected:
		return fmt.Sprintf("Remove %d selected items%s?", pr.Count, names)
	case confirm.ClearCart:
		return fmt.Sprintf("Remove all %d items from the cart?", pr.Count)
	case confirm.CancelOrder:
		return "Cancel order" + names + "?"
	default:
		return "Continue?"
	}
}
