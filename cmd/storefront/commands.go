package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mei-storefront/internal/order"
	"mei-storefront/internal/product"
	"mei-storefront/internal/user"
)

var errUsage = errors.New("usage")

type command struct {
	help string
	run  func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":            {"sign in and store the session", cmdLogin},
	"register":         {"create an account", cmdRegister},
	"logout":           {"forget the stored session", cmdLogout},
	"whoami":           {"show the signed-in profile", cmdWhoami},
	"profile":          {"update profile fields", cmdProfile},
	"passwd":           {"change the password", cmdPasswd},
	"catalog":          {"list products, optionally filtered", cmdCatalog},
	"product":          {"show one product", cmdProduct},
	"like":             {"toggle a product on the wishlist", cmdLike},
	"cart":             {"show the cart", cmdCart},
	"cart-add":         {"add a product to the cart", cmdCartAdd},
	"cart-qty":         {"change the quantity of a cart line", cmdCartQty},
	"cart-rm":          {"remove one cart line", cmdCartRm},
	"cart-rm-selected": {"remove several cart lines", cmdCartRmSelected},
	"cart-clear":       {"empty the cart", cmdCartClear},
	"checkout":         {"place an order for selected lines", cmdCheckout},
	"orders":           {"list past orders", cmdOrders},
	"order":            {"show one order", cmdOrder},
	"order-cancel":     {"cancel a pending order", cmdOrderCancel},
	"reorder":          {"put the lines of a past order back in the cart", cmdReorder},
}

func newFlags(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

func required(fs *flag.FlagSet, name string, set bool) error {
	if set {
		return nil
	}
	fmt.Fprintf(fs.Output(), "-%s is required\n", name)
	fs.Usage()
	return errUsage
}

// parseIDs reads a comma separated id list.
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad id %q", errUsage, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login", a.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := parse(fs, args); err != nil {
		return err
	}

	sess, err := a.users.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (user %s)\n", sess.Profile.Name, sess.UserID)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register", a.out)
	var in user.RegisterInput
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	fs.StringVar(&in.Password, "password", "", "password (6+ characters)")
	fs.StringVar(&in.Confirm, "confirm", "", "password again")
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := a.users.Register(ctx, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "account created, you can now log in")
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.users.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	_, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	printProfile(a.out, sess)
	return nil
}

func cmdProfile(ctx context.Context, a *app, args []string) error {
	fs := newFlags("profile", a.out)
	var u user.ProfileUpdate
	fs.StringVar(&u.FullName, "name", "", "full name")
	fs.StringVar(&u.Email, "email", "", "email")
	fs.StringVar(&u.Phone, "phone", "", "phone number")
	fs.StringVar(&u.Avatar, "avatar", "", "avatar file name")
	if err := parse(fs, args); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if _, err := a.users.UpdateProfile(ctx, sess, u); err != nil {
		return err
	}
	printProfile(a.out, sess)
	return nil
}

func cmdPasswd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("passwd", a.out)
	var in user.PasswordChange
	fs.StringVar(&in.Current, "current", "", "current password")
	fs.StringVar(&in.New, "new", "", "new password (6+ characters)")
	fs.StringVar(&in.Confirm, "confirm", "", "new password again")
	if err := parse(fs, args); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.users.ChangePassword(ctx, sess, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "password changed")
	return nil
}

func cmdCatalog(ctx context.Context, a *app, args []string) error {
	fs := newFlags("catalog", a.out)
	brand := fs.Int64("brand", 0, "brand id")
	cat := fs.Int64("category", 0, "category id (children of -brand)")
	search := fs.String("q", "", "search product names")
	if err := parse(fs, args); err != nil {
		return err
	}

	snap, err := a.catalog.Load(ctx)
	if err != nil {
		return err
	}

	var sel product.Selection
	if *brand > 0 {
		sel.SelectBrand(*brand)
	}
	if *cat > 0 {
		sel.SelectCategory(*cat)
	}
	sel.SetSearch(*search)

	criteria := sel.Criteria()
	if !product.IsFiltering(criteria) {
		printBrands(a.out, snap.Brands)
	} else if id, ok := sel.BrandID(); ok {
		printCategories(a.out, snap.Categories, id)
	}
	printProducts(a.out, a.cfg.UploadsBaseURL, snap.Filter(criteria))
	return nil
}

func cmdProduct(ctx context.Context, a *app, args []string) error {
	fs := newFlags("product", a.out)
	id := fs.Int64("id", 0, "product id")
	if err := parse(fs, args); err != nil {
		return err
	}

	p, err := a.products.Detail(ctx, *id)
	if err != nil {
		return err
	}
	printProduct(a.out, a.cfg.UploadsBaseURL, p)
	return nil
}

func cmdLike(ctx context.Context, a *app, args []string) error {
	fs := newFlags("like", a.out)
	id := fs.Int64("id", 0, "product id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", *id > 0); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	liked, err := a.wishlist.Toggle(ctx, sess, *id)
	if err != nil {
		return err
	}
	if liked {
		fmt.Fprintf(a.out, "product %d saved to wishlist\n", *id)
	} else {
		fmt.Fprintf(a.out, "product %d removed from wishlist\n", *id)
	}
	return nil
}

func cmdCart(ctx context.Context, a *app, _ []string) error {
	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.cart.Load(ctx, sess); err != nil {
		return err
	}
	a.cart.ToggleSelectAll()
	printCart(a.out, a.cart.Items(), a.cart.Total())
	return nil
}

func cmdCartAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("cart-add", a.out)
	id := fs.Int64("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "product", *id > 0); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.cart.Add(ctx, sess, *id, *qty); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added, cart now has %d lines\n", a.cart.Count())
	return nil
}

func cmdCartQty(ctx context.Context, a *app, args []string) error {
	fs := newFlags("cart-qty", a.out)
	line := fs.Int64("line", 0, "cart line id")
	delta := fs.Int("delta", 1, "quantity change, may be negative")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "line", *line > 0); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.cart.Load(ctx, sess); err != nil {
		return err
	}
	if err := a.cart.ChangeQuantity(ctx, sess, *line, *delta); err != nil {
		return err
	}
	printCart(a.out, a.cart.Items(), a.cart.Total())
	return nil
}

func cmdCartRm(ctx context.Context, a *app, args []string) error {
	fs := newFlags("cart-rm", a.out)
	line := fs.Int64("line", 0, "cart line id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "line", *line > 0); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.cart.Load(ctx, sess); err != nil {
		return err
	}
	if err := a.cart.DeleteOne(ctx, sess, *line); err != nil {
		return err
	}
	printCart(a.out, a.cart.Items(), a.cart.Total())
	return nil
}

func cmdCartRmSelected(ctx context.Context, a *app, args []string) error {
	fs := newFlags("cart-rm-selected", a.out)
	lines := fs.String("lines", "", "comma separated cart line ids")
	if err := parse(fs, args); err != nil {
		return err
	}
	ids, err := parseIDs(*lines)
	if err != nil {
		return err
	}
	if err := required(fs, "lines", len(ids) > 0); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.cart.Load(ctx, sess); err != nil {
		return err
	}
	for _, id := range ids {
		if err := a.cart.SetSelected(id, true); err != nil {
			return err
		}
	}
	err = a.cart.DeleteSelected(ctx, sess)
	// the cart is reloaded on partial failure, so show it either way
	printCart(a.out, a.cart.Items(), a.cart.Total())
	return err
}

func cmdCartClear(ctx context.Context, a *app, _ []string) error {
	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.cart.Load(ctx, sess); err != nil {
		return err
	}
	if err := a.cart.ClearAll(ctx, sess); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "cart cleared")
	return nil
}

func cmdCheckout(ctx context.Context, a *app, args []string) error {
	fs := newFlags("checkout", a.out)
	lines := fs.String("lines", "", "comma separated cart line ids (default: all)")
	name := fs.String("name", "", "recipient name (default: profile)")
	phone := fs.String("phone", "", "recipient phone (default: profile)")
	email := fs.String("email", "", "recipient email (default: profile)")
	address := fs.String("address", "", "delivery address")
	note := fs.String("note", "", "note for the shop")
	payment := fs.String("payment", string(order.PaymentCash), "payment method: cash or MOMO")
	if err := parse(fs, args); err != nil {
		return err
	}
	ids, err := parseIDs(*lines)
	if err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.cart.Load(ctx, sess); err != nil {
		return err
	}
	if len(ids) == 0 {
		a.cart.ToggleSelectAll()
	}
	for _, id := range ids {
		if err := a.cart.SetSelected(id, true); err != nil {
			return err
		}
	}

	draft := order.PrefillDraft(sess.Profile)
	if *name != "" {
		draft.Name = *name
	}
	if *phone != "" {
		draft.Phone = *phone
	}
	if *email != "" {
		draft.Email = *email
	}
	draft.Address = *address
	draft.Note = *note
	draft.PaymentMethod = order.PaymentMethod(*payment)

	receipt, err := a.orders.Submit(ctx, draft, a.cart.Selection(), sess)
	if err != nil {
		return err
	}
	printReceipt(a.out, receipt)
	return nil
}

func cmdOrders(ctx context.Context, a *app, _ []string) error {
	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	orders, err := a.orders.History(ctx, sess)
	if err != nil {
		return err
	}
	printOrders(a.out, orders)
	return nil
}

func cmdOrder(ctx context.Context, a *app, args []string) error {
	fs := newFlags("order", a.out)
	id := fs.Int64("id", 0, "order id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", *id > 0); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	o, err := a.orders.Detail(ctx, sess, *id)
	if err != nil {
		return err
	}
	printOrder(a.out, a.cfg.UploadsBaseURL, o)
	return nil
}

func cmdOrderCancel(ctx context.Context, a *app, args []string) error {
	fs := newFlags("order-cancel", a.out)
	id := fs.Int64("id", 0, "order id")
	reason := fs.String("reason", "", "why the order is canceled")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", *id > 0); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.orders.Cancel(ctx, sess, *id, *reason); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order #%d canceled\n", *id)
	return nil
}

func cmdReorder(ctx context.Context, a *app, args []string) error {
	fs := newFlags("reorder", a.out)
	id := fs.Int64("id", 0, "order id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", *id > 0); err != nil {
		return err
	}

	ctx, sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	o, err := a.orders.Detail(ctx, sess, *id)
	if err != nil {
		return err
	}
	if err := a.orders.Reorder(ctx, sess, o.Details); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d lines of order #%d added to the cart\n", len(o.Details), *id)
	return nil
}
