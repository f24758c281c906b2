package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/cart"
	"mei-storefront/internal/category"
	"mei-storefront/internal/metrics"
	"mei-storefront/internal/order"
	"mei-storefront/internal/product"
	"mei-storefront/internal/session"
	"mei-storefront/internal/utils"

	"github.com/shopspring/decimal"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printProfile(w io.Writer, sess *session.Session) {
	p := sess.Profile
	fmt.Fprintf(w, "user:  %s\n", sess.UserID)
	fmt.Fprintf(w, "name:  %s\n", p.Name)
	fmt.Fprintf(w, "email: %s\n", p.Email)
	if p.Phone != "" {
		fmt.Fprintf(w, "phone: %s\n", p.Phone)
	}
	if p.Role != "" {
		fmt.Fprintf(w, "role:  %s\n", p.Role)
	}
}

func printBrands(w io.Writer, brands []category.Brand) {
	if len(brands) == 0 {
		return
	}
	names := make([]string, 0, len(brands))
	for _, b := range brands {
		names = append(names, fmt.Sprintf("%s (#%d)", b.Name, b.ID))
	}
	fmt.Fprintf(w, "brands: %s\n\n", strings.Join(names, ", "))
}

func printCategories(w io.Writer, all []category.Category, brandID int64) {
	children := category.ChildrenOf(all, brandID)
	if len(children) == 0 {
		return
	}
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, fmt.Sprintf("%s (#%d)", c.Name, c.ID))
	}
	fmt.Fprintf(w, "categories: %s\n\n", strings.Join(names, ", "))
}

func printProducts(w io.Writer, uploads string, products []*product.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "no products match")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tPRICE\tIMAGE")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.BrandName(), utils.FormatVND(p.UnitPrice()),
			utils.ImageURL(uploads, utils.ImageProducts, p.Thumbnail))
	}
	_ = tw.Flush()
}

func printProduct(w io.Writer, uploads string, p *product.Product) {
	fmt.Fprintf(w, "#%d %s\n", p.ID, p.Name)
	fmt.Fprintf(w, "price:    %s\n", utils.FormatVND(p.UnitPrice()))
	if b := p.BrandName(); b != "" {
		fmt.Fprintf(w, "brand:    %s\n", b)
	}
	if c := p.CategoryName(); c != "" {
		fmt.Fprintf(w, "category: %s\n", c)
	}
	if p.Stock != nil {
		fmt.Fprintf(w, "stock:    %d\n", *p.Stock)
	}
	fmt.Fprintf(w, "image:    %s\n", utils.ImageURL(uploads, utils.ImageProducts, p.Thumbnail))
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
}

func printCart(w io.Writer, items []cart.Item, total decimal.Decimal) {
	if len(items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "LINE\tPRODUCT\tQTY\tPRICE\tSUBTOTAL\t")
	for _, it := range items {
		mark := " "
		if it.Selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n",
			it.ID, it.Name(), it.Quantity,
			utils.FormatVND(it.UnitPrice()), utils.FormatVND(it.LineTotal()), mark)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "selected total: %s\n", utils.FormatVND(total))
}

func printReceipt(w io.Writer, r *order.Receipt) {
	fmt.Fprintf(w, "order placed: %d lines, total %s\n", r.Lines, utils.FormatVND(r.Total))
	steps := order.InjectVariables(order.Instructions(r.PaymentMethod), order.InstructionVars{
		"amount":  utils.FormatVND(r.Total),
		"address": r.Address,
		"name":    r.Name,
	})
	for i, step := range steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
	if !r.CartCleared {
		fmt.Fprintln(w, "note: the cart could not be cleared, remove ordered items manually")
	}
}

func printOrders(w io.Writer, orders []order.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "no orders yet")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", o.ID, o.CreatedAt, o.Status.Label(), utils.FormatVND(o.TotalAmount))
	}
	_ = tw.Flush()
}

func printOrder(w io.Writer, uploads string, o *order.Order) {
	fmt.Fprintf(w, "order #%d (%s) %s\n", o.ID, o.Status.Label(), o.CreatedAt)
	fmt.Fprintf(w, "to:      %s, %s\n", o.RecipientName(), o.RecipientPhone())
	fmt.Fprintf(w, "address: %s\n", o.Address)
	if o.Note != "" {
		fmt.Fprintf(w, "note:    %s\n", o.Note)
	}
	fmt.Fprintf(w, "payment: %s\n\n", o.PaymentMethod)

	tw := table(w)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tPRICE\tIMAGE")
	for _, d := range o.Details {
		name, thumb := fmt.Sprintf("#%d", d.ProductID), ""
		if d.Product != nil {
			name, thumb = d.Product.Name, d.Product.Thumbnail
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, d.Quantity, utils.FormatVND(d.Price),
			utils.ImageURL(uploads, utils.ImageProducts, thumb))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nsubtotal: %s\n", utils.FormatVND(o.Subtotal()))
	fmt.Fprintf(w, "shipping: %s\n", utils.FormatVND(o.ShippingFee))
	fmt.Fprintf(w, "total:    %s\n", utils.FormatVND(o.GrandTotal()))
}

func printStats(w io.Writer, s metrics.Snapshot) {
	fmt.Fprintf(w, "requests: %d total, %d failed, %d rejected, mean %s\n",
		s.Total, s.Failed, s.Rejected, s.MeanLatency)
}

// describe turns an error into the one line shown to the user.
func describe(err error) string {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Kind {
	case apperr.KindAuth:
		return e.Message + " (run: storefront login)"
	case apperr.KindNetwork:
		return "could not reach the server, check your connection"
	case apperr.KindStaleState:
		return "some changes failed; showing the latest state from the server"
	case apperr.KindValidation:
		if len(e.Details) == 0 {
			return e.Message
		}
		fields := make([]string, 0, len(e.Details))
		for f, msg := range e.Details {
			fields = append(fields, f+" "+msg)
		}
		sort.Strings(fields)
		return e.Message + ": " + strings.Join(fields, "; ")
	default:
		return e.Message
	}
}
