package order

import (
	"strings"

	"mei-storefront/internal/cart"
	"mei-storefront/internal/session"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentMomo PaymentMethod = "MOMO"
)

// Draft is the checkout form. It lives only as long as the checkout screen.
type Draft struct {
	Name          string        `json:"name" validate:"required"`
	Phone         string        `json:"phone" validate:"required"`
	Email         string        `json:"email"`
	Address       string        `json:"address" validate:"required"`
	Note          string        `json:"note"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"oneof=cash MOMO"`
}

func (d Draft) normalized() Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Address = strings.TrimSpace(d.Address)
	d.Note = strings.TrimSpace(d.Note)
	if d.PaymentMethod == "" {
		d.PaymentMethod = PaymentCash
	}
	return d
}

// PrefillDraft starts a draft from the cached profile; the user may still
// edit every field.
func PrefillDraft(p session.Profile) Draft {
	return Draft{
		Name:          p.Name,
		Email:         p.Email,
		Phone:         p.Phone,
		PaymentMethod: PaymentCash,
	}
}

// Payload is the wire body of POST /order.
type Payload struct {
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email"`
	Address       string        `json:"address"`
	Note          string        `json:"note"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	OrderDetails  []Line        `json:"orderDetails"`
}

type Line struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Note      string  `json:"note"`
}

// NewPayload maps the selection to order lines. A line without a price is
// sent at 0.
func NewPayload(d Draft, selection []cart.Item) Payload {
	lines := make([]Line, 0, len(selection))
	for _, it := range selection {
		lines = append(lines, Line{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice().InexactFloat64(),
		})
	}
	return Payload{
		Name:          d.Name,
		Phone:         d.Phone,
		Email:         d.Email,
		Address:       d.Address,
		Note:          d.Note,
		TotalAmount:   cart.Total(selection).InexactFloat64(),
		PaymentMethod: d.PaymentMethod,
		OrderDetails:  lines,
	}
}

// Receipt is what Submit reports back.
type Receipt struct {
	Total         decimal.Decimal
	Lines         int
	PaymentMethod PaymentMethod
	Name          string
	Address       string

	// CartCleared is false when the follow-up cart clear failed; the order
	// still stands.
	CartCleared bool
}

type Status int

const (
	StatusPending Status = iota
	StatusShipping
	StatusCompleted
	StatusCanceled
)

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusShipping:
		return "shipping"
	case StatusCompleted:
		return "completed"
	case StatusCanceled:
		return "canceled"
	default:
		return "processing"
	}
}

type Order struct {
	ID            int64           `json:"id"`
	Status        Status          `json:"status"`
	Name          string          `json:"name"`
	FullName      string          `json:"fullName"`
	Phone         string          `json:"phone"`
	PhoneNumber   string          `json:"phoneNumber"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	Note          string          `json:"note"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     string          `json:"createdAt"`
	Details       []Detail        `json:"orderDetails"`
}

type Detail struct {
	ProductID int64                 `json:"productId"`
	Quantity  int                   `json:"quantity"`
	Price     decimal.Decimal       `json:"price"`
	Product   *cart.ProductSnapshot `json:"product"`
}

func (o Order) RecipientName() string {
	if o.FullName != "" {
		return o.FullName
	}
	return o.Name
}

func (o Order) RecipientPhone() string {
	if o.PhoneNumber != "" {
		return o.PhoneNumber
	}
	return o.Phone
}

// Subtotal sums price*quantity over the order lines, shipping excluded.
func (o Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, d := range o.Details {
		sum = sum.Add(d.Price.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	return sum
}

func (o Order) GrandTotal() decimal.Decimal {
	return o.Subtotal().Add(o.ShippingFee)
}

func (o Order) Cancelable() bool {
	return o.Status == StatusPending
}
