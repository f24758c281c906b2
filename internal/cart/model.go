package cart

import "github.com/shopspring/decimal"

// Item is one server-owned cart line. Selected is client-only and never sent.
type Item struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *ProductSnapshot `json:"product"`

	Selected bool `json:"-"`
}

// ProductSnapshot is the read-only product data delivered with a line.
type ProductSnapshot struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	Price     decimal.NullDecimal `json:"price"`
	Thumbnail string              `json:"thumbnail"`
}

// UnitPrice is zero when the server sent no price.
func (i Item) UnitPrice() decimal.Decimal {
	if i.Product == nil || !i.Product.Price.Valid {
		return decimal.Zero
	}
	return i.Product.Price.Decimal
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) Name() string {
	if i.Product == nil {
		return ""
	}
	return i.Product.Name
}

type AddParams struct {
	ProductID int64 `json:"productId"`
	UserID    int64 `json:"userId"`
	Quantity  int   `json:"quantity"`
}

// State is the synchronisation state of one line as seen by the client.
type State int

const (
	Synced State = iota
	PendingUpdate
	PendingDelete
)

func (s State) String() string {
	switch s {
	case PendingUpdate:
		return "pending_update"
	case PendingDelete:
		return "pending_delete"
	default:
		return "synced"
	}
}
