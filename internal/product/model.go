package product

import "github.com/shopspring/decimal"

// Ref is the nested {id, name} shape some endpoints embed instead of a bare
// foreign key.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Price       decimal.NullDecimal `json:"price"`
	Thumbnail   string              `json:"thumbnail"`
	Description string              `json:"description"`
	Stock       *int                `json:"stock,omitempty"`

	BrandID    *int64 `json:"brandId,omitempty"`
	Brand      *Ref   `json:"brand,omitempty"`
	CategoryID *int64 `json:"categoryId,omitempty"`
	Category   *Ref   `json:"category,omitempty"`
}

// InBrand reports whether p belongs to brand id under either backend shape.
func (p *Product) InBrand(id int64) bool {
	return matchRef(p.BrandID, p.Brand, id)
}

func (p *Product) InCategory(id int64) bool {
	return matchRef(p.CategoryID, p.Category, id)
}

func (p *Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}

func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func (p *Product) UnitPrice() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

func matchRef(direct *int64, nested *Ref, id int64) bool {
	if direct != nil && *direct == id {
		return true
	}
	return nested != nil && nested.ID == id
}

// Criteria is the active filter. Nil ids and blank search are inactive.
type Criteria struct {
	BrandID    *int64
	CategoryID *int64
	SearchText string
}
