package product

import (
	"strings"

	"golang.org/x/text/cases"
)

// Compact drops nil entries, keeping order.
func Compact(list []*Product) []*Product {
	out := make([]*Product, 0, len(list))
	for _, p := range list {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// IsFiltering reports whether any predicate of c is active.
func IsFiltering(c Criteria) bool {
	return c.BrandID != nil || c.CategoryID != nil || strings.TrimSpace(c.SearchText) != ""
}

// Filter returns the products matching every active predicate of c, in
// source order. It never mutates products and skips nil entries.
func Filter(products []*Product, c Criteria) []*Product {
	// A Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(c.SearchText))

	out := make([]*Product, 0, len(products))
	for _, p := range Compact(products) {
		if c.BrandID != nil && !p.InBrand(*c.BrandID) {
			continue
		}
		if c.CategoryID != nil && !p.InCategory(*c.CategoryID) {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(p.Name), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Selection is the filter state behind the catalog screen. A selected
// category never outlives its brand.
type Selection struct {
	brandID    *int64
	categoryID *int64
	search     string
}

// SelectBrand selects id, or clears the brand when id is already selected.
// Either way the category is reset.
func (s *Selection) SelectBrand(id int64) {
	s.categoryID = nil
	if s.brandID != nil && *s.brandID == id {
		s.brandID = nil
		return
	}
	s.brandID = &id
}

// SelectCategory toggles the category.
func (s *Selection) SelectCategory(id int64) {
	if s.categoryID != nil && *s.categoryID == id {
		s.categoryID = nil
		return
	}
	s.categoryID = &id
}

func (s *Selection) SetSearch(text string) {
	s.search = text
}

func (s *Selection) Reset() {
	*s = Selection{}
}

func (s Selection) BrandID() (int64, bool) {
	if s.brandID == nil {
		return 0, false
	}
	return *s.brandID, true
}

func (s Selection) CategoryID() (int64, bool) {
	if s.categoryID == nil {
		return 0, false
	}
	return *s.categoryID, true
}

// Criteria copies the selection so later changes do not leak into it.
func (s Selection) Criteria() Criteria {
	c := Criteria{SearchText: s.search}
	if s.brandID != nil {
		id := *s.brandID
		c.BrandID = &id
	}
	if s.categoryID != nil {
		id := *s.categoryID
		c.CategoryID = &id
	}
	return c
}
