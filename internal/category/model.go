package category

type Brand struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Category is shown under the brand it belongs to.
type Category struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	BrandID *int64 `json:"brandId,omitempty"`
}

// ChildrenOf returns the categories of brand id, in source order. Categories
// without a brand are listed under every brand.
func ChildrenOf(categories []Category, brandID int64) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.BrandID == nil || *c.BrandID == brandID {
			out = append(out, c)
		}
	}
	return out
}
