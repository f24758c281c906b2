package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Upload folders, keyed by the image kind callers ask for.
const (
	ImageProducts   = "products"
	ImageCategories = "categories"
	ImageBrands     = "brands"
)

const PlaceholderImage = "https://via.placeholder.com/400"

// ImageURL resolves a stored file name to a URL under base/uploads.
// Absolute URLs pass through; blank names give the placeholder.
func ImageURL(base, kind, file string) string {
	file = strings.TrimSpace(file)
	if file == "" || file == "null" {
		return PlaceholderImage
	}
	if strings.HasPrefix(file, "http") {
		return file
	}

	folder := "product"
	switch kind {
	case ImageCategories:
		folder = "category"
	case ImageBrands:
		folder = "brand"
	}
	return strings.TrimRight(base, "/") + "/uploads/" + folder + "/" + strings.TrimLeft(file, "/")
}

// FormatVND renders an amount the way prices are shown, e.g. 1.250.000 ₫.
func FormatVND(amount decimal.Decimal) string {
	digits := amount.Round(0).Abs().String()

	var b strings.Builder
	if amount.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString(" ₫")
	return b.String()
}
