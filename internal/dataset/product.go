package dataset

import "strings"

// ProductCode tags a dataset with the reported product line.
type ProductCode string

// Recognized product codes. Anything else folds into ProductOther.
const (
	ProductCCard    ProductCode = "CCARD"
	ProductAuto     ProductCode = "AUTO"
	ProductMortgage ProductCode = "MORTGAGE"
	ProductOther    ProductCode = "OTHER"
)

// ParseProduct maps an input string onto a recognized product code,
// case-insensitively. Unrecognized values become ProductOther.
func ParseProduct(s string) ProductCode {
	switch ProductCode(strings.ToUpper(strings.TrimSpace(s))) {
	case ProductCCard:
		return ProductCCard
	case ProductAuto:
		return ProductAuto
	case ProductMortgage:
		return ProductMortgage
	default:
		return ProductOther
	}
}
