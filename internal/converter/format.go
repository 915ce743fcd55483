package converter

import (
	"fmt"

	"github.com/AlexZav1327/currency-converter/internal/catalog"
	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/shopspring/decimal"
)

// FormatResult renders the converted amount with two decimals, e.g. "€92.00".
func FormatResult(c models.Conversion) string {
	return catalog.Symbol(c.ToCode) + decimal.NewFromFloat(c.Result).StringFixed(2)
}

// FormatRate renders the rate line, e.g. "1 USD = 0.9200 EUR".
func FormatRate(c models.Conversion) string {
	return fmt.Sprintf("1 %s = %s %s", c.FromCode, decimal.NewFromFloat(c.Rate).StringFixed(4), c.ToCode)
}
