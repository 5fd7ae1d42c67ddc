package pkg

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/hrdash/internal/domain"
)

// ParseAmount parses a non-negative money amount submitted as text. An empty
// value is zero. Amounts are rounded to cents.
func ParseAmount(field, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, domain.NewAppError(domain.CodeValidation, field+" must be a number", err)
	}
	if d.IsNegative() {
		return decimal.Zero, domain.NewAppError(domain.CodeValidation, field+" must not be negative", nil)
	}
	return d.Round(2), nil
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
