package service

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/validation"
)

var numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// extractNumbers returns the numbers found in free text, in order.
// "30-50", "30 50" and "от 30,5 до 50" all yield two numbers.
func extractNumbers(text string) []decimal.Decimal {
	var out []decimal.Decimal
	for _, m := range numberRe.FindAllString(text, -1) {
		d, err := validation.ParseNumber(m)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// ordered returns a and b with the smaller first.
func ordered(a, b decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if a.GreaterThan(b) {
		return b, a
	}
	return a, b
}
