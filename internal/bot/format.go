package bot

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const placeholder = "—"

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// FormatPrice renders a price compactly: "15.2 млн ₽" from a million up, "950 000 ₽" below.
func FormatPrice(price int64) string {
	if price == 0 {
		return placeholder
	}
	if abs(price) >= 1_000_000 {
		m := decimal.NewFromInt(price).Div(million).StringFixed(1)
		return strings.TrimSuffix(m, ".0") + " млн ₽"
	}
	return groupThousands(price) + " ₽"
}

// FormatPriceFull renders a price with grouped digits: "15 200 000 ₽".
func FormatPriceFull(price int64) string {
	if price == 0 {
		return placeholder
	}
	return groupThousands(price) + " ₽"
}

// FormatArea renders an area: "45.5 м²", "40 м²".
func FormatArea(area float64) string {
	if area == 0 {
		return placeholder
	}
	s := decimal.NewFromFloat(area).StringFixed(1)
	return strings.TrimSuffix(s, ".0") + " м²"
}

// FormatRooms renders a room count; zero rooms is a studio.
func FormatRooms(rooms *int) string {
	switch {
	case rooms == nil:
		return placeholder
	case *rooms == 0:
		return "Студия"
	}
	return strconv.Itoa(*rooms) + "-комн"
}

// FormatPricePerM2 renders a price per square meter in thousands: "350 тыс ₽/м²".
func FormatPricePerM2(price int64) string {
	if price == 0 {
		return placeholder
	}
	return decimal.NewFromInt(price).Div(thousand).Truncate(0).String() + " тыс ₽/м²"
}

// formatAmount renders a computed ruble amount with FormatPrice.
func formatAmount(v float64) string {
	return FormatPrice(int64(math.Round(v)))
}

// formatPct renders a percentage with at most one decimal.
func formatPct(v float64) string {
	return decimal.NewFromFloat(v).Round(1).String()
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(abs(n), 10)

	var b strings.Builder
	if n < 0 {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	return b.String()
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// esc escapes catalog and user text for HTML messages.
func esc(s string) string {
	return html.EscapeString(s)
}

// truncate cuts s to at most n runes, appending suffix when it was cut.
func truncate(s string, n int, suffix string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + suffix
}

func pluralYears(n int) string {
	switch {
	case n%10 == 1 && n%100 != 11:
		return "год"
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		return "года"
	}
	return "лет"
}
