package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
)

const (
	maxTextLength        = 1000
	maxInstallmentMonths = 360
	maxRatePct           = 1000
	maxMoney             = 1_000_000_000 // rubles
)

// clearTokens are inputs that reset a setting to its default.
var clearTokens = []string{"-", "—", "сброс", "reset"}

// ParseNumber parses a decimal number typed by a user. Spaces are ignored and a comma
// is accepted as the decimal separator.
func ParseNumber(raw string) (decimal.Decimal, error) {
	s := strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(strings.TrimSpace(raw))
	return decimal.NewFromString(s)
}

// ParseSettingValue validates a settings value typed by the user and converts it to
// the column type of the field. A nil value with a nil error clears the setting.
func ParseSettingValue(field model.SettingField, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	for _, token := range clearTokens {
		if strings.EqualFold(raw, token) {
			return nil, nil
		}
	}

	if field.Kind == model.KindText {
		if raw == "" {
			return nil, fieldError(field.Key, "value cannot be empty")
		}
		if utf8.RuneCountInString(raw) > maxTextLength {
			return nil, fieldError(field.Key, "value must be 1000 characters or less")
		}
		return raw, nil
	}

	d, err := ParseNumber(raw)
	if err != nil {
		return nil, fieldError(field.Key, "value must be a number")
	}
	if d.IsNegative() {
		return nil, fieldError(field.Key, "value cannot be negative")
	}

	switch field.Kind {
	case model.KindMoney:
		if d.GreaterThan(decimal.NewFromInt(maxMoney)) {
			return nil, fieldError(field.Key, "value must be 1 000 000 000 or less")
		}
		return d.Round(0).IntPart(), nil
	case model.KindMonths:
		if !d.IsInteger() {
			return nil, fieldError(field.Key, "value must be a whole number of months")
		}
		if d.GreaterThan(decimal.NewFromInt(maxInstallmentMonths)) {
			return nil, fieldError(field.Key, "value must be 360 months or less")
		}
		return int(d.IntPart()), nil
	case model.KindPercent:
		if d.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fieldError(field.Key, "value must be between 0 and 100")
		}
	case model.KindRate:
		if d.GreaterThan(decimal.NewFromInt(maxRatePct)) {
			return nil, fieldError(field.Key, "value must be between 0 and 1000")
		}
	}

	f, _ := d.Float64()
	return f, nil
}
