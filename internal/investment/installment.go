package investment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
)

// InstallmentPlan is a developer installment schedule with a flat markup on the remainder.
type InstallmentPlan struct {
	DownPayment    float64 `json:"downPayment"`
	DownPaymentPct float64 `json:"downPaymentPct"`
	Remainder      float64 `json:"remainder"` // Price minus down payment, before markup
	MonthlyPayment float64 `json:"monthlyPayment"`
	Months         int     `json:"months"`
	TotalPaid      float64 `json:"totalPaid"`
	Overpayment    float64 `json:"overpayment"`
	OverpaymentPct float64 `json:"overpaymentPct"` // One decimal
}

// Amortize splits the price into a down payment and equal monthly payments.
// The markup is applied once to the remainder. A zero-month plan has no monthly
// payment; negative months or a non-positive price wrap apperrors.ErrInvalidInput.
func Amortize(unitPrice int64, downPaymentPct float64, months int, markupPct float64) (InstallmentPlan, error) {
	if unitPrice <= 0 {
		return InstallmentPlan{}, fmt.Errorf("%w: unit price must be positive, got %d", apperrors.ErrInvalidInput, unitPrice)
	}
	if months < 0 {
		return InstallmentPlan{}, fmt.Errorf("%w: months cannot be negative, got %d", apperrors.ErrInvalidInput, months)
	}
	if !isFinite(downPaymentPct) || !isFinite(markupPct) {
		return InstallmentPlan{}, fmt.Errorf("%w: percentages must be finite numbers", apperrors.ErrInvalidInput)
	}

	price := float64(unitPrice)
	downPayment := price * (downPaymentPct / 100)
	remainder := price - downPayment
	remainderWithMarkup := remainder * (1 + markupPct/100)

	var monthly float64
	if months > 0 {
		monthly = remainderWithMarkup / float64(months)
	}

	total := downPayment + remainderWithMarkup
	overpayment := total - price
	overpaymentPct := overpayment / price * 100
	if !isFinite(remainderWithMarkup) || !isFinite(total) || !isFinite(overpaymentPct) {
		return InstallmentPlan{}, fmt.Errorf("%w: installment plan overflows", apperrors.ErrInvalidInput)
	}

	return InstallmentPlan{
		DownPayment:    downPayment,
		DownPaymentPct: downPaymentPct,
		Remainder:      remainder,
		MonthlyPayment: monthly,
		Months:         months,
		TotalPaid:      total,
		Overpayment:    overpayment,
		OverpaymentPct: roundOne(overpaymentPct),
	}, nil
}

// roundOne rounds half away from zero to one decimal place.
func roundOne(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
