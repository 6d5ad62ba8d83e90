package investment

import (
	"fmt"
	"math"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
)

const monthsPerYear = 12

// Winner names the better of the two compared investments.
type Winner string

const (
	WinnerProperty Winner = "property"
	WinnerDeposit  Winner = "deposit"
)

// DepositComparison compares the property's total profit with a deposit of the same amount.
type DepositComparison struct {
	Years          int     `json:"years"`
	BenchmarkRate  float64 `json:"benchmarkRate"` // Annual deposit rate in percent
	DepositFinal   float64 `json:"depositFinal"`
	DepositProfit  float64 `json:"depositProfit"`
	PropertyProfit float64 `json:"propertyProfit"`
	Difference     float64 `json:"difference"` // PropertyProfit - DepositProfit
	Winner         Winner  `json:"winner"`
	AdvantagePct   float64 `json:"advantagePct"` // |Difference| as percent of the price, one decimal
}

// CompareToDeposit compares the projected profit for the given horizon with a deposit
// compounding monthly at benchmarkRate percent a year.
//
// The property profit is read from the projection whose Year equals years; a horizon
// that is not part of summary is rejected with apperrors.ErrInvalidInput.
func CompareToDeposit(unitPrice int64, summary RoiSummary, benchmarkRate float64, years int) (DepositComparison, error) {
	if unitPrice <= 0 {
		return DepositComparison{}, fmt.Errorf("%w: unit price must be positive, got %d", apperrors.ErrInvalidInput, unitPrice)
	}
	if !isFinite(benchmarkRate) {
		return DepositComparison{}, fmt.Errorf("%w: benchmark rate must be a finite number", apperrors.ErrInvalidInput)
	}

	projection, ok := summary.Year(years)
	if !ok {
		return DepositComparison{}, fmt.Errorf("%w: year %d is not part of a %d-year projection",
			apperrors.ErrInvalidInput, years, len(summary.ByYear))
	}

	price := float64(unitPrice)
	monthlyRate := benchmarkRate / 100 / monthsPerYear
	months := years * monthsPerYear

	depositFinal := price * math.Pow(1+monthlyRate, float64(months))
	depositProfit := depositFinal - price
	difference := projection.TotalProfit - depositProfit
	advantage := math.Abs(difference) / price * 100
	if !isFinite(depositFinal) || !isFinite(difference) || !isFinite(advantage) {
		return DepositComparison{}, fmt.Errorf("%w: comparison over %d years overflows", apperrors.ErrInvalidInput, years)
	}

	winner := WinnerDeposit
	if difference > 0 {
		winner = WinnerProperty
	}

	return DepositComparison{
		Years:          years,
		BenchmarkRate:  benchmarkRate,
		DepositFinal:   depositFinal,
		DepositProfit:  depositProfit,
		PropertyProfit: projection.TotalProfit,
		Difference:     difference,
		Winner:         winner,
		AdvantagePct:   roundOne(advantage),
	}, nil
}
