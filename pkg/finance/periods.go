// Package finance provides the shared per-period amortization math used by
// the schedule generator, the multi-debt projector, and the loan simulator.
package finance

import (
	"math"
	"strings"

	"github.com/rakhadi/utangku/pkg/constants"
	"github.com/rakhadi/utangku/pkg/mathutil"
)

// Strategy identifies how interest accrues on a debt.
type Strategy string

const (
	// StrategyFlat charges interest against the original principal every
	// period (the "flat rate" consumer-loan convention).
	StrategyFlat Strategy = "flat"

	// StrategyAnnuity charges interest against the declining balance with a
	// constant total payment.
	StrategyAnnuity Strategy = "annuity"

	// StrategyStepUp uses explicit payment amounts per period range with
	// declining-balance interest.
	StrategyStepUp Strategy = "stepup"
)

// NormalizeStrategy maps the stored strategy string onto one of the three
// supported strategies. FIXED and FLAT select flat interest; ANNUITY and
// EFEKTIF select annuity; STEPUP and STEP_UP select step-up. Matching is
// case-insensitive and anything unrecognized falls back to annuity.
func NormalizeStrategy(raw string) Strategy {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "FIXED", "FLAT":
		return StrategyFlat
	case "STEPUP", "STEP_UP":
		return StrategyStepUp
	case "ANNUITY", "EFEKTIF":
		return StrategyAnnuity
	default:
		return StrategyAnnuity
	}
}

// MonthlyRate converts a nominal annual percentage rate to a monthly decimal
// rate.
func MonthlyRate(annualRate float64) float64 {
	return annualRate / constants.PercentageMultiplier / constants.MonthsPerYear
}

// AnnuityPayment calculates the constant monthly payment for a loan using the
// standard amortization formula. Degenerate inputs (non-positive principal or
// term) and non-finite results yield 0 rather than an error; callers treat a
// zero payment as "no data".
func AnnuityPayment(principal float64, monthlyRate float64, termMonths int) float64 {
	if termMonths <= 0 || principal <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return principal / float64(termMonths)
	}

	power := math.Pow(1.0+monthlyRate, float64(termMonths))
	payment := principal * monthlyRate * power / (power - 1.0)
	if !mathutil.Finite(payment) {
		return 0
	}
	return payment
}

// Period holds the interest/principal split for one period.
type Period struct {
	Amount    float64
	Interest  float64
	Principal float64
}

// ComputePeriod computes one period's interest/principal split for the given
// strategy, threading the entering balance as an explicit parameter so the
// computation stays a pure function of its inputs.
//
// For flat interest the original principal drives both parts and totalMonths
// sets the equal amortization; for annuity and step-up the nominalPayment is
// the constant (or range-selected) payment and interest accrues on the
// current balance. All strategies clamp the principal part to the entering
// balance so the final period pays off exactly; annuity and step-up also
// recompute the total so the last payment is not an overpayment.
func ComputePeriod(strategy Strategy, balance, originalPrincipal, monthlyRate, nominalPayment float64, totalMonths int) Period {
	var p Period

	switch strategy {
	case StrategyFlat:
		p.Interest = originalPrincipal * monthlyRate
		if totalMonths > 0 {
			p.Principal = originalPrincipal / float64(totalMonths)
		}
		p.Amount = p.Principal + p.Interest
		if p.Principal > balance {
			p.Principal = balance
		}
	case StrategyStepUp:
		p.Interest = mathutil.Max(0, balance) * monthlyRate
		p.Amount = nominalPayment
		// A step-up payment below the interest due floors the principal
		// contribution at zero instead of growing the balance.
		p.Principal = mathutil.Max(0, p.Amount-p.Interest)
		if p.Principal > balance {
			p.Principal = balance
			p.Amount = p.Principal + p.Interest
		}
	default: // StrategyAnnuity
		p.Interest = mathutil.Max(0, balance) * monthlyRate
		p.Amount = nominalPayment
		p.Principal = p.Amount - p.Interest
		if p.Principal > balance {
			p.Principal = balance
			p.Amount = p.Principal + p.Interest
		}
	}

	return p
}
