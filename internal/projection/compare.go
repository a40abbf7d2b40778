package projection

import (
	"math"
	"time"

	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/pkg/constants"
	"github.com/rakhadi/utangku/pkg/mathutil"
)

// StrategyOutcome summarizes one payoff strategy for comparison.
type StrategyOutcome struct {
	Strategy          string  `json:"strategy"`
	AcceleratedMonths int     `json:"acceleratedMonths"`
	MoneySaved        float64 `json:"moneySaved"`
}

// Comparison reports snowball against avalanche for the same extra payment.
type Comparison struct {
	Snowball    StrategyOutcome `json:"snowball"`
	Avalanche   StrategyOutcome `json:"avalanche"`
	Recommended string          `json:"recommended"`
	MonthsSaved int             `json:"monthsSaved"`
	MoneySaved  float64         `json:"moneySaved"`
}

// Compare runs both prioritization strategies in lump_sum mode and reports
// which one retires the debt sooner; ties favor avalanche, which never costs
// more in interest.
func (p *Projector) Compare(debts []domain.DebtItem, extraMonthlyPayment float64, now time.Time) Comparison {
	snowball := p.Project(debts, Input{
		ExtraMonthlyPayment: extraMonthlyPayment,
		Strategy:            constants.StrategySnowball,
		Mode:                constants.ModeLumpSum,
	}, now)
	avalanche := p.Project(debts, Input{
		ExtraMonthlyPayment: extraMonthlyPayment,
		Strategy:            constants.StrategyAvalanche,
		Mode:                constants.ModeLumpSum,
	}, now)

	c := Comparison{
		Snowball: StrategyOutcome{
			Strategy:          constants.StrategySnowball,
			AcceleratedMonths: snowball.AcceleratedMonths,
			MoneySaved:        snowball.MoneySaved,
		},
		Avalanche: StrategyOutcome{
			Strategy:          constants.StrategyAvalanche,
			AcceleratedMonths: avalanche.AcceleratedMonths,
			MoneySaved:        avalanche.MoneySaved,
		},
	}

	if snowball.AcceleratedMonths < avalanche.AcceleratedMonths {
		c.Recommended = constants.StrategySnowball
	} else {
		c.Recommended = constants.StrategyAvalanche
	}
	c.MonthsSaved = abs(snowball.AcceleratedMonths - avalanche.AcceleratedMonths)
	c.MoneySaved = mathutil.RoundCurrency(math.Abs(snowball.MoneySaved - avalanche.MoneySaved))
	return c
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
