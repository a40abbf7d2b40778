// Package projection simulates aggregate debt balances month by month under a
// minimum-payments-only future and an accelerated payoff future.
package projection

import (
	"sort"
	"time"

	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/pkg/constants"
	"github.com/rakhadi/utangku/pkg/datetime"
	"github.com/rakhadi/utangku/pkg/finance"
	"github.com/rakhadi/utangku/pkg/mathutil"
	"go.uber.org/zap"
)

// Point is one month of the projection series.
type Point struct {
	Month              int     `json:"month"`
	StandardBalance    float64 `json:"standardBalance"`
	AcceleratedBalance float64 `json:"acceleratedBalance"`
	SavingsBalance     float64 `json:"savingsBalance,omitempty"`
}

// Result is the chart-ready output of a projection run.
type Result struct {
	Series            []Point           `json:"series"`
	StandardMonths    int               `json:"standardMonths"`
	AcceleratedMonths int               `json:"acceleratedMonths"`
	MonthsSaved       int               `json:"monthsSaved"`
	MoneySaved        float64           `json:"moneySaved"`
	FinishDates       map[string]string `json:"finishDates"`
}

// Input bundles the projection request parameters.
type Input struct {
	ExtraMonthlyPayment  float64
	Strategy             string // snowball or avalanche
	Mode                 string // lump_sum or cutoff
	InvestmentReturnRate float64 // annual %, cutoff mode only
}

// Projector runs multi-debt payoff simulations.
type Projector struct {
	logger *zap.Logger
}

// NewProjector creates a projector instance. A nil logger falls back to a
// no-op logger.
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger}
}

// debtSim is a per-debt working copy for one simulation path. Copies are
// independent per path so mutating a simulated balance never touches the
// caller's DebtItem or the other path.
type debtSim struct {
	id             string
	strategy       finance.Strategy
	annualRate     float64
	monthlyRate    float64
	original       float64
	balance        float64
	totalMonths    int
	monthsPassed   int
	monthlyPayment float64
	annuity        float64
	stepUp         domain.StepUpSchedule
}

func newDebtSims(debts []domain.DebtItem, now time.Time) []*debtSim {
	sims := make([]*debtSim, 0, len(debts))
	for i := range debts {
		d := &debts[i]
		if d.Deleted || d.RemainingPrincipal <= constants.BalanceTolerance || !d.Schedulable() {
			continue
		}
		totalMonths := d.TotalMonths()
		monthlyRate := finance.MonthlyRate(d.InterestRate)
		monthsPassed := datetime.MonthsBetween(d.StartDate, now)
		if monthsPassed < 0 {
			monthsPassed = 0
		}
		stepUp := make(domain.StepUpSchedule, len(d.StepUpSchedule))
		copy(stepUp, d.StepUpSchedule)
		sims = append(sims, &debtSim{
			id:             d.ID,
			strategy:       d.Strategy(),
			annualRate:     d.InterestRate,
			monthlyRate:    monthlyRate,
			original:       d.OriginalPrincipal,
			balance:        d.RemainingPrincipal,
			totalMonths:    totalMonths,
			monthsPassed:   monthsPassed,
			monthlyPayment: d.MonthlyPayment,
			annuity:        finance.AnnuityPayment(d.OriginalPrincipal, monthlyRate, totalMonths),
			stepUp:         stepUp,
		})
	}
	return sims
}

func cloneSims(sims []*debtSim) []*debtSim {
	out := make([]*debtSim, len(sims))
	for i, s := range sims {
		c := *s
		out[i] = &c
	}
	return out
}

func (s *debtSim) active() bool {
	return s.balance > constants.BalanceTolerance
}

// nominalPayment resolves the per-strategy payment for a simulated month
// (0-indexed from now); step-up re-derives the applicable amount from the
// debt's absolute period offset.
func (s *debtSim) nominalPayment(simMonth int) float64 {
	switch s.strategy {
	case finance.StrategyAnnuity:
		return s.annuity
	case finance.StrategyStepUp:
		return s.stepUp.AmountForPeriod(s.monthsPassed+simMonth+1, s.monthlyPayment)
	default:
		return 0
	}
}

// stepMinimum advances the sim by one month at its minimum payment and
// returns any principal surplus that would have overpaid the debt.
func (s *debtSim) stepMinimum(simMonth int) float64 {
	if !s.active() {
		return 0
	}
	nominal := s.nominalPayment(simMonth)
	p := finance.ComputePeriod(s.strategy, s.balance, s.original, s.monthlyRate, nominal, s.totalMonths)

	var unclamped float64
	switch s.strategy {
	case finance.StrategyFlat:
		unclamped = s.original / float64(s.totalMonths)
	case finance.StrategyStepUp:
		unclamped = mathutil.Max(0, nominal-p.Interest)
	default:
		unclamped = nominal - p.Interest
	}

	surplus := mathutil.Max(0, unclamped-p.Principal)
	s.balance = mathutil.Max(0, s.balance-p.Principal)
	return surplus
}

func totalBalance(sims []*debtSim) float64 {
	total := 0.0
	for _, s := range sims {
		if s.active() {
			total += s.balance
		}
	}
	return total
}

func orderByStrategy(sims []*debtSim, strategy string) []*debtSim {
	targets := make([]*debtSim, 0, len(sims))
	for _, s := range sims {
		if s.active() {
			targets = append(targets, s)
		}
	}
	if strategy == constants.StrategySnowball {
		sort.Slice(targets, func(i, j int) bool {
			return targets[i].balance < targets[j].balance
		})
	} else {
		sort.Slice(targets, func(i, j int) bool {
			return targets[i].annualRate > targets[j].annualRate
		})
	}
	return targets
}

// Project compares a minimum-payments-only future against an accelerated one.
// The simulation is capped at 30 years to bound computation on pathological
// inputs.
func (p *Projector) Project(debts []domain.DebtItem, in Input, now time.Time) Result {
	base := newDebtSims(debts, now)

	result := Result{FinishDates: make(map[string]string)}
	if len(base) == 0 {
		return result
	}

	totalPrincipal := 0.0
	for _, s := range base {
		totalPrincipal += s.balance
	}

	standard := p.runStandard(cloneSims(base))

	var accelerated []float64
	var savings []float64
	switch {
	case in.Mode == constants.ModeCutoff:
		accelerated, savings = p.runCutoff(cloneSims(base), in, now, result.FinishDates)
	case in.ExtraMonthlyPayment <= 0:
		// No extra payment is a no-op acceleration: reuse the standard walk
		// so both paths are identical by construction.
		accelerated = p.runStandardWithFinishes(cloneSims(base), now, result.FinishDates)
	default:
		accelerated = p.runLumpSum(cloneSims(base), in, now, result.FinishDates)
	}

	result.StandardMonths = len(standard)
	result.AcceleratedMonths = len(accelerated)
	result.MonthsSaved = len(standard) - len(accelerated)

	// Interest-cost differential between paths using a flat proxy rate; a
	// summary metric only, never period-accurate.
	proxyMonthly := constants.ProxyAnnualRate / constants.PercentageMultiplier / constants.MonthsPerYear
	result.MoneySaved = mathutil.RoundCurrency(totalPrincipal * proxyMonthly * float64(result.MonthsSaved))
	if in.Mode == constants.ModeCutoff && len(savings) > 0 {
		contributions := in.ExtraMonthlyPayment * float64(len(savings))
		gains := savings[len(savings)-1] - contributions
		if gains > 0 {
			result.MoneySaved += mathutil.RoundCurrency(gains)
		}
	}

	result.Series = buildSeries(standard, accelerated, savings)
	return result
}

func (p *Projector) runStandard(sims []*debtSim) []float64 {
	var balances []float64
	for m := 0; m < constants.MaxProjectionMonths; m++ {
		for _, s := range sims {
			s.stepMinimum(m)
		}
		balances = append(balances, totalBalance(sims))
		if totalBalance(sims) <= constants.BalanceTolerance {
			break
		}
	}
	return balances
}

func (p *Projector) runStandardWithFinishes(sims []*debtSim, now time.Time, finishes map[string]string) []float64 {
	var balances []float64
	for m := 0; m < constants.MaxProjectionMonths; m++ {
		for _, s := range sims {
			wasActive := s.active()
			s.stepMinimum(m)
			if wasActive && !s.active() {
				finishes[s.id] = finishDate(now, m)
			}
		}
		balances = append(balances, totalBalance(sims))
		if totalBalance(sims) <= constants.BalanceTolerance {
			break
		}
	}
	return balances
}

func (p *Projector) runLumpSum(sims []*debtSim, in Input, now time.Time, finishes map[string]string) []float64 {
	var balances []float64
	for m := 0; m < constants.MaxProjectionMonths; m++ {
		// Mandatory minimums first; overpayment surplus joins the pool.
		pool := in.ExtraMonthlyPayment
		for _, s := range sims {
			wasActive := s.active()
			pool += s.stepMinimum(m)
			if wasActive && !s.active() {
				finishes[s.id] = finishDate(now, m)
			}
		}

		// Then the pool attacks principal in strategy order.
		for pool > constants.BalanceTolerance {
			targets := orderByStrategy(sims, in.Strategy)
			if len(targets) == 0 {
				break
			}
			s := targets[0]
			pay := mathutil.Min(pool, s.balance)
			s.balance -= pay
			pool -= pay
			if !s.active() {
				s.balance = 0
				finishes[s.id] = finishDate(now, m)
			}
		}

		balances = append(balances, totalBalance(sims))
		if totalBalance(sims) <= constants.BalanceTolerance {
			break
		}
	}
	return balances
}

func (p *Projector) runCutoff(sims []*debtSim, in Input, now time.Time, finishes map[string]string) ([]float64, []float64) {
	monthlyReturn := in.InvestmentReturnRate / constants.PercentageMultiplier / constants.MonthsPerYear
	invested := 0.0

	var balances, savings []float64
	for m := 0; m < constants.MaxProjectionMonths; m++ {
		for _, s := range sims {
			wasActive := s.active()
			s.stepMinimum(m)
			if wasActive && !s.active() {
				finishes[s.id] = finishDate(now, m)
			}
		}

		invested += in.ExtraMonthlyPayment
		invested += invested * monthlyReturn

		remaining := totalBalance(sims)

		// Financial freedom: accumulated savings cover the remaining debt, so
		// the simulation treats it as instantly extinguished and halts.
		if invested >= remaining && remaining > constants.BalanceTolerance {
			p.logger.Debug("cutoff freedom event",
				zap.Int("month", m+1),
				zap.Float64("savings", invested),
				zap.Float64("remainingDebt", remaining),
			)
			for _, s := range sims {
				if s.active() {
					s.balance = 0
					finishes[s.id] = finishDate(now, m)
				}
			}
			balances = append(balances, 0)
			savings = append(savings, invested)
			break
		}

		balances = append(balances, remaining)
		savings = append(savings, invested)
		if remaining <= constants.BalanceTolerance {
			break
		}
	}
	return balances, savings
}

func finishDate(now time.Time, simMonth int) string {
	return datetime.FormatLocalDate(datetime.DueDateFor(now, simMonth+1, 0))
}

// buildSeries merges both paths into a month-indexed series and downsamples
// to every other month once the horizon exceeds the chart point budget,
// always keeping the final point.
func buildSeries(standard, accelerated, savings []float64) []Point {
	horizon := len(standard)
	if len(accelerated) > horizon {
		horizon = len(accelerated)
	}

	points := make([]Point, 0, horizon)
	for m := 0; m < horizon; m++ {
		pt := Point{Month: m + 1}
		if m < len(standard) {
			pt.StandardBalance = mathutil.RoundCurrency(standard[m])
		}
		if m < len(accelerated) {
			pt.AcceleratedBalance = mathutil.RoundCurrency(accelerated[m])
		}
		if m < len(savings) {
			pt.SavingsBalance = mathutil.RoundCurrency(savings[m])
		}
		points = append(points, pt)
	}

	if len(points) <= constants.ChartPointBudget {
		return points
	}

	sampled := make([]Point, 0, len(points)/2+1)
	for i := 0; i < len(points); i += 2 {
		sampled = append(sampled, points[i])
	}
	if last := points[len(points)-1]; sampled[len(sampled)-1].Month != last.Month {
		sampled = append(sampled, last)
	}
	return sampled
}
