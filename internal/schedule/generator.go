// Package schedule generates per-period installment schedules for a debt,
// reconciling the theoretical amortization against previously persisted
// installment records.
package schedule

import (
	"time"

	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/pkg/datetime"
	"github.com/rakhadi/utangku/pkg/finance"
	"github.com/rakhadi/utangku/pkg/mathutil"
	"go.uber.org/zap"
)

// Generator produces installment schedules for debts.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a generator instance. A nil logger falls back to a
// no-op logger.
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{logger: logger}
}

// Generate builds the full ordered installment schedule for one debt.
//
// Previously persisted installments are authoritative: a record found for a
// period is emitted verbatim, but the running balance still advances by the
// freshly computed principal so later periods stay consistent with the
// theoretical schedule. Periods with no record are synthesized; when
// autoPayHistory is set, past-due synthesized periods seed as paid instead of
// overdue (bulk-import convenience).
//
// Malformed debts (zero dates, non-positive principal) yield an empty
// schedule, never an error.
func (g *Generator) Generate(debt *domain.DebtItem, existing []domain.DebtInstallment, autoPayHistory bool, now time.Time) []domain.DebtInstallment {
	if debt == nil || !debt.Schedulable() {
		return nil
	}

	totalMonths := debt.TotalMonths()
	strategy := debt.Strategy()
	monthlyRate := finance.MonthlyRate(debt.InterestRate)

	var annuity float64
	if strategy == finance.StrategyAnnuity {
		annuity = finance.AnnuityPayment(debt.OriginalPrincipal, monthlyRate, totalMonths)
	}

	byPeriod := make(map[int]domain.DebtInstallment, len(existing))
	for _, inst := range existing {
		byPeriod[inst.Period] = inst
	}

	installments := make([]domain.DebtInstallment, 0, totalMonths)
	currentBalance := debt.OriginalPrincipal

	for i := 1; i <= totalMonths; i++ {
		nominal := 0.0
		switch strategy {
		case finance.StrategyAnnuity:
			nominal = annuity
		case finance.StrategyStepUp:
			nominal = debt.StepUpSchedule.AmountForPeriod(i, debt.MonthlyPayment)
		}

		period := finance.ComputePeriod(strategy, currentBalance, debt.OriginalPrincipal, monthlyRate, nominal, totalMonths)

		if strategy == finance.StrategyStepUp && nominal < period.Interest && currentBalance > 0 {
			// Under-amortizing period: the configured payment does not cover
			// the interest due, so the principal contribution floors at zero.
			g.logger.Warn("step-up payment below interest due",
				zap.String("debt", debt.ID),
				zap.Int("period", i),
				zap.Float64("payment", nominal),
				zap.Float64("interest", period.Interest),
			)
		}

		newBalance := mathutil.Max(0, currentBalance-period.Principal)
		dueDate := datetime.DueDateFor(debt.StartDate, i, debt.DueDay)

		if inst, ok := byPeriod[i]; ok {
			installments = append(installments, inst)
		} else {
			installments = append(installments, domain.DebtInstallment{
				ID:               domain.InstallmentID(debt.ID, i),
				DebtID:           debt.ID,
				UserID:           debt.UserID,
				Period:           i,
				DueDate:          dueDate,
				Amount:           mathutil.RoundCurrency(period.Amount),
				PrincipalPart:    mathutil.RoundCurrency(period.Principal),
				InterestPart:     mathutil.RoundCurrency(period.Interest),
				RemainingBalance: mathutil.RoundCurrency(newBalance),
				Status:           seedStatus(dueDate, now, autoPayHistory),
			})
		}

		currentBalance = newBalance
	}

	return installments
}

func seedStatus(dueDate, now time.Time, autoPayHistory bool) domain.InstallmentStatus {
	if datetime.BeforeLocalDay(dueDate, now) {
		if autoPayHistory {
			return domain.StatusPaid
		}
		return domain.StatusOverdue
	}
	return domain.StatusPending
}
