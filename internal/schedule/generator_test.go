package schedule

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/pkg/datetime"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.Local)

func testDebt(strategy string) *domain.DebtItem {
	return &domain.DebtItem{
		ID:                "debt-1",
		UserID:            "user-1",
		Name:              "KPR Rumah",
		Category:          domain.CategoryMortgage,
		OriginalPrincipal: 120000000,
		InterestRate:      8.4,
		StartDate:         datetime.MustParseTime(datetime.DateLayout, "2025-01-10"),
		EndDate:           datetime.MustParseTime(datetime.DateLayout, "2026-01-10"),
		DueDay:            10,
		MonthlyPayment:    10000000,
		InterestStrategy:  strategy,
	}
}

func TestGenerateFlatStrategy(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("FIXED")

	installments := g.Generate(debt, nil, false, testNow)
	if len(installments) != 12 {
		t.Fatalf("Generate() produced %d installments, expected 12", len(installments))
	}

	// Flat interest never declines: every period charges against the
	// original principal.
	expectedInterest := math.Round(120000000 * 8.4 / 100 / 12)
	expectedPrincipal := math.Round(120000000.0 / 12)

	for _, inst := range installments {
		if inst.InterestPart != expectedInterest {
			t.Errorf("period %d interest = %.2f, expected %.2f", inst.Period, inst.InterestPart, expectedInterest)
		}
		if inst.PrincipalPart != expectedPrincipal {
			t.Errorf("period %d principal = %.2f, expected %.2f", inst.Period, inst.PrincipalPart, expectedPrincipal)
		}
		if inst.Amount != expectedPrincipal+expectedInterest {
			t.Errorf("period %d amount = %.2f, expected %.2f", inst.Period, inst.Amount, expectedPrincipal+expectedInterest)
		}
	}

	if final := installments[len(installments)-1]; final.RemainingBalance != 0 {
		t.Errorf("final remaining balance = %.2f, expected 0", final.RemainingBalance)
	}
}

func TestGenerateAnnuityPrincipalSumsToOriginal(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("ANNUITY")

	installments := g.Generate(debt, nil, false, testNow)
	if len(installments) != 12 {
		t.Fatalf("Generate() produced %d installments, expected 12", len(installments))
	}

	var principalSum float64
	for _, inst := range installments {
		principalSum += inst.PrincipalPart
	}
	if math.Abs(principalSum-120000000) > 12 {
		t.Errorf("sum of principal parts = %.2f, expected 120000000 ±12", principalSum)
	}

	if final := installments[len(installments)-1]; final.RemainingBalance != 0 {
		t.Errorf("final remaining balance = %.2f, expected 0", final.RemainingBalance)
	}
}

func TestGenerateAnnuityInterestDeclines(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("EFEKTIF")

	installments := g.Generate(debt, nil, false, testNow)
	for i := 1; i < len(installments); i++ {
		if installments[i].InterestPart > installments[i-1].InterestPart {
			t.Errorf("interest rose from period %d to %d (%.2f -> %.2f)",
				installments[i-1].Period, installments[i].Period,
				installments[i-1].InterestPart, installments[i].InterestPart)
		}
	}
}

func TestGenerateIdempotentWithHistory(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("ANNUITY")

	first := g.Generate(debt, nil, false, testNow)
	second := g.Generate(debt, first, false, testNow)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("regenerating with the persisted schedule as history changed the records")
	}
}

func TestGenerateHistoryOverridePreserved(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("ANNUITY")

	base := g.Generate(debt, nil, false, testNow)

	// Hand-edit period 3: mark paid with a custom amount.
	edited := base[2]
	edited.Status = domain.StatusPaid
	edited.Amount = 99999999
	existing := []domain.DebtInstallment{edited}

	regenerated := g.Generate(debt, existing, false, testNow)

	if !reflect.DeepEqual(regenerated[2], edited) {
		t.Errorf("period 3 was not emitted verbatim: got %+v, expected %+v", regenerated[2], edited)
	}

	// Period 4 must reflect the theoretical principal deduction for period 3,
	// not the edited amount.
	if regenerated[3] != base[3] {
		t.Errorf("period 4 diverged from the theoretical schedule: got %+v, expected %+v", regenerated[3], base[3])
	}
}

func TestGenerateBalanceNeverNegative(t *testing.T) {
	g := NewGenerator(zap.NewNop())

	for _, strategy := range []string{"FIXED", "ANNUITY", "STEPUP"} {
		t.Run(strategy, func(t *testing.T) {
			debt := testDebt(strategy)
			debt.StepUpSchedule = domain.StepUpSchedule{
				{StartMonth: 1, EndMonth: 6, Amount: 8000000},
				{StartMonth: 7, EndMonth: 12, Amount: 14000000},
			}

			entering := debt.OriginalPrincipal
			for _, inst := range g.Generate(debt, nil, false, testNow) {
				if inst.RemainingBalance < 0 {
					t.Errorf("period %d remaining balance = %.2f, expected >= 0", inst.Period, inst.RemainingBalance)
				}
				if inst.PrincipalPart > entering+1 {
					t.Errorf("period %d principal %.2f exceeds entering balance %.2f", inst.Period, inst.PrincipalPart, entering)
				}
				entering = inst.RemainingBalance
			}
		})
	}
}

func TestGenerateStepUpFallback(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("STEPUP")
	debt.StepUpSchedule = nil

	installments := g.Generate(debt, nil, false, testNow)
	for _, inst := range installments[:len(installments)-1] {
		if inst.Amount != debt.MonthlyPayment {
			t.Errorf("period %d amount = %.2f, expected monthly payment %.2f", inst.Period, inst.Amount, debt.MonthlyPayment)
		}
	}
}

func TestGenerateStepUpRanges(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("STEP_UP")
	debt.StepUpSchedule = domain.StepUpSchedule{
		{StartMonth: 1, EndMonth: 6, Amount: 5000000},
		{StartMonth: 7, EndMonth: 12, Amount: 15000000},
	}

	installments := g.Generate(debt, nil, false, testNow)
	if installments[0].Amount != 5000000 {
		t.Errorf("period 1 amount = %.2f, expected 5000000", installments[0].Amount)
	}
	if installments[6].Amount != 15000000 {
		t.Errorf("period 7 amount = %.2f, expected 15000000", installments[6].Amount)
	}
}

func TestGenerateStepUpBelowInterestFloorsPrincipal(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("STEPUP")
	// Interest on 120M at 8.4% is 840000/month; pay less than that.
	debt.StepUpSchedule = domain.StepUpSchedule{
		{StartMonth: 1, EndMonth: 12, Amount: 500000},
	}

	installments := g.Generate(debt, nil, false, testNow)
	first := installments[0]
	if first.PrincipalPart != 0 {
		t.Errorf("principal part = %.2f, expected 0 when payment is below interest", first.PrincipalPart)
	}
	if first.RemainingBalance != 120000000 {
		t.Errorf("remaining balance = %.2f, expected unchanged 120000000", first.RemainingBalance)
	}
}

func TestGenerateMalformedDebtYieldsEmpty(t *testing.T) {
	g := NewGenerator(zap.NewNop())

	tests := []struct {
		name   string
		mutate func(d *domain.DebtItem)
	}{
		{"Missing end date", func(d *domain.DebtItem) { d.EndDate = time.Time{} }},
		{"Missing start date", func(d *domain.DebtItem) { d.StartDate = time.Time{} }},
		{"Zero principal", func(d *domain.DebtItem) { d.OriginalPrincipal = 0 }},
		{"Negative principal", func(d *domain.DebtItem) { d.OriginalPrincipal = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debt := testDebt("ANNUITY")
			tt.mutate(debt)
			if got := g.Generate(debt, nil, false, testNow); len(got) != 0 {
				t.Errorf("Generate() = %d installments, expected empty schedule", len(got))
			}
		})
	}

	if got := g.Generate(nil, nil, false, testNow); got != nil {
		t.Errorf("Generate(nil) = %v, expected nil", got)
	}
}

func TestGenerateStatusSeeding(t *testing.T) {
	g := NewGenerator(zap.NewNop())

	tests := []struct {
		name           string
		autoPayHistory bool
		pastStatus     domain.InstallmentStatus
	}{
		{"Past periods overdue by default", false, domain.StatusOverdue},
		{"Past periods paid with autoPayHistory", true, domain.StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debt := testDebt("ANNUITY")
			installments := g.Generate(debt, nil, tt.autoPayHistory, testNow)

			// Periods 1..5 are due Feb 10 .. Jun 10, all before Jun 15.
			for _, inst := range installments[:5] {
				if inst.Status != tt.pastStatus {
					t.Errorf("period %d status = %s, expected %s", inst.Period, inst.Status, tt.pastStatus)
				}
			}
			// Period 6 is due Jul 10, in the future.
			if installments[5].Status != domain.StatusPending {
				t.Errorf("period 6 status = %s, expected pending", installments[5].Status)
			}
		})
	}
}

func TestGenerateDueDayClamping(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("ANNUITY")
	debt.StartDate = datetime.MustParseTime(datetime.DateLayout, "2025-01-31")
	debt.EndDate = datetime.MustParseTime(datetime.DateLayout, "2026-01-31")
	debt.DueDay = 31

	installments := g.Generate(debt, nil, false, testNow)

	// Period 1 lands in February and must clamp to the 28th.
	if got := installments[0].DueDate.Format(datetime.DateLayout); got != "2025-02-28" {
		t.Errorf("period 1 due date = %s, expected 2025-02-28", got)
	}
	// Period 3 lands in April (30 days).
	if got := installments[2].DueDate.Format(datetime.DateLayout); got != "2025-04-30" {
		t.Errorf("period 3 due date = %s, expected 2025-04-30", got)
	}
	// Period 2 lands in March and keeps day 31.
	if got := installments[1].DueDate.Format(datetime.DateLayout); got != "2025-03-31" {
		t.Errorf("period 2 due date = %s, expected 2025-03-31", got)
	}
}

func TestSummarize(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	debt := testDebt("ANNUITY")

	installments := g.Generate(debt, nil, true, testNow)
	summary := Summarize(installments)

	if summary.TotalPayments != 12 {
		t.Errorf("TotalPayments = %d, expected 12", summary.TotalPayments)
	}
	if summary.PaidPayments != 5 {
		t.Errorf("PaidPayments = %d, expected 5", summary.PaidPayments)
	}
	if summary.PendingPayments != 7 {
		t.Errorf("PendingPayments = %d, expected 7", summary.PendingPayments)
	}
	if summary.OverduePayments != 0 {
		t.Errorf("OverduePayments = %d, expected 0", summary.OverduePayments)
	}
	if math.Abs(summary.TotalPrincipal-120000000) > 12 {
		t.Errorf("TotalPrincipal = %.2f, expected 120000000 ±12", summary.TotalPrincipal)
	}
	if summary.TotalInterest <= 0 {
		t.Errorf("TotalInterest = %.2f, expected positive", summary.TotalInterest)
	}
}
