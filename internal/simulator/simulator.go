// Package simulator computes fixed-payment amortization tables and upfront
// costs for hypothetical new loans.
package simulator

import (
	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/pkg/finance"
	"github.com/rakhadi/utangku/pkg/mathutil"
	"go.uber.org/zap"
)

// FeeParams holds the externally-configured upfront fee rates for one loan
// category. Provision and insurance/notary rates are percentages; the admin
// fee is a flat amount.
type FeeParams struct {
	ProvisionRate float64
	AdminFee      float64
	InsuranceRate float64
	NotaryRate    float64
}

// Input describes the hypothetical loan.
type Input struct {
	AssetPrice         float64
	DownPaymentPercent float64
	InterestRate       float64 // annual %
	TenorYears         int
	LoanType           domain.LoanCategory
	MonthlyIncome      float64 // optional, enables the DSR evaluation
}

// SimPayment is one period of the simulated amortization table.
type SimPayment struct {
	Period    int     `json:"period"`
	Amount    float64 `json:"amount"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// UpfrontCosts is the cost breakdown due at origination.
type UpfrontCosts struct {
	DownPayment  float64 `json:"downPayment"`
	Provision    float64 `json:"provision"`
	AdminFee     float64 `json:"adminFee"`
	Insurance    float64 `json:"insurance"`
	NotaryFee    float64 `json:"notaryFee"`
	TotalUpfront float64 `json:"totalUpfront"`
}

// Result is the full simulation output.
type Result struct {
	LoanAmount     float64      `json:"loanAmount"`
	MonthlyPayment float64      `json:"monthlyPayment"`
	TenorMonths    int          `json:"tenorMonths"`
	UpfrontCosts   UpfrontCosts `json:"upfrontCosts"`
	Schedule       []SimPayment `json:"schedule"`
	DSR            *DSRResult   `json:"dsr,omitempty"`
}

// DSRResult reports the debt-service ratio of the simulated loan against the
// configured threshold.
type DSRResult struct {
	Ratio           float64 `json:"ratio"`
	Threshold       float64 `json:"threshold"`
	WithinThreshold bool    `json:"withinThreshold"`
}

// Simulator runs what-if loan calculations. It is stateless; fee parameters
// arrive per call from configuration.
type Simulator struct {
	logger *zap.Logger
}

// NewSimulator creates a simulator instance. A nil logger falls back to a
// no-op logger.
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// Simulate computes the loan amount, constant annuity payment, upfront cost
// breakdown, and full declining-balance amortization table for a hypothetical
// loan. Degenerate inputs produce zeroed results rather than errors.
func (s *Simulator) Simulate(in Input, fees FeeParams, dsrThreshold float64, existingMonthlyObligations float64) Result {
	downPayment := mathutil.ApplyPercentage(in.AssetPrice, in.DownPaymentPercent)
	loanAmount := in.AssetPrice - downPayment
	tenorMonths := in.TenorYears * 12
	monthlyRate := finance.MonthlyRate(in.InterestRate)
	payment := finance.AnnuityPayment(loanAmount, monthlyRate, tenorMonths)

	upfront := UpfrontCosts{
		DownPayment: mathutil.RoundCurrency(downPayment),
		Provision:   mathutil.RoundCurrency(mathutil.ApplyPercentage(loanAmount, fees.ProvisionRate)),
		AdminFee:    mathutil.RoundCurrency(fees.AdminFee),
		Insurance:   mathutil.RoundCurrency(mathutil.ApplyPercentage(in.AssetPrice, fees.InsuranceRate)),
		NotaryFee:   mathutil.RoundCurrency(mathutil.ApplyPercentage(in.AssetPrice, fees.NotaryRate)),
	}
	upfront.TotalUpfront = upfront.DownPayment + upfront.Provision + upfront.AdminFee + upfront.Insurance + upfront.NotaryFee

	result := Result{
		LoanAmount:     mathutil.RoundCurrency(loanAmount),
		MonthlyPayment: mathutil.RoundCurrency(payment),
		TenorMonths:    tenorMonths,
		UpfrontCosts:   upfront,
		Schedule:       amortize(loanAmount, monthlyRate, payment, tenorMonths),
	}

	if in.MonthlyIncome > 0 && payment > 0 {
		result.DSR = EvaluateDSR(existingMonthlyObligations+payment, in.MonthlyIncome, dsrThreshold)
	}

	return result
}

// amortize walks a plain declining-balance table: interest on the running
// balance, the rest of the payment to principal, balance floored at zero.
func amortize(loanAmount, monthlyRate, payment float64, tenorMonths int) []SimPayment {
	if loanAmount <= 0 || tenorMonths <= 0 || payment <= 0 {
		return nil
	}

	table := make([]SimPayment, 0, tenorMonths)
	balance := loanAmount
	for i := 1; i <= tenorMonths; i++ {
		p := finance.ComputePeriod(finance.StrategyAnnuity, balance, loanAmount, monthlyRate, payment, tenorMonths)
		balance = mathutil.Max(0, balance-p.Principal)
		table = append(table, SimPayment{
			Period:    i,
			Amount:    mathutil.RoundCurrency(p.Amount),
			Principal: mathutil.RoundCurrency(p.Principal),
			Interest:  mathutil.RoundCurrency(p.Interest),
			Balance:   mathutil.RoundCurrency(balance),
		})
	}
	return table
}

// EvaluateDSR computes the debt-service ratio (monthly obligations over
// monthly income, as a percentage) against a threshold.
func EvaluateDSR(monthlyObligations, monthlyIncome, threshold float64) *DSRResult {
	if monthlyIncome <= 0 {
		return nil
	}
	ratio := monthlyObligations / monthlyIncome * 100
	return &DSRResult{
		Ratio:           ratio,
		Threshold:       threshold,
		WithinThreshold: ratio <= threshold,
	}
}
