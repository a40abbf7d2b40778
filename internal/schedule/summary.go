package schedule

import "github.com/rakhadi/utangku/internal/domain"

// Summary aggregates a generated schedule by payment status.
type Summary struct {
	TotalPayments  int     `json:"totalPayments"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalAmount    float64 `json:"totalAmount"`

	PaidPayments  int     `json:"paidPayments"`
	PaidPrincipal float64 `json:"paidPrincipal"`
	PaidAmount    float64 `json:"paidAmount"`

	PendingPayments int     `json:"pendingPayments"`
	PendingAmount   float64 `json:"pendingAmount"`

	OverduePayments int     `json:"overduePayments"`
	OverdueAmount   float64 `json:"overdueAmount"`
}

// Summarize computes aggregate totals over a schedule.
func Summarize(installments []domain.DebtInstallment) Summary {
	var s Summary
	s.TotalPayments = len(installments)

	for _, inst := range installments {
		s.TotalPrincipal += inst.PrincipalPart
		s.TotalInterest += inst.InterestPart
		s.TotalAmount += inst.Amount

		switch inst.Status {
		case domain.StatusPaid:
			s.PaidPayments++
			s.PaidPrincipal += inst.PrincipalPart
			s.PaidAmount += inst.Amount
		case domain.StatusOverdue:
			s.OverduePayments++
			s.OverdueAmount += inst.Amount
		default:
			s.PendingPayments++
			s.PendingAmount += inst.Amount
		}
	}

	return s
}
