// Package output provides utilities for formatting and displaying schedules,
// projections, and simulation results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/internal/projection"
	"github.com/rakhadi/utangku/internal/schedule"
	"github.com/rakhadi/utangku/internal/simulator"
	"github.com/rakhadi/utangku/pkg/constants"
	"github.com/shopspring/decimal"
)

// FormatRupiah renders an amount as whole rupiah with dot thousands
// separators, e.g. Rp1.234.567. Fractional units are rounded away since
// rupiah has no circulating subunit.
func FormatRupiah(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(0)
	neg := d.IsNegative()
	digits := d.Abs().String()

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "Rp" + strings.Join(groups, ".")
	if neg {
		out = "-" + out
	}
	return out
}

// PrettyFormatSchedule outputs a human-readable rather than machine-readable
// installment table.
func PrettyFormatSchedule(w io.Writer, debtName string, installments []domain.DebtInstallment, summary schedule.Summary) {
	fmt.Fprintf(w, "--- Schedule for %s ---\n", debtName)
	fmt.Fprintf(w, "Period | Due Date   | Amount          | Principal       | Interest        | Balance         | Status\n")
	fmt.Fprintf(w, "______ | __________ | _______________ | _______________ | _______________ | _______________ | ______\n")
	for _, inst := range installments {
		fmt.Fprintf(w, "%6d | %s | %15s | %15s | %15s | %15s | %s\n",
			inst.Period,
			inst.DueDate.Format(constants.DateLayout),
			FormatRupiah(inst.Amount),
			FormatRupiah(inst.PrincipalPart),
			FormatRupiah(inst.InterestPart),
			FormatRupiah(inst.RemainingBalance),
			inst.Status,
		)
	}
	fmt.Fprintf(w, "\nTotal paid %d/%d installments, %s of %s\n",
		summary.PaidPayments, summary.TotalPayments,
		FormatRupiah(summary.PaidAmount), FormatRupiah(summary.TotalAmount))
}

// CsvFormatSchedule outputs an installment table in comma-separated value
// format.
func CsvFormatSchedule(w io.Writer, installments []domain.DebtInstallment) {
	fmt.Fprintf(w, "\"period\",\"dueDate\",\"amount\",\"principal\",\"interest\",\"balance\",\"status\"\n")
	for _, inst := range installments {
		fmt.Fprintf(w, "\"%d\",\"%s\",\"%.0f\",\"%.0f\",\"%.0f\",\"%.0f\",\"%s\"\n",
			inst.Period,
			inst.DueDate.Format(constants.DateLayout),
			inst.Amount,
			inst.PrincipalPart,
			inst.InterestPart,
			inst.RemainingBalance,
			inst.Status,
		)
	}
}

// PrettyFormatProjection outputs the payoff projection as a month-by-month
// table followed by the headline numbers.
func PrettyFormatProjection(w io.Writer, result projection.Result) {
	fmt.Fprintf(w, "--- Debt payoff projection ---\n")
	fmt.Fprintf(w, "Month | Standard        | Accelerated     | Savings\n")
	fmt.Fprintf(w, "_____ | _______________ | _______________ | _______________\n")
	for _, point := range result.Series {
		fmt.Fprintf(w, "%5d | %15s | %15s | %15s\n",
			point.Month,
			FormatRupiah(point.StandardBalance),
			FormatRupiah(point.AcceleratedBalance),
			FormatRupiah(point.SavingsBalance),
		)
	}
	fmt.Fprintf(w, "\nDebt free in %d months instead of %d (%d months sooner), saving about %s\n",
		result.AcceleratedMonths, result.StandardMonths, result.MonthsSaved, FormatRupiah(result.MoneySaved))
	for name, date := range result.FinishDates {
		fmt.Fprintf(w, "  %s paid off %s\n", name, date)
	}
}

// CsvFormatProjection outputs the projection series in comma-separated value
// format.
func CsvFormatProjection(w io.Writer, result projection.Result) {
	fmt.Fprintf(w, "\"month\",\"standardBalance\",\"acceleratedBalance\",\"savingsBalance\"\n")
	for _, point := range result.Series {
		fmt.Fprintf(w, "\"%d\",\"%.0f\",\"%.0f\",\"%.0f\"\n",
			point.Month, point.StandardBalance, point.AcceleratedBalance, point.SavingsBalance)
	}
}

// PrettyFormatSimulation outputs the loan simulation cost breakdown and the
// first year of the amortization table.
func PrettyFormatSimulation(w io.Writer, result simulator.Result) {
	fmt.Fprintf(w, "--- Loan simulation ---\n")
	fmt.Fprintf(w, "Loan amount:     %s\n", FormatRupiah(result.LoanAmount))
	fmt.Fprintf(w, "Monthly payment: %s for %d months\n", FormatRupiah(result.MonthlyPayment), result.TenorMonths)
	fmt.Fprintf(w, "Upfront costs:   %s\n", FormatRupiah(result.UpfrontCosts.TotalUpfront))
	fmt.Fprintf(w, "  Down payment   %s\n", FormatRupiah(result.UpfrontCosts.DownPayment))
	fmt.Fprintf(w, "  Provision      %s\n", FormatRupiah(result.UpfrontCosts.Provision))
	fmt.Fprintf(w, "  Admin fee      %s\n", FormatRupiah(result.UpfrontCosts.AdminFee))
	fmt.Fprintf(w, "  Insurance      %s\n", FormatRupiah(result.UpfrontCosts.Insurance))
	fmt.Fprintf(w, "  Notary         %s\n", FormatRupiah(result.UpfrontCosts.NotaryFee))
	if result.DSR != nil {
		verdict := "over threshold"
		if result.DSR.WithinThreshold {
			verdict = "within threshold"
		}
		fmt.Fprintf(w, "DSR:             %.1f%% (%s %.1f%%)\n", result.DSR.Ratio, verdict, result.DSR.Threshold)
	}

	limit := len(result.Schedule)
	if limit > 12 {
		limit = 12
	}
	if limit > 0 {
		fmt.Fprintf(w, "\nPeriod | Amount          | Principal       | Interest        | Balance\n")
		fmt.Fprintf(w, "______ | _______________ | _______________ | _______________ | _______________\n")
		for _, p := range result.Schedule[:limit] {
			fmt.Fprintf(w, "%6d | %15s | %15s | %15s | %15s\n",
				p.Period, FormatRupiah(p.Amount), FormatRupiah(p.Principal), FormatRupiah(p.Interest), FormatRupiah(p.Balance))
		}
	}
}
