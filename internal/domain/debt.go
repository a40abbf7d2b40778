// Package domain defines the debt data model shared by the schedule
// generator, projector, storage, and API layers.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rakhadi/utangku/pkg/datetime"
	"github.com/rakhadi/utangku/pkg/finance"
)

var (
	ErrDebtNotFound          = errors.New("debt not found")
	ErrDebtNameEmpty         = errors.New("debt name is required")
	ErrDebtPrincipalInvalid  = errors.New("original principal must be positive")
	ErrDebtDatesInvalid      = errors.New("start date must be before end date")
	ErrInstallmentNotFound   = errors.New("installment not found")
	ErrInstallmentBadPeriod  = errors.New("installment period must be positive")
	ErrCategoryInvalid       = errors.New("unknown loan category")
	ErrProjectionModeInvalid = errors.New("unknown projection mode")
)

// LoanCategory classifies a debt obligation.
type LoanCategory string

const (
	CategoryMortgage   LoanCategory = "KPR"
	CategoryVehicle    LoanCategory = "KENDARAAN"
	CategoryUnsecured  LoanCategory = "KTA"
	CategoryCreditCard LoanCategory = "KARTU_KREDIT"
)

// ValidCategory reports whether c is one of the supported loan categories.
func ValidCategory(c LoanCategory) bool {
	switch c {
	case CategoryMortgage, CategoryVehicle, CategoryUnsecured, CategoryCreditCard:
		return true
	}
	return false
}

// InstallmentStatus is the payment state of a single installment.
type InstallmentStatus string

const (
	StatusPending InstallmentStatus = "pending"
	StatusPaid    InstallmentStatus = "paid"
	StatusOverdue InstallmentStatus = "overdue"
)

// StepUpRange is one fixed-amount span of a step-up payment schedule.
// StartMonth and EndMonth are 1-indexed period numbers, inclusive.
type StepUpRange struct {
	StartMonth int     `json:"startMonth"`
	EndMonth   int     `json:"endMonth"`
	Amount     float64 `json:"amount"`
}

// StepUpSchedule is an ordered list of step-up ranges. Persisted rows and
// synced payloads may carry it either as a JSON array or as a JSON-encoded
// string; both forms decode to the structured list here, once, so the
// computational core never re-sniffs the representation. Anything that fails
// to parse decodes as an empty schedule.
type StepUpSchedule []StepUpRange

// UnmarshalJSON accepts either a structured array or a string containing the
// JSON encoding of one.
func (s *StepUpSchedule) UnmarshalJSON(data []byte) error {
	var ranges []StepUpRange
	if err := json.Unmarshal(data, &ranges); err == nil {
		*s = ranges
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &ranges); err == nil {
			*s = ranges
			return nil
		}
	}

	*s = nil
	return nil
}

// Value implements driver.Valuer so the schedule round-trips through a jsonb
// column.
func (s StepUpSchedule) Value() (driver.Value, error) {
	if len(s) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *StepUpSchedule) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StepUpSchedule: %T", value)
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}
	return s.UnmarshalJSON(data)
}

// AmountForPeriod returns the step-up amount whose range contains the
// 1-indexed period, or fallback when no range matches.
func (s StepUpSchedule) AmountForPeriod(period int, fallback float64) float64 {
	for _, r := range s {
		if period >= r.StartMonth && period <= r.EndMonth {
			return r.Amount
		}
	}
	return fallback
}

// ParseStepUpSchedule decodes raw JSON (array or string-wrapped array) into a
// schedule, degrading to empty on malformed input.
func ParseStepUpSchedule(raw json.RawMessage) StepUpSchedule {
	if len(raw) == 0 {
		return nil
	}
	var s StepUpSchedule
	_ = s.UnmarshalJSON(raw)
	return s
}

// DebtItem is a loan or credit obligation.
type DebtItem struct {
	ID                 string         `gorm:"primaryKey" json:"id"`
	UserID             string         `gorm:"index" json:"userId"`
	Name               string         `json:"name"`
	Category           LoanCategory   `json:"category"`
	OriginalPrincipal  float64        `json:"originalPrincipal"`
	RemainingPrincipal float64        `json:"remainingPrincipal"`
	InterestRate       float64        `json:"interestRate"`
	StartDate          time.Time      `json:"startDate"`
	EndDate            time.Time      `json:"endDate"`
	DueDay             int            `json:"dueDate"`
	MonthlyPayment     float64        `json:"monthlyPayment"`
	InterestStrategy   string         `json:"interestStrategy"`
	StepUpSchedule     StepUpSchedule `gorm:"type:jsonb" json:"stepUpSchedule,omitempty"`
	Deleted            bool           `json:"deleted"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// Validate checks the invariants required to persist a debt.
func (d *DebtItem) Validate() error {
	if d.Name == "" {
		return ErrDebtNameEmpty
	}
	if d.OriginalPrincipal <= 0 {
		return ErrDebtPrincipalInvalid
	}
	if !d.StartDate.Before(d.EndDate) {
		return ErrDebtDatesInvalid
	}
	if !ValidCategory(d.Category) {
		return ErrCategoryInvalid
	}
	return nil
}

// Schedulable reports whether the debt carries enough data to generate a
// schedule at all: parsed dates and a positive original principal. Malformed
// debts produce an empty schedule rather than an error.
func (d *DebtItem) Schedulable() bool {
	return !d.StartDate.IsZero() && !d.EndDate.IsZero() && d.OriginalPrincipal > 0
}

// TotalMonths is the scheduled life of the debt in whole months, floored at 1.
func (d *DebtItem) TotalMonths() int {
	months := datetime.MonthsBetween(d.StartDate, d.EndDate)
	if months < 1 {
		return 1
	}
	return months
}

// Strategy returns the normalized interest strategy.
func (d *DebtItem) Strategy() finance.Strategy {
	return finance.NormalizeStrategy(d.InterestStrategy)
}

// InstallmentID derives the deterministic identifier for one period of a
// debt, so generated rows and persisted payment records collide on purpose.
func InstallmentID(debtID string, period int) string {
	return fmt.Sprintf("%s-%d", debtID, period)
}

// DebtInstallment is one scheduled or historical period of a DebtItem.
type DebtInstallment struct {
	ID               string            `gorm:"primaryKey" json:"id"`
	DebtID           string            `gorm:"index" json:"debtId"`
	UserID           string            `gorm:"index" json:"userId"`
	Period           int               `json:"period"`
	DueDate          time.Time         `json:"dueDate"`
	Amount           float64           `json:"amount"`
	PrincipalPart    float64           `json:"principalPart"`
	InterestPart     float64           `json:"interestPart"`
	RemainingBalance float64           `json:"remainingBalance"`
	Status           InstallmentStatus `json:"status"`
}
