package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rakhadi/utangku/pkg/datetime"
	"github.com/rakhadi/utangku/pkg/finance"
)

func TestStepUpScheduleUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedLen int
		firstAmount float64
	}{
		{
			name:        "Structured array",
			input:       `[{"startMonth":1,"endMonth":12,"amount":500000},{"startMonth":13,"endMonth":24,"amount":750000}]`,
			expectedLen: 2,
			firstAmount: 500000,
		},
		{
			name:        "JSON-encoded string",
			input:       `"[{\"startMonth\":1,\"endMonth\":6,\"amount\":300000}]"`,
			expectedLen: 1,
			firstAmount: 300000,
		},
		{
			name:        "Empty array",
			input:       `[]`,
			expectedLen: 0,
		},
		{
			name:        "Garbage string degrades to empty",
			input:       `"not json at all"`,
			expectedLen: 0,
		},
		{
			name:        "Wrong shape degrades to empty",
			input:       `{"startMonth":1}`,
			expectedLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StepUpSchedule
			if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(s) != tt.expectedLen {
				t.Fatalf("len = %d, expected %d", len(s), tt.expectedLen)
			}
			if tt.expectedLen > 0 && s[0].Amount != tt.firstAmount {
				t.Errorf("first amount = %.2f, expected %.2f", s[0].Amount, tt.firstAmount)
			}
		})
	}
}

func TestStepUpScheduleScan(t *testing.T) {
	var s StepUpSchedule
	if err := s.Scan([]byte(`[{"startMonth":1,"endMonth":3,"amount":100000}]`)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(s) != 1 || s[0].EndMonth != 3 {
		t.Errorf("Scan() produced %+v, expected one range ending at month 3", s)
	}

	if err := s.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if s != nil {
		t.Errorf("Scan(nil) should reset the schedule")
	}

	if err := s.Scan(42); err == nil {
		t.Errorf("Scan(int) should return an error")
	}
}

func TestStepUpScheduleAmountForPeriod(t *testing.T) {
	schedule := StepUpSchedule{
		{StartMonth: 1, EndMonth: 12, Amount: 500000},
		{StartMonth: 13, EndMonth: 24, Amount: 750000},
	}

	tests := []struct {
		name     string
		period   int
		expected float64
	}{
		{"First range start", 1, 500000},
		{"First range end inclusive", 12, 500000},
		{"Second range", 20, 750000},
		{"Gap falls back", 25, 400000},
		{"Before all ranges falls back", 0, 400000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.AmountForPeriod(tt.period, 400000); got != tt.expected {
				t.Errorf("AmountForPeriod(%d) = %.2f, expected %.2f", tt.period, got, tt.expected)
			}
		})
	}
}

func TestDebtItemValidate(t *testing.T) {
	valid := DebtItem{
		Name:              "KPR Rumah",
		Category:          CategoryMortgage,
		OriginalPrincipal: 400000000,
		StartDate:         datetime.MustParseTime(datetime.DateLayout, "2024-01-10"),
		EndDate:           datetime.MustParseTime(datetime.DateLayout, "2039-01-10"),
	}

	tests := []struct {
		name     string
		mutate   func(d *DebtItem)
		expected error
	}{
		{"Valid debt", func(d *DebtItem) {}, nil},
		{"Empty name", func(d *DebtItem) { d.Name = "" }, ErrDebtNameEmpty},
		{"Zero principal", func(d *DebtItem) { d.OriginalPrincipal = 0 }, ErrDebtPrincipalInvalid},
		{"Dates reversed", func(d *DebtItem) { d.EndDate = d.StartDate.AddDate(-1, 0, 0) }, ErrDebtDatesInvalid},
		{"Bad category", func(d *DebtItem) { d.Category = "PINJOL" }, ErrCategoryInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			if err := d.Validate(); err != tt.expected {
				t.Errorf("Validate() = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestDebtItemTotalMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{"One year", "2024-01-10", "2025-01-10", 12},
		{"Day of month ignored", "2024-01-31", "2024-02-01", 1},
		{"Same month floors to one", "2024-03-01", "2024-03-20", 1},
		{"Fifteen years", "2024-01-01", "2039-01-01", 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DebtItem{
				StartDate: datetime.MustParseTime(datetime.DateLayout, tt.start),
				EndDate:   datetime.MustParseTime(datetime.DateLayout, tt.end),
			}
			if got := d.TotalMonths(); got != tt.expected {
				t.Errorf("TotalMonths() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestDebtItemSchedulable(t *testing.T) {
	d := DebtItem{
		OriginalPrincipal: 1000000,
		StartDate:         datetime.MustParseTime(datetime.DateLayout, "2024-01-01"),
		EndDate:           datetime.MustParseTime(datetime.DateLayout, "2025-01-01"),
	}
	if !d.Schedulable() {
		t.Errorf("Schedulable() = false for a complete debt")
	}

	missing := d
	missing.EndDate = time.Time{}
	if missing.Schedulable() {
		t.Errorf("Schedulable() = true with a zero end date")
	}

	broke := d
	broke.OriginalPrincipal = 0
	if broke.Schedulable() {
		t.Errorf("Schedulable() = true with zero principal")
	}
}

func TestDebtItemStrategy(t *testing.T) {
	d := DebtItem{InterestStrategy: "EFEKTIF"}
	if d.Strategy() != finance.StrategyAnnuity {
		t.Errorf("Strategy() = %s, expected annuity", d.Strategy())
	}
}
