package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/haschdl/casa-finan/pkg/sac"
)

func floatPtr(v float64) *float64 {
	return &v
}

func validPlanInfo() PlanInfo {
	return PlanInfo{
		TotalBalance:  450000,
		AnnualRatePct: 7.5,
		TermMonths:    120,
		Payers: []PayerInfo{
			{Name: "Pagador 1", DownPayment: 50000},
			{Name: "Pagador 2", DownPayment: 50000},
			{Name: "Pagador 3", DownPayment: 50000},
		},
		ExtraPayments: []ExtraPaymentInfo{
			{Month: 6, Payer: "Pagador 1", Amount: floatPtr(10000)},
		},
	}
}

func TestValidatePlan(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*PlanInfo)
		expectErr   bool
		sentinelErr error
	}{
		{
			name:      "Valid plan",
			mutate:    func(info *PlanInfo) {},
			expectErr: false,
		},
		{
			name:        "No payers",
			mutate:      func(info *PlanInfo) { info.Payers = nil },
			expectErr:   true,
			sentinelErr: sac.ErrNoPayers,
		},
		{
			name:        "Zero term",
			mutate:      func(info *PlanInfo) { info.TermMonths = 0 },
			expectErr:   true,
			sentinelErr: sac.ErrInvalidTerm,
		},
		{
			name:        "Negative term",
			mutate:      func(info *PlanInfo) { info.TermMonths = -6 },
			expectErr:   true,
			sentinelErr: sac.ErrInvalidTerm,
		},
		{
			name:      "Negative rate",
			mutate:    func(info *PlanInfo) { info.AnnualRatePct = -1 },
			expectErr: true,
		},
		{
			name:      "Zero rate is fine",
			mutate:    func(info *PlanInfo) { info.AnnualRatePct = 0 },
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := validPlanInfo()
			tt.mutate(&info)

			err := ValidatePlan(info)
			if tt.expectErr {
				if err == nil {
					t.Fatal("ValidatePlan() expected error but got none")
				}
				if tt.sentinelErr != nil && !errors.Is(err, tt.sentinelErr) {
					t.Errorf("ValidatePlan() error = %v, expected to wrap %v", err, tt.sentinelErr)
				}
			} else if err != nil {
				t.Errorf("ValidatePlan() unexpected error = %v", err)
			}
		})
	}
}

func TestPlanValidatorCleanPlan(t *testing.T) {
	validator := PlanValidator{Plan: validPlanInfo()}
	if warnings := validator.ValidateAll(); len(warnings) != 0 {
		t.Errorf("ValidateAll() = %v, expected no warnings", warnings)
	}
}

func TestPlanValidatorWarnings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*PlanInfo)
		contains string
	}{
		{
			name: "Unknown payer in extra payment",
			mutate: func(info *PlanInfo) {
				info.ExtraPayments = append(info.ExtraPayments,
					ExtraPaymentInfo{Month: 3, Payer: "Desconhecido", Amount: floatPtr(100)})
			},
			contains: "unknown payer 'Desconhecido'",
		},
		{
			name: "Month outside term",
			mutate: func(info *PlanInfo) {
				info.ExtraPayments = append(info.ExtraPayments,
					ExtraPaymentInfo{Month: 240, Payer: "Pagador 2", Amount: floatPtr(100)})
			},
			contains: "outside the 120-month term",
		},
		{
			name: "Month zero",
			mutate: func(info *PlanInfo) {
				info.ExtraPayments = append(info.ExtraPayments,
					ExtraPaymentInfo{Month: 0, Payer: "Pagador 2", Amount: floatPtr(100)})
			},
			contains: "outside the 120-month term",
		},
		{
			name: "Nil amount",
			mutate: func(info *PlanInfo) {
				info.ExtraPayments = append(info.ExtraPayments,
					ExtraPaymentInfo{Month: 3, Payer: "Pagador 2", Amount: nil})
			},
			contains: "has no amount",
		},
		{
			name: "NaN amount",
			mutate: func(info *PlanInfo) {
				info.ExtraPayments = append(info.ExtraPayments,
					ExtraPaymentInfo{Month: 3, Payer: "Pagador 2", Amount: floatPtr(math.NaN())})
			},
			contains: "has no amount",
		},
		{
			name: "Negative amount",
			mutate: func(info *PlanInfo) {
				info.ExtraPayments = append(info.ExtraPayments,
					ExtraPaymentInfo{Month: 3, Payer: "Pagador 2", Amount: floatPtr(-50)})
			},
			contains: "is negative",
		},
		{
			name: "Down payment above equal share",
			mutate: func(info *PlanInfo) {
				info.Payers[0].DownPayment = 200000
			},
			contains: "exceeds the equal share",
		},
		{
			name: "Duplicate payer names",
			mutate: func(info *PlanInfo) {
				info.Payers[1].Name = "Pagador 1"
			},
			contains: "used more than once",
		},
		{
			name: "Negative total balance",
			mutate: func(info *PlanInfo) {
				info.TotalBalance = -1000
			},
			contains: "is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := validPlanInfo()
			tt.mutate(&info)

			validator := PlanValidator{Plan: info}
			warnings := validator.ValidateAll()

			found := false
			for _, warning := range warnings {
				if strings.Contains(warning, tt.contains) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("ValidateAll() = %v, expected a warning containing %q", warnings, tt.contains)
			}
		})
	}
}

func TestPlanValidatorDuplicateNamesWarnOnce(t *testing.T) {
	info := validPlanInfo()
	info.Payers = []PayerInfo{
		{Name: "Pagador 1"},
		{Name: "Pagador 1"},
		{Name: "Pagador 1"},
	}

	validator := PlanValidator{Plan: info}
	warnings := validator.ValidateAll()

	count := 0
	for _, warning := range warnings {
		if strings.Contains(warning, "used more than once") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("ValidateAll() produced %d duplicate-name warnings, expected 1", count)
	}
}
