// Package validation provides plan validation utilities.
package validation

import (
	"fmt"
	"math"

	"github.com/haschdl/casa-finan/pkg/mathutil"
	"github.com/haschdl/casa-finan/pkg/sac"
)

// PayerInfo describes one payer for validation purposes.
type PayerInfo struct {
	Name        string
	DownPayment float64
}

// ExtraPaymentInfo describes one extra payment for validation purposes.
type ExtraPaymentInfo struct {
	Month  int
	Payer  string
	Amount *float64
}

// PlanInfo carries the plan parameters relevant for validation.
type PlanInfo struct {
	TotalBalance  float64
	AnnualRatePct float64
	TermMonths    int
	Payers        []PayerInfo
	ExtraPayments []ExtraPaymentInfo
}

// ValidatePlan checks the conditions that make a simulation impossible.
// Everything else is reported as a warning by PlanValidator.
func ValidatePlan(info PlanInfo) error {
	if len(info.Payers) == 0 {
		return fmt.Errorf("%w: the plan needs at least one payer", sac.ErrNoPayers)
	}
	if info.TermMonths <= 0 {
		return fmt.Errorf("%w: got %d", sac.ErrInvalidTerm, info.TermMonths)
	}
	if info.AnnualRatePct < 0 {
		return fmt.Errorf("annual interest rate must not be negative, got %.2f", info.AnnualRatePct)
	}
	return nil
}

// PlanValidator performs comprehensive plan validation
type PlanValidator struct {
	Plan PlanInfo
}

// ValidateAll validates the entire plan and returns warnings for conditions
// the simulation tolerates but the user probably did not intend.
func (pv *PlanValidator) ValidateAll() []string {
	var warnings []string

	if mathutil.IsNegative(pv.Plan.TotalBalance) {
		warnings = append(warnings, fmt.Sprintf("Total balance %.2f is negative - every payer starts below zero",
			pv.Plan.TotalBalance))
	}

	warnings = append(warnings, pv.validatePayers()...)
	warnings = append(warnings, pv.validateExtraPayments()...)

	return warnings
}

func (pv *PlanValidator) validatePayers() []string {
	var warnings []string

	seen := make(map[string]bool, len(pv.Plan.Payers))
	warned := make(map[string]bool)
	for _, payer := range pv.Plan.Payers {
		if seen[payer.Name] && !warned[payer.Name] {
			warned[payer.Name] = true
			warnings = append(warnings, fmt.Sprintf("Payer name '%s' is used more than once - extra payments naming it apply to each of them",
				payer.Name))
		}
		seen[payer.Name] = true
	}

	if len(pv.Plan.Payers) > 0 {
		share := pv.Plan.TotalBalance / float64(len(pv.Plan.Payers))
		for _, payer := range pv.Plan.Payers {
			if mathutil.IsPositive(payer.DownPayment - share) {
				warnings = append(warnings, fmt.Sprintf("Payer '%s' down payment %.2f exceeds the equal share %.2f - the starting balance is negative",
					payer.Name, payer.DownPayment, share))
			}
		}
	}

	return warnings
}

func (pv *PlanValidator) validateExtraPayments() []string {
	var warnings []string

	known := make(map[string]bool, len(pv.Plan.Payers))
	for _, payer := range pv.Plan.Payers {
		known[payer.Name] = true
	}

	for _, extra := range pv.Plan.ExtraPayments {
		if !known[extra.Payer] {
			warnings = append(warnings, fmt.Sprintf("Extra payment at month %d references unknown payer '%s' and will have no effect",
				extra.Month, extra.Payer))
		} else if pv.Plan.TermMonths > 0 && (extra.Month < 1 || extra.Month > pv.Plan.TermMonths) {
			warnings = append(warnings, fmt.Sprintf("Extra payment for '%s' at month %d falls outside the %d-month term and will have no effect",
				extra.Payer, extra.Month, pv.Plan.TermMonths))
		}

		if extra.Amount == nil || math.IsNaN(*extra.Amount) {
			warnings = append(warnings, fmt.Sprintf("Extra payment for '%s' at month %d has no amount and will be skipped",
				extra.Payer, extra.Month))
		} else if mathutil.IsNegative(*extra.Amount) {
			warnings = append(warnings, fmt.Sprintf("Extra payment for '%s' at month %d is negative and will increase the balance",
				extra.Payer, extra.Month))
		}
	}

	return warnings
}
