package config

import (
	"github.com/haschdl/casa-finan/pkg/sac"
	"github.com/haschdl/casa-finan/pkg/validation"
)

// Ledger converts the plan's payers into engine payers with their share of
// the total balance already split.
func (plan *Plan) Ledger() ([]sac.Payer, error) {
	payers := make([]sac.Payer, len(plan.Payers))
	for i, payer := range plan.Payers {
		payers[i] = sac.Payer{
			ID:          payer.ID,
			Name:        payer.Name,
			DownPayment: payer.DownPayment,
		}
	}
	return sac.SplitBalance(payers, plan.TotalBalance)
}

// EngineConfig converts the plan parameters into the engine configuration.
func (plan *Plan) EngineConfig() (sac.Config, error) {
	start, err := plan.StartTime()
	if err != nil {
		return sac.Config{}, err
	}

	extras := make([]sac.ExtraPayment, len(plan.ExtraPayments))
	for i, extra := range plan.ExtraPayments {
		extras[i] = sac.ExtraPayment{
			Month:     extra.Month,
			PayerName: extra.Payer,
			Amount:    extra.Amount,
		}
	}

	return sac.Config{
		AnnualRatePct: plan.AnnualInterestRate,
		TermMonths:    plan.TermMonths,
		StartDate:     start,
		ExtraPayments: extras,
	}, nil
}

// Validate reports the first condition that makes the plan impossible to
// simulate, or nil.
func (plan *Plan) Validate() error {
	return validation.ValidatePlan(plan.validationInfo())
}

// Warnings performs general validation of the plan and returns warnings
func (plan *Plan) Warnings() []string {
	validator := validation.PlanValidator{Plan: plan.validationInfo()}
	return validator.ValidateAll()
}

func (plan *Plan) validationInfo() validation.PlanInfo {
	payers := make([]validation.PayerInfo, len(plan.Payers))
	for i, payer := range plan.Payers {
		payers[i] = validation.PayerInfo{
			Name:        payer.Name,
			DownPayment: payer.DownPayment,
		}
	}

	extras := make([]validation.ExtraPaymentInfo, len(plan.ExtraPayments))
	for i, extra := range plan.ExtraPayments {
		extras[i] = validation.ExtraPaymentInfo{
			Month:  extra.Month,
			Payer:  extra.Payer,
			Amount: extra.Amount,
		}
	}

	return validation.PlanInfo{
		TotalBalance:  plan.TotalBalance,
		AnnualRatePct: plan.AnnualInterestRate,
		TermMonths:    plan.TermMonths,
		Payers:        payers,
		ExtraPayments: extras,
	}
}
