// Package simulation defines the data structures related to a simulation run
// and includes functions for computing the per-payer schedules.
package simulation

import (
	"fmt"
	"time"

	"github.com/haschdl/casa-finan/internal/config"
	"github.com/haschdl/casa-finan/pkg/datetime"
	"github.com/haschdl/casa-finan/pkg/sac"
	"go.uber.org/zap"
)

// PayerResult holds the schedule and the derived figures for one payer.
type PayerResult struct {
	PayerID          string
	PayerName        string
	DownPayment      float64
	StartingBalance  float64
	Rows             []sac.Row
	Summary          sac.Summary
	LastPaymentMonth int    // month of the last positive balance, 0 when there is none
	LastPaymentLabel string // "January/2006" label for LastPaymentMonth
}

// Result holds all information related to a simulated plan.
type Result struct {
	TotalBalance  float64
	AnnualRatePct float64
	TermMonths    int
	StartDate     time.Time
	Payers        []PayerResult
}

// MonthPoint carries every payer's balance for one month, in the same order
// as Result.Payers.
type MonthPoint struct {
	MonthIndex int
	MonthLabel string
	Balances   []float64
}

// Run processes the schedules for all payers of the plan. The plan is
// expected to be normalized.
func Run(logger *zap.Logger, plan config.Plan) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	payers, err := plan.Ledger()
	if err != nil {
		return nil, err
	}

	cfg, err := plan.EngineConfig()
	if err != nil {
		return nil, err
	}

	schedules, err := sac.NewGenerator(logger).GenerateSchedules(payers, cfg)
	if err != nil {
		return nil, err
	}

	result := Result{
		TotalBalance:  plan.TotalBalance,
		AnnualRatePct: plan.AnnualInterestRate,
		TermMonths:    plan.TermMonths,
		StartDate:     cfg.StartDate,
		Payers:        make([]PayerResult, 0, len(payers)),
	}
	for _, payer := range payers {
		rows, ok := schedules[payer.Key()]
		if !ok {
			return nil, fmt.Errorf("no schedule generated for payer %s", payer.Name)
		}

		payerResult := PayerResult{
			PayerID:         payer.ID,
			PayerName:       payer.Name,
			DownPayment:     payer.DownPayment,
			StartingBalance: payer.OutstandingBalance,
			Rows:            rows,
			Summary:         sac.Summarize(rows, cfg.ExtraPayments),
		}
		if month, active := sac.LastActiveMonth(rows); active {
			payerResult.LastPaymentMonth = month
			payerResult.LastPaymentLabel = datetime.MonthYearLabel(cfg.StartDate, month)
		}

		logger.Debug(fmt.Sprintf("simulated %d months for payer %s", len(rows), payer.Name),
			zap.String("op", "simulation.Run"),
		)
		result.Payers = append(result.Payers, payerResult)
	}

	return &result, nil
}

// MonthlySeries flattens the per-payer schedules into one point per month
// carrying the balances of every payer side by side.
func (r *Result) MonthlySeries() []MonthPoint {
	if len(r.Payers) == 0 {
		return nil
	}

	months := len(r.Payers[0].Rows)
	series := make([]MonthPoint, 0, months)
	for m := 0; m < months; m++ {
		point := MonthPoint{
			MonthIndex: r.Payers[0].Rows[m].MonthIndex,
			MonthLabel: r.Payers[0].Rows[m].MonthLabel,
			Balances:   make([]float64, len(r.Payers)),
		}
		for p := range r.Payers {
			point.Balances[p] = r.Payers[p].Rows[m].Balance
		}
		series = append(series, point)
	}
	return series
}
