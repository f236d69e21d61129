// Package sac implements constant-amortization (SAC) schedule generation for
// financings shared by multiple payers. Each payer amortizes an equal share
// of the total balance, reduced by an individual down payment, and may apply
// ad-hoc extra payments on specific months.
package sac

import (
	"fmt"
	"math"
	"time"

	"github.com/haschdl/casa-finan/pkg/constants"
	"github.com/haschdl/casa-finan/pkg/datetime"
	"go.uber.org/zap"
)

// ExtraPayment is an ad-hoc balance reduction applied on a specific month.
type ExtraPayment struct {
	// Month is the 1-based month index the payment lands on. Entries whose
	// month never occurs within the term have no effect.
	Month int

	// PayerName selects the payer by display name. Names that match no payer
	// are silently ignored.
	PayerName string

	// Amount is optional; a nil or NaN amount leaves the schedule untouched.
	// Negative amounts are applied as given and increase the balance.
	Amount *float64
}

// Row is one month of one payer's schedule.
type Row struct {
	PayerID    string
	PayerName  string
	MonthIndex int    // 1-based
	MonthLabel string // "2006-01", start date offset by MonthIndex months

	// Balance is the outstanding balance after this month's amortization,
	// extra payments, and the floor-at-zero clamp.
	Balance float64

	// Amortization is the fixed monthly principal portion
	// (starting balance / term).
	Amortization float64

	// Interest is the interest accrued on the balance carried into the month.
	Interest float64

	// Installment is Amortization + Interest, computed before this month's
	// deductions are applied.
	Installment float64
}

// Config holds the shared parameters of a simulation run.
type Config struct {
	// AnnualRatePct is the nominal annual interest rate in percent (7.5 means
	// 7.5% per year).
	AnnualRatePct float64

	// TermMonths is the number of monthly installments.
	TermMonths int

	// StartDate anchors the calendar labels; month m is labeled with the
	// month reached m calendar months after it, clamping the day.
	StartDate time.Time

	// ExtraPayments apply to whichever payer each entry names, in the order
	// they appear here.
	ExtraPayments []ExtraPayment
}

// MonthlyRate returns the monthly interest rate as a fraction.
func (c Config) MonthlyRate() float64 {
	return c.AnnualRatePct / constants.PercentageMultiplier / constants.MonthsPerYear
}

// Generator produces amortization schedules.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new schedule generator.
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{logger: logger}
}

// GenerateSchedule computes the full schedule for a single payer. For each of
// the term's months it accrues interest on the carried balance, reports the
// installment as amortization plus that interest, subtracts the fixed
// amortization, then subtracts every matching extra payment in schedule
// order, and finally clamps a negative balance to zero.
//
// The fixed amortization is derived once from the starting balance, so months
// after the balance reaches zero still report it as the installment with zero
// interest. Callers that need the real payoff point should use
// LastActiveMonth rather than scanning for the last non-zero installment.
func (g *Generator) GenerateSchedule(payer Payer, cfg Config) ([]Row, error) {
	if cfg.TermMonths <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTerm, cfg.TermMonths)
	}

	monthlyRate := cfg.MonthlyRate()
	amortization := payer.OutstandingBalance / float64(cfg.TermMonths)
	balance := payer.OutstandingBalance

	rows := make([]Row, 0, cfg.TermMonths)
	paidOff := false
	for month := 1; month <= cfg.TermMonths; month++ {
		interest := balance * monthlyRate
		installment := amortization + interest
		balance -= amortization

		for _, extra := range cfg.ExtraPayments {
			if extra.Month != month || extra.PayerName != payer.Name {
				continue
			}
			if extra.Amount == nil || math.IsNaN(*extra.Amount) {
				continue
			}
			g.logger.Debug(fmt.Sprintf("month %d: applying extra payment %.2f for payer %s",
				month, *extra.Amount, payer.Name),
				zap.String("op", "sac.GenerateSchedule"),
			)
			balance -= *extra.Amount
		}

		if balance < 0 {
			balance = 0
		}
		if !paidOff && balance == 0 {
			paidOff = true
			g.logger.Debug(fmt.Sprintf("payer %s reached zero balance at month %d", payer.Name, month),
				zap.String("op", "sac.GenerateSchedule"),
			)
		}

		rows = append(rows, Row{
			PayerID:      payer.ID,
			PayerName:    payer.Name,
			MonthIndex:   month,
			MonthLabel:   datetime.MonthLabel(cfg.StartDate, month),
			Balance:      balance,
			Amortization: amortization,
			Interest:     interest,
			Installment:  installment,
		})
	}

	return rows, nil
}

// GenerateSchedules computes the schedule for every payer in the ledger,
// keyed by payer ID (or name when no ID was assigned). Payers must carry
// unique keys; Plan normalization assigns UUIDs for exactly this reason.
func (g *Generator) GenerateSchedules(payers []Payer, cfg Config) (map[string][]Row, error) {
	if len(payers) == 0 {
		return nil, fmt.Errorf("%w: nothing to simulate", ErrNoPayers)
	}

	schedules := make(map[string][]Row, len(payers))
	for _, payer := range payers {
		rows, err := g.GenerateSchedule(payer, cfg)
		if err != nil {
			return nil, err
		}
		schedules[payer.Key()] = rows
	}
	return schedules, nil
}
