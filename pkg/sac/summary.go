package sac

import "math"

// LastActiveMonth returns the greatest month index whose post-deduction
// balance is still positive. The boolean is false when no month carried a
// positive balance, which happens when the starting balance is zero or
// negative (down payment at or above the equal share).
func LastActiveMonth(rows []Row) (int, bool) {
	last := 0
	for _, row := range rows {
		if row.Balance > 0 && row.MonthIndex > last {
			last = row.MonthIndex
		}
	}
	if last == 0 {
		return 0, false
	}
	return last, true
}

// Summary aggregates one payer's schedule.
type Summary struct {
	FirstInstallment   float64
	LastInstallment    float64
	TotalPaid          float64 // sum of installments over the whole term
	TotalInterest      float64
	TotalExtraPayments float64 // matched, non-nil, non-NaN extras only
}

// Summarize computes totals for one payer's schedule. Extra payments are
// counted when they name the schedule's payer and land on a month within the
// schedule, mirroring what the engine actually applied.
func Summarize(rows []Row, extras []ExtraPayment) Summary {
	var summary Summary
	if len(rows) == 0 {
		return summary
	}

	summary.FirstInstallment = rows[0].Installment
	summary.LastInstallment = rows[len(rows)-1].Installment
	for _, row := range rows {
		summary.TotalPaid += row.Installment
		summary.TotalInterest += row.Interest
	}

	payerName := rows[0].PayerName
	for _, extra := range extras {
		if extra.PayerName != payerName || extra.Month < 1 || extra.Month > len(rows) {
			continue
		}
		if extra.Amount == nil || math.IsNaN(*extra.Amount) {
			continue
		}
		summary.TotalExtraPayments += *extra.Amount
	}

	return summary
}
