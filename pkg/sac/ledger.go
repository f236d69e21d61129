package sac

import "fmt"

// Payer holds one participant of a shared financing.
type Payer struct {
	// ID is the stable identifier used to key schedules. Display names may
	// repeat; IDs must not.
	ID string

	// Name is the display name and the join key for extra payments.
	Name string

	// DownPayment is the amount paid up front by this payer.
	DownPayment float64

	// OutstandingBalance is the payer's share of the financing after the down
	// payment. It is derived by SplitBalance and may be negative when the down
	// payment exceeds the equal share.
	OutstandingBalance float64
}

// Key returns the identifier used to key this payer's schedule, falling back
// to the display name when no ID was assigned.
func (p Payer) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.Name
}

// SplitBalance divides the total financed amount equally among the payers and
// subtracts each payer's down payment, storing the result in
// OutstandingBalance. The updated slice is returned for convenience.
//
// A down payment larger than the equal share produces a negative outstanding
// balance; the amortization engine clamps it to zero at the first month.
func SplitBalance(payers []Payer, totalBalance float64) ([]Payer, error) {
	if len(payers) == 0 {
		return nil, fmt.Errorf("%w: cannot split balance", ErrNoPayers)
	}

	share := totalBalance / float64(len(payers))
	for i := range payers {
		payers[i].OutstandingBalance = share - payers[i].DownPayment
	}
	return payers, nil
}
