package sac

import "errors"

var (
	// ErrNoPayers indicates a simulation was requested with an empty ledger.
	ErrNoPayers = errors.New("no payers in ledger")

	// ErrInvalidTerm indicates a non-positive financing term.
	ErrInvalidTerm = errors.New("term must be a positive number of months")
)
