// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/haschdl/casa-finan/internal/simulation"
)

// FindPayer finds a payer result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindPayer(results []simulation.PayerResult, name string) *simulation.PayerResult {
	for i := range results {
		if results[i].PayerName == name {
			return &results[i]
		}
	}
	return nil
}
