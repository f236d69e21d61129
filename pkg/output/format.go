// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"fmt"
	"strings"

	"github.com/haschdl/casa-finan/internal/simulation"
	"github.com/haschdl/casa-finan/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(result *simulation.Result) {
	p := message.NewPrinter(language.BrazilianPortuguese)
	fmt.Printf("Financing %s over %d months starting %s\n\n",
		format.Currency(result.TotalBalance), result.TermMonths, result.StartDate.Format("2006-01-02"))
	for i, payer := range result.Payers {
		fmt.Printf("--- Schedule for payer %s ---\n", payer.PayerName)
		fmt.Printf("Month | Date    | Balance (R$)  | Amortization (R$) | Interest (R$) | Installment (R$)\n")
		fmt.Printf("_____ | ____    | ____________  | _________________ | _____________ | ________________\n")
		for _, row := range payer.Rows {
			_, _ = p.Printf("%d | %s | %.2f | %.2f | %.2f | %.2f\n",
				row.MonthIndex, row.MonthLabel, row.Balance, row.Amortization, row.Interest, row.Installment)
		}
		fmt.Printf("\n")
		printPayerSummary(payer)
		if i < len(result.Payers)-1 {
			fmt.Printf("\n")
		}
	}
}

func printPayerSummary(payer simulation.PayerResult) {
	fmt.Printf("Down payment:      %s\n", format.Currency(payer.DownPayment))
	fmt.Printf("Starting balance:  %s\n", format.Currency(payer.StartingBalance))
	fmt.Printf("First installment: %s\n", format.Currency(payer.Summary.FirstInstallment))
	fmt.Printf("Last installment:  %s\n", format.Currency(payer.Summary.LastInstallment))
	fmt.Printf("Total interest:    %s\n", format.Currency(payer.Summary.TotalInterest))
	fmt.Printf("Extra payments:    %s\n", format.Currency(payer.Summary.TotalExtraPayments))
	fmt.Printf("Total paid:        %s\n", format.Currency(payer.Summary.TotalPaid))
	if payer.LastPaymentMonth > 0 {
		fmt.Printf("Last payment:      month %d (%s)\n", payer.LastPaymentMonth, payer.LastPaymentLabel)
	} else {
		fmt.Printf("Last payment:      none\n")
	}
}

// CsvString renders every payer's schedule in comma-separated value format,
// one row per payer and month.
func CsvString(result *simulation.Result) string {
	var b strings.Builder
	b.WriteString(`"payer","month","date","balance","amortization","interest","installment"`)
	b.WriteString("\n")
	for _, payer := range result.Payers {
		for _, row := range payer.Rows {
			fmt.Fprintf(&b, `"%s","%d","%s","%.2f","%.2f","%.2f","%.2f"`,
				payer.PayerName, row.MonthIndex, row.MonthLabel,
				row.Balance, row.Amortization, row.Interest, row.Installment)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *simulation.Result) {
	fmt.Print(CsvString(result))
}
