package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/haschdl/casa-finan/internal/simulation"
	"github.com/haschdl/casa-finan/pkg/datetime"
	"github.com/haschdl/casa-finan/pkg/sac"
)

func sampleResult() *simulation.Result {
	return &simulation.Result{
		TotalBalance:  3600.00,
		AnnualRatePct: 12.0,
		TermMonths:    2,
		StartDate:     datetime.MustParseTime(datetime.StartDateLayout, "2026-01-31"),
		Payers: []simulation.PayerResult{
			{
				PayerID:         "id-1",
				PayerName:       "Pagador 1",
				DownPayment:     200.00,
				StartingBalance: 1000.00,
				Rows: []sac.Row{
					{PayerID: "id-1", PayerName: "Pagador 1", MonthIndex: 1, MonthLabel: "2026-02",
						Balance: 900.00, Amortization: 100.00, Interest: 10.00, Installment: 110.00},
					{PayerID: "id-1", PayerName: "Pagador 1", MonthIndex: 2, MonthLabel: "2026-03",
						Balance: 800.00, Amortization: 100.00, Interest: 9.00, Installment: 109.00},
				},
				Summary: sac.Summary{
					FirstInstallment: 110.00,
					LastInstallment:  109.00,
					TotalPaid:        219.00,
					TotalInterest:    19.00,
				},
				LastPaymentMonth: 2,
				LastPaymentLabel: "March/2026",
			},
			{
				PayerID:   "id-2",
				PayerName: "Pagador 2",
				Rows: []sac.Row{
					{PayerID: "id-2", PayerName: "Pagador 2", MonthIndex: 1, MonthLabel: "2026-02"},
				},
			},
		},
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrettyFormat(t *testing.T) {
	output := captureStdout(t, func() {
		PrettyFormat(sampleResult())
	})

	if !strings.Contains(output, "Financing R$ 3.600,00 over 2 months starting 2026-01-31") {
		t.Errorf("PrettyFormat missing plan header, got:\n%s", output)
	}
	if !strings.Contains(output, "--- Schedule for payer Pagador 1 ---") {
		t.Errorf("PrettyFormat missing payer header")
	}
	if !strings.Contains(output, "Month | Date    | Balance (R$)") {
		t.Errorf("PrettyFormat missing table header")
	}
	// Amounts in the table follow the Brazilian number format.
	if !strings.Contains(output, "1 | 2026-02 | 900,00 | 100,00 | 10,00 | 110,00") {
		t.Errorf("PrettyFormat missing first schedule row, got:\n%s", output)
	}
	if !strings.Contains(output, "Starting balance:  R$ 1.000,00") {
		t.Errorf("PrettyFormat missing starting balance")
	}
	if !strings.Contains(output, "Total interest:    R$ 19,00") {
		t.Errorf("PrettyFormat missing total interest")
	}
	if !strings.Contains(output, "Last payment:      month 2 (March/2026)") {
		t.Errorf("PrettyFormat missing last payment line")
	}
	// The second payer never has a positive balance.
	if !strings.Contains(output, "Last payment:      none") {
		t.Errorf("PrettyFormat missing empty last payment line")
	}
}

func TestCsvString(t *testing.T) {
	got := CsvString(sampleResult())

	want := `"payer","month","date","balance","amortization","interest","installment"
"Pagador 1","1","2026-02","900.00","100.00","10.00","110.00"
"Pagador 1","2","2026-03","800.00","100.00","9.00","109.00"
"Pagador 2","1","2026-02","0.00","0.00","0.00","0.00"
`
	if got != want {
		t.Errorf("CsvString() = %q, expected %q", got, want)
	}
}

func TestCsvFormat(t *testing.T) {
	result := sampleResult()

	output := captureStdout(t, func() {
		CsvFormat(result)
	})

	if output != CsvString(result) {
		t.Errorf("CsvFormat output %q differs from CsvString %q", output, CsvString(result))
	}
}

func TestCsvStringEmptyResult(t *testing.T) {
	got := CsvString(&simulation.Result{})

	want := `"payer","month","date","balance","amortization","interest","installment"` + "\n"
	if got != want {
		t.Errorf("CsvString() = %q, expected header only", got)
	}
}
