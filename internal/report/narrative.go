package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Footer sentences appended to the narrative based on the tolerance
// check.
const (
	WarningSentence     = "WARNING: Variance exceeds 5% threshold. Management review required."
	InToleranceSentence = "Variance within acceptable tolerance."
)

var printer = message.NewPrinter(language.English)

// Narrative renders the fixed reconciliation template around the
// summary figures: currency with thousands separators and 2 decimals,
// rates with 1 decimal, variance percentage with 2 decimals.
func Narrative(s Summary) string {
	var b strings.Builder

	printer.Fprintf(&b, "Y-14M CREDIT CARD PORTFOLIO SUMMARY\n")
	printer.Fprintf(&b, "Reporting Date: %s\n", s.ReportingDate)
	printer.Fprintf(&b, "Product Code: %s\n\n", s.ProductCode)

	printer.Fprintf(&b, "PORTFOLIO METRICS:\n")
	printer.Fprintf(&b, "- Total Outstanding Balances: %s\n", currency(s.TotalBalance))
	printer.Fprintf(&b, "- Average Revolving Utilization: %.1f%%\n", pct(s.MeanUtilization))
	printer.Fprintf(&b, "- Delinquency Incidence (30-59 DPD): %.1f%%\n", pct(s.DelinquencyRate))
	printer.Fprintf(&b, "- Number of Accounts: %d\n\n", s.AccountCount)

	printer.Fprintf(&b, "CONTROL RECONCILIATION:\n")
	printer.Fprintf(&b, "- General Ledger Control Total: %s\n", currency(s.ControlTotal))
	printer.Fprintf(&b, "- Reported Balance: %s\n", currency(s.TotalBalance))
	printer.Fprintf(&b, "- Variance: %s (%.2f%%)\n", currency(s.VarianceAmount), s.VariancePct.InexactFloat64())

	b.WriteString("\n")
	if s.ExceedsTolerance {
		b.WriteString(WarningSentence)
	} else {
		b.WriteString(InToleranceSentence)
	}
	return b.String()
}

// Attestation renders the management sign-off draft for the summary.
func Attestation(s Summary) string {
	relation := "matches"
	if !s.VariancePct.IsZero() {
		relation = "differs from"
	}

	var b strings.Builder
	printer.Fprintf(&b, "ATTESTATION (Management Review)\n")
	printer.Fprintf(&b, "Reporting Date: %s\n", s.ReportingDate)
	printer.Fprintf(&b, "Product: %s\n\n", s.ProductCode)
	printer.Fprintf(&b,
		"I acknowledge that the reported balance of %s %s the GL control total of %s with a variance of %.2f%%.\n",
		currency(s.TotalBalance), relation, currency(s.ControlTotal), s.VariancePct.InexactFloat64())
	b.WriteString("Variance drivers (if any): _______________________________________\n\n")
	b.WriteString("Approved by: ____________________        Title: ________________\n")
	b.WriteString("Date: ___________________________")
	return b.String()
}

// currency formats a decimal as dollars with grouping and 2 decimals.
func currency(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.InexactFloat64())
}

// pct converts a fractional rate to display percent.
func pct(d decimal.Decimal) float64 {
	return d.Mul(decimal.NewFromInt(100)).InexactFloat64()
}
