package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"housingIndexMetrics/internal/finance"
)

// PrintTable writes a human-readable summary of the rows, returns in percent.
func PrintTable(w io.Writer, rows []finance.ResultRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Name\t1yr\t5yr\t10yr\tLong\tBeta\tExcess\tVol\tSharpe\t")
	for _, r := range rows {
		long := pct(r.LongTerm)
		if r.LongTermYears != 0 && r.LongTermYears != 30 {
			long += fmt.Sprintf(" (%dy)", r.LongTermYears)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Name, pct(r.OneYear), pct(r.FiveYear), pct(r.TenYear), long,
			num(r.Beta), pct(r.ExcessReturn), pct(r.Volatility), num(r.Sharpe))
	}
	return tw.Flush()
}

func pct(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return fmt.Sprintf("%.3f", v)
}
