package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"housingIndexMetrics/internal/finance"
)

// Undefined is written in place of a statistic that could not be computed.
const Undefined = "undefined"

// Header is the fixed column order of the results table.
var Header = []string{
	"Name",
	"1yr return",
	"5yr return",
	"10yr return",
	"30yr return",
	"30Y Annual Beta",
	"Excess Return",
	"Volatility",
	"Sharpe",
}

// Records converts result rows into CSV records in Header order.
func Records(rows []finance.ResultRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Name,
			formatFloat(r.OneYear),
			formatFloat(r.FiveYear),
			formatFloat(r.TenYear),
			formatFloat(r.LongTerm),
			formatFloat(r.Beta),
			formatFloat(r.ExcessReturn),
			formatFloat(r.Volatility),
			formatFloat(r.Sharpe),
		})
	}
	return out
}

// Write writes the header and one record per row to w.
func Write(w io.Writer, rows []finance.ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, rec := range Records(rows) {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the results table to path, replacing any existing file.
func WriteCSV(path string, rows []finance.ResultRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
