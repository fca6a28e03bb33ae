package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"housingIndexMetrics/internal/finance"
)

// missingRate marks a risk-free observation without data.
const missingRate = "."

// DiscoverSeries lists the CSV files of dir in file-name order.
func DiscoverSeries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read series dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// SeriesName derives a series name from its file path: the base name minus extension.
func SeriesName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadPriceSeries reads a two-column date,price file. Dates must be strictly ascending.
func LoadPriceSeries(path string) (finance.PriceSeries, error) {
	t, err := readTable(path)
	if err != nil {
		return finance.PriceSeries{}, err
	}
	if len(t.header) < 2 {
		return finance.PriceSeries{}, &ParseError{File: path, Err: fmt.Errorf("expected date and price columns, found %d", len(t.header))}
	}
	dateCol, err := t.column("date")
	if err != nil {
		dateCol = 0
	}
	priceCol := 1
	if dateCol == 1 {
		priceCol = 0
	}
	dateName, priceName := t.header[dateCol], t.header[priceCol]

	s := finance.PriceSeries{Name: SeriesName(path), Points: make([]finance.Observation, 0, len(t.records))}
	for i := range t.records {
		d, err := t.date(i, dateCol, dateName)
		if err != nil {
			return finance.PriceSeries{}, err
		}
		v, err := t.float(i, priceCol, priceName)
		if err != nil {
			return finance.PriceSeries{}, err
		}
		if n := len(s.Points); n > 0 && !d.After(s.Points[n-1].Date) {
			return finance.PriceSeries{}, &ParseError{File: path, Row: t.row(i), Column: dateName,
				Err: fmt.Errorf("date %s not after %s", d.Format("2006-01-02"), s.Points[n-1].Date.Format("2006-01-02"))}
		}
		s.Points = append(s.Points, finance.Observation{Date: d, Value: v})
	}
	return s, nil
}

// LoadSeriesDir loads every series file of dir in file-name order.
func LoadSeriesDir(dir string) ([]finance.PriceSeries, error) {
	paths, err := DiscoverSeries(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no series files in %s", dir)
	}
	out := make([]finance.PriceSeries, 0, len(paths))
	for _, p := range paths {
		s, err := LoadPriceSeries(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadRiskFree reads the DATE,DTB3 rate file, skipping rows whose rate is ".".
func LoadRiskFree(path string) ([]finance.Observation, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	dateCol, err := t.column("DATE")
	if err != nil {
		return nil, err
	}
	rateCol, err := t.column("DTB3")
	if err != nil {
		return nil, err
	}

	out := make([]finance.Observation, 0, len(t.records))
	for i := range t.records {
		raw, err := t.cell(i, rateCol, "DTB3")
		if err != nil {
			return nil, err
		}
		if raw == missingRate {
			continue
		}
		d, err := t.date(i, dateCol, "DATE")
		if err != nil {
			return nil, err
		}
		v, err := t.float(i, rateCol, "DTB3")
		if err != nil {
			return nil, err
		}
		out = append(out, finance.Observation{Date: d, Value: v})
	}
	if len(out) == 0 {
		return nil, &ParseError{File: path, Err: errors.New("no valid rate observations")}
	}
	return out, nil
}

// LoadMarketReturns reads the Year,Return benchmark file.
func LoadMarketReturns(path string) (finance.MarketReturns, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	yearCol, err := t.column("Year")
	if err != nil {
		return nil, err
	}
	retCol, err := t.column("Return")
	if err != nil {
		return nil, err
	}

	out := make(finance.MarketReturns, len(t.records))
	for i := range t.records {
		raw, err := t.cell(i, yearCol, "Year")
		if err != nil {
			return nil, err
		}
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ParseError{File: path, Row: t.row(i), Column: "Year", Err: fmt.Errorf("invalid year %q", raw)}
		}
		if _, dup := out[year]; dup {
			return nil, &ParseError{File: path, Row: t.row(i), Column: "Year", Err: fmt.Errorf("duplicate year %d", year)}
		}
		v, err := t.float(i, retCol, "Return")
		if err != nil {
			return nil, err
		}
		out[year] = v
	}
	return out, nil
}
