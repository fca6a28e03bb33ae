package finance

import (
	"math"
	"time"
)

// Observation is a single dated value of a monthly price or a risk-free rate series.
type Observation struct {
	Date  time.Time
	Value float64
}

// PriceSeries is a named monthly index series, ascending by date with no duplicate dates.
type PriceSeries struct {
	Name   string
	Points []Observation
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// YearReturn is a year-over-year return (percent) labelled with the year it measures.
type YearReturn struct {
	Year   int
	Return float64
}

// MarketReturns maps a calendar year to the benchmark's annual return in percent.
type MarketReturns map[int]float64

// PeriodReturns holds the trailing annualized returns of a series.
type PeriodReturns struct {
	OneYear  float64
	FiveYear float64
	TenYear  float64
	// LongTerm is the 30-year return, or the 23-year return for short series.
	LongTerm      float64
	LongTermYears int
}

// BetaResult is the degree-1 least squares fit of index on market annual returns.
type BetaResult struct {
	Beta      float64
	Intercept float64
	Years     []int
	Market    []float64 // x
	Index     []float64 // y
}

// SharpeResult holds the risk-adjusted figures of a series.
// ExcessReturn and Volatility are fractions, Sharpe is dimensionless.
type SharpeResult struct {
	ExcessReturn float64
	Volatility   float64
	Sharpe       float64
	Years        int
}

// ResultRow is one line of the summary table.
type ResultRow struct {
	Name          string
	OneYear       float64
	FiveYear      float64
	TenYear       float64
	LongTerm      float64
	LongTermYears int
	Beta          float64
	ExcessReturn  float64
	Volatility    float64
	Sharpe        float64
}

// BetaDefined reports whether the beta column holds a usable number.
func (r ResultRow) BetaDefined() bool { return isFinite(r.Beta) }

// SharpeDefined reports whether the Sharpe column holds a usable number.
func (r ResultRow) SharpeDefined() bool { return isFinite(r.Sharpe) }

// SeriesError records a series that could not be evaluated in partial-results mode.
type SeriesError struct {
	Series string
	Err    error
}

func (e SeriesError) Error() string { return e.Series + ": " + e.Err.Error() }

func (e SeriesError) Unwrap() error { return e.Err }

// Report is the output of an engine run.
type Report struct {
	Rows     []ResultRow
	Failures []SeriesError
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
