package finance

import (
	"math"
	"time"
)

// yoyChanges returns, for every observation, the percent change against the observation
// twelve positions earlier. The first twelve entries are NaN.
func yoyChanges(points []Observation) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		if i < monthsPerYear {
			out[i] = math.NaN()
			continue
		}
		out[i] = (points[i].Value/points[i-monthsPerYear].Value - 1) * 100
	}
	return out
}

// AnnualReturns samples the year-over-year changes of s at the anchor month.
// The first anchor observation is dropped and each return is labelled with the
// year it measures, i.e. the calendar year before the sampling date.
func AnnualReturns(s PriceSeries, anchor time.Month) []YearReturn {
	yoy := yoyChanges(s.Points)

	var out []YearReturn
	first := true
	for i, p := range s.Points {
		if p.Date.Month() != anchor {
			continue
		}
		if first {
			first = false
			continue
		}
		// anchor observation without a full year of lookback
		if math.IsNaN(yoy[i]) {
			continue
		}
		out = append(out, YearReturn{Year: p.Date.Year() - 1, Return: yoy[i]})
	}
	return out
}
