package finance

import (
	"math"
	"time"
)

const tolerance = 1e-9

// monthly builds a series with one observation on the first of each month from start.
func monthly(name string, start time.Time, prices []float64) PriceSeries {
	s := PriceSeries{Name: name, Points: make([]Observation, len(prices))}
	for i, p := range prices {
		s.Points[i] = Observation{Date: start.AddDate(0, i, 0), Value: p}
	}
	return s
}

// geometric returns n prices growing by rate each month from 100.
func geometric(n int, rate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 * math.Pow(1+rate, float64(i))
	}
	return out
}

func jan(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// pathFromAnnual returns monthly prices, starting in January, whose January-to-January
// change in year k equals annual[k] percent.
func pathFromAnnual(annual []float64) []float64 {
	prices := []float64{100}
	for _, r := range annual {
		monthlyGrowth := math.Pow(1+r/100, 1.0/12)
		for m := 0; m < 12; m++ {
			prices = append(prices, prices[len(prices)-1]*monthlyGrowth)
		}
	}
	return prices
}
