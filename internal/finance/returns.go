package finance

import "math"

const (
	monthsPerYear = 12
	// Series shorter than this use the shortLongHorizon instead of 30 years.
	longHorizonMinLen = 360
	longHorizon       = 30
	shortLongHorizon  = 23
)

// CalculateAPR returns the compound annual growth rate between two prices:
// (current/past)^(1/years) - 1. Zero or negative inputs follow IEEE-754 semantics.
func CalculateAPR(current, past, years float64) float64 {
	return math.Pow(current/past, 1/years) - 1
}

// ExtractPeriodReturns computes the trailing 1, 5, 10 and 30-year annualized returns,
// measured back from the last observation. Series with fewer than 360 observations
// report a 23-year return in place of the 30-year one.
func ExtractPeriodReturns(s PriceSeries) (PeriodReturns, error) {
	if len(s.Points) == 0 {
		return PeriodReturns{}, &HistoryError{Series: s.Name, Horizon: 1, Need: monthsPerYear + 1}
	}
	current := s.Points[len(s.Points)-1].Value

	annualized := func(years int) (float64, error) {
		past, err := priceMonthsBack(s, years*monthsPerYear)
		if err != nil {
			return 0, err
		}
		return CalculateAPR(current, past, float64(years)), nil
	}

	var out PeriodReturns
	var err error
	if out.OneYear, err = annualized(1); err != nil {
		return PeriodReturns{}, err
	}
	if out.FiveYear, err = annualized(5); err != nil {
		return PeriodReturns{}, err
	}
	if out.TenYear, err = annualized(10); err != nil {
		return PeriodReturns{}, err
	}

	out.LongTermYears = shortLongHorizon
	if len(s.Points) >= longHorizonMinLen {
		out.LongTermYears = longHorizon
	}
	if out.LongTerm, err = annualized(out.LongTermYears); err != nil {
		return PeriodReturns{}, err
	}
	return out, nil
}

// priceMonthsBack returns the price the given number of months before the last observation.
func priceMonthsBack(s PriceSeries, months int) (float64, error) {
	idx := len(s.Points) - 1 - months
	if idx < 0 {
		return 0, &HistoryError{
			Series:  s.Name,
			Horizon: months / monthsPerYear,
			Need:    months + 1,
			Have:    len(s.Points),
		}
	}
	return s.Points[idx].Value, nil
}
