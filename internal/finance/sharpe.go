package finance

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Volatility below this fraction of the mean excess return is treated as zero; summing
// identical values does not always reproduce them exactly.
const volatilityTolerance = 1e-12

// AnnualRiskFree averages the risk-free observations of each calendar year.
func AnnualRiskFree(obs []Observation) map[int]float64 {
	byYear := map[int][]float64{}
	for _, o := range obs {
		y := o.Date.Year()
		byYear[y] = append(byYear[y], o.Value)
	}
	out := make(map[int]float64, len(byYear))
	for y, vals := range byYear {
		out[y] = stat.Mean(vals, nil)
	}
	return out
}

// RiskFreeYears returns the years covered by an annual risk-free table, ascending.
func RiskFreeYears(rf map[int]float64) []int {
	years := make([]int, 0, len(rf))
	for y := range rf {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// EstimateSharpe computes the mean and population standard deviation of the yearly excess
// returns over the risk-free rate and their ratio. The ratio is taken in percentage points;
// the mean and volatility are returned as fractions.
//
// When the excess returns have no dispersion the result carries the mean and volatility,
// Sharpe is NaN and the error wraps ErrDegenerateStatistics.
func EstimateSharpe(name string, annual []YearReturn, riskFree map[int]float64) (SharpeResult, error) {
	years, index, rf := joinByYear(annual, riskFree)
	if len(years) < minOverlapYears {
		return SharpeResult{}, &OverlapError{Series: name, Statistic: "sharpe", Need: minOverlapYears, Have: len(years)}
	}

	excess := make([]float64, len(years))
	for i := range years {
		excess[i] = index[i] - rf[i]
	}

	mean, vol := stat.PopMeanStdDev(excess, nil)
	if !isFinite(mean) || !isFinite(vol) {
		nan := math.NaN()
		err := fmt.Errorf("%s: invalid excess return statistics (mean %v, volatility %v): %w",
			name, mean, vol, ErrDegenerateStatistics)
		return SharpeResult{ExcessReturn: nan, Volatility: nan, Sharpe: nan, Years: len(years)}, err
	}

	res := SharpeResult{
		ExcessReturn: mean / 100,
		Volatility:   vol / 100,
		Years:        len(years),
	}
	if vol <= volatilityTolerance*math.Max(1, math.Abs(mean)) {
		res.Volatility = 0
		res.Sharpe = math.NaN()
		return res, fmt.Errorf("%s: excess returns have zero volatility: %w", name, ErrDegenerateStatistics)
	}
	res.Sharpe = mean / vol
	return res, nil
}
