package finance

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

const minOverlapYears = 2

// EstimateBeta regresses the series' annual returns on the market's annual returns over
// the years both cover. The slope of the fit is the beta.
func EstimateBeta(name string, annual []YearReturn, market MarketReturns) (BetaResult, error) {
	years, index, mkt := joinByYear(annual, market)
	if len(years) < minOverlapYears {
		return BetaResult{}, &OverlapError{Series: name, Statistic: "beta", Need: minOverlapYears, Have: len(years)}
	}

	alpha, beta := stat.LinearRegression(mkt, index, nil, false)
	res := BetaResult{
		Beta:      beta,
		Intercept: alpha,
		Years:     years,
		Market:    mkt,
		Index:     index,
	}
	if !isFinite(beta) {
		return res, fmt.Errorf("%s: beta is %v, market returns have no variance: %w", name, beta, ErrDegenerateStatistics)
	}
	return res, nil
}
