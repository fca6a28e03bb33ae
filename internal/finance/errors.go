package finance

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientHistory is returned when a lookback offset runs past the start of a series.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrInsufficientOverlap is returned when too few years are shared with a reference series.
	ErrInsufficientOverlap = errors.New("insufficient overlap")
	// ErrDegenerateStatistics is returned when a statistic is undefined, e.g. zero volatility.
	ErrDegenerateStatistics = errors.New("degenerate statistics")
)

// HistoryError identifies the series and horizon that ran out of observations.
type HistoryError struct {
	Series  string
	Horizon int // years
	Need    int // observations
	Have    int
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("%s: %d-year horizon needs %d observations, have %d: %v",
		e.Series, e.Horizon, e.Need, e.Have, ErrInsufficientHistory)
}

func (e *HistoryError) Unwrap() error { return ErrInsufficientHistory }

// OverlapError identifies the statistic that could not be estimated.
type OverlapError struct {
	Series    string
	Statistic string
	Need      int // years
	Have      int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: %s needs %d overlapping years, have %d: %v",
		e.Series, e.Statistic, e.Need, e.Have, ErrInsufficientOverlap)
}

func (e *OverlapError) Unwrap() error { return ErrInsufficientOverlap }
