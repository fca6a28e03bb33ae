package finance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// PlotSink receives the points and fit of every successful beta estimate.
type PlotSink interface {
	PlotBeta(name string, fit BetaResult) error
}

// Options tunes an Engine. The zero value evaluates sequentially, anchors on January,
// keeps going after a failed series and draws no plots.
type Options struct {
	Anchor   time.Month
	Workers  int
	FailFast bool
	Plots    PlotSink
	Logger   logrus.FieldLogger
}

// Engine evaluates price series against a market benchmark and a risk-free rate.
type Engine struct {
	market   MarketReturns
	riskFree map[int]float64
	opts     Options
	log      logrus.FieldLogger
}

// NewEngine builds an engine over the given references. riskFree is keyed by calendar
// year, see AnnualRiskFree.
func NewEngine(market MarketReturns, riskFree map[int]float64, opts Options) *Engine {
	if opts.Anchor == 0 {
		opts.Anchor = time.January
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{market: market, riskFree: riskFree, opts: opts, log: log}
}

// Run evaluates every series and returns the rows in input order. With FailFast the
// first failing series aborts the run; otherwise failures are collected in the report.
func (e *Engine) Run(ctx context.Context, series []PriceSeries) (*Report, error) {
	rows := make([]ResultRow, len(series))
	done := make([]bool, len(series))
	failed := make([]error, len(series))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, s := range series {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := e.Evaluate(s)
			if err != nil {
				if e.opts.FailFast {
					return fmt.Errorf("series %s: %w", s.Name, err)
				}
				e.log.WithError(err).WithField("series", s.Name).Warn("engine: series skipped")
				failed[i] = err
				return nil
			}
			rows[i] = row
			done[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{Rows: make([]ResultRow, 0, len(series))}
	for i := range series {
		switch {
		case done[i]:
			rep.Rows = append(rep.Rows, rows[i])
		case failed[i] != nil:
			rep.Failures = append(rep.Failures, SeriesError{Series: series[i].Name, Err: failed[i]})
		}
	}
	return rep, nil
}

// Evaluate computes the result row of a single series. Degenerate beta or Sharpe
// estimates do not fail the series; the affected column is NaN.
func (e *Engine) Evaluate(s PriceSeries) (ResultRow, error) {
	log := e.log.WithField("series", s.Name)

	period, err := ExtractPeriodReturns(s)
	if err != nil {
		return ResultRow{}, err
	}
	row := ResultRow{
		Name:          s.Name,
		OneYear:       period.OneYear,
		FiveYear:      period.FiveYear,
		TenYear:       period.TenYear,
		LongTerm:      period.LongTerm,
		LongTermYears: period.LongTermYears,
	}
	if period.LongTermYears != longHorizon {
		log.WithField("horizon_years", period.LongTermYears).Info("engine: short series, using reduced long horizon")
	}

	annual := AnnualReturns(s, e.opts.Anchor)

	fit, err := EstimateBeta(s.Name, annual, e.market)
	switch {
	case errors.Is(err, ErrDegenerateStatistics):
		log.WithError(err).Warn("engine: beta undefined")
		row.Beta = math.NaN()
	case err != nil:
		return ResultRow{}, err
	default:
		row.Beta = fit.Beta
		if e.opts.Plots != nil {
			if err := e.opts.Plots.PlotBeta(s.Name, fit); err != nil {
				return ResultRow{}, fmt.Errorf("plot beta: %w", err)
			}
		}
	}

	sh, err := EstimateSharpe(s.Name, annual, e.riskFree)
	switch {
	case errors.Is(err, ErrDegenerateStatistics):
		log.WithError(err).Warn("engine: sharpe undefined")
	case err != nil:
		return ResultRow{}, err
	}
	row.ExcessReturn = sh.ExcessReturn
	row.Volatility = sh.Volatility
	row.Sharpe = sh.Sharpe

	log.WithFields(logrus.Fields{
		"years_beta":   len(fit.Years),
		"years_sharpe": sh.Years,
		"beta":         row.Beta,
		"sharpe":       row.Sharpe,
	}).Debug("engine: series evaluated")
	return row, nil
}
