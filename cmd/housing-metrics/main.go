package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"housingIndexMetrics/internal/config"
	"housingIndexMetrics/internal/dataset"
	"housingIndexMetrics/internal/finance"
	"housingIndexMetrics/internal/report"
	"housingIndexMetrics/internal/storage"
)

// command holds the flags that select what the binary does rather than how.
type command struct {
	history bool
	show    string
}

func main() {
	cfg, cmd, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if cmd.history || cmd.show != "" {
		if err := cfg.ValidateStore(); err != nil {
			logrus.Fatalf("Configuration validation failed: %v", err)
		}
		logger := newLogger(cfg)
		if cmd.show != "" {
			err = showRun(cfg, cmd.show, os.Stdout, logger)
		} else {
			err = listHistory(cfg, os.Stdout, logger)
		}
		if err != nil {
			logger.Fatalf("history: %v", err)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, logger); err != nil {
		logger.WithError(err).Error("report failed")
		os.Exit(1)
	}
}

// parseFlags loads the configuration named by -config and applies the flags given on the
// command line over it.
func parseFlags(args []string) (config.Config, command, error) {
	fs := flag.NewFlagSet("housing-metrics", flag.ContinueOnError)
	var (
		configPath   = fs.String("config", "", "Path to YAML configuration file")
		indicesDir   = fs.String("indices", "", "Directory of regional index CSV files")
		riskFreePath = fs.String("risk-free", "", "Risk-free rate CSV (DATE,DTB3)")
		marketPath   = fs.String("market", "", "Market return CSV (Year,Return)")
		outputPath   = fs.String("out", "", "Results CSV path")
		plotDir      = fs.String("plots", "", "Directory for <name>_beta.png plots")
		summaryChart = fs.String("summary-chart", "", "Optional PNG path for a trailing returns chart")
		dbPath       = fs.String("db", "", "Optional SQLite run history path")
		anchorMonth  = fs.Int("anchor", 0, "Month (1-12) at which annual returns are sampled")
		workers      = fs.Int("workers", 0, "Number of series evaluated concurrently")
		failFast     = fs.Bool("fail-fast", true, "Abort on the first series error")
		logLevel     = fs.String("log-level", "", "Log level (debug, info, warn, error)")
		logFormat    = fs.String("log-format", "", "Log format (text, json)")
	)
	var cmd command
	fs.BoolVar(&cmd.history, "history", false, "List stored runs and exit")
	fs.StringVar(&cmd.show, "show", "", "Print the stored run with this id and exit")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, command{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.Config{}, command{}, err
	}
	// flags given on the command line win over file and environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "indices":
			cfg.IndicesDir = *indicesDir
		case "risk-free":
			cfg.RiskFreePath = *riskFreePath
		case "market":
			cfg.MarketPath = *marketPath
		case "out":
			cfg.OutputPath = *outputPath
		case "plots":
			cfg.PlotDir = *plotDir
		case "summary-chart":
			cfg.SummaryChart = *summaryChart
		case "db":
			cfg.DBPath = *dbPath
		case "anchor":
			cfg.AnchorMonth = *anchorMonth
		case "workers":
			cfg.Workers = *workers
		case "fail-fast":
			cfg.FailFast = *failFast
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		}
	})
	return cfg, cmd, nil
}

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	if strings.EqualFold(cfg.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// run loads the inputs, evaluates every series and writes the results CSV, the beta plots
// and the optional summary chart and run history. The console table goes to out.
func run(ctx context.Context, cfg config.Config, out io.Writer, logger *logrus.Logger) error {
	market, err := dataset.LoadMarketReturns(cfg.MarketPath)
	if err != nil {
		return fmt.Errorf("load market returns: %w", err)
	}
	logger.WithFields(logrus.Fields{"path": cfg.MarketPath, "years": len(market)}).Info("dataset: market returns loaded")

	rfObs, err := dataset.LoadRiskFree(cfg.RiskFreePath)
	if err != nil {
		return fmt.Errorf("load risk-free rates: %w", err)
	}
	riskFree := finance.AnnualRiskFree(rfObs)
	rfYears := finance.RiskFreeYears(riskFree)
	logger.WithFields(logrus.Fields{
		"path":         cfg.RiskFreePath,
		"observations": len(rfObs),
		"first_year":   rfYears[0],
		"last_year":    rfYears[len(rfYears)-1],
	}).Info("dataset: risk-free rates loaded")

	series, err := dataset.LoadSeriesDir(cfg.IndicesDir)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	logger.WithFields(logrus.Fields{"dir": cfg.IndicesDir, "series": len(series)}).Info("dataset: series loaded")

	engine := finance.NewEngine(market, riskFree, finance.Options{
		Anchor:   time.Month(cfg.AnchorMonth),
		Workers:  cfg.Workers,
		FailFast: cfg.FailFast,
		Plots:    finance.ChartWriter{Dir: cfg.PlotDir},
		Logger:   logger,
	})
	rep, err := engine.Run(ctx, series)
	if err != nil {
		return err
	}
	for _, f := range rep.Failures {
		logger.WithError(f.Err).WithField("series", f.Series).Warn("engine: series omitted from report")
	}

	if err := report.WriteCSV(cfg.OutputPath, rep.Rows); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	logger.WithFields(logrus.Fields{"path": cfg.OutputPath, "rows": len(rep.Rows)}).Info("report: results written")
	if err := report.PrintTable(out, rep.Rows); err != nil {
		return err
	}

	if cfg.SummaryChart != "" && len(rep.Rows) > 0 {
		if err := writeSummaryChart(cfg.SummaryChart, rep.Rows); err != nil {
			return fmt.Errorf("summary chart: %w", err)
		}
		logger.WithField("path", cfg.SummaryChart).Info("report: summary chart written")
	}

	if cfg.DBPath != "" {
		store, closeDB, err := openStore(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer closeDB()
		runID := storage.NewRunID()
		if err := store.SaveRun(storage.Run{ID: runID, CreatedAt: time.Now(), Rows: rep.Rows}); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.WithField("run_id", runID).Info("db: run stored")
	}
	return nil
}

func writeSummaryChart(path string, rows []finance.ResultRow) error {
	img, err := finance.MakeReturnsChart(rows)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, img, 0o644)
}

func openStore(path string, logger *logrus.Logger) (*storage.Store, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("db dir: %w", err)
	}
	db, err := storage.OpenSQLite("file:" + path + "?_fk=1")
	if err != nil {
		return nil, nil, err
	}
	logger.Debugf("db: opened sqlite at %s", path)
	if err := storage.InitSchema(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return storage.NewStore(db), func() { db.Close() }, nil
}

func listHistory(cfg config.Config, out io.Writer, logger *logrus.Logger) error {
	store, closeDB, err := openStore(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer closeDB()
	runs, err := store.ListRuns(20)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %d series\n", r.ID, r.CreatedAt.Format(time.RFC3339), r.Series)
	}
	return nil
}

func showRun(cfg config.Config, runID string, out io.Writer, logger *logrus.Logger) error {
	store, closeDB, err := openStore(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer closeDB()
	run, err := store.FetchRun(runID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "run %s  %s\n", run.ID, run.CreatedAt.Format(time.RFC3339))
	return report.PrintTable(out, run.Rows)
}
