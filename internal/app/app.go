// Package app wires configuration, observation sources and chart sessions
// together for the command line tools.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/polltrend/internal/chart"
	"github.com/chrissnell/polltrend/internal/database"
	"github.com/chrissnell/polltrend/internal/refdata"
	"github.com/chrissnell/polltrend/internal/source"
	"github.com/chrissnell/polltrend/internal/types"
	"github.com/chrissnell/polltrend/internal/watch"
	"github.com/chrissnell/polltrend/pkg/config"
	"github.com/chrissnell/polltrend/pkg/responseformat"
)

// RunOptions select what a run computes and where it goes.
type RunOptions struct {
	// ChartID limits the run to one chart; empty computes the whole catalogue
	ChartID string
	// OutDir receives one file per chart; empty writes to Stdout
	OutDir string
	Format responseformat.Format
	Indent bool
	// Watch keeps running and recomputes when CSV sources change
	Watch bool
}

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	stdout         io.Writer
	now            func() time.Time
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
		stdout:         os.Stdout,
		now:            time.Now,
	}
}

type chartRun struct {
	options   chart.Options
	voterType types.VoterType
	session   *chart.Session
	writer    *documentWriter
}

// Run computes the selected charts once and, when watching, again on every
// source change until a shutdown signal arrives or ctx is done.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	reg, err := BuildRegistry(cfg)
	if err != nil {
		return err
	}

	charts := cfg.Charts
	if opts.ChartID != "" {
		c, err := cfg.FindChart(opts.ChartID)
		if err != nil {
			return err
		}
		charts = []config.ChartData{*c}
	}
	if len(charts) == 0 {
		return errors.New("no charts configured")
	}

	src, closeSource, err := a.newSource(cfg.Source, reg)
	if err != nil {
		return err
	}
	defer closeSource()

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var mu sync.Mutex
	formatter := &responseformat.Formatter{Indent: opts.Indent}
	runs := make([]chartRun, 0, len(charts))
	for _, c := range charts {
		chartOpts, voterType, err := ChartOptions(c, a.now())
		if err != nil {
			return err
		}
		w := &documentWriter{
			mu:        &mu,
			info:      chartInfo(c, chartOpts, voterType),
			dir:       opts.OutDir,
			out:       a.stdout,
			format:    opts.Format,
			formatter: formatter,
			logger:    a.logger,
		}
		s := chart.NewSession(reg, w, a.logger.Named("chart").With("chart", c.ID))
		defer s.Close()
		runs = append(runs, chartRun{options: chartOpts, voterType: voterType, session: s, writer: w})
	}

	if err := a.refresh(ctx, src, runs); err != nil {
		return err
	}

	if !opts.Watch {
		return nil
	}

	csv, ok := src.(*source.CSVSource)
	if !ok {
		return errors.New("watching is only supported for CSV sources")
	}

	w, err := watch.New(csv.Files(), watch.DefaultQuiet, a.logger.Named("watch"))
	if err != nil {
		return err
	}

	var refreshMu sync.Mutex
	go w.Run(ctx, func() {
		refreshMu.Lock()
		defer refreshMu.Unlock()
		if err := a.refresh(ctx, src, runs); err != nil {
			a.logger.Errorf("failed to refresh charts: %v", err)
		}
	})

	a.logger.Infof("watching %d poll file(s) for changes", len(csv.Files()))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		a.logger.Info("shutdown signal received, stopping...")
	case <-ctx.Done():
		a.logger.Info("context cancelled, stopping...")
	}
	return nil
}

// refresh loads observations once per voter type and feeds them to every
// session reading that voter type.
func (a *App) refresh(ctx context.Context, src source.Source, runs []chartRun) error {
	loaded := make(map[types.VoterType][]types.Observation)
	for _, r := range runs {
		obs, ok := loaded[r.voterType]
		if !ok {
			var err error
			if obs, err = src.Observations(ctx, r.voterType); err != nil {
				return err
			}
			loaded[r.voterType] = obs
		}
		r.session.Update(obs, r.options)
		if err := r.writer.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) newSource(cfg config.SourceData, reg *refdata.Registry) (source.Source, func(), error) {
	switch {
	case cfg.CSV != nil:
		files := make(map[types.VoterType]string, len(cfg.CSV.Files))
		for vt, path := range cfg.CSV.Files {
			voterType, err := source.ParseVoterType(vt)
			if err != nil {
				return nil, nil, err
			}
			files[voterType] = path
		}
		return source.NewCSVSource(files, reg, a.logger.Named("csv")), func() {}, nil

	case cfg.Postgres != nil:
		client := database.NewClient(cfg.Postgres.ConnectionString, cfg.Postgres.Table, a.logger.Named("postgres"))
		if err := client.Connect(); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				a.logger.Warnf("failed to close database: %v", err)
			}
		}
		return source.NewPostgresSource(client, reg, a.logger.Named("postgres")), closeFn, nil

	default:
		return nil, nil, errors.New("no observation source configured")
	}
}
