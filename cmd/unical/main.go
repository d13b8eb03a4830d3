package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"unical/internal/capture"
	"unical/internal/config"
	"unical/internal/feed"
	"unical/internal/filter"
	appLog "unical/internal/log"
	"unical/internal/model"
	"unical/internal/render"
	"unical/internal/summary"
	"unical/internal/unisport"
	"unical/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	generate   bool
	snapshot   bool
}

func main() {
	appLog.Info("unical starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"refresh", conf.RefreshCron,
		"data_dir", conf.DataDir,
		"search_url", conf.SearchURL,
		"phase_lookahead_days", conf.PhaseLookaheadDays,
		"generate", flags.generate,
		"snapshot", flags.snapshot,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	switch {
	case flags.generate:
		if err := unisport.NewGenerator(conf).Run(ctx); err != nil {
			appLog.Error("generation failed", err)
			os.Exit(1)
		}

	case flags.snapshot:
		err := capture.SnapshotPNG(ctx, capture.Options{
			URL:        "http://" + conf.Listen + "/calendar",
			OutputPath: conf.SnapshotPath,
			Width:      conf.SnapshotWidth,
			Height:     conf.SnapshotHeight,
		})
		if err != nil {
			appLog.Error("snapshot failed", err)
			os.Exit(1)
		}
		appLog.Info("snapshot written", "path", conf.SnapshotPath)

	default:
		if err := runServer(ctx, conf); err != nil {
			appLog.Error("server failed", err)
			os.Exit(1)
		}
	}

	appLog.Info("unical exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./unical.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.generate, "generate", false, "Run one data generation cycle and exit")
	flag.BoolVar(&cfg.snapshot, "snapshot", false, "Capture a calendar page snapshot and exit")

	flag.Parse()

	return cfg
}

// runServer loads the data set, wires the filter core to the web
// renderer, and serves until ctx is canceled. Any failure during the
// initial load or initial render is fatal: no partial UI is served.
func runServer(ctx context.Context, conf *config.Config) error {
	srv := web.NewServer(conf)
	adapter := render.NewAdapter(srv, render.FirstDayFor(conf.WeekStart))

	if err := startSession(ctx, conf, srv, adapter); err != nil {
		return err
	}

	// Scheduled regeneration: each run rewrites the data files and then
	// starts a fresh session over the new set.
	var c *cron.Cron
	if conf.RefreshCron != "" {
		c = cron.New()
		_, err := c.AddFunc(conf.RefreshCron, func() {
			if err := unisport.NewGenerator(conf).Run(ctx); err != nil {
				appLog.Error("scheduled generation failed", err)
				return
			}
			if err := startSession(ctx, conf, srv, adapter); err != nil {
				appLog.Error("scheduled reload failed", err)
			}
		})
		if err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
		appLog.Info("refresh schedule active", "cron", conf.RefreshCron)
	}

	httpSrv := &http.Server{
		Addr:    conf.Listen,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startSession performs one complete load-and-render cycle: concurrent
// join load of the two data files, range summarization over the
// unfiltered set, fresh filter state, initial render at the anchor date.
func startSession(ctx context.Context, conf *config.Config, srv *web.Server, adapter *render.Adapter) error {
	loader := feed.NewLoader(eventsLocation(conf), metaLocation(conf))
	res, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	rng, hasRange := summary.Summarize(res.Events)
	anchor := summary.Anchor(rng, hasRange, time.Now())
	logRange(rng, hasRange, anchor)

	ctrl := filter.NewController(res.Events, adapter)
	srv.Bind(ctrl, adapter)
	srv.SetSummary(res.Meta, rng, hasRange)

	return adapter.InitialRender(anchor, ctrl.CurrentView())
}

func eventsLocation(conf *config.Config) string {
	if conf.EventsURL != "" {
		return conf.EventsURL
	}
	return conf.EventsPath()
}

func metaLocation(conf *config.Config) string {
	if conf.MetaURL != "" {
		return conf.MetaURL
	}
	return conf.MetaPath()
}

func logRange(rng model.RangeInfo, hasRange bool, anchor time.Time) {
	if !hasRange {
		appLog.Info("no parseable event starts; anchoring at now", "anchor", anchor.Format(time.RFC3339))
		return
	}
	appLog.Info("event range summarized",
		"min", rng.Min.Format(time.RFC3339),
		"max", rng.Max.Format(time.RFC3339),
		"anchor", anchor.Format(time.RFC3339),
	)
}
