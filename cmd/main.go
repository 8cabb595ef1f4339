package main

//
//  @title           hffactors API
//  @version         1.0
//  @description     High-frequency order flow factors computed from order and trade logs.
//  @termsOfService  https://github.com/guttosm/hffactors
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/hffactors
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        factors
//  @tag.description Factor catalog and persisted factor values
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/hffactors/config"
	_ "github.com/guttosm/hffactors/docs" // swagger docs
	"github.com/guttosm/hffactors/internal/app"
	"github.com/guttosm/hffactors/internal/export"
	"github.com/guttosm/hffactors/internal/factor"
	"github.com/guttosm/hffactors/internal/ingestion"
	"github.com/guttosm/hffactors/internal/logger"
	"github.com/guttosm/hffactors/internal/metrics"
	"github.com/guttosm/hffactors/internal/pipeline"
	"github.com/guttosm/hffactors/internal/storage"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 10 * time.Second

// signalContext returns a context cancelled on SIGINT or SIGTERM. Both modes
// stop through it: compute aborts pending days, api drains the server.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// gracefulShutdown blocks until ctx is done, then drains server and runs
// cleanup (e.g. closing DB connections). cleanup runs even when draining
// times out.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) error {
	<-ctx.Done()
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer cleanup()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.L().Info().Msg("server exited gracefully")
	return nil
}

// computeFlags are the compute-mode command line options.
type computeFlags struct {
	dir     string
	out     string
	format  string
	dates   string
	factors string
	force   bool
	persist bool
}

// splitList splits a comma separated flag value and drops empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDates parses a comma separated list of trading dates.
func parseDates(s string) ([]int, error) {
	var out []int
	for _, p := range splitList(s) {
		d, err := ingestion.ParseDate(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// parseSessions parses configured "HH:MM-HH:MM" ranges, falling back to the
// default sessions when none are configured.
func parseSessions(specs []string) ([]ingestion.Session, error) {
	if len(specs) == 0 {
		return ingestion.DefaultSessions, nil
	}
	out := make([]ingestion.Session, 0, len(specs))
	for _, s := range specs {
		sess, err := ingestion.ParseSession(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

// factorParams maps configuration onto engine parameters.
func factorParams(c config.FactorConfig) factor.Params {
	p := factor.DefaultParams()
	p.Window = c.Window
	p.PeriodSeconds = c.PeriodSeconds
	p.Parallel = c.Parallel
	p.FAKOrderKind = c.FAKOrderKind
	return p
}

// runCompute evaluates the factor catalog over the requested days.
func runCompute(ctx context.Context, cfg config.Config, f computeFlags) error {
	source, err := ingestion.ParseGridSource(cfg.Data.GridSource)
	if err != nil {
		return err
	}
	sessions, err := parseSessions(cfg.Data.Sessions)
	if err != nil {
		return err
	}
	loader := ingestion.Loader{Dir: f.dir, Source: source, Sessions: sessions}

	dates, err := parseDates(f.dates)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		if dates, err = ingestion.DiscoverDates(f.dir); err != nil {
			return err
		}
	}

	engine, err := factor.NewEngine(nil, factorParams(cfg.Factor), factor.WithObserver(metrics.ObserveFactor))
	if err != nil {
		return err
	}
	sink, err := export.New(f.format, f.out)
	if err != nil {
		return err
	}

	var repo storage.FactorRepository
	if f.persist {
		db, err := app.InitPostgres(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer func() { _ = db.Close() }()
		repo = storage.NewFactorRepository(db)
	}

	rep, err := pipeline.New(loader, engine, repo, sink).Run(ctx, pipeline.Options{
		Dates:        dates,
		Factors:      splitList(f.factors),
		Force:        f.force,
		Persist:      f.persist,
		ParallelDays: cfg.Pipeline.ParallelDays,
	})
	if err != nil {
		return err
	}
	logger.L().Info().Int("computed", rep.Computed).Int("skipped", rep.Skipped).Int("rows", rep.Rows).Int("files", len(rep.Files)).Msg("compute completed")
	return nil
}

// main is the entry point of the hffactors application.
//
// Modes (selected via --mode flag):
//   - compute: Evaluates the factor catalog over day files, exports and persists them.
//   - api:     Starts the REST API over persisted factor values.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()
	cfg := config.AppConfig

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "compute", "Mode: compute or api")
	var cf computeFlags
	flag.StringVar(&cf.dir, "dir", cfg.Data.InputDir, "Directory with <YYYYMMDD>_orders.csv / _trades.csv / _grid.csv files")
	flag.StringVar(&cf.out, "out", cfg.Data.OutputDir, "Directory for exported factor files")
	flag.StringVar(&cf.format, "format", cfg.Data.OutputFormat, "Export format: csv or xlsx")
	flag.StringVar(&cf.dates, "date", "", "Comma separated trading dates (YYYYMMDD); default all discovered days")
	flag.StringVar(&cf.factors, "factors", "", "Comma separated factor ids; default the whole catalog")
	flag.BoolVar(&cf.force, "force", false, "Recompute days already in the run log (replaces stored values)")
	flag.BoolVar(&cf.persist, "persist", cfg.Pipeline.Persist, "Write factor values to Postgres")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")
	flag.Parse()

	sigCtx, stop := signalContext(ctx)
	defer stop()

	switch *mode {
	case "compute":
		logger.L().Info().Str("dir", cf.dir).Msg("running compute")
		if err := runCompute(sigCtx, cfg, cf); err != nil {
			logger.L().Fatal().Err(err).Msg("compute failed")
		}

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		if err := gracefulShutdown(sigCtx, server, cleanup); err != nil {
			logger.L().Fatal().Err(err).Msg("shutdown failed")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
