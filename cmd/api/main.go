// Package main is the entry point for the library catalog API server.
// It wires together configuration, the book storage backend, and the HTTP router.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aoideee/library-catalog/internal/data"
	"github.com/aoideee/library-catalog/internal/validator"

	_ "github.com/lib/pq" // Register the PostgreSQL driver with database/sql.
)

// appVersion is the current version of the API, shown in logs and the healthcheck.
const appVersion = "1.0.0"

// serverConfig holds all the values that can be tweaked at startup via command-line flags.
type serverConfig struct {
	port                int
	environment         string // development, staging or production
	storage             string // memory or postgres
	seed                bool   // preload sample books into the memory store
	recommendationLimit int
	log                 struct {
		level  string
		format string // text or json
	}
	db struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	limiter struct {
		enabled bool
		rps     float64
		burst   int
	}
}

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config serverConfig
	logger *slog.Logger
	models data.Models
}

func main() {
	var settings serverConfig

	flag.IntVar(&settings.port, "port", 4000, "Server port")
	flag.StringVar(&settings.environment, "env", "development", "Environment(development|staging|production)")
	flag.StringVar(&settings.storage, "storage", "memory", "Book storage backend(memory|postgres)")
	flag.BoolVar(&settings.seed, "seed", false, "Preload sample books (memory storage only)")
	flag.IntVar(&settings.recommendationLimit, "recommendations-limit", data.DefaultRecommendationLimit, "Maximum number of recommended books")

	flag.StringVar(&settings.log.level, "log-level", "info", "Log level(debug|info|warn|error)")
	flag.StringVar(&settings.log.format, "log-format", "text", "Log format(text|json)")

	flag.StringVar(&settings.db.dsn, "db-dsn", os.Getenv("LIBRARY_DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&settings.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&settings.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.DurationVar(&settings.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max connection idle time")

	flag.BoolVar(&settings.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")
	flag.Float64Var(&settings.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	flag.IntVar(&settings.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")

	flag.Parse()

	logger := newLogger(os.Stdout, settings.log.level, settings.log.format)

	if err := validateConfig(settings); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	appInstance := &applicationDependencies{
		config: settings,
		logger: logger,
	}

	switch settings.storage {
	case "postgres":
		db, err := openDB(settings)
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("database connection pool established")

		if err := (data.BookModel{DB: db}).Migrate(context.Background()); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		appInstance.models = data.NewModels(db, settings.recommendationLimit)
	default:
		appInstance.models = data.NewMemoryModels(settings.recommendationLimit)
		if settings.seed {
			if err := seedBooks(context.Background(), appInstance.models.Books); err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			logger.Info("sample books loaded")
		}
	}

	err := appInstance.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// validateConfig rejects flag combinations the server cannot run with.
func validateConfig(settings serverConfig) error {
	v := validator.New()
	v.Check(validator.In(settings.environment, "development", "staging", "production"), "env", "must be development, staging or production")
	v.Check(validator.In(settings.storage, "memory", "postgres"), "storage", "must be memory or postgres")
	v.Check(settings.storage != "postgres" || settings.db.dsn != "", "db-dsn", "must be provided when storage is postgres")
	v.Check(validator.In(settings.log.level, "debug", "info", "warn", "error"), "log-level", "must be debug, info, warn or error")
	v.Check(validator.In(settings.log.format, "text", "json"), "log-format", "must be text or json")
	v.Check(settings.limiter.rps > 0, "limiter-rps", "must be greater than zero")
	v.Check(settings.limiter.burst > 0, "limiter-burst", "must be greater than zero")

	if key, message, failed := v.First(); failed {
		return fmt.Errorf("invalid -%s flag: %s", key, message)
	}
	return nil
}

// newLogger builds the structured logger. Unknown levels fall back to info.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openDB opens a PostgreSQL connection pool using the DSN stored in settings,
// then pings the database with a 5-second timeout to confirm it is reachable.
func openDB(settings serverConfig) (*sql.DB, error) {
	// sql.Open only validates the DSN format; it does not actually connect yet.
	db, err := sql.Open("postgres", settings.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(settings.db.maxOpenConns)
	db.SetMaxIdleConns(settings.db.maxIdleConns)
	db.SetConnMaxIdleTime(settings.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// seedBooks preloads a handful of sample titles.
func seedBooks(ctx context.Context, books data.BookService) error {
	samples := []data.NewBook{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction"},
		{Title: "Beloved", Author: "Toni Morrison", Genre: "Literary Fiction"},
		{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: "Mystery"},
	}
	for _, nb := range samples {
		if _, err := books.Insert(ctx, nb); err != nil {
			return fmt.Errorf("seed %q: %w", nb.Title, err)
		}
	}
	return nil
}
