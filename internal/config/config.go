package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress string

	DatabaseURI string

	RowStoreAddress  string
	RowStoreProject  string
	RowStoreKey      string
	RowStoreDatabase string

	PaymentAddress         string
	PaymentSubscriptionKey string
	WebhookSecret          string

	ServiceToken string
	AMQPAddress  string

	ReconcileInterval time.Duration
	ReconcileGrace    time.Duration
	ReconcileBatch    int
	WorkerPoolSize    int
	ShutdownTimeout   time.Duration

	PageSize     int
	MetricMaxAge time.Duration
	DraftTTL     time.Duration
	StrictLimits bool
}

const (
	defaultRunAddress        = ":8080"
	defaultRowStoreDatabase  = "app"
	defaultReconcileInterval = 30 * time.Second
	defaultReconcileGrace    = 5 * time.Minute
	defaultReconcileBatch    = 32
	defaultWorkerPoolSize    = 4
	defaultShutdownTimeout   = 10 * time.Second
	defaultPageSize          = 200
	defaultMetricMaxAge      = 60 * time.Minute
	defaultDraftTTL          = 24 * time.Hour
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		RowStoreAddress:        getString(lookup, "ROWSTORE_ADDRESS", ""),
		RowStoreProject:        getString(lookup, "ROWSTORE_PROJECT", ""),
		RowStoreKey:            getString(lookup, "ROWSTORE_KEY", ""),
		RowStoreDatabase:       getString(lookup, "ROWSTORE_DATABASE", defaultRowStoreDatabase),
		PaymentAddress:         getString(lookup, "PAYMENT_ADDRESS", ""),
		PaymentSubscriptionKey: getString(lookup, "PAYMENT_SUBSCRIPTION_KEY", ""),
		WebhookSecret:          getString(lookup, "WEBHOOK_SECRET", ""),
		ServiceToken:           getString(lookup, "SERVICE_TOKEN", ""),
		AMQPAddress:            getString(lookup, "AMQP_ADDRESS", ""),
		ReconcileInterval:      getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		ReconcileGrace:         getDuration(lookup, "RECONCILE_GRACE", defaultReconcileGrace),
		ReconcileBatch:         getInt(lookup, "RECONCILE_BATCH", defaultReconcileBatch),
		WorkerPoolSize:         getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		PageSize:               getInt(lookup, "PAGE_SIZE", defaultPageSize),
		MetricMaxAge:           getDuration(lookup, "METRIC_MAX_AGE", defaultMetricMaxAge),
		DraftTTL:               getDuration(lookup, "DRAFT_TTL", defaultDraftTTL),
		StrictLimits:           getBool(lookup, "STRICT_LIMITS", false),
	}

	fs := flag.NewFlagSet("shopcore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN for derived data")
	fs.StringVar(&cfg.RowStoreAddress, "r", cfg.RowStoreAddress, "Row store base URL")
	fs.StringVar(&cfg.PaymentAddress, "p", cfg.PaymentAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.ServiceToken, "service-token", cfg.ServiceToken, "Bearer token guarding admin and cron endpoints")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconciliation workers")
	fs.IntVar(&cfg.ReconcileBatch, "reconcile-batch", cfg.ReconcileBatch, "Maximum orders per reconciliation batch")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Row store pagination page size")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between reconciliation polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.BoolVar(&cfg.StrictLimits, "strict-limits", cfg.StrictLimits, "Fail closed when limit checks hit a store error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if tokenFile, ok := lookup("SERVICE_TOKEN_FILE"); ok && tokenFile != "" {
		content, err := os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read service token file: %w", err)
		}
		cfg.ServiceToken = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ReconcileGrace < 0 {
		cfg.ReconcileGrace = defaultReconcileGrace
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	if cfg.MetricMaxAge <= 0 {
		cfg.MetricMaxAge = defaultMetricMaxAge
	}

	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = defaultDraftTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.RowStoreAddress == "" {
		return nil, fmt.Errorf("row store address must be provided")
	}

	if cfg.RowStoreProject == "" || cfg.RowStoreKey == "" {
		return nil, fmt.Errorf("row store project and key must be provided")
	}

	if cfg.PaymentAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
