// Package config reads process configuration from PEOPLEDB_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"peopledb/internal/infra/persistence/sqlexec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Storage drivers.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Report sink drivers.
const (
	ReportsNone       = "none"
	ReportsFilesystem = "fs"
	ReportsMemory     = "memory"
	ReportsS3         = "s3"
)

// Environment variable names.
const (
	EnvServerAddr              = "PEOPLEDB_SERVER_ADDR"
	EnvStorageDriver           = "PEOPLEDB_STORAGE_DRIVER"
	EnvPostgresDSN             = "PEOPLEDB_POSTGRES_DSN"
	EnvSQLitePath              = "PEOPLEDB_SQLITE_PATH"
	EnvStatements              = "PEOPLEDB_STATEMENTS"
	EnvPoolMaxConns            = "PEOPLEDB_POOL_MAX_CONNS"
	EnvPoolMaxIdle             = "PEOPLEDB_POOL_MAX_IDLE"
	EnvPoolAcquireTimeout      = "PEOPLEDB_POOL_ACQUIRE_TIMEOUT"
	EnvPoolConnMaxLifetime     = "PEOPLEDB_POOL_CONN_MAX_LIFETIME"
	EnvLogLevel                = "PEOPLEDB_LOG_LEVEL"
	EnvReportDriver            = "PEOPLEDB_REPORT_DRIVER"
	EnvReportFSRoot            = "PEOPLEDB_REPORT_FS_ROOT"
	EnvReportS3Bucket          = "PEOPLEDB_REPORT_S3_BUCKET"
	EnvReportS3Region          = "PEOPLEDB_REPORT_S3_REGION"
	EnvReportS3Endpoint        = "PEOPLEDB_REPORT_S3_ENDPOINT"
	EnvReportS3PathStyle       = "PEOPLEDB_REPORT_S3_PATH_STYLE"
	EnvReportS3AccessKeyID     = "PEOPLEDB_REPORT_S3_ACCESS_KEY_ID"
	EnvReportS3SecretAccessKey = "PEOPLEDB_REPORT_S3_SECRET_ACCESS_KEY"
	EnvReportS3SessionToken    = "PEOPLEDB_REPORT_S3_SESSION_TOKEN"
)

// Storage selects and addresses the repository backend.
type Storage struct {
	Driver      string
	PostgresDSN string
	SQLitePath  string
	// Statements is "direct" or "procedure"; only Postgres honours it.
	Statements string
}

// Reports addresses the benchmark report sink.
type Reports struct {
	Driver      string
	FSRoot      string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	// Static S3 credentials. Empty keys use the default AWS credential chain.
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3SessionToken    string
}

// Config is the full process configuration.
type Config struct {
	ServerAddr string
	LogLevel   zerolog.Level
	Storage    Storage
	Pool       sqlexec.PoolConfig
	Reports    Reports
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		ServerAddr: "127.0.0.1:8080",
		LogLevel:   zerolog.InfoLevel,
		Storage:    Storage{Driver: StorageSQLite, SQLitePath: "peopledb.db", Statements: "direct"},
		Pool: sqlexec.PoolConfig{
			MaxConns:        16,
			MaxIdle:         4,
			AcquireTimeout:  5 * time.Second,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Reports: Reports{Driver: ReportsNone, FSRoot: "./reports"},
	}
}

// FromEnv loads configuration from the process environment.
func FromEnv() (Config, error) { return Load(os.Getenv) }

// Load builds a Config from getenv, reporting every invalid variable at once.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid count %q", key, v))
			return
		}
		*dst = n
	}
	dur := func(key string, dst *time.Duration) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, v))
			return
		}
		*dst = d
	}

	str(EnvServerAddr, &cfg.ServerAddr)
	str(EnvStorageDriver, &cfg.Storage.Driver)
	str(EnvPostgresDSN, &cfg.Storage.PostgresDSN)
	str(EnvSQLitePath, &cfg.Storage.SQLitePath)
	str(EnvStatements, &cfg.Storage.Statements)
	num(EnvPoolMaxConns, &cfg.Pool.MaxConns)
	num(EnvPoolMaxIdle, &cfg.Pool.MaxIdle)
	dur(EnvPoolAcquireTimeout, &cfg.Pool.AcquireTimeout)
	dur(EnvPoolConnMaxLifetime, &cfg.Pool.ConnMaxLifetime)
	str(EnvReportDriver, &cfg.Reports.Driver)
	str(EnvReportFSRoot, &cfg.Reports.FSRoot)
	str(EnvReportS3Bucket, &cfg.Reports.S3Bucket)
	str(EnvReportS3Region, &cfg.Reports.S3Region)
	str(EnvReportS3Endpoint, &cfg.Reports.S3Endpoint)
	str(EnvReportS3AccessKeyID, &cfg.Reports.S3AccessKeyID)
	str(EnvReportS3SecretAccessKey, &cfg.Reports.S3SecretAccessKey)
	str(EnvReportS3SessionToken, &cfg.Reports.S3SessionToken)
	cfg.Reports.S3PathStyle = strings.EqualFold(strings.TrimSpace(getenv(EnvReportS3PathStyle)), "true")

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		} else {
			cfg.LogLevel = lvl
		}
	}

	switch cfg.Storage.Driver {
	case StorageSQLite, StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("%s: unknown storage driver %q", EnvStorageDriver, cfg.Storage.Driver))
	}
	switch cfg.Storage.Statements {
	case "direct", "procedure":
	default:
		errs = append(errs, fmt.Errorf("%s: unknown statement set %q", EnvStatements, cfg.Storage.Statements))
	}
	if cfg.Storage.Driver == StorageSQLite && cfg.Storage.Statements == "procedure" {
		errs = append(errs, fmt.Errorf("%s: sqlite has no stored procedures", EnvStatements))
	}
	if cfg.Pool.MaxConns > 0 && cfg.Pool.MaxIdle > cfg.Pool.MaxConns {
		errs = append(errs, fmt.Errorf("%s: idle bound %d exceeds max conns %d", EnvPoolMaxIdle, cfg.Pool.MaxIdle, cfg.Pool.MaxConns))
	}
	switch cfg.Reports.Driver {
	case ReportsNone, ReportsFilesystem, ReportsMemory:
	case ReportsS3:
		if cfg.Reports.S3Bucket == "" {
			errs = append(errs, fmt.Errorf("%s required for s3 report driver", EnvReportS3Bucket))
		}
		if (cfg.Reports.S3AccessKeyID == "") != (cfg.Reports.S3SecretAccessKey == "") {
			errs = append(errs, fmt.Errorf("%s and %s must be set together", EnvReportS3AccessKeyID, EnvReportS3SecretAccessKey))
		}
	default:
		errs = append(errs, fmt.Errorf("%s: unknown report driver %q", EnvReportDriver, cfg.Reports.Driver))
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}
