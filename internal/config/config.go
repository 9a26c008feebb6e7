package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// External collaborator endpoints; empty means "not deployed" and the
	// pipeline degrades to heuristic defaults.
	VisionSvcURL    string
	SignatureSvcURL string
	FraudSvcURL     string
	ExternalTimeout time.Duration

	// Staleness detection for forwarded-but-never-responded clearing records.
	ClearingStaleAfter time.Duration
	StaleScanInterval  time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "chequemate"),
		MySQLUser: getenv("MYSQL_USER", "chequemate"),
		MySQLPass: getenv("MYSQL_PASS", "chequemate"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		VisionSvcURL:    getenv("VISION_SVC_URL", ""),
		SignatureSvcURL: getenv("SIGNATURE_SVC_URL", ""),
		FraudSvcURL:     getenv("FRAUD_SVC_URL", ""),
		ExternalTimeout: time.Duration(getint("EXTERNAL_TIMEOUT_SECONDS", 5)) * time.Second,

		ClearingStaleAfter: time.Duration(getint("CLEARING_STALE_AFTER_HOURS", 24)) * time.Hour,
		StaleScanInterval:  time.Duration(getint("STALE_SCAN_INTERVAL_MINUTES", 10)) * time.Minute,
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.ClearingStaleAfter <= 0 || c.StaleScanInterval <= 0 {
		return errors.New("staleness windows must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
