// Package config describes the checklist server's settings and loads them
// from environment variables. Every field has an env tag and most carry a
// default, so an empty environment yields a working local setup.
package config

import (
	"strconv"
	"time"
)

// Config is the full server configuration, grouped by concern.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Upload   UploadConfig
	Evidence EvidenceConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the listen interface (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the listen port (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout bounds reading a whole request, body included (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout closes idle keep-alive connections (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout limits graceful shutdown, upload drain included (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is applied to each handler by middleware (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DataConfig holds the locations of the task and project sources.
type DataConfig struct {
	// ItemsPath is the CSV file loaded when a session first opens the checklist (default: items.csv)
	ItemsPath string `env:"ITEMS_PATH" envAlt:"CHECKLIST_ITEMS_PATH" default:"items.csv"`

	// ProjectsPath is an optional TOML file seeding the overview; built-in projects are used when empty
	ProjectsPath string `env:"PROJECTS_PATH"`

	// PageSize is the number of task rows per page (default: 12)
	PageSize int `env:"PAGE_SIZE" default:"12"`
}

// UploadConfig holds CSV and evidence upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent caps CSV imports and evidence uploads running at once (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime bounds the wait for a free upload slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// EvidenceConfig selects where uploaded task evidence is stored.
type EvidenceConfig struct {
	// Backend is "local" or "s3" (default: local)
	Backend string `env:"EVIDENCE_BACKEND" default:"local"`

	// Dir is the root directory for the local backend (default: evidence)
	Dir string `env:"EVIDENCE_DIR" default:"evidence"`

	S3 S3Config
}

// S3Config holds settings for the S3 evidence backend.
type S3Config struct {
	Bucket string `env:"S3_BUCKET"`
	Region string `env:"S3_REGION" envAlt:"AWS_REGION" default:"us-east-1"`

	// Endpoint is set for MinIO or other S3-compatible services
	Endpoint string `env:"S3_ENDPOINT"`

	AccessKeyID     string `env:"S3_ACCESS_KEY_ID" envAlt:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" envAlt:"AWS_SECRET_ACCESS_KEY"`
}

// SessionConfig holds per-browser session settings.
type SessionConfig struct {
	// CookieName is the name of the session cookie (default: checklist_session)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"checklist_session"`

	// TTL is how long an idle session is kept (default: 2h)
	TTL time.Duration `env:"SESSION_TTL" default:"2h"`

	// CleanupInterval is how often expired sessions are swept (default: 5m)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" default:"5m"`

	// SecureCookie marks the session cookie Secure (default: false)
	SecureCookie bool `env:"SESSION_SECURE_COOKIE" default:"false"`
}

// RateLimitConfig throttles requests per client IP.
type RateLimitConfig struct {
	// Enabled turns the per-IP limiter on (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the allowance for one IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds response header and proxy trust settings.
type SecurityConfig struct {
	// TrustedProxies lists CIDRs whose X-Forwarded-For is honored, comma separated
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP sends a Content-Security-Policy header on every response (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig configures the slog default logger.
type LoggingConfig struct {
	// Level drops records below it; one of debug, info, warn or error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format selects the slog handler, text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr is the host:port the HTTP server listens on.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
