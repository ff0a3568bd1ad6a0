package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	TransportHTTP  = "http"
	TransportMinio = "minio"
)

type Config struct {
	Env     Env
	Server  ServerConfig
	Upload  UploadConfig
	Backend BackendConfig
	Minio   MinioConfig
	NATS    NATSConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host           string `envconfig:"SERVER_HOST" default:"localhost"`
	Port           string `envconfig:"SERVER_PORT" default:"8080"`
	MaxUploadBytes int64  `envconfig:"SERVER_MAX_UPLOAD_BYTES" default:"33554432"` // 32MB
}

type UploadConfig struct {
	TickInterval         time.Duration `envconfig:"UPLOAD_TICK_INTERVAL" default:"350ms"`
	ProgressSeed         int           `envconfig:"UPLOAD_PROGRESS_SEED" default:"10"`
	ProgressCap          int           `envconfig:"UPLOAD_PROGRESS_CAP" default:"90"`
	ProgressMaxIncrement int           `envconfig:"UPLOAD_PROGRESS_MAX_INCREMENT" default:"10"`
	Transport            string        `envconfig:"UPLOAD_TRANSPORT" default:"http"`
}

type BackendConfig struct {
	BaseURL      string        `envconfig:"BACKEND_BASE_URL" default:"http://localhost:3001"`
	Timeout      time.Duration `envconfig:"BACKEND_TIMEOUT" default:"0s"`
	MockFallback bool          `envconfig:"BACKEND_MOCK_FALLBACK" default:"true"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`

	DownloadSignedURLDuration time.Duration `envconfig:"MINIO_DOWNLOAD_SIGNED_URL_DURATION" default:"15m"`
}

type NATSConfig struct {
	Enabled       bool   `envconfig:"NATS_ENABLED" default:"false"`
	URL           string `envconfig:"NATS_URL"`
	StreamName    string `envconfig:"NATS_STREAM_NAME" default:"UPLOADS"`
	SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"uploads"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	var errs []error

	if err := c.Upload.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.Upload.Transport {
	case TransportHTTP:
		if c.Backend.BaseURL == "" {
			errs = append(errs, errors.New("BACKEND_BASE_URL is required with the http transport"))
		}
	case TransportMinio:
		if c.Minio.Endpoint == "" || c.Minio.BucketName == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT, MINIO_BUCKET_NAME, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with the minio transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported UPLOAD_TRANSPORT %q", c.Upload.Transport))
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, errors.New("NATS_URL is required when NATS_ENABLED is set"))
	}

	return errors.Join(errs...)
}

// Validate checks progress simulation bounds
func (u UploadConfig) Validate() error {
	if u.TickInterval <= 0 {
		return fmt.Errorf("UPLOAD_TICK_INTERVAL must be positive, got %s", u.TickInterval)
	}
	if u.ProgressSeed <= 0 || u.ProgressSeed > u.ProgressCap || u.ProgressCap >= 100 {
		return fmt.Errorf("progress bounds must satisfy 0 < seed <= cap < 100, got seed=%d cap=%d", u.ProgressSeed, u.ProgressCap)
	}
	if u.ProgressMaxIncrement < 0 {
		return fmt.Errorf("UPLOAD_PROGRESS_MAX_INCREMENT must not be negative, got %d", u.ProgressMaxIncrement)
	}
	return nil
}
