package config

import (
	"time"

	"github.com/testdeck/testdeck/pkg/lumber"
)

type (
	// ConfigWrapper is a wrapper for the config
	ConfigWrapper struct {
		Config `json:"data"`
	}

	// Config the application's configuration
	Config struct {
		DB              DBConfig
		Port            string
		LogFile         string
		LogConfig       lumber.LoggingConfig
		Env             string
		Verbose         bool
		JWT             JWT
		Redis           Redis
		Tracing         TracingConfig
		Storage         StorageConfig
		GracefulTimeout time.Duration
		ShutDownDelay   time.Duration
	}

	// TracingConfig provides opentelemetry configurations
	TracingConfig struct {
		// OtelEndpoint for storing host name for otel collector
		OtelEndpoint string
	}

	// DBConfig providers the mysql db configuration.
	DBConfig struct {
		Host     string `json:"host"`
		Port     string `json:"port"`
		User     string `json:"user"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	// JWT represents the JWT configuration.
	JWT struct {
		// PrivateKey RSA Encoded private key
		PrivateKey string
		// PublicKey  RSA Encoded public key
		PublicKey string
		// Timeout JWT Token timeout
		Timeout time.Duration
	}

	// Redis represents the redis configuration.
	Redis struct {
		// Redis host:port address.
		Addr string
		// Redis username.
		Username string
		// Redis password.
		Password string
		// TLS enabled
		TLS bool
	}

	// StorageConfig provides the attachment file storage configuration.
	StorageConfig struct {
		// BaseDir is the root directory for stored attachment files.
		BaseDir string
		// MaxUploadSize is the attachment upload limit in bytes.
		MaxUploadSize int64
	}
)
