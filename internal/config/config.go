// Package config loads the small set of runtime settings the CLI and
// server binaries need: relaxed-mode default, schema source, listen
// address, log level, wired through spf13/viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// RuntimeConfig captures user-configurable settings shared across
// cmd/toolstream and cmd/toolstream-server.
type RuntimeConfig struct {
	RelaxedMode    bool
	SchemaPath     string
	ListenAddr     string
	LogLevel       string
	MaxSessions    int
	TracingEnabled bool
	TraceExporter  string // "otlp" or "zipkin"
	OTLPEndpoint   string
	ZipkinEndpoint string
	MetricsAddr    string
	CORSEnabled    bool
}

// Defaults returns the configuration used when no file, env var, or flag
// overrides it.
func Defaults() RuntimeConfig {
	return RuntimeConfig{
		RelaxedMode:    false,
		SchemaPath:     "",
		ListenAddr:     ":8080",
		LogLevel:       "info",
		MaxSessions:    1024,
		TracingEnabled: false,
		TraceExporter:  "otlp",
		OTLPEndpoint:   "localhost:4318",
		ZipkinEndpoint: "http://localhost:9411/api/v2/spans",
		MetricsAddr:    ":9090",
		CORSEnabled:    true,
	}
}

// Load reads toolstream.yaml (searched in the working directory and
// $HOME) plus TOOLSTREAM_-prefixed environment variables into a
// RuntimeConfig seeded with Defaults. A missing config file is not an
// error — env vars and defaults still apply.
func Load() (RuntimeConfig, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigName("toolstream")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("TOOLSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("relaxed_mode", cfg.RelaxedMode)
	v.SetDefault("schema_path", cfg.SchemaPath)
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("max_sessions", cfg.MaxSessions)
	v.SetDefault("tracing_enabled", cfg.TracingEnabled)
	v.SetDefault("trace_exporter", cfg.TraceExporter)
	v.SetDefault("otlp_endpoint", cfg.OTLPEndpoint)
	v.SetDefault("zipkin_endpoint", cfg.ZipkinEndpoint)
	v.SetDefault("metrics_addr", cfg.MetricsAddr)
	v.SetDefault("cors_enabled", cfg.CORSEnabled)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, fmt.Errorf("config: read toolstream.yaml: %w", err)
		}
	}

	cfg.RelaxedMode = v.GetBool("relaxed_mode")
	cfg.SchemaPath = v.GetString("schema_path")
	cfg.ListenAddr = v.GetString("listen_addr")
	cfg.LogLevel = v.GetString("log_level")
	cfg.MaxSessions = v.GetInt("max_sessions")
	cfg.TracingEnabled = v.GetBool("tracing_enabled")
	cfg.TraceExporter = v.GetString("trace_exporter")
	cfg.OTLPEndpoint = v.GetString("otlp_endpoint")
	cfg.ZipkinEndpoint = v.GetString("zipkin_endpoint")
	cfg.MetricsAddr = v.GetString("metrics_addr")
	cfg.CORSEnabled = v.GetBool("cors_enabled")

	return cfg, nil
}
