// Package config provides configuration management for go-homepage.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Defaults match the development server the page was first served with.
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 5000
	DefaultTemplatesDir    = "templates"
	DefaultIndexTemplate   = "index.html"
	DefaultStaticDir       = "static"
	DefaultReloadInterval  = 1 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// MainConfig holds the main configuration for go-homepage
type MainConfig struct {
	Web *WebConfig

	AppVersion string // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	Host            string
	Port            int
	Debug           bool // development mode: reload on change, verbose error pages
	TemplatesDir    string
	IndexTemplate   string
	StaticDir       string
	ReloadInterval  time.Duration
	ShutdownTimeout time.Duration
	PprofAddr       string // empty disables the profiler
	LogFile         string // empty logs to stdout only
}

// fileConfig is the on-disk TOML layout. Durations are kept as strings
// ("500ms", "2s") and parsed after decoding.
type fileConfig struct {
	Web struct {
		Host            *string `toml:"host"`
		Port            *int    `toml:"port"`
		Debug           *bool   `toml:"debug"`
		TemplatesDir    *string `toml:"templates_dir"`
		IndexTemplate   *string `toml:"index_template"`
		StaticDir       *string `toml:"static_dir"`
		ReloadInterval  *string `toml:"reload_interval"`
		ShutdownTimeout *string `toml:"shutdown_timeout"`
		PprofAddr       *string `toml:"pprof_addr"`
		LogFile         *string `toml:"log_file"`
	} `toml:"web"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		Web: &WebConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			Debug:           true,
			TemplatesDir:    DefaultTemplatesDir,
			IndexTemplate:   DefaultIndexTemplate,
			StaticDir:       DefaultStaticDir,
			ReloadInterval:  DefaultReloadInterval,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}

// Load reads a TOML file and overlays the values it sets on the defaults.
func Load(path string) (*MainConfig, error) {
	cfg := NewDefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.apply(data); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *MainConfig) apply(data []byte) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return err
	}
	w := c.Web
	if fc.Web.Host != nil {
		w.Host = *fc.Web.Host
	}
	if fc.Web.Port != nil {
		w.Port = *fc.Web.Port
	}
	if fc.Web.Debug != nil {
		w.Debug = *fc.Web.Debug
	}
	if fc.Web.TemplatesDir != nil {
		w.TemplatesDir = *fc.Web.TemplatesDir
	}
	if fc.Web.IndexTemplate != nil {
		w.IndexTemplate = *fc.Web.IndexTemplate
	}
	if fc.Web.StaticDir != nil {
		w.StaticDir = *fc.Web.StaticDir
	}
	if fc.Web.PprofAddr != nil {
		w.PprofAddr = *fc.Web.PprofAddr
	}
	if fc.Web.LogFile != nil {
		w.LogFile = *fc.Web.LogFile
	}
	if fc.Web.ReloadInterval != nil {
		d, err := time.ParseDuration(*fc.Web.ReloadInterval)
		if err != nil {
			return fmt.Errorf("reload_interval: %w", err)
		}
		w.ReloadInterval = d
	}
	if fc.Web.ShutdownTimeout != nil {
		d, err := time.ParseDuration(*fc.Web.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("shutdown_timeout: %w", err)
		}
		w.ShutdownTimeout = d
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (w *WebConfig) Addr() string {
	return net.JoinHostPort(w.Host, strconv.Itoa(w.Port))
}

// Validate checks the settings the server cannot start without.
func (w *WebConfig) Validate() error {
	var errs []error
	if w.Host == "" {
		errs = append(errs, errors.New("host must not be empty"))
	}
	if w.Port < 1 || w.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", w.Port))
	}
	if w.TemplatesDir == "" {
		errs = append(errs, errors.New("templates dir must not be empty"))
	}
	if w.IndexTemplate == "" {
		errs = append(errs, errors.New("index template must not be empty"))
	}
	if w.ReloadInterval <= 0 {
		errs = append(errs, fmt.Errorf("reload interval must be positive, got %s", w.ReloadInterval))
	}
	if w.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %s", w.ShutdownTimeout))
	}
	return errors.Join(errs...)
}
