package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lyall/statusd/internal/version"
)

// Defaults
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 15000
	DefaultShutdownTimeout = time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// Config holds the process configuration
type Config struct {
	Host            string        `validate:"required"`
	Port            int           `validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `validate:"gt=0,lte=5m"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
	LogFormat       string        `validate:"oneof=json text"`
	RuntimeVersion  string        `validate:"omitempty,runtimeversion"`
	ConfigFile      string
}

// Addr returns the host:port listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// fileConfig mirrors the YAML config file. Unset keys keep the defaults.
type fileConfig struct {
	Host            *string `yaml:"host"`
	Port            *int    `yaml:"port"`
	ShutdownTimeout *string `yaml:"shutdownTimeout"`
	LogLevel        *string `yaml:"logLevel"`
	LogFormat       *string `yaml:"logFormat"`
	RuntimeVersion  *string `yaml:"runtimeVersion"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("runtimeversion", func(fl validator.FieldLevel) bool {
		_, ok := version.ParsePin(fl.Field().String())
		return ok
	}); err != nil {
		panic(fmt.Sprintf("config: register runtimeversion validation: %v", err))
	}
	return v
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// environment variables and command line flags, in increasing precedence.
// Usage and flag errors are written to output.
func Load(args []string, output io.Writer) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("statusd", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	configFile := fs.String("config", getEnv("STATUSD_CONFIG", ""), "Path to a YAML config file")
	host := fs.String("host", "", "Host to bind to")
	port := fs.Int("port", 0, "Port to listen on")
	shutdown := fs.Duration("shutdown-timeout", 0, "Grace period for in-flight requests on shutdown")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (json, text)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configFile != "" {
		if err := cfg.loadFile(*configFile); err != nil {
			return nil, err
		}
		cfg.ConfigFile = *configFile
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "shutdown-timeout":
			cfg.ShutdownTimeout = *shutdown
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Host != nil {
		c.Host = *fc.Host
	}
	if fc.Port != nil {
		c.Port = *fc.Port
	}
	if fc.ShutdownTimeout != nil {
		d, err := time.ParseDuration(*fc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: shutdownTimeout: %w", path, err)
		}
		c.ShutdownTimeout = d
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.LogFormat != nil {
		c.LogFormat = *fc.LogFormat
	}
	if fc.RuntimeVersion != nil {
		c.RuntimeVersion = *fc.RuntimeVersion
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Host = getEnv("STATUSD_HOST", c.Host)
	c.LogLevel = getEnv("STATUSD_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("STATUSD_LOG_FORMAT", c.LogFormat)
	c.RuntimeVersion = getEnv("STATUSD_RUNTIME_VERSION", c.RuntimeVersion)

	if v := os.Getenv("STATUSD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STATUSD_PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("STATUSD_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STATUSD_SHUTDOWN_TIMEOUT: %w", err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
