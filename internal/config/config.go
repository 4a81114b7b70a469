// Package config reads the console settings from the environment, after
// merging optional .env files.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Prefix is prepended to every variable name.
const Prefix = "GRANJA_"

// DefaultEnvFiles are merged under the process environment when present.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	APIURL       string        `env:"API_URL,required,notEmpty"`          // GRANJA_API_URL (required)
	SessionFile  string        `env:"SESSION_FILE"`                       // GRANJA_SESSION_FILE (default ~/.local/state/granja/session.toml)
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`        // GRANJA_LOG_LEVEL
	LogFormat    string        `env:"LOG_FORMAT" envDefault:"console"`    // GRANJA_LOG_FORMAT (console|json)
	PageSize     int           `env:"PAGE_SIZE" envDefault:"10"`          // GRANJA_PAGE_SIZE (1..100)
	AlertTimeout time.Duration `env:"ALERT_TIMEOUT" envDefault:"4s"`      // GRANJA_ALERT_TIMEOUT
	NATSURL      string        `env:"NATS_URL"`                           // GRANJA_NATS_URL (optional, empty = no events)
	ViewsFile    string        `env:"VIEWS_FILE"`                         // GRANJA_VIEWS_FILE (default ~/.config/granja/views.yaml)

	// Export settings
	ExportS3Bucket   string `env:"EXPORT_S3_BUCKET"`                            // GRANJA_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Region   string `env:"EXPORT_S3_REGION" envDefault:"us-east-1"`     // GRANJA_EXPORT_S3_REGION
	ExportS3Endpoint string `env:"EXPORT_S3_ENDPOINT"`                          // GRANJA_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Prefix   string `env:"EXPORT_S3_PREFIX" envDefault:"granja/exports"` // GRANJA_EXPORT_S3_PREFIX
}

// Load merges the existing files among DefaultEnvFiles under the process
// environment and parses the result.
func Load() (*Config, error) {
	environ, err := Environ(DefaultEnvFiles...)
	if err != nil {
		return nil, err
	}
	return Parse(environ)
}

// Environ returns the process environment with the variables of the
// existing files filled in where the process does not set them. Missing
// files are skipped.
func Environ(files ...string) (map[string]string, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	out := map[string]string{}
	if len(existing) > 0 {
		fromFiles, err := godotenv.Read(existing...)
		if err != nil {
			return nil, errors.Wrap(err, "reading env files")
		}
		out = fromFiles
	}
	for k, v := range env.ToMap(os.Environ()) {
		out[k] = v
	}
	return out, nil
}

// Parse builds a validated Config from environ.
func Parse(environ map[string]string) (*Config, error) {
	c := &Config{}
	if err := env.ParseWithOptions(c, env.Options{Prefix: Prefix, Environment: environ}); err != nil {
		return nil, errors.Wrap(err, "parsing environment")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges. Field errors are keyed by variable name.
func (c *Config) Validate() error {
	err := validation.Errors{
		Prefix + "API_URL": validation.Validate(c.APIURL, validation.Required, is.URL),
		Prefix + "LOG_FORMAT": validation.Validate(c.LogFormat,
			validation.In("console", "json").Error("must be console or json")),
		Prefix + "PAGE_SIZE":          validation.Validate(c.PageSize, validation.Min(1), validation.Max(100)),
		Prefix + "ALERT_TIMEOUT":      validation.Validate(c.AlertTimeout, validation.Min(time.Duration(0))),
		Prefix + "EXPORT_S3_ENDPOINT": validation.Validate(c.ExportS3Endpoint, is.URL),
	}.Filter()
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// ExportToS3 reports whether exports go to a bucket instead of local files.
func (c *Config) ExportToS3() bool { return c.ExportS3Bucket != "" }
