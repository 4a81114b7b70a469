package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		name      string
		env       map[string]string
		wantErr   string
		wantPage  int
		wantAlert time.Duration
		wantS3    bool
	}{
		{
			name:    "MissingAPIURL",
			env:     map[string]string{},
			wantErr: "parsing environment",
		},
		{
			name:      "Defaults",
			env:       map[string]string{"GRANJA_API_URL": "http://localhost:3000/api"},
			wantPage:  10,
			wantAlert: 4 * time.Second,
		},
		{
			name: "Overrides",
			env: map[string]string{
				"GRANJA_API_URL":          "https://granja.example.com/api",
				"GRANJA_PAGE_SIZE":        "25",
				"GRANJA_ALERT_TIMEOUT":    "2s",
				"GRANJA_EXPORT_S3_BUCKET": "reportes",
			},
			wantPage:  25,
			wantAlert: 2 * time.Second,
			wantS3:    true,
		},
		{
			name:    "InvalidURL",
			env:     map[string]string{"GRANJA_API_URL": "not a url"},
			wantErr: "GRANJA_API_URL",
		},
		{
			name:    "PageSizeTooLarge",
			env:     map[string]string{"GRANJA_API_URL": "http://localhost:3000/api", "GRANJA_PAGE_SIZE": "500"},
			wantErr: "GRANJA_PAGE_SIZE",
		},
		{
			name:    "PageSizeNotANumber",
			env:     map[string]string{"GRANJA_API_URL": "http://localhost:3000/api", "GRANJA_PAGE_SIZE": "diez"},
			wantErr: "parsing environment",
		},
		{
			name:    "BadLogFormat",
			env:     map[string]string{"GRANJA_API_URL": "http://localhost:3000/api", "GRANJA_LOG_FORMAT": "xml"},
			wantErr: "GRANJA_LOG_FORMAT",
		},
		{
			name:    "BadDuration",
			env:     map[string]string{"GRANJA_API_URL": "http://localhost:3000/api", "GRANJA_ALERT_TIMEOUT": "pronto"},
			wantErr: "parsing environment",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse(tc.env)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, cfg.PageSize)
			assert.Equal(t, tc.wantAlert, cfg.AlertTimeout)
			assert.Equal(t, tc.wantS3, cfg.ExportToS3())
			assert.Equal(t, "info", cfg.LogLevel)
			assert.Equal(t, "us-east-1", cfg.ExportS3Region)
			assert.Equal(t, "granja/exports", cfg.ExportS3Prefix)
		})
	}
}

func TestValidateReportsFieldErrors(t *testing.T) {
	c := &Config{APIURL: "http://localhost:3000/api", LogFormat: "console", PageSize: 0}
	err := c.Validate()
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "GRANJA_PAGE_SIZE")
	assert.NotContains(t, verrs, "GRANJA_API_URL")
}

func TestEnvironMergesFilesUnderProcessEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("GRANJA_API_URL=http://localhost:4000/api\nGRANJA_PAGE_SIZE=20\n"), 0o644))
	t.Setenv("GRANJA_PAGE_SIZE", "30")

	environ, err := Environ(file, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/api", environ["GRANJA_API_URL"])
	assert.Equal(t, "30", environ["GRANJA_PAGE_SIZE"])

	cfg, err := Parse(environ)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.PageSize)
}
