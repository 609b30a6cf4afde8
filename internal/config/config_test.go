package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
dbname = "court_booking"

[venue_service]
url = "http://venue:8081"

[booking]
timezone = "Asia/Bangkok"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 3, cfg.Booking.MaxSpanMonths)
	assert.Equal(t, 30, cfg.Booking.DurationStepMinutes)
	assert.Equal(t, 10*time.Second, cfg.Booking.CommitTimeoutDuration())
	assert.Equal(t, "host=db port=5432 user= password= dbname=court_booking sslmode=disable", cfg.Database.DSN())

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Bangkok", loc.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing venue url", `
[database]
host = "db"
dbname = "x"
`},
		{"unknown timezone", `
[database]
host = "db"
dbname = "x"
[venue_service]
url = "http://venue"
[booking]
timezone = "Mars/Olympus"
`},
		{"lock without addr", `
[database]
host = "db"
dbname = "x"
[venue_service]
url = "http://venue"
[lock]
enabled = true
addr = ""
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
