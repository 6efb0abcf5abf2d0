package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

const minimal = `
[database]
host = "db"
user = "app"
dbname = "shows"

[auth_service]
url = "http://auth:8081"
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(minimal)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 60, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, domain.StatusPendingApproval, cfg.Booking.InitialCustomerStatus())
	assert.Equal(t, "host=db port=5432 user=app password= dbname=shows sslmode=disable", cfg.Database.DSN())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		extra string
	}{
		{"bad log level", "[logs]\nlevel = \"verbose\"\n"},
		{"terminal initial status", "[booking]\ncustomer_status = \"cancelled\"\n"},
		{"unknown initial status", "[booking]\ncustomer_status = \"maybe\"\n"},
		{"unknown timezone", "[booking]\ntimezone = \"Mars/Olympus\"\n"},
		{"port out of range", "[server]\nhttp_port = 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(minimal + tt.extra)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_MissingDatabase(t *testing.T) {
	_, err := Parse("[auth_service]\nurl = \"http://auth\"\n")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(minimal+"[booking]\ncustomer_status = \"confirmed\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, cfg.Booking.InitialCustomerStatus())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
