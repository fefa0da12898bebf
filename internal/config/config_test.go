package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "DB_MAX_CONNS", "ATTENDANCE_CODE_TTL", "RATE_LIMIT_PER_MIN"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, time.Duration(0), cfg.AttendanceCodeTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("ATTENDANCE_CODE_TTL", "10m")
	t.Setenv("HTTP_PORT", "9090")

	cfg := Load()
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 4, cfg.DBMaxConns)
	assert.Equal(t, 10*time.Minute, cfg.AttendanceCodeTTL)
}

func TestLoadFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("ATTENDANCE_CODE_TTL", "soon")

	cfg := Load()
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, time.Duration(0), cfg.AttendanceCodeTTL)
}
