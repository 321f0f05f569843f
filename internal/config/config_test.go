package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 15, cfg.Shift.ToleranceMinutes)
	assert.Equal(t, 30, cfg.Shift.SeverityMinorMax)
	assert.Equal(t, 60, cfg.Shift.SeverityModerateMax)
	assert.Equal(t, 120, cfg.Shift.SeverityMajorMax)
	assert.Equal(t, 48, cfg.Shift.SwapDefaultExpiryHours)
	assert.Equal(t, 15*time.Minute, cfg.Shift.SwapSweepInterval)
	assert.Equal(t, "0.01", cfg.Payroll.LatePenaltyRate)
	assert.Equal(t, 22, cfg.Payroll.WorkingDaysPerMonth)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHIFT_TOLERANCE_MINUTES", "10")
	t.Setenv("SWAP_SWEEP_INTERVAL", "5m")
	t.Setenv("VIOLATION_ESCALATION_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Shift.ToleranceMinutes)
	assert.Equal(t, 5*time.Minute, cfg.Shift.SwapSweepInterval)
	assert.True(t, cfg.Shift.EscalationEnabled)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "x")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_PASSWORD", "x")
	t.Setenv("JWT_SECRET_KEY", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnorderedThresholds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VIOLATION_MINOR_MAX_MINUTES", "60")
	t.Setenv("VIOLATION_MODERATE_MAX_MINUTES", "60")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.internal",
			Port:     5433,
			User:     "shiftops",
			Password: "pw",
			Name:     "shiftops",
			SSLMode:  "require",
		},
	}
	assert.Equal(t,
		"postgres://shiftops:pw@db.internal:5433/shiftops?sslmode=require",
		cfg.DatabaseURL(),
	)
}
