package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Database.User = "civiclens"
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, DefaultDBMaxConns, cfg.Database.MaxConns)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Equal(t, 2000.0, cfg.Triage.Assignment.HighConfidenceMeters)
	assert.Equal(t, 5000.0, cfg.Triage.Assignment.MediumConfidenceMeters)

	d := cfg.Triage.Duplicate
	assert.Equal(t, 200.0, d.RadiusMeters)
	assert.Equal(t, 500.0, d.RadiusCapMeters)
	assert.Equal(t, 7, d.WindowDays)
	assert.InDelta(t, 1.0, d.TextWeight+d.GeoWeight+d.CategoryWeight+d.TimeWeight, 1e-9)
	assert.Equal(t, 0.3, d.ReportThreshold)
	assert.Equal(t, 0.75, d.DuplicateThreshold)
	assert.Equal(t, 0.95, d.ExactMatchThreshold)

	s := cfg.Triage.Similarity
	assert.InDelta(t, 1.0, s.JaccardWeight+s.CosineWeight+s.EditWeight, 1e-9)
	assert.Equal(t, 100, s.EditMaxLen)

	sev := cfg.Triage.Severity
	assert.InDelta(t, 1.0, sev.FrequencyWeight+sev.DurationWeight+sev.CategoryUrgencyWeight+
		sev.AreaImpactWeight+sev.CitizenUrgencyWeight, 1e-9)
	assert.NotEmpty(t, sev.CriticalKeywords)

	assert.Equal(t, 72, cfg.Triage.SLA.DefaultHours)
	assert.Equal(t, 24, cfg.Triage.SLA.HoursByCategory["water"])
	assert.Equal(t, 12, cfg.Triage.SLA.HoursByCategory["electricity"])
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Triage.Duplicate.TextWeight = 0.7
	cfg.Triage.Duplicate.GeoWeight = 0.3
	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 0.7, cfg.Triage.Duplicate.TextWeight)
	assert.Equal(t, 0.0, cfg.Triage.Duplicate.CategoryWeight)
}

func TestConfig_Validate_Defaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"bad mode", func(c *Config) { c.Server.Mode = "production" }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"missing db user", func(c *Config) { c.Database.User = "" }},
		{"redis enabled without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }},
		{"kafka enabled without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"confidence edges inverted", func(c *Config) {
			c.Triage.Assignment.HighConfidenceMeters = 5000
			c.Triage.Assignment.MediumConfidenceMeters = 2000
		}},
		{"radius cap below radius", func(c *Config) {
			c.Triage.Duplicate.RadiusMeters = 800
			c.Triage.Duplicate.RadiusCapMeters = 500
		}},
		{"thresholds out of order", func(c *Config) {
			c.Triage.Duplicate.ReportThreshold = 0.8
			c.Triage.Duplicate.DuplicateThreshold = 0.75
		}},
		{"duplicate weights not summing", func(c *Config) { c.Triage.Duplicate.TextWeight = 0.9 }},
		{"similarity weights not summing", func(c *Config) { c.Triage.Similarity.CosineWeight = 0.9 }},
		{"severity weights not summing", func(c *Config) { c.Triage.Severity.FrequencyWeight = 0.5 }},
		{"zero window days", func(c *Config) { c.Triage.Duplicate.WindowDays = -1 }},
		{"zero sla hours", func(c *Config) { c.Triage.SLA.HoursByCategory = map[string]int{"water": 0} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWeightsSumToOne(t *testing.T) {
	assert.True(t, weightsSumToOne(0.5, 0.25, 0.15, 0.10))
	assert.False(t, weightsSumToOne(0.5, 0.25))
	assert.False(t, weightsSumToOne(1.5, -0.5))
}
