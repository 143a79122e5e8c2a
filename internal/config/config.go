// Package config defines the configuration structures for CivicLens.  No I/O
// or parsing lives here, only plain data types and semantic validation.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Infrastructure sections
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters.  Enabled=false makes every
// cache consumer fall back to the in-memory cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds event-bus producer parameters.  Enabled=false disables
// publishing entirely; triage output never depends on the bus.
type KafkaConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Brokers         []string `mapstructure:"brokers"`
	ProducerRetries int      `mapstructure:"producer_retries"`
	BatchSize       int      `mapstructure:"batch_size"`
	BatchTimeoutMS  int      `mapstructure:"batch_timeout_ms"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Triage sections
// ─────────────────────────────────────────────────────────────────────────────

// AssignmentConfig holds jurisdiction-resolution tunables.
type AssignmentConfig struct {
	// MaxDistanceMeters bounds the nearest-center fallback search.
	MaxDistanceMeters float64 `mapstructure:"max_distance_meters"`

	// HighConfidenceMeters and MediumConfidenceMeters are the upper edges of
	// the confidence buckets for nearest assignments: distance below High is
	// "high", [High, Medium] is "medium", above Medium is "low".
	HighConfidenceMeters   float64 `mapstructure:"high_confidence_meters"`
	MediumConfidenceMeters float64 `mapstructure:"medium_confidence_meters"`

	// ManualWarnDistanceMeters triggers an advisory warning when a manually
	// selected unit's center is farther than this from the complaint.
	ManualWarnDistanceMeters float64 `mapstructure:"manual_warn_distance_meters"`
}

// DuplicateConfig holds duplicate-detection tunables.
type DuplicateConfig struct {
	// RadiusMeters is the default candidate search radius; requests above
	// RadiusCapMeters are clamped.  The cap also normalizes the geo
	// proximity decay so scores stay comparable across configurations.
	RadiusMeters    float64 `mapstructure:"radius_meters"`
	RadiusCapMeters float64 `mapstructure:"radius_cap_meters"`
	WindowDays      int     `mapstructure:"window_days"`
	ScoreLimit      int     `mapstructure:"score_limit"`
	TopCandidates   int     `mapstructure:"top_candidates"`

	// ReportThreshold is the minimum combined score a candidate needs to be
	// included in the result; DuplicateThreshold marks the complaint a
	// duplicate; ExactMatchThreshold applies to text similarity alone.
	ReportThreshold     float64 `mapstructure:"report_threshold"`
	DuplicateThreshold  float64 `mapstructure:"duplicate_threshold"`
	ExactMatchThreshold float64 `mapstructure:"exact_match_threshold"`

	// Combined score weights.  Must sum to 1.
	TextWeight     float64 `mapstructure:"text_weight"`
	GeoWeight      float64 `mapstructure:"geo_weight"`
	CategoryWeight float64 `mapstructure:"category_weight"`
	TimeWeight     float64 `mapstructure:"time_weight"`
}

// SimilarityConfig holds text-similarity tunables.
type SimilarityConfig struct {
	// Per-metric weights for the combined text score.  Must sum to 1.
	JaccardWeight float64 `mapstructure:"jaccard_weight"`
	CosineWeight  float64 `mapstructure:"cosine_weight"`
	EditWeight    float64 `mapstructure:"edit_weight"`

	// EditMaxLen is the length above which the edit-distance metric is
	// skipped and its weight redistributed implicitly by contributing zero.
	EditMaxLen int `mapstructure:"edit_max_len"`
}

// SeverityConfig holds severity-scoring tunables.
type SeverityConfig struct {
	// Factor weights.  Must sum to 1.
	FrequencyWeight       float64 `mapstructure:"frequency_weight"`
	DurationWeight        float64 `mapstructure:"duration_weight"`
	CategoryUrgencyWeight float64 `mapstructure:"category_urgency_weight"`
	AreaImpactWeight      float64 `mapstructure:"area_impact_weight"`
	CitizenUrgencyWeight  float64 `mapstructure:"citizen_urgency_weight"`

	// Keyword tiers scanned in the complaint text for citizen urgency.
	CriticalKeywords []string `mapstructure:"critical_keywords"`
	HighKeywords     []string `mapstructure:"high_keywords"`
	MediumKeywords   []string `mapstructure:"medium_keywords"`
}

// SLAConfig holds deadline tunables.
type SLAConfig struct {
	// DefaultHours applies when a category carries no SLA of its own.
	DefaultHours int `mapstructure:"default_hours"`

	// HoursByCategory maps lowercase category names to SLA hours.
	HoursByCategory map[string]int `mapstructure:"hours_by_category"`

	// SweepInterval is the cadence of the breach sweep worker.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// CacheConfig holds memoization tunables for the triage pipeline.
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	SimilarityTTL time.Duration `mapstructure:"similarity_ttl"`
	GeoTTL        time.Duration `mapstructure:"geo_ttl"`
	MaxEntries    int           `mapstructure:"max_entries"`
}

// TriageConfig groups every triage tunable.
type TriageConfig struct {
	Assignment AssignmentConfig `mapstructure:"assignment"`
	Duplicate  DuplicateConfig  `mapstructure:"duplicate"`
	Similarity SimilarityConfig `mapstructure:"similarity"`
	Severity   SeverityConfig   `mapstructure:"severity"`
	SLA        SLAConfig        `mapstructure:"sla"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Database DatabaseConfig    `mapstructure:"database"`
	Redis    RedisConfig       `mapstructure:"redis"`
	Kafka    KafkaConfig       `mapstructure:"kafka"`
	Log      logging.LogConfig `mapstructure:"log"`
	Triage   TriageConfig      `mapstructure:"triage"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

const weightEpsilon = 1e-6

func weightsSumToOne(ws ...float64) bool {
	sum := 0.0
	for _, w := range ws {
		if w < 0 {
			return false
		}
		sum += w
	}
	return math.Abs(sum-1.0) < weightEpsilon
}

// Validate performs semantic validation of a fully-populated Config.  Any
// error is fatal; the application must refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker when kafka is enabled")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}

	return c.Triage.Validate()
}

// Validate checks the triage tunables for internal consistency.
func (t *TriageConfig) Validate() error {
	a := t.Assignment
	if a.MaxDistanceMeters <= 0 {
		return fmt.Errorf("config: triage.assignment.max_distance_meters must be > 0, got %g", a.MaxDistanceMeters)
	}
	if a.HighConfidenceMeters <= 0 || a.MediumConfidenceMeters <= a.HighConfidenceMeters {
		return fmt.Errorf("config: triage.assignment confidence edges must satisfy 0 < high < medium, got high=%g medium=%g",
			a.HighConfidenceMeters, a.MediumConfidenceMeters)
	}

	d := t.Duplicate
	if d.RadiusMeters <= 0 {
		return fmt.Errorf("config: triage.duplicate.radius_meters must be > 0, got %g", d.RadiusMeters)
	}
	if d.RadiusCapMeters < d.RadiusMeters {
		return fmt.Errorf("config: triage.duplicate.radius_cap_meters %g must be >= radius_meters %g",
			d.RadiusCapMeters, d.RadiusMeters)
	}
	if d.WindowDays < 1 {
		return fmt.Errorf("config: triage.duplicate.window_days must be >= 1, got %d", d.WindowDays)
	}
	if !(d.ReportThreshold <= d.DuplicateThreshold && d.DuplicateThreshold <= d.ExactMatchThreshold) {
		return fmt.Errorf("config: triage.duplicate thresholds must satisfy report <= duplicate <= exact, got %g/%g/%g",
			d.ReportThreshold, d.DuplicateThreshold, d.ExactMatchThreshold)
	}
	if !weightsSumToOne(d.TextWeight, d.GeoWeight, d.CategoryWeight, d.TimeWeight) {
		return fmt.Errorf("config: triage.duplicate weights must be non-negative and sum to 1")
	}

	if !weightsSumToOne(t.Similarity.JaccardWeight, t.Similarity.CosineWeight, t.Similarity.EditWeight) {
		return fmt.Errorf("config: triage.similarity weights must be non-negative and sum to 1")
	}
	if t.Similarity.EditMaxLen < 1 {
		return fmt.Errorf("config: triage.similarity.edit_max_len must be >= 1, got %d", t.Similarity.EditMaxLen)
	}

	s := t.Severity
	if !weightsSumToOne(s.FrequencyWeight, s.DurationWeight, s.CategoryUrgencyWeight, s.AreaImpactWeight, s.CitizenUrgencyWeight) {
		return fmt.Errorf("config: triage.severity weights must be non-negative and sum to 1")
	}

	if t.SLA.DefaultHours < 1 {
		return fmt.Errorf("config: triage.sla.default_hours must be >= 1, got %d", t.SLA.DefaultHours)
	}
	for cat, hours := range t.SLA.HoursByCategory {
		if hours < 1 {
			return fmt.Errorf("config: triage.sla.hours_by_category[%s] must be >= 1, got %d", cat, hours)
		}
	}

	return nil
}
