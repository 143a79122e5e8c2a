package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "civiclens"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "civiclens"

	DefaultKafkaBroker = "localhost:9092"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Assignment defaults.
	DefaultAssignMaxDistanceMeters    = 20000.0
	DefaultAssignHighConfidenceMeters = 2000.0
	DefaultAssignMedConfidenceMeters  = 5000.0
	DefaultManualWarnDistanceMeters   = 10000.0

	// Duplicate-detection defaults.
	DefaultDupRadiusMeters        = 200.0
	DefaultDupRadiusCapMeters     = 500.0
	DefaultDupWindowDays          = 7
	DefaultDupScoreLimit          = 20
	DefaultDupTopCandidates       = 5
	DefaultDupReportThreshold     = 0.3
	DefaultDupDuplicateThreshold  = 0.75
	DefaultDupExactMatchThreshold = 0.95

	// Similarity defaults.
	DefaultSimEditMaxLen = 100

	// SLA defaults.
	DefaultSLAHours         = 72
	DefaultSLASweepInterval = 10 * time.Minute

	// Cache defaults.
	DefaultCacheSimilarityTTL = 15 * time.Minute
	DefaultCacheGeoTTL        = time.Hour
	DefaultCacheMaxEntries    = 10000
)

// DefaultSLAHoursByCategory is the authoritative per-category SLA table.
var DefaultSLAHoursByCategory = map[string]int{
	"water":       24,
	"roads":       48,
	"garbage":     24,
	"electricity": 12,
	"others":      96,
}

// LegacySeedSLAHours is the older seed table kept for migration reference; it
// conflicted with the served values and is not read by the engine.
var LegacySeedSLAHours = map[string]int{
	"water":       48,
	"roads":       72,
	"garbage":     24,
	"electricity": 24,
	"others":      96,
}

// Default urgency keyword tiers scanned in complaint text.
var (
	DefaultCriticalKeywords = []string{
		"emergency", "danger", "dangerous", "urgent", "life-threatening",
		"fire", "flood", "collapse", "electrocution", "gas leak", "accident",
	}
	DefaultHighKeywords = []string{
		"severe", "serious", "hazard", "unsafe", "injury", "broken", "burst",
		"overflow", "exposed",
	}
	DefaultMediumKeywords = []string{
		"problem", "issue", "damaged", "leaking", "blocked", "not working",
	}
)

// ApplyDefaults fills zero-value fields in cfg with service defaults.  Fields
// already set by the caller are left unchanged so explicit configuration
// always wins.  Call after unmarshalling and before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = time.Hour
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}
	if cfg.Kafka.BatchTimeoutMS == 0 {
		cfg.Kafka.BatchTimeoutMS = 100
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	applyTriageDefaults(&cfg.Triage)
}

func applyTriageDefaults(t *TriageConfig) {
	// ── Assignment ────────────────────────────────────────────────────────────
	if t.Assignment.MaxDistanceMeters == 0 {
		t.Assignment.MaxDistanceMeters = DefaultAssignMaxDistanceMeters
	}
	if t.Assignment.HighConfidenceMeters == 0 {
		t.Assignment.HighConfidenceMeters = DefaultAssignHighConfidenceMeters
	}
	if t.Assignment.MediumConfidenceMeters == 0 {
		t.Assignment.MediumConfidenceMeters = DefaultAssignMedConfidenceMeters
	}
	if t.Assignment.ManualWarnDistanceMeters == 0 {
		t.Assignment.ManualWarnDistanceMeters = DefaultManualWarnDistanceMeters
	}

	// ── Duplicate ─────────────────────────────────────────────────────────────
	if t.Duplicate.RadiusMeters == 0 {
		t.Duplicate.RadiusMeters = DefaultDupRadiusMeters
	}
	if t.Duplicate.RadiusCapMeters == 0 {
		t.Duplicate.RadiusCapMeters = DefaultDupRadiusCapMeters
	}
	if t.Duplicate.WindowDays == 0 {
		t.Duplicate.WindowDays = DefaultDupWindowDays
	}
	if t.Duplicate.ScoreLimit == 0 {
		t.Duplicate.ScoreLimit = DefaultDupScoreLimit
	}
	if t.Duplicate.TopCandidates == 0 {
		t.Duplicate.TopCandidates = DefaultDupTopCandidates
	}
	if t.Duplicate.ReportThreshold == 0 {
		t.Duplicate.ReportThreshold = DefaultDupReportThreshold
	}
	if t.Duplicate.DuplicateThreshold == 0 {
		t.Duplicate.DuplicateThreshold = DefaultDupDuplicateThreshold
	}
	if t.Duplicate.ExactMatchThreshold == 0 {
		t.Duplicate.ExactMatchThreshold = DefaultDupExactMatchThreshold
	}
	if t.Duplicate.TextWeight == 0 && t.Duplicate.GeoWeight == 0 &&
		t.Duplicate.CategoryWeight == 0 && t.Duplicate.TimeWeight == 0 {
		t.Duplicate.TextWeight = 0.5
		t.Duplicate.GeoWeight = 0.25
		t.Duplicate.CategoryWeight = 0.15
		t.Duplicate.TimeWeight = 0.10
	}

	// ── Similarity ────────────────────────────────────────────────────────────
	if t.Similarity.JaccardWeight == 0 && t.Similarity.CosineWeight == 0 &&
		t.Similarity.EditWeight == 0 {
		t.Similarity.JaccardWeight = 0.4
		t.Similarity.CosineWeight = 0.5
		t.Similarity.EditWeight = 0.1
	}
	if t.Similarity.EditMaxLen == 0 {
		t.Similarity.EditMaxLen = DefaultSimEditMaxLen
	}

	// ── Severity ──────────────────────────────────────────────────────────────
	if t.Severity.FrequencyWeight == 0 && t.Severity.DurationWeight == 0 &&
		t.Severity.CategoryUrgencyWeight == 0 && t.Severity.AreaImpactWeight == 0 &&
		t.Severity.CitizenUrgencyWeight == 0 {
		t.Severity.FrequencyWeight = 0.30
		t.Severity.DurationWeight = 0.25
		t.Severity.CategoryUrgencyWeight = 0.20
		t.Severity.AreaImpactWeight = 0.15
		t.Severity.CitizenUrgencyWeight = 0.10
	}
	if len(t.Severity.CriticalKeywords) == 0 {
		t.Severity.CriticalKeywords = DefaultCriticalKeywords
	}
	if len(t.Severity.HighKeywords) == 0 {
		t.Severity.HighKeywords = DefaultHighKeywords
	}
	if len(t.Severity.MediumKeywords) == 0 {
		t.Severity.MediumKeywords = DefaultMediumKeywords
	}

	// ── SLA ───────────────────────────────────────────────────────────────────
	if t.SLA.DefaultHours == 0 {
		t.SLA.DefaultHours = DefaultSLAHours
	}
	if len(t.SLA.HoursByCategory) == 0 {
		t.SLA.HoursByCategory = DefaultSLAHoursByCategory
	}
	if t.SLA.SweepInterval == 0 {
		t.SLA.SweepInterval = DefaultSLASweepInterval
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if t.Cache.SimilarityTTL == 0 {
		t.Cache.SimilarityTTL = DefaultCacheSimilarityTTL
	}
	if t.Cache.GeoTTL == 0 {
		t.Cache.GeoTTL = DefaultCacheGeoTTL
	}
	if t.Cache.MaxEntries == 0 {
		t.Cache.MaxEntries = DefaultCacheMaxEntries
	}
}
