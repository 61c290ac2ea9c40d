package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		log.Println("🚀 Running in Railway, using system ENV")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env not found, using system ENV")
	} else {
		log.Println("✅ .env loaded")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// GetEnvDuration accepts Go durations ("90s", "24h") or plain seconds.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// =======================
// APP CONFIG
// =======================

type DBConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// StatementTimeout is sent as the postgres statement_timeout option (ms).
	StatementTimeout int
	SlowThreshold    time.Duration
	LogLevel         string
}

type QuizConfig struct {
	MaPerSession  int
	TfPerSession  int
	MaxSample     int
	ScoringPolicy string
}

type ReaperConfig struct {
	SessionTTL time.Duration
	Schedule   string
	BatchSize  int
}

type AppConfig struct {
	Port             string
	LogLevel         string
	LogFormat        string
	CorsAllowOrigins string
	RateLimitMax     int
	RateLimitWindow  time.Duration
	RequestTimeout   time.Duration
	AutoMigrate      bool

	DB     DBConfig
	Quiz   QuizConfig
	Reaper ReaperConfig
}

// Load reads the whole configuration from the environment (call LoadEnv first).
func Load() *AppConfig {
	return &AppConfig{
		Port:             GetEnv("PORT", "3000"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		LogFormat:        GetEnv("LOG_FORMAT", "text"),
		CorsAllowOrigins: GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		RateLimitMax:     GetEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow:  GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		RequestTimeout:   GetEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		AutoMigrate:      GetEnvBool("AUTO_MIGRATE", false),

		DB: DBConfig{
			URL:              GetEnv("DATABASE_URL"),
			Host:             GetEnv("DB_HOST", "localhost"),
			Port:             GetEnv("DB_PORT", "5432"),
			User:             GetEnv("DB_USER", "postgres"),
			Password:         GetEnv("DB_PASSWORD"),
			Name:             GetEnv("DB_NAME", "quiz"),
			SSLMode:          GetEnv("DB_SSLMODE", "disable"),
			StatementTimeout: GetEnvInt("DB_STATEMENT_TIMEOUT_MS", 3000),
			SlowThreshold:    GetEnvDuration("DB_SLOW_THRESHOLD", 200*time.Millisecond),
			LogLevel:         GetEnv("DB_LOG_LEVEL", "warn"),
		},
		Quiz: QuizConfig{
			MaPerSession:  GetEnvInt("QUIZ_MA_PER_SESSION", 2),
			TfPerSession:  GetEnvInt("QUIZ_TF_PER_SESSION", 2),
			MaxSample:     GetEnvInt("QUIZ_MAX_SAMPLE", 50),
			ScoringPolicy: GetEnv("SCORING_POLICY", "flat"),
		},
		Reaper: ReaperConfig{
			SessionTTL: GetEnvDuration("SESSION_TTL", 0),
			Schedule:   GetEnv("REAPER_SCHEDULE", "@every 5m"),
			BatchSize:  GetEnvInt("REAPER_BATCH_SIZE", 100),
		},
	}
}
