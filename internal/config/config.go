package config

import (
	"os"
	"strconv"
	"time"
)

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	URL         string
	MaxOpenConn int
	ConnMaxIdle time.Duration
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	SendTimeout time.Duration
}

// KafkaConfig holds event streaming settings.
type KafkaConfig struct {
	Brokers       []string
	EventTopic    string
	ConsumerGroup string
}

// MinioConfig holds document object-store settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds token and bootstrap-admin settings.
type AuthConfig struct {
	JWTSecret     string
	TokenExpiry   time.Duration
	AdminUsername string
	AdminPassword string
}

// DirectoryConfig holds employee-directory settings. Mode is "mock" (JSON
// file) or "live" (LDAP).
type DirectoryConfig struct {
	Mode         string
	MockFile     string
	ServerURL    string
	BaseDN       string
	BindUser     string
	BindPassword string
	Domain       string
}

// SchedulerConfig holds SLA scheduler settings.
type SchedulerConfig struct {
	Interval      time.Duration
	BusinessHours bool // restrict automatic ticks to weekday business hours
	HourStart     int
	HourEnd       int
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	HTTPAddr  string
	LogLevel  string
	AppURL    string
	DB        DBConfig
	SMTP      SMTPConfig
	Kafka     KafkaConfig
	Minio     MinioConfig
	Auth      AuthConfig
	Directory DirectoryConfig
	Scheduler SchedulerConfig
}

// Load reads configuration from the environment. Callers are expected to
// have run godotenv.Load first.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),
		AppURL:   envOr("APP_URL", "http://localhost:8080"),
		DB: DBConfig{
			URL:         os.Getenv("DATABASE_URL"),
			MaxOpenConn: envInt("DB_MAX_OPEN", 10),
			ConnMaxIdle: envDuration("DB_CONN_IDLE", 5*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:        envOr("SMTP_HOST", "localhost"),
			Port:        envInt("SMTP_PORT", 1025),
			Username:    os.Getenv("SMTP_USER"),
			Password:    os.Getenv("SMTP_PASSWORD"),
			From:        envOr("EMAIL_FROM", "contracts@local.dev"),
			SendTimeout: envDuration("SMTP_SEND_TIMEOUT", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       []string{envOr("KAFKA_BROKERS", "localhost:9092")},
			EventTopic:    envOr("KAFKA_EVENT_TOPIC", "contract-events"),
			ConsumerGroup: envOr("KAFKA_CONSUMER_GROUP", "contractpro-feed"),
		},
		Minio: MinioConfig{
			Endpoint:  envOr("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    envOr("MINIO_BUCKET", "contracts"),
			UseSSL:    envBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:     envOr("JWT_SECRET", "change-me-to-random-64-chars"),
			TokenExpiry:   envDuration("TOKEN_EXPIRY", 8*time.Hour),
			AdminUsername: envOr("ADMIN_USERNAME", "superadmin"),
			AdminPassword: envOr("ADMIN_PASSWORD", "admin123"),
		},
		Directory: DirectoryConfig{
			Mode:         envOr("DIRECTORY_MODE", "mock"),
			MockFile:     envOr("DIRECTORY_MOCK_FILE", "mock_data/directory_users.json"),
			ServerURL:    os.Getenv("LDAP_SERVER_URL"),
			BaseDN:       os.Getenv("LDAP_BASE_DN"),
			BindUser:     os.Getenv("LDAP_BIND_USER"),
			BindPassword: os.Getenv("LDAP_BIND_PASSWORD"),
			Domain:       os.Getenv("LDAP_DOMAIN"),
		},
		Scheduler: SchedulerConfig{
			Interval:      envDuration("SLA_CHECK_INTERVAL", time.Hour),
			BusinessHours: envBool("SLA_BUSINESS_HOURS_ONLY", true),
			HourStart:     envInt("SLA_HOUR_START", 8),
			HourEnd:       envInt("SLA_HOUR_END", 18),
		},
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
