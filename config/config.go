package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Sensitive data must never have defaults inside code and has to be provided
// via a .env file or the environment.
type AppConfig struct {
	AppPort            string   `env:"APP_PORT" envDefault:"8000"`
	GinMode            string   `env:"GIN_MODE" envDefault:"release"`
	AllowedOrigins     []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`

	// Token verification. Tokens are issued by the auth service; this service
	// only verifies them against the shared secret.
	JWTSecret    string `env:"JWT_SECRET"`
	JWTAlgorithm string `env:"JWT_ALGORITHM" envDefault:"HS256"`

	// Relational store. DatabaseURI wins when set; the DB* parts are the
	// fallback for deployments that configure pieces separately.
	DatabaseURI string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort      string `env:"DB_PORT" envDefault:"3306"`
	DBUser      string `env:"DB_USER" envDefault:"root"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" envDefault:"inference"`

	// Key-value store holding the revoked-token identifiers.
	RedisHost     string `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Object storage for archived upload bytes.
	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"127.0.0.1:9000"`
	MinioAccessKey string `env:"MINIO_ROOT_USER"`
	MinioSecretKey string `env:"MINIO_ROOT_PASSWORD"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"images"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	// Optional proxy in front of the object store; overrides MinioEndpoint.
	S3ProxyURL string `env:"LOCAL_S3_PROXY_SERVICE_URL"`

	// Model source. Local artifacts bundled with the deployment, or a fetch
	// from the MLflow tracking server, chosen once at boot.
	ModelUseLocal     bool   `env:"MODEL_USE_LOCAL" envDefault:"true"`
	ModelDir          string `env:"MODEL_DIR" envDefault:"./model"`
	ModelInputSize    int    `env:"MODEL_INPUT_SIZE" envDefault:"224"`
	MLflowTrackingURI string `env:"MLFLOW_TRACKING_URI"`
	ModelURI          string `env:"MODEL_URI"`
	MLflowRunID       string `env:"MLFLOW_RUN_ID"`

	// Telemetry collector endpoint. Recognized and carried for the
	// deployment tooling; span/metric exporters are not wired in-process.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Background recorder sizing.
	RecorderQueueSize int `env:"RECORDER_QUEUE_SIZE" envDefault:"1024"`
	RecorderWorkers   int `env:"RECORDER_WORKERS" envDefault:"2"`

	// Logging configuration.
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath       string `env:"LOG_PATH"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"7"`
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"false"`
}

var cfg AppConfig
var loaded bool

// Load reads the application configuration from the environment. It should
// be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// .env is a local development convenience; in real deployments the
	// variables come from the environment and the file is absent.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse configuration: %v", err)
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}
