package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string        `env:"PORT,      default=8080"`
	Env      string        `env:"ENV,       default=development"`
	LogLevel string        `env:"LOG_LEVEL, default=info"`
	Shutdown time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	AI      AIConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	LoginRate  float64       `env:"LOGIN_RATE,  default=1"`
	LoginBurst int           `env:"LOGIN_BURST, default=5"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=feedback_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type StorageConfig struct {
	Provider  string `env:"STORAGE_PROVIDER,  default=local"`
	UploadDir string `env:"UPLOAD_DIR,        default=./public/uploads"`
	URLPrefix string `env:"UPLOAD_URL_PREFIX, default=/uploads"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION, default=us-east-1"`
	S3KeyID     string `env:"S3_KEY_ID"`
	S3Secret    string `env:"S3_SECRET"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

type AIConfig struct {
	APIKey          string        `env:"AI_API_KEY"`
	BaseURL         string        `env:"AI_BASE_URL,         default=https://api.groq.com/openai/v1"`
	Model           string        `env:"AI_MODEL,            default=llama3-8b-8192"`
	Timeout         time.Duration `env:"AI_TIMEOUT,          default=15s"`
	CacheTTL        time.Duration `env:"AI_CACHE_TTL,        default=1h"`
	Prefetch        bool          `env:"AI_PREFETCH,         default=false"`
	PrefetchWorkers int           `env:"AI_PREFETCH_WORKERS, default=2"`
}

// IsProduction reports whether ENV selects production behaviour such as
// Secure cookies and JSON-only logs.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Auth.LoginBurst < 1 {
		return nil, fmt.Errorf("load config: LOGIN_BURST must be at least 1")
	}
	return &cfg, nil
}
