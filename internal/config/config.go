package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host          string `env:"HOST,default=localhost"`
	Port          string `env:"PORT,default=5432"`
	User          string `env:"USER,default=user_service"`
	Password      string `env:"PASSWORD,default=user_service_password"`
	DBName        string `env:"DB,default=user_service_db"`
	SSLMode       string `env:"SSLMODE,default=disable"`
	MigrationsDir string `env:"MIGRATIONS_DIR,default=migrations"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

// JWTConfig configures token issuance and verification. Keys are resolved
// from the production pair when both files are present, otherwise the
// development pair is used in full.
type JWTConfig struct {
	Issuer             string   `env:"ISSUER,default=user-service"`
	Audience           string   `env:"AUDIENCE,default=api-gateway"`
	AccessTokenExpiry  Duration `env:"ACCESS_TOKEN_EXPIRY,default=15m"`
	RefreshTokenExpiry Duration `env:"REFRESH_TOKEN_EXPIRY,default=7d"`
	RotateRefresh      bool     `env:"ROTATE_REFRESH,default=true"`
	ProdPrivateKey     string   `env:"PROD_PRIVATE_KEY,default=jwt_keys/prod_private.pem"`
	ProdPublicKey      string   `env:"PROD_PUBLIC_KEY,default=jwt_keys/prod_public.pem"`
	DevPrivateKey      string   `env:"DEV_PRIVATE_KEY,default=jwt_keys/dev_private.pem"`
	DevPublicKey       string   `env:"DEV_PUBLIC_KEY,default=jwt_keys/dev_public.pem"`
}

type SecurityConfig struct {
	BCryptCost        int      `env:"BCRYPT_COST,default=12"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if config.JWT.AccessTokenExpiry.Duration <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRY must be positive")
	}
	if config.JWT.RefreshTokenExpiry.Duration <= config.JWT.AccessTokenExpiry.Duration {
		return nil, fmt.Errorf("JWT_REFRESH_TOKEN_EXPIRY must exceed JWT_ACCESS_TOKEN_EXPIRY")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
