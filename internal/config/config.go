package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Env        string
	ServerPort string
	DBUrl      string

	JWTSecret       string
	APIKey          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int

	Timezone    string
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL     string
	EventsQueue string

	MercadoPagoAccessToken  string
	CheckoutNotificationURL string

	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string
}

func Load() *Config {
	// .env is optional; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", "error", err)
	}

	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBUrl:      getEnv("DATABASE_URL", postgresURLFromParts()),

		JWTSecret:       getEnv("JWT_SECRET_KEY", "changeme"),
		APIKey:          os.Getenv("API_KEY"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 12*time.Hour),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		BcryptCost:      getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),

		Timezone:    getEnv("BUSINESS_TIMEZONE", "America/Chicago"),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AMQPURL:     os.Getenv("AMQP_URL"),
		EventsQueue: getEnv("EVENTS_QUEUE", "lawnmate.events"),

		MercadoPagoAccessToken:  os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		CheckoutNotificationURL: os.Getenv("CHECKOUT_NOTIFICATION_URL"),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		SeedAdminName:     getEnv("SEED_ADMIN_NAME", "Admin User"),
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func postgresURLFromParts() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("POSTGRES_USER", "lawnmate"),
		getEnv("POSTGRES_PASSWORD", "lawnmate"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB", "lawnmate"),
		getEnv("POSTGRES_SSLMODE", "disable"),
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
