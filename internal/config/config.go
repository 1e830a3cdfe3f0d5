package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort           string
	MongoURI           string
	MongoDBName        string
	RedisAddr          string
	RedisPassword      string
	KafkaBrokers       []string
	KafkaTopic         string
	JWTSecret          string
	TokenTTL           time.Duration
	Esewa              EsewaConfig
	ClientSuccessURL   string
	ClientFailureURL   string
	CORSOrigins        []string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	LogLevel           string
	LogPretty          bool
	TrustProxyHeaders  bool
	CallbackRate       float64
	CallbackBurst      int
}

type EsewaConfig struct {
	SecretKey   string
	ProductCode string
	FormURL     string
	SuccessURL  string
	FailureURL  string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "cookbook"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "order-events"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		Esewa: EsewaConfig{
			SecretKey:   getEnv("ESEWA_SECRET", "8gBm/:&EnhH.1/q"),
			ProductCode: getEnv("ESEWA_PRODUCT_CODE", "EPAYTEST"),
			FormURL:     getEnv("ESEWA_FORM_URL", "https://rc-epay.esewa.com.np/api/epay/main/v2/form"),
			SuccessURL:  getEnv("ESEWA_SUCCESS_URL", "http://localhost:8080/api/v1/esewa/success"),
			FailureURL:  getEnv("ESEWA_FAILURE_URL", "http://localhost:5173/failure"),
		},
		ClientSuccessURL:   getEnv("CLIENT_SUCCESS_URL", "http://localhost:5173/success"),
		ClientFailureURL:   getEnv("CLIENT_FAILURE_URL", "http://localhost:5173/failure"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxRequestBodySize: 1 << 20, // 1MB
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.LogPretty, err = strconv.ParseBool(getEnv("LOG_PRETTY", "false")); err != nil {
		return nil, fmt.Errorf("invalid LOG_PRETTY: %w", err)
	}
	if cfg.TrustProxyHeaders, err = strconv.ParseBool(getEnv("TRUST_PROXY_HEADERS", "false")); err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY_HEADERS: %w", err)
	}
	if cfg.CallbackRate, err = strconv.ParseFloat(getEnv("CALLBACK_RATE", "5"), 64); err != nil {
		return nil, fmt.Errorf("invalid CALLBACK_RATE: %w", err)
	}
	if cfg.CallbackBurst, err = strconv.Atoi(getEnv("CALLBACK_BURST", "10")); err != nil {
		return nil, fmt.Errorf("invalid CALLBACK_BURST: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
