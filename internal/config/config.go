package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string // "production" disables code echo and the dev bypass

	CodeTTL        time.Duration
	ResendCooldown time.Duration

	// Dev-only bypass knobs. Honored only when AppEnv != "production".
	DevUniversalCode string
	QuickAccessPhone string

	// SessionBackend selects the verification-session store: "memory" or "dynamo".
	SessionBackend string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoSessionsTable string
	S3BucketName        string

	// AuthFlowPaths are tried in order; the file is created at the last
	// candidate when none exist.
	AuthFlowPaths []string

	UsersFixturePath string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins
}

// Production reports whether the service runs with production hardening:
// no code echo in responses, no universal code, no quick-access phone.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		CodeTTL:        getEnvDuration("CODE_TTL", 5*time.Minute),
		ResendCooldown: getEnvDuration("RESEND_COOLDOWN", time.Minute),

		DevUniversalCode: getEnv("DEV_UNIVERSAL_CODE", "123456"),
		QuickAccessPhone: getEnv("QUICK_ACCESS_PHONE", ""),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoSessionsTable: getEnv("DYNAMO_TABLE_VERIFICATION_SESSIONS", "verification_sessions"),
		S3BucketName:        getEnv("S3_BUCKET_NAME", "loginus-config-archive"),

		AuthFlowPaths: strings.Split(
			getEnv("AUTH_FLOW_PATHS", "./auth-flow.json,./data/auth-flow.json,/var/lib/loginus/auth-flow.json"), ","),

		UsersFixturePath: getEnv("USERS_FIXTURE_PATH", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 24*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@loginus.id"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
