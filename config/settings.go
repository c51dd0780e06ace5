package config

import (
	"fmt"
	"time"
)

// Settings is the typed view of the environment used to wire the service.
type Settings struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DatabaseDSN        string
	DatabaseReplicaDSN string
	DatabaseLogLevel   string

	JWTSecret     string
	JWTSecretName string
	JWTIssuer     string

	AcceptedOrigins []string

	AWSRegion       string
	MediaBucket     string
	MediaPublicURL  string
	MediaPresignTTL time.Duration

	SeedFacets       bool
	AutoMigrate      bool
	ShutdownTimeout  time.Duration
	RequestTimeout   time.Duration
	MaxFormBodyBytes int64
}

// Load reads Settings from an environment map produced by New.
func Load(c map[string]string) Settings {
	return Settings{
		Port:         GetString(c, "PORT", "8080"),
		ReadTimeout:  GetDuration(c, "READ_TIMEOUT_SECONDS", 180*time.Second),
		WriteTimeout: GetDuration(c, "WRITE_TIMEOUT_SECONDS", 180*time.Second),
		IdleTimeout:  GetDuration(c, "IDLE_TIMEOUT_SECONDS", 180*time.Second),

		DatabaseDSN:        databaseDSN(c),
		DatabaseReplicaDSN: GetString(c, "DB_REPLICA_DSN", ""),
		DatabaseLogLevel:   GetString(c, "DB_LOG_LEVEL", "warn"),

		JWTSecret:     GetString(c, "JWT_SECRET", ""),
		JWTSecretName: GetString(c, "JWT_SECRET_NAME", ""),
		JWTIssuer:     GetString(c, "JWT_ISSUER", ""),

		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),

		AWSRegion:       GetString(c, "AWS_REGION", "us-east-1"),
		MediaBucket:     GetString(c, "MEDIA_BUCKET", ""),
		MediaPublicURL:  GetString(c, "MEDIA_PUBLIC_URL", ""),
		MediaPresignTTL: GetDuration(c, "MEDIA_PRESIGN_TTL_SECONDS", 15*time.Minute),

		SeedFacets:       GetBool(c, "SEED_FACETS", true),
		AutoMigrate:      GetBool(c, "AUTO_MIGRATE", true),
		ShutdownTimeout:  GetDuration(c, "SHUTDOWN_TIMEOUT_SECONDS", 30*time.Second),
		RequestTimeout:   GetDuration(c, "REQUEST_TIMEOUT_SECONDS", 30*time.Second),
		MaxFormBodyBytes: int64(GetInt(c, "MAX_FORM_BODY_BYTES", 1<<20)),
	}
}

// databaseDSN prefers DATABASE_URL and otherwise assembles a key/value DSN from DB_* parts.
func databaseDSN(c map[string]string) string {
	if dsn := GetString(c, "DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		GetString(c, "DB_HOST", "localhost"),
		GetString(c, "DB_USER", "postgres"),
		GetString(c, "DB_PASSWORD", ""),
		GetString(c, "DB_NAME", "baglist"),
		GetString(c, "DB_PORT", "5432"),
		GetString(c, "DB_SSLMODE", "disable"),
	)
}
