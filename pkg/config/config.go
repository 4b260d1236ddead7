package config

import "os"

// Config holds process configuration.
type Config struct {
	LogLevel       string
	DatabaseURL    string
	RedisAddr      string
	ArchiveBucket  string
	ArchiveRegion  string
	ProfilesDir    string
	DefaultProfile string
	ShadowMode     bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		// Default to local generic postgres
		dbURL = "postgres://braincore@localhost:5432/braincore?sslmode=disable"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	bucket := os.Getenv("ARCHIVE_BUCKET")
	if bucket == "" {
		bucket = "braincore-ledger-archive"
	}

	region := os.Getenv("ARCHIVE_REGION")
	if region == "" {
		region = "eu-central-1"
	}

	profilesDir := os.Getenv("PROFILES_DIR")
	if profilesDir == "" {
		profilesDir = "profiles"
	}

	defaultProfile := os.Getenv("GOVERNANCE_PROFILE")
	if defaultProfile == "" {
		defaultProfile = "default"
	}

	shadowMode := os.Getenv("SHADOW_MODE") == "true"

	return &Config{
		LogLevel:       logLevel,
		DatabaseURL:    dbURL,
		RedisAddr:      redisAddr,
		ArchiveBucket:  bucket,
		ArchiveRegion:  region,
		ProfilesDir:    profilesDir,
		DefaultProfile: defaultProfile,
		ShadowMode:     shadowMode,
	}
}
