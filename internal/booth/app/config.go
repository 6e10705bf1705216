package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	StoreDriver   string  // Optional: store driver (sqlite, memory) (default: sqlite)
	DatabaseFile  string  // Optional: path to SQLite database file (default: ./booth.db)
	MasterKeyPath string  // Optional: path to the template sealing key; BIOVOTE_MASTER_KEY, or ephemeral outside prod
	FaceThreshold float64 // Optional: minimum face score (default: 0.8)
	EyeThreshold  float64 // Optional: minimum eye score (default: 0.8)
	SampleSize    int     // Optional: edge length samples are rescaled to (default: 200)

	MaxSampleBytes  int64 // Optional: upload limit per sample (default: 4MiB)
	MaxSamplePixels int   // Optional: largest declared image size accepted (default: 4096x4096)

	Issuer             string        // Optional: issuer claim for official tokens (default: biovote-booth)
	OfficialTOTPSecret string        // Optional: base32 TOTP secret; generated and logged in dev when empty
	OfficialTokenTTL   time.Duration // Optional: official token lifetime (default: 30m)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	AuditInterval       time.Duration // Integrity audit interval (default: 5m)
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory if one exists.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		StoreDriver:         getEnvOrDefault("BIOVOTE_STORE_DRIVER", "sqlite"),
		DatabaseFile:        getEnvOrDefault("BIOVOTE_DATABASE_FILE", "booth.db"),
		MasterKeyPath:       os.Getenv("BIOVOTE_MASTER_KEY_PATH"),
		FaceThreshold:       getEnvFloatOrDefault("BIOVOTE_FACE_THRESHOLD", 0.8),
		EyeThreshold:        getEnvFloatOrDefault("BIOVOTE_EYE_THRESHOLD", 0.8),
		SampleSize:          getEnvIntOrDefault("BIOVOTE_SAMPLE_SIZE", 200),
		MaxSampleBytes:      int64(getEnvIntOrDefault("BIOVOTE_MAX_SAMPLE_BYTES", 4<<20)),
		MaxSamplePixels:     getEnvIntOrDefault("BIOVOTE_MAX_SAMPLE_PIXELS", 4096*4096),
		Issuer:              getEnvOrDefault("BIOVOTE_ISSUER", "biovote-booth"),
		OfficialTOTPSecret:  os.Getenv("BIOVOTE_OFFICIAL_TOTP_SECRET"),
		OfficialTokenTTL:    getEnvDurationOrDefault("BIOVOTE_OFFICIAL_TOKEN_TTL", 30*time.Minute),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		AuditInterval:       getEnvDurationOrDefault("AUDIT_INTERVAL", 5*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
