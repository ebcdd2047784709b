package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment keys understood by the backend. Anything absent falls back to
// the defaults passed at the call site.
const (
	KeyPort          = "PORT"
	KeyStorageDriver = "STORAGE_DRIVER" // memory | postgres | s3
	KeyPostgresDSN   = "POSTGRES_DSN"
	KeyS3Bucket      = "S3_BUCKET"
	KeyS3Prefix      = "S3_PREFIX"
	KeyS3Region      = "S3_REGION"
	KeyAdminPassword = "ADMIN_PASSWORD"
	KeySessionTTL    = "SESSION_TTL_HOURS"
	KeyCronSpec      = "MAINTENANCE_CRON"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}

	return asBool
}

// GetHours reads an integer hour count and returns it as a duration.
func GetHours(config map[string]string, key string, defaultHours int) time.Duration {
	return time.Duration(GetInt(config, key, defaultHours)) * time.Hour
}
