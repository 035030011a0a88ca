package config

import (
	"os"
	"strconv"
	"strings"

	"lawyerup-backend/internal/shared/telemetry"
)

// Config holds application configuration. It is read once at startup and
// passed by value to the components that need it.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string
	JWTSecret       string

	// UseRemoteStorage selects the upload backend for the whole process lifetime.
	UseRemoteStorage bool
	RemoteStore      string
	RemoteNamespace  string
	LocalStoreDir    string
	CloudinaryURL    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	S3Endpoint       string
	S3PublicBaseURL  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url.missing", map[string]any{"env": env})
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:              env,
		DatabaseURL:      dbURL,
		JWTSecret:        getEnv("JWT_SECRET", ""),
		UseRemoteStorage: getBool("USE_REMOTE_STORAGE", false),
		RemoteStore:      normalizeRemoteStore(getEnv("REMOTE_STORE", "cloudinary")),
		RemoteNamespace:  strings.Trim(getEnv("REMOTE_NAMESPACE", "lawyerup"), "/"),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "."),
		CloudinaryURL:    getEnv("CLOUDINARY_URL", ""),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3PublicBaseURL:  strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		telemetry.Warn("config.invalid_bool", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeRemoteStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "cloudinary"
	}
}
