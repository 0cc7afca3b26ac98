package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Cache    CacheConfig
	Media    MediaConfig
	Session  SessionConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
}

type DatabaseConfig struct {
	Driver     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	SQLitePath string

	ConnectTimeout      time.Duration
	PoolMaxConns        int32
	PoolMinConns        int32
	PoolMaxConnLifetime time.Duration
	PoolMaxConnIdleTime time.Duration
	MigrationsDir       string
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type HTTPConfig struct {
	CORSOrigins   []string
	CookieSecure  bool
	AuthRateLimit int
	BodyLimit     int
}

type CacheConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	ProfileTTL    time.Duration
}

type MediaConfig struct {
	Driver string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string
}

type SessionConfig struct {
	SweepSchedule string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MediaCloudinary = "cloudinary"
	MediaS3         = "s3"
	MediaDisabled   = "disabled"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads the process environment, seeded from .env when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return def
		}
		d, err := ParseDuration(raw)
		if err != nil || d <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "profile-hub"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogLevel:    opt("LOG_LEVEL", "info"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES", 24*time.Hour),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES", 7*24*time.Hour),
	}

	cfg.HTTP = HTTPConfig{
		CORSOrigins:   splitList(req("CORS_ORIGIN")),
		CookieSecure:  strings.EqualFold(opt("COOKIE_SECURE", "false"), "true"),
		AuthRateLimit: num("AUTH_RATE_LIMIT", 20),
		BodyLimit:     num("HTTP_BODY_LIMIT", 10*1024*1024),
	}

	cfg.Database = DatabaseConfig{
		Driver:              strings.ToLower(opt("DB_DRIVER", DriverPostgres)),
		DBHost:              opt("DB_HOST", ""),
		DBPort:              opt("DB_PORT", "5432"),
		DBName:              opt("DB_NAME", ""),
		DBUser:              opt("DB_USER", ""),
		DBPassword:          strings.TrimSpace(getenv("DB_PASSWORD")),
		DBSSLMode:           opt("DB_SSL_MODE", "disable"),
		SQLitePath:          opt("SQLITE_PATH", "profile-hub.db"),
		ConnectTimeout:      dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:        int32(num("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:        int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime: dur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime: dur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		MigrationsDir:       opt("MIGRATIONS_DIR", "migrations"),
	}
	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.DBHost == "" {
			missing = append(missing, "DB_HOST")
		}
		if cfg.Database.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
		if cfg.Database.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
	case DriverSQLite:
	default:
		invalid = append(invalid, "DB_DRIVER")
	}

	cfg.Cache = CacheConfig{
		RedisHost:     opt("REDIS_HOST", ""),
		RedisPort:     opt("REDIS_PORT", "6379"),
		RedisPassword: strings.TrimSpace(getenv("REDIS_PASSWORD")),
		ProfileTTL:    dur("PROFILE_CACHE_TTL", 10*time.Minute),
	}

	cfg.Media = MediaConfig{
		Driver:              strings.ToLower(opt("MEDIA_DRIVER", MediaDisabled)),
		CloudinaryCloudName: opt("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    opt("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: opt("CLOUDINARY_API_SECRET", ""),
		S3Bucket:            opt("S3_BUCKET", ""),
		S3Region:            opt("S3_REGION", "auto"),
		S3Endpoint:          opt("S3_ENDPOINT", ""),
		S3AccessKeyID:       opt("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:   opt("S3_SECRET_ACCESS_KEY", ""),
		S3PublicBaseURL:     strings.TrimRight(opt("S3_PUBLIC_BASE_URL", ""), "/"),
	}
	switch cfg.Media.Driver {
	case MediaCloudinary:
		for key, v := range map[string]string{
			"CLOUDINARY_CLOUD_NAME": cfg.Media.CloudinaryCloudName,
			"CLOUDINARY_API_KEY":    cfg.Media.CloudinaryAPIKey,
			"CLOUDINARY_API_SECRET": cfg.Media.CloudinaryAPISecret,
		} {
			if v == "" {
				missing = append(missing, key)
			}
		}
	case MediaS3:
		for key, v := range map[string]string{
			"S3_BUCKET":            cfg.Media.S3Bucket,
			"S3_ACCESS_KEY_ID":     cfg.Media.S3AccessKeyID,
			"S3_SECRET_ACCESS_KEY": cfg.Media.S3SecretAccessKey,
			"S3_PUBLIC_BASE_URL":   cfg.Media.S3PublicBaseURL,
		} {
			if v == "" {
				missing = append(missing, key)
			}
		}
	case MediaDisabled:
	default:
		invalid = append(invalid, "MEDIA_DRIVER")
	}

	cfg.Session = SessionConfig{
		SweepSchedule: opt("SESSION_SWEEP_SCHEDULE", "@every 1h"),
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// ParseDuration accepts Go duration strings ("15m", "168h") and bare seconds ("1209600").
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	if strings.HasSuffix(raw, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(raw)
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Environment, "development")
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
