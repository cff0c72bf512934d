package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Password     PasswordConfig
	Search       SearchConfig
	Background   BackgroundConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string        `envconfig:"PHONEDEX_APP_ENV" required:"true"`
	Port           string        `envconfig:"PHONEDEX_APP_PORT" required:"true"`
	LogLevel       string        `envconfig:"PHONEDEX_LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"PHONEDEX_LOG_FORMAT" default:"json"`
	LogWarnStack   bool          `envconfig:"PHONEDEX_LOG_WARN_STACK" default:"false"`
	RequestTimeout time.Duration `envconfig:"PHONEDEX_APP_REQUEST_TIMEOUT" default:"15s"`
	ShutdownGrace  time.Duration `envconfig:"PHONEDEX_APP_SHUTDOWN_GRACE" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PHONEDEX_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PHONEDEX_DB_DSN"`
	Driver string `envconfig:"PHONEDEX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PHONEDEX_DB_HOST"`
	LegacyPort     int    `envconfig:"PHONEDEX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PHONEDEX_DB_USER"`
	LegacyPassword string `envconfig:"PHONEDEX_DB_PASSWORD"`
	LegacyName     string `envconfig:"PHONEDEX_DB_NAME"`
	LegacySSLMode  string `envconfig:"PHONEDEX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PHONEDEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHONEDEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHONEDEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHONEDEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// UsesSQLite reports whether the configured driver is the embedded sqlite engine.
func (db DBConfig) UsesSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PHONEDEX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PHONEDEX_REDIS_ADDR"`
	Password     string        `envconfig:"PHONEDEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"PHONEDEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PHONEDEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHONEDEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHONEDEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHONEDEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHONEDEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PHONEDEX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PHONEDEX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PHONEDEX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PHONEDEX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PHONEDEX_ARGON_KEY_LEN" default:"32"`
}

type SearchConfig struct {
	RateLimitWindow    time.Duration `envconfig:"PHONEDEX_SEARCH_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitPerIP     int           `envconfig:"PHONEDEX_SEARCH_RATE_LIMIT_IP_LIMIT" default:"120"`
	PopularWindowDays  int           `envconfig:"PHONEDEX_SEARCH_POPULAR_WINDOW_DAYS" default:"30"`
	PopularLimit       int           `envconfig:"PHONEDEX_SEARCH_POPULAR_LIMIT" default:"5"`
	PopularCacheTTL    time.Duration `envconfig:"PHONEDEX_SEARCH_POPULAR_CACHE_TTL" default:"10m"`
	ShortQueryMaxChars int           `envconfig:"PHONEDEX_SEARCH_SHORT_QUERY_MAX_CHARS" default:"3"`
}

type BackgroundConfig struct {
	Workers     int           `envconfig:"PHONEDEX_BACKGROUND_WORKERS" default:"4"`
	QueueSize   int           `envconfig:"PHONEDEX_BACKGROUND_QUEUE_SIZE" default:"1024"`
	TaskTimeout time.Duration `envconfig:"PHONEDEX_BACKGROUND_TASK_TIMEOUT" default:"5s"`
}

type CronConfig struct {
	Interval               time.Duration `envconfig:"PHONEDEX_CRON_INTERVAL" default:"5m"`
	JobTimeout             time.Duration `envconfig:"PHONEDEX_CRON_JOB_TIMEOUT" default:"2m"`
	SearchLogRetentionDays int           `envconfig:"PHONEDEX_CRON_SEARCH_LOG_RETENTION_DAYS" default:"30"`
	PageViewRetentionDays  int           `envconfig:"PHONEDEX_CRON_PAGE_VIEW_RETENTION_DAYS" default:"90"`
	MetricsAddr            string        `envconfig:"PHONEDEX_CRON_METRICS_ADDR" default:":9091"`
}

type FeatureFlagsConfig struct {
	AutoMigrate                bool `envconfig:"PHONEDEX_AUTO_MIGRATE" default:"false"`
	CommentsRequireModeration  bool `envconfig:"PHONEDEX_COMMENTS_REQUIRE_MODERATION" default:"false"`
	ExposeInternalErrorDetails bool `envconfig:"PHONEDEX_EXPOSE_INTERNAL_ERRORS" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PHONEDEX_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"PHONEDEX_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	AnalyticsTopic string `envconfig:"PHONEDEX_PUBSUB_ANALYTICS_TOPIC"`
}

// AnalyticsEnabled reports whether analytics events should be mirrored to Pub/Sub.
func (c *Config) AnalyticsEnabled() bool {
	return strings.TrimSpace(c.GCP.ProjectID) != "" && strings.TrimSpace(c.PubSub.AnalyticsTopic) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.UsesSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
