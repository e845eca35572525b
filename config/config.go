package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresNode addresses one postgres server. Reads and writes may go to
// different nodes.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name         string `envconfig:"APP_NAME"     default:"TaskPal"`
		Timezone     string `envconfig:"TIMEZONE"`
		Municipality string `envconfig:"MUNICIPALITY"`
		FrontendURL  string `envconfig:"FRONTEND_URL"`
		CORS         struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
				PoolSize int    `envconfig:"POOL_SIZE"`
			} `envconfig:"PRIMARY"`
			DialTimeoutSeconds int `envconfig:"DIAL_TIMEOUT_SECONDS" default:"5"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	OTP struct {
		Length      int `envconfig:"LENGTH"       default:"6"`
		TTLSeconds  int `envconfig:"TTL_SECONDS"  default:"600"`
		MaxAttempts int `envconfig:"MAX_ATTEMPTS" default:"5"`
	} `envconfig:"OTP"`

	AuthorizedUser struct {
		DefaultExpiryDays int `envconfig:"DEFAULT_EXPIRY_DAYS" default:"30"`
	} `envconfig:"AUTHORIZED_USER"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MigrationTable string `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Pool           struct {
				MaxOpenConns           int `envconfig:"MAX_OPEN_CONNS"            default:"10"`
				MaxIdleConns           int `envconfig:"MAX_IDLE_CONNS"            default:"10"`
				ConnMaxLifetimeMinutes int `envconfig:"CONN_MAX_LIFETIME_MINUTES" default:"30"`
			} `envconfig:"POOL"`
			Read  PostgresNode `envconfig:"READ"`
			Write PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	External struct {
		Otel struct {
			Endpoint    string  `envconfig:"ENDPOINT"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
		} `envconfig:"OTEL"`

		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`

		Kafka struct {
			Brokers       []string `envconfig:"BROKERS"`
			Topic         string   `envconfig:"TOPIC"          default:"taskpal.events"`
			ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"taskpal-worker"`
			SASL          struct {
				Username string `envconfig:"USERNAME"`
				Password string `envconfig:"PASSWORD"`
			} `envconfig:"SASL"`
		} `envconfig:"KAFKA"`

		SMTP struct {
			Host     string `envconfig:"HOST"`
			Port     int    `envconfig:"PORT"     default:"587"`
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
			From     string `envconfig:"FROM"`
		} `envconfig:"SMTP"`

		Stripe struct {
			SecretKey  string `envconfig:"SECRET_KEY"`
			Currency   string `envconfig:"CURRENCY"    default:"php"`
			SuccessURL string `envconfig:"SUCCESS_URL"`
			CancelURL  string `envconfig:"CANCEL_URL"`
		} `envconfig:"STRIPE"`

		Google struct {
			APIKey     string `envconfig:"API_KEY"`
			GeocodeURL string `envconfig:"GEOCODE_URL" default:"https://maps.googleapis.com/maps/api/geocode/json"`
		} `envconfig:"GOOGLE"`

		Stream struct {
			APIKey    string `envconfig:"API_KEY"`
			APISecret string `envconfig:"API_SECRET"`
		} `envconfig:"STREAM"`

		Websocket struct {
			AllowedOrigins    []string `envconfig:"ALLOWED_ORIGINS"`
			PingPeriodSeconds int      `envconfig:"PING_PERIOD_SECONDS" default:"30"`
		} `envconfig:"WEBSOCKET"`
	} `envconfig:"EXTERNAL"`
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		applyAliases(&conf, os.LookupEnv)

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}

// alias maps a short variable name onto a config field. The field keeps its
// EXTERNAL_* value when both are set.
type alias struct {
	name  string
	field func(cfg *Config) *string
}

var aliases = []alias{
	{name: "GOOGLE_API_KEY", field: func(cfg *Config) *string { return &cfg.External.Google.APIKey }},
	{name: "STREAM_API_KEY", field: func(cfg *Config) *string { return &cfg.External.Stream.APIKey }},
	{name: "STREAM_API_SECRET", field: func(cfg *Config) *string { return &cfg.External.Stream.APISecret }},
	{name: "SUPPORT_HOST", field: func(cfg *Config) *string { return &cfg.External.SMTP.Host }},
	{name: "SUPPORT_EMAIL", field: func(cfg *Config) *string { return &cfg.External.SMTP.Username }},
	{name: "SUPPORT_EMAIL", field: func(cfg *Config) *string { return &cfg.External.SMTP.From }},
	{name: "SUPPORT_PASSWORD", field: func(cfg *Config) *string { return &cfg.External.SMTP.Password }},
}

func applyAliases(cfg *Config, lookup func(string) (string, bool)) {
	for _, a := range aliases {
		value, ok := lookup(a.name)
		if !ok || value == "" {
			continue
		}

		if field := a.field(cfg); *field == "" {
			*field = value
		}
	}
}
