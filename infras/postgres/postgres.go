package postgres

//go:generate go run go.uber.org/mock/mockgen -source=./postgres.go -destination=./mocks/postgres_mock.go -package=mocks

//nolint:revive
import (
	"context"
	"fmt"
	"net"
	"net/url"
	"taskpal/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Connection holds separate pools for the read replica and the primary.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect(cfg, "read", cfg.DB.Postgres.Read),
		Write: connect(cfg, "write", cfg.DB.Postgres.Write),
	}
}

// Transactor runs a unit of work inside a single write transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type transactorImpl struct {
	db *Connection
}

func NewTransactor(db *Connection) Transactor {
	return &transactorImpl{db: db}
}

// WithTx commits when fn returns nil and rolls back otherwise.
func (t *transactorImpl) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	sqltx, err := t.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqltx.Rollback()

			panic(p)
		}
	}()

	if err = fn(sqltx); err != nil {
		if rbErr := sqltx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = sqltx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func getDBName(cfg config.Config, baseName string) string {
	return cfg.DB.Postgres.Prefix + baseName
}

// dataSourceName renders a lib/pq URL for node. Credentials are escaped and the
// node timezone, when set, becomes the session timezone.
func dataSourceName(cfg config.Config, node config.PostgresNode, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}

	if node.SSLMode != "" {
		params.Set("sslmode", node.SSLMode)
	}

	if node.Timezone != "" {
		params.Set("timezone", node.Timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     "/" + getDBName(cfg, node.Name),
		RawQuery: params.Encode(),
	}

	return dsn.String()
}

// connect retries until the node answers and exits the process when it never does.
func connect(cfg *config.Config, name string, node config.PostgresNode) *sqlx.DB {
	settings := cfg.DB.Postgres
	dsn := dataSourceName(*cfg, node, nil)

	logger := log.With().
		Str("name", name).
		Str("host", node.Host).
		Str("port", node.Port).
		Str("dbName", getDBName(*cfg, node.Name)).
		Logger()

	attempts := max(settings.MaxRetry, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(settings.Pool.MaxOpenConns)
			db.SetMaxIdleConns(settings.Pool.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(settings.Pool.ConnMaxLifetimeMinutes) * time.Minute)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(settings.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Int("attempts", attempts).Msg("Giving up connecting to database")

	return nil
}
