package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/spigell/resume-screener/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultDSN is the sqlite database file used when nothing is configured.
	DefaultDSN = "recruitment.db"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Config selects the SQL backend.
type Config struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// Store persists jobs and candidates.
type Store struct {
	db     *sqlx.DB
	driver string
	lock   *flock.Flock
	logger *zap.Logger
}

// Open connects to the configured database. For sqlite the DSN is a file path
// and an exclusive lock on "<path>.lock" is held until Close.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	dsn := strings.TrimSpace(cfg.DSN)

	s := &Store{driver: driver, logger: logger}

	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = DefaultDSN
		}
		s.lock = flock.New(dsn + ".lock")
		locked, err := s.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("locking %s: %w", dsn, err)
		}
		if !locked {
			return nil, fmt.Errorf("%s: %w", dsn, domain.ErrLocked)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dsn)
	case DriverPostgres:
		if dsn == "" {
			return nil, errors.New("postgres driver requires a dsn")
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		s.unlock()
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		s.unlock()
		return nil, fmt.Errorf("connecting to %s database: %w", driver, err)
	}

	s.db = db
	logger.Debug("database opened", zap.String("driver", driver))

	return s, nil
}

// Driver returns the name of the SQL driver in use.
func (s *Store) Driver() string {
	return s.driver
}

// Close releases the connection pool and the run lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	s.unlock()
	return err
}

func (s *Store) unlock() {
	if s.lock == nil {
		return
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("releasing database lock failed", zap.Error(err))
	}
}
