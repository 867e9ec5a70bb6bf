package database

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/config"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

var (
	db   *gorm.DB
	dbMu sync.RWMutex
)

// Init opens the MySQL pool and makes it available through Get.
func Init(cfg *config.DatabaseConfig) error {
	conn, err := Open(mysql.New(mysql.Config{
		DSN:                       cfg.GetDSN(),
		SkipInitializeWithVersion: true,
	}), cfg)
	if err != nil {
		return err
	}

	dbMu.Lock()
	db = conn
	dbMu.Unlock()

	logger.Info("database connection established", "database", cfg.Database)
	return nil
}

// Open connects through dialector, applies the pool limits from cfg and
// registers pool metrics. Timestamps are written in UTC; the business
// timezone only matters for month buckets.
func Open(dialector gorm.Dialector, cfg *config.DatabaseConfig) (*gorm.DB, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:      newGormLogger(cfg),
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := metrics.RegisterDBStats(sqlDB, cfg.Database); err != nil {
		logger.Warn("failed to register database metrics", "error", err)
	}
	return conn, nil
}

func Get() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}

// Close is safe to call when Init never ran.
func Close() error {
	dbMu.Lock()
	current := db
	db = nil
	dbMu.Unlock()

	if current == nil {
		return nil
	}

	sqlDB, err := current.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	logger.Info("database connection closed")
	return nil
}

func newGormLogger(cfg *config.DatabaseConfig) gormlogger.Interface {
	slow := defaultSlowQuery
	if cfg.SlowQueryMs > 0 {
		slow = time.Duration(cfg.SlowQueryMs) * time.Millisecond
	}
	return gormlogger.New(slogWriter{}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// slogWriter feeds gorm's printf-style output into the application logger.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "select version()"):
	case strings.Contains(lower, "slow sql"):
		logger.Warn("slow query", "details", msg)
	case strings.Contains(lower, "error"):
		logger.Error("database error", "details", msg)
	default:
		logger.Debug("database query", "details", msg)
	}
}
