package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/photoshare/internal/config"
	"github.com/oggyb/photoshare/internal/logger"
)

// NewDB initializes the database connection for the configured driver and
// brings the schema up to date.
func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if cfg.DB.LogSQL {
		level = gormlogger.Info // log SQL queries
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger.GormWriter{L: log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Dialector picks the gorm driver by name.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverMySQL, "":
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// Migrate ensures schema is in sync with models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	for _, stmt := range collationStatements(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to set column collation: %w", err)
		}
	}
	return nil
}

// binaryColumns must compare byte-for-byte. MySQL's default utf8mb4
// collations fold case and accents, which would make "Alice" and "alice"
// the same username; sqlite and postgres already compare exactly.
var binaryColumns = []struct{ table, column, definition string }{
	{"users", "username", "VARCHAR(80) NOT NULL"},
}

func collationStatements(dialect string) []string {
	if dialect != config.DriverMySQL {
		return nil
	}
	stmts := make([]string, 0, len(binaryColumns))
	for _, c := range binaryColumns {
		stmts = append(stmts, fmt.Sprintf(
			"ALTER TABLE %s MODIFY %s %s CHARACTER SET utf8mb4 COLLATE utf8mb4_bin",
			c.table, c.column, c.definition))
	}
	return stmts
}
