package database

import (
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-retail-store/internal/config"
)

var logger = loggo.GetLogger("retail.database")

// loggoWriter routes GORM's SQL log through loggo at DEBUG.
type loggoWriter struct {
	logger loggo.Logger
}

func (w loggoWriter) Printf(format string, args ...interface{}) {
	w.logger.Debugf(format, args...)
}

func newGormLogger() gormlogger.Interface {
	return gormlogger.New(
		loggoWriter{loggo.GetLogger("retail.database.sql")},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Connect opens the database selected by cfg.DBDriver.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	default:
		return ConnectPostgres(cfg.DatabaseURL)
	}
}

// ConnectPostgres opens a pooled PostgreSQL connection.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
	}), &gorm.Config{
		Logger:      newGormLogger(),
		PrepareStmt: false,
	})
	if err != nil {
		return nil, errors.Annotate(err, "connecting to postgres")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Infof("database connection established")
	return db, nil
}
