package database

import (
	"github.com/juju/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenSQLite opens a file-backed SQLite database with foreign keys on.
//
// SQLite has no row locks, so the pool is pinned to one connection: a
// transaction owns the whole database until it commits and writers queue
// behind it instead of failing with SQLITE_BUSY.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, errors.Annotatef(err, "opening sqlite %q", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	logger.Infof("sqlite database %q opened", path)
	return db, nil
}
