// Package mock provides the in-process fakes behind the feature suite.
package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	sharedDb     *Db
	sharedDbOnce sync.Once
)

// Db is the in-memory sqlite database shared by every scenario.
type Db struct {
	DbConn *gorm.DB
	order  []string
	models map[string]any
}

// NewDb opens the shared database on first use and migrates models in the
// given order. Later calls return the same instance.
func NewDb(models ...any) *Db {
	sharedDbOnce.Do(func() {
		d, err := openDb(models)
		if err != nil {
			panic(fmt.Sprintf("failed to open test database: %v", err))
		}
		sharedDb = d
	})
	return sharedDb
}

func openDb(models []any) (*Db, error) {
	conn, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		return nil, err
	}
	// A second connection would see a different in-memory database.
	conn.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(sqlite.Dialector{Conn: conn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	d := &Db{DbConn: gormDB, models: make(map[string]any, len(models))}
	for _, m := range models {
		stmt := &gorm.Statement{DB: gormDB}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse %T: %w", m, err)
		}
		d.order = append(d.order, stmt.Schema.Table)
		d.models[stmt.Schema.Table] = m
	}

	if err := gormDB.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// ClearDB empties every table, children first.
func (d *Db) ClearDB() error {
	return d.DbConn.Transaction(func(tx *gorm.DB) error {
		for i := len(d.order) - 1; i >= 0; i-- {
			if err := tx.Exec("DELETE FROM " + d.order[i]).Error; err != nil {
				return fmt.Errorf("clear %s: %w", d.order[i], err)
			}
		}
		return nil
	})
}

// GetModel returns the model registered for a table name.
func (d *Db) GetModel(table string) (any, bool) {
	m, ok := d.models[table]
	return m, ok
}
