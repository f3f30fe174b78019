// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/cartesius/internal/logger"
	"github.com/MKhiriev/cartesius/migrations"
)

// Dialect is the SQL flavour of a run registry.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// DialectFromDSN returns [DialectPostgres] for postgres:// and postgresql://
// URLs and [DialectSQLite] for anything else, which is taken as a file path.
func DialectFromDSN(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite3"
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// DB is a run registry connection.
type DB struct {
	*sql.DB
	dialect Dialect
	logger  *logger.Logger
}

// Open connects to the run registry named by dsn and applies pending
// migrations.
func Open(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty dsn", ErrOpeningDatabase)
	}
	dialect := DialectFromDSN(dsn)

	conn, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		log.Err(err).Str("func", "tracker.Open").Msg("error occurred during database connection")
		return nil, fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
	}
	if dialect == DialectSQLite {
		// a single writer avoids "database is locked" on the registry file
		conn.SetMaxOpenConns(1)
	}

	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		log.Err(err).Str("func", "tracker.Open").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
	}

	db := &DB{DB: conn, dialect: dialect, logger: log}
	if err = db.Migrate(); err != nil {
		conn.Close()
		log.Err(err).Str("func", "tracker.Open").Msg("error migrating database")
		return nil, err
	}

	log.Debug().Str("func", "tracker.Open").Str("dialect", string(dialect)).Msg("connected to run registry")
	return db, nil
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate() error {
	gooseDialect := "sqlite3"
	if db.dialect == DialectPostgres {
		gooseDialect = "pgx"
	}
	return migrations.Migrate(db.DB, gooseDialect)
}

func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.dialect.placeholder())
}

// isUniqueViolation reports whether err is a primary key or unique
// constraint failure of either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
