package database

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"reviflow/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/rubenv/sql-migrate/sqlparse"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationsTable = "schema_migrations"

// Migration is one embedded migration file, split into statements.
type Migration struct {
	Version string
	Up      []string
	Down    []string
}

// LoadMigrations parses the embedded migration files in version order.
func LoadMigrations() ([]Migration, error) {
	return loadMigrations(migrationFS, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("could not read migration file %s: %w", entry.Name(), err)
		}
		parsed, err := sqlparse.ParseMigration(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("could not parse migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version: strings.TrimSuffix(entry.Name(), ".sql"),
			Up:      oracleStatements(parsed.UpStatements),
			Down:    oracleStatements(parsed.DownStatements),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// oracleStatements drops the statement terminator that the Oracle client
// rejects. PL/SQL blocks keep theirs since "END;" is part of the block.
func oracleStatements(stmts []string) []string {
	out := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if strings.HasSuffix(stmt, ";") && !strings.HasSuffix(strings.ToUpper(stmt), "END;") {
			stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
		}
		out = append(out, stmt)
	}
	return out
}

// Migrator applies migrations and records them in schema_migrations.
type Migrator struct {
	db         *sqlx.DB
	migrations []Migration
}

// NewMigrator returns a migrator over the embedded migrations.
func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	migrations, err := LoadMigrations()
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: migrations}, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	var count int
	query := `SELECT COUNT(*) FROM user_tables WHERE table_name = :1`
	if err := m.db.GetContext(ctx, &count, query, strings.ToUpper(migrationsTable)); err != nil {
		return fmt.Errorf("could not check migrations table: %w", err)
	}
	if count > 0 {
		return nil
	}
	ddl := `CREATE TABLE ` + migrationsTable + ` (version VARCHAR2(255) NOT NULL PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`
	if _, err := m.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("could not create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	var versions []string
	query := `SELECT version FROM ` + migrationsTable + ` ORDER BY version`
	if err := m.db.SelectContext(ctx, &versions, query); err != nil {
		return nil, fmt.Errorf("could not read applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// Up applies every pending migration and returns how many ran.
// Oracle commits DDL implicitly, so each statement runs on its own and a
// failed migration is not recorded.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range m.migrations {
		if applied[mig.Version] {
			continue
		}
		for _, stmt := range mig.Up {
			if _, err := m.db.ExecContext(ctx, stmt); err != nil {
				return count, fmt.Errorf("could not execute migration %s: %w", mig.Version, err)
			}
		}
		insert := `INSERT INTO ` + migrationsTable + ` (version, applied_at) VALUES (:1, :2)`
		if _, err := m.db.ExecContext(ctx, insert, mig.Version, time.Now().UTC()); err != nil {
			return count, fmt.Errorf("could not record migration %s: %w", mig.Version, err)
		}
		logger.Get().Info("Applied migration", zap.String("version", mig.Version))
		count++
	}
	return count, nil
}

// Down rolls back up to steps applied migrations, newest first. steps <= 0
// rolls back everything.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := len(m.migrations) - 1; i >= 0; i-- {
		if steps > 0 && count >= steps {
			break
		}
		mig := m.migrations[i]
		if !applied[mig.Version] {
			continue
		}
		for _, stmt := range mig.Down {
			if _, err := m.db.ExecContext(ctx, stmt); err != nil {
				return count, fmt.Errorf("could not roll back migration %s: %w", mig.Version, err)
			}
		}
		if _, err := m.db.ExecContext(ctx, `DELETE FROM `+migrationsTable+` WHERE version = :1`, mig.Version); err != nil {
			return count, fmt.Errorf("could not unrecord migration %s: %w", mig.Version, err)
		}
		logger.Get().Info("Rolled back migration", zap.String("version", mig.Version))
		count++
	}
	return count, nil
}
