package postgres

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate aplica en orden los archivos NNN_descripcion.sql embebidos que aún no estén en
// schema_migrations. Un archivo ya aplicado cuyo checksum cambió es un error.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			filename   TEXT NOT NULL,
			checksum   TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}

	filenames, err := discoverMigrations()
	if err != nil {
		return err
	}
	for _, filename := range filenames {
		if err := applyMigration(ctx, pool, log, filename); err != nil {
			return err
		}
	}
	return nil
}

func discoverMigrations() ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones: %w", err)
	}
	var filenames []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, err := migrationVersion(entry.Name())
		if err != nil {
			return nil, err
		}
		if seen[version] {
			return nil, fmt.Errorf("migración duplicada: versión %s", version)
		}
		seen[version] = true
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)
	return filenames, nil
}

func migrationVersion(filename string) (string, error) {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return "", fmt.Errorf("nombre de migración inválido %q: se espera NNN_descripcion.sql", filename)
	}
	return parts[0], nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger, filename string) error {
	version, err := migrationVersion(filename)
	if err != nil {
		return err
	}
	sqlBytes, err := migrationFiles.ReadFile("migrations/" + filename)
	if err != nil {
		return fmt.Errorf("leer %s: %w", filename, err)
	}
	sum := sha256.Sum256(sqlBytes)
	checksum := hex.EncodeToString(sum[:])

	var existing string
	err = pool.QueryRow(ctx, `SELECT checksum FROM schema_migrations WHERE version = $1`, version).Scan(&existing)
	switch {
	case err == nil:
		if existing != checksum {
			return fmt.Errorf("checksum distinto para %s: aplicado %s, archivo %s", filename, existing, checksum)
		}
		log.Debug().Str("migration", filename).Msg("migración ya aplicada")
		return nil
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("consultar schema_migrations: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("ejecutar %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)`,
		version, filename, checksum,
	); err != nil {
		return fmt.Errorf("registrar %s: %w", filename, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	log.Info().Str("migration", filename).Msg("migración aplicada")
	return nil
}
