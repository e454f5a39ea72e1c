package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"hbnb/internal/db"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const migrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    text PRIMARY KEY,
	applied_at timestamptz NOT NULL DEFAULT now()
)`

// pending returns the .up.sql files of fsys not yet in applied, in version order.
func pending(fsys fs.FS, applied map[string]bool) ([]string, error) {
	files, err := fs.Glob(fsys, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var out []string
	for _, f := range files {
		if !applied[version(f)] {
			out = append(out, f)
		}
	}
	return out, nil
}

func version(file string) string {
	name := file[strings.LastIndex(file, "/")+1:]
	return strings.TrimSuffix(name, ".up.sql")
}

func appliedVersions(ctx context.Context, conn *sql.DB) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func apply(ctx context.Context, conn *sql.DB, file string) error {
	body, err := fs.ReadFile(db.Migrations, file)
	if err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version(file)); err != nil {
		return err
	}
	return tx.Commit()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	addr := os.Getenv("DB_ADDR")
	if addr == "" {
		logger.Fatal("DB_ADDR is required")
	}

	conn, err := sql.Open("postgres", addr)
	if err != nil {
		logger.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := conn.ExecContext(ctx, migrationsTable); err != nil {
		logger.Fatal(err)
	}

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		logger.Fatal(err)
	}

	files, err := pending(db.Migrations, applied)
	if err != nil {
		logger.Fatal(err)
	}

	for _, f := range files {
		if err := apply(ctx, conn, f); err != nil {
			logger.Fatalw("migration failed", "file", f, "error", err)
		}
		logger.Infow("migration applied", "version", version(f))
	}
	logger.Infow("database is up to date", "applied", len(files))
}
