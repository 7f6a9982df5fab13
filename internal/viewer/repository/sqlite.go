package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"house-viewer/internal/viewer/models"

	"github.com/google/uuid"
)

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Save сохраняет новый документ под свежим id.
func (r *Repository) Save(ctx context.Context, name, kind string, body []byte) (*models.HouseRecord, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO houses (id, name, kind, body)
        VALUES (?, ?, ?, ?)
    `, id, name, kind, body)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: house %q", models.ErrExists, name)
		}
		return nil, fmt.Errorf("insert house: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id string) (*models.HouseRecord, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, kind, body, created_at
        FROM houses
        WHERE id = ?
    `, id)
	return scanHouse(row)
}

func (r *Repository) GetByName(ctx context.Context, name, kind string) (*models.HouseRecord, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, kind, body, created_at
        FROM houses
        WHERE name = ? AND kind = ?
    `, name, kind)
	return scanHouse(row)
}

// List возвращает документы без тел, от старых к новым.
func (r *Repository) List(ctx context.Context) ([]models.HouseRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, kind, created_at
        FROM houses
        ORDER BY created_at, name
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	houses := []models.HouseRecord{}
	for rows.Next() {
		var h models.HouseRecord
		if err := rows.Scan(&h.ID, &h.Name, &h.Kind, &h.CreatedAt); err != nil {
			return nil, err
		}
		houses = append(houses, h)
	}
	return houses, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM houses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("house %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// EnsureDefault создаёт или обновляет документ с фиксированным именем.
func (r *Repository) EnsureDefault(ctx context.Context, name, kind string, body []byte) (*models.HouseRecord, error) {
	existing, err := r.GetByName(ctx, name, kind)
	if err == nil {
		if _, err := r.db.ExecContext(ctx, `UPDATE houses SET body = ? WHERE id = ?`, body, existing.ID); err != nil {
			return nil, fmt.Errorf("update %s: %w", name, err)
		}
		log.Printf("[REPO] Refreshed %s document %s (%s)", kind, name, existing.ID)
		return r.Get(ctx, existing.ID)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	rec, err := r.Save(ctx, name, kind, body)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", name, err)
	}
	log.Printf("[REPO] Seeded %s document %s (%s)", kind, name, rec.ID)
	return rec, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanHouse(row *sql.Row) (*models.HouseRecord, error) {
	var h models.HouseRecord
	if err := row.Scan(&h.ID, &h.Name, &h.Kind, &h.Body, &h.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
