// Package sqlite persists contacts in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"phonebook/internal/store"
	"phonebook/internal/store/sqlite/migrations"
)

type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return store.ErrNotConfigured
	}
	return s.db.PingContext(ctx)
}

func (s *Store) InsertContact(ctx context.Context, in store.ContactInsert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return store.ErrNotConfigured
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, name, phone_number, profile_image, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, in.ID, in.Name, in.PhoneNumber, nullString(in.ProfileImage), in.Now.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *Store) ListContacts(ctx context.Context) ([]store.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, store.ErrNotConfigured
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone_number, profile_image, created_at
		FROM contacts ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := []store.Contact{}
	for rows.Next() {
		var (
			c         store.Contact
			img       sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.PhoneNumber, &img, &createdAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		if img.Valid {
			v := img.String
			c.ProfileImage = &v
		}
		c.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
