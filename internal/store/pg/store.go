package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"phonebook/internal/store"
)

// Pool is the subset of *pgxpool.Pool the store uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

type Store struct {
	DB Pool
}

func New(db Pool) *Store { return &Store{DB: db} }

func (s *Store) InsertContact(ctx context.Context, in store.ContactInsert) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO contacts (id, name, phone_number, profile_image, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, in.ID, in.Name, in.PhoneNumber, nullIfNil(in.ProfileImage), in.Now.UTC())
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *Store) ListContacts(ctx context.Context) ([]store.Contact, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, name, phone_number, profile_image, created_at
		FROM contacts ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := []store.Contact{}
	for rows.Next() {
		var c store.Contact
		var img pgtype.Text
		if err := rows.Scan(&c.ID, &c.Name, &c.PhoneNumber, &img, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		if img.Valid {
			v := img.String
			c.ProfileImage = &v
		}
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.Ping(ctx) }

func nullIfNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
