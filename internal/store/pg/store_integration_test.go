//go:build integration

package pg_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"phonebook/internal/domain"
	"phonebook/internal/service"
	"phonebook/internal/store"
	"phonebook/internal/store/pg"
)

func TestContactsRoundTripPostgres(t *testing.T) {
	ctx := context.Background()
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := &service.ContactService{Store: pg.New(db), Events: service.NopEvents{}}

	first, err := svc.Add(ctx, domain.AddContactRequest{Name: "Ash", PhoneNumber: "01012345678", ProfileImage: []byte{0x89, 'P', 'N', 'G'}})
	require.NoError(t, err)
	_, err = svc.Add(ctx, domain.AddContactRequest{Name: "Misty", PhoneNumber: "011-222-3333"})
	require.NoError(t, err)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, first.ID, got[0].ID)
	require.Equal(t, "010-1234-5678", got[0].PhoneNumber)
	require.NotNil(t, got[0].ProfileImage)
	require.Equal(t, "iVBORw==", *got[0].ProfileImage)
	require.Equal(t, "Misty", got[1].Name)
	require.Equal(t, "011-222-3333", got[1].PhoneNumber)
	require.Nil(t, got[1].ProfileImage)
}

func TestDuplicateIDIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := &service.ContactService{
		Store:  pg.New(db),
		Events: service.NopEvents{},
		IDGen:  func() string { return "ct_fixed" },
	}

	_, err := svc.Add(ctx, domain.AddContactRequest{Name: "Brock", PhoneNumber: "0101234"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, domain.AddContactRequest{Name: "Brock", PhoneNumber: "0101234"})
	require.True(t, errors.Is(err, domain.ErrPersistence))

	rows, err := pg.New(db).ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestInsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	s := pg.New(db)
	require.NoError(t, s.InsertContact(ctx, store.ContactInsert{ID: "ct_1", Name: "Oak", PhoneNumber: "010", Now: now}))

	rows, err := s.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].CreatedAt.Equal(now))
}

func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_DB_DSN or DB_DSN not set")
	}

	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	admin, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err, "connect admin db")

	if _, err := admin.Exec(context.Background(), "CREATE SCHEMA "+schema); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}

	dbDSN, err := withSearchPath(dsn, schema)
	if err != nil {
		admin.Close()
		t.Fatalf("build dsn: %v", err)
	}

	db, err := pgxpool.New(context.Background(), dbDSN)
	if err != nil {
		admin.Close()
		t.Fatalf("connect test db: %v", err)
	}

	if err := pg.Migrate(context.Background(), db); err != nil {
		db.Close()
		admin.Close()
		t.Fatalf("run migrations: %v", err)
	}

	cleanup := func() {
		db.Close()
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	}
	return db, cleanup
}

func withSearchPath(dsn, schema string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	q := u.Query()
	opts := q.Get("options")
	if opts != "" {
		opts = opts + " -c search_path=" + schema
	} else {
		opts = "-c search_path=" + schema
	}
	q.Set("options", opts)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
