package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonebook/internal/store"
)

func TestInsertAndListInOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	rows, err := s.ListContacts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.InsertContact(ctx, store.ContactInsert{
			ID:          fmt.Sprintf("ct_%d", i),
			Name:        fmt.Sprintf("name-%d", i),
			PhoneNumber: "010-1234-5678",
			Now:         time.Now(),
		}))
	}

	rows, err = s.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, fmt.Sprintf("name-%d", i), r.Name)
	}
}

func TestListIsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()
	img := "AQID"
	require.NoError(t, s.InsertContact(ctx, store.ContactInsert{ID: "a", Name: "Ash", PhoneNumber: "010", ProfileImage: &img}))

	snap, err := s.ListContacts(ctx)
	require.NoError(t, err)

	require.NoError(t, s.InsertContact(ctx, store.ContactInsert{ID: "b", Name: "Misty", PhoneNumber: "011"}))
	*snap[0].ProfileImage = "changed"

	assert.Len(t, snap, 1)
	again, err := s.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, "AQID", *again[0].ProfileImage)
}

func TestInsertHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New()
	assert.ErrorIs(t, s.InsertContact(ctx, store.ContactInsert{ID: "a", Name: "Ash", PhoneNumber: "010"}), context.Canceled)
	rows, err := s.ListContacts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.InsertContact(ctx, store.ContactInsert{ID: fmt.Sprint(i), Name: "n", PhoneNumber: "010"})
		}(i)
	}
	wg.Wait()
	rows, err := s.ListContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 50)
}
