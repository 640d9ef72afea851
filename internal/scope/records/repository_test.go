package records

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dsjohal14/corphealth/internal/scope/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, db.Storage) {
	t.Helper()
	store, err := db.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewRepository(store), store
}

func TestStatusCheckRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.CreateStatusCheck(ctx, "acme1")
	require.NoError(t, err)
	second, err := repo.CreateStatusCheck(ctx, "acme1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	checks, err := repo.ListStatusChecks(ctx)
	require.NoError(t, err)
	require.Len(t, checks, 2)

	for i, want := range []StatusCheck{first, second} {
		assert.Equal(t, want.ID, checks[i].ID)
		assert.Equal(t, "acme1", checks[i].ClientName)
		assert.True(t, want.Timestamp.Time.Equal(checks[i].Timestamp.Time))
	}
}

func TestContactMessageRoundTrip(t *testing.T) {
	repo, store := newTestRepository(t)
	ctx := context.Background()

	msg, err := repo.CreateContactMessage(ctx, "A", "a@x.com", "hi")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), msg.Timestamp.Time, 5*time.Second)

	// Stored layout is flat with a textual timestamp
	docs, err := store.Find(ctx, ContactCollection, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, msg.ID, docs[0]["id"])
	assert.IsType(t, "", docs[0]["timestamp"])

	messages, err := repo.ListContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, msg.ID, messages[0].ID)
	assert.Equal(t, "A", messages[0].Name)
	assert.Equal(t, "a@x.com", messages[0].Email)
	assert.Equal(t, "hi", messages[0].Message)
	assert.True(t, msg.Timestamp.Time.Equal(messages[0].Timestamp.Time))
}

func TestListCapsAtLimit(t *testing.T) {
	repo, store := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < ListLimit+5; i++ {
		doc := db.Document{"id": fmt.Sprint(i), "client_name": "bulk", "timestamp": "2024-01-01T00:00:00Z"}
		require.NoError(t, store.Insert(ctx, StatusCollection, doc))
	}

	checks, err := repo.ListStatusChecks(ctx)
	require.NoError(t, err)
	assert.Len(t, checks, ListLimit)
}

func TestListSurfacesMalformedRecord(t *testing.T) {
	repo, store := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, ContactCollection, db.Document{"id": "x"}))

	_, err := repo.ListContactMessages(ctx)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

type failingStore struct {
	db.Storage
	err error
}

func (f failingStore) Insert(context.Context, string, db.Document) error {
	return f.err
}

func (f failingStore) Find(context.Context, string, int) ([]db.Document, error) {
	return nil, f.err
}

func TestRepositoryPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	repo := NewRepository(failingStore{err: boom})
	ctx := context.Background()

	_, err := repo.CreateStatusCheck(ctx, "acme")
	assert.ErrorIs(t, err, boom)
	_, err = repo.CreateContactMessage(ctx, "A", "a@x.com", "hi")
	assert.ErrorIs(t, err, boom)
	_, err = repo.ListStatusChecks(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = repo.ListContactMessages(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestMigrate(t *testing.T) {
	store, err := db.NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	names, err := Migrate(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []string{StatusCollection, ContactCollection}, names)

	// File store has nothing to create
	_, fileStore := newTestRepository(t)
	names, err = Migrate(context.Background(), fileStore)
	require.NoError(t, err)
	assert.Empty(t, names)
}
