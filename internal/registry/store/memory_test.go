package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enrolld/internal/registry/models"
	"enrolld/internal/sentinel"
	"enrolld/pkg/domain"
)

func newTestSubject(t *testing.T, id string, registeredAt time.Time) *models.Subject {
	t.Helper()
	subject, err := models.NewSubject(domain.SubjectID(id), "Subject "+id, domain.CredentialToken("cred-"+id), registeredAt)
	require.NoError(t, err)
	return subject
}

func TestInMemoryCreate_Success(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	subject := newTestSubject(t, "alice", time.Now().UTC())
	require.NoError(t, store.Create(ctx, subject))

	found, err := store.FindByID(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, subject.DisplayName, found.DisplayName)
	assert.False(t, found.Verified)
}

func TestInMemoryCreate_DuplicateIDReturnsError(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Create(ctx, newTestSubject(t, "alice", now)))

	err := store.Create(ctx, newTestSubject(t, "alice", now))
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrDuplicate)
}

func TestInMemoryFindByID_Missing(t *testing.T) {
	store := NewInMemory()

	_, err := store.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryFindByID_ReturnsCopy(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestSubject(t, "alice", time.Now().UTC())))

	first, err := store.FindByID(ctx, "alice")
	require.NoError(t, err)
	first.DisplayName = "mutated"

	second, err := store.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Subject alice", second.DisplayName)
}

func TestInMemoryMarkVerified(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Create(ctx, newTestSubject(t, "alice", now)))

	require.NoError(t, store.MarkVerified(ctx, "alice", now.Add(time.Minute)))

	found, err := store.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, found.Verified)
	require.NotNil(t, found.VerifiedAt)

	err = store.MarkVerified(ctx, "alice", now.Add(2*time.Minute))
	assert.ErrorIs(t, err, sentinel.ErrAlreadyVerified)

	err = store.MarkVerified(ctx, "ghost", now)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryMarkVerified_ConcurrentFlipsOnce(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Create(ctx, newTestSubject(t, "alice", now)))

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.MarkVerified(ctx, "alice", now.Add(time.Second))
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, alreadyVerified int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, sentinel.ErrAlreadyVerified)
			alreadyVerified++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, alreadyVerified)
}

func TestInMemoryList_OrderedByRegistration(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, newTestSubject(t, "charlie", base.Add(2*time.Hour))))
	require.NoError(t, store.Create(ctx, newTestSubject(t, "alice", base)))
	require.NoError(t, store.Create(ctx, newTestSubject(t, "bob", base.Add(time.Hour))))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.SubjectID("alice"), list[0].ID)
	assert.Equal(t, domain.SubjectID("bob"), list[1].ID)
	assert.Equal(t, domain.SubjectID("charlie"), list[2].ID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
