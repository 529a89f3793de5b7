//go:build integration

package alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enrolld/pkg/domain"
	"enrolld/pkg/testutil/containers"
)

func newPostgresAlertStore(t *testing.T) *PostgresStore {
	t.Helper()
	pc := containers.GetManager().GetPostgres(t)
	require.NoError(t, pc.TruncateAll(context.Background()))
	return NewPostgresStore(pc.DB)
}

func TestPostgresStore_AppendAndList(t *testing.T) {
	store := newPostgresAlertStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	registered := NewEvent(KindRegistrationSucceeded, "alice", base)
	registered.DisplayName = "Alice Example"
	registeredAt := base
	registered.RegisteredAt = &registeredAt
	registered.RequestID = "req-1"
	registered.Device = "Firefox on Linux"

	unknown := NewEvent(KindUnregisteredAttempt, "ghost", base.Add(time.Minute))
	repeat := NewEvent(KindRepeatVerification, "alice", base.Add(2*time.Minute))

	for _, event := range []Event{registered, unknown, repeat} {
		require.NoError(t, store.Append(ctx, event))
	}

	alice, err := store.ListBySubject(ctx, domain.SubjectID("alice"))
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, KindRegistrationSucceeded, alice[0].Kind)
	assert.Equal(t, "Alice Example", alice[0].DisplayName)
	assert.Equal(t, "req-1", alice[0].RequestID)
	assert.Equal(t, "Firefox on Linux", alice[0].Device)
	require.NotNil(t, alice[0].RegisteredAt)
	assert.Equal(t, KindRepeatVerification, alice[1].Kind)

	recent, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, KindRepeatVerification, recent[0].Kind)
	assert.Equal(t, KindUnregisteredAttempt, recent[1].Kind)
	assert.Nil(t, recent[1].RegisteredAt)
}

func TestPostgresStore_EmptyHistory(t *testing.T) {
	store := newPostgresAlertStore(t)

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	bySubject, err := store.ListBySubject(context.Background(), domain.SubjectID("nobody"))
	require.NoError(t, err)
	assert.Empty(t, bySubject)
}
