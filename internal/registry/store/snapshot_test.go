package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enrolld/internal/sentinel"
	"enrolld/pkg/domain"
)

func snapshotPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "registry.json")
}

func TestSnapshot_StartsEmptyWhenFileMissing(t *testing.T) {
	store, err := NewSnapshot(snapshotPath(t))
	require.NoError(t, err)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSnapshot_PersistsAcrossReopen(t *testing.T) {
	path := snapshotPath(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	store, err := NewSnapshot(path)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, newTestSubject(t, "alice", now)))
	require.NoError(t, store.Create(ctx, newTestSubject(t, "bob", now.Add(time.Minute))))
	require.NoError(t, store.MarkVerified(ctx, "alice", now.Add(time.Hour)))

	reopened, err := NewSnapshot(path)
	require.NoError(t, err)

	alice, err := reopened.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, alice.Verified)
	require.NotNil(t, alice.VerifiedAt)
	assert.Equal(t, now.Add(time.Hour), alice.VerifiedAt.UTC())
	assert.Equal(t, domain.CredentialToken("cred-alice"), alice.Credential)

	bob, err := reopened.FindByID(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, bob.Verified)

	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.SubjectID("alice"), list[0].ID)
}

func TestSnapshot_DuplicateIDAfterReopen(t *testing.T) {
	path := snapshotPath(t)
	ctx := context.Background()
	now := time.Now().UTC()

	store, err := NewSnapshot(path)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, newTestSubject(t, "alice", now)))

	reopened, err := NewSnapshot(path)
	require.NoError(t, err)
	err = reopened.Create(ctx, newTestSubject(t, "alice", now))
	assert.ErrorIs(t, err, sentinel.ErrDuplicate)
}

func TestSnapshot_CorruptFileRefusesToLoad(t *testing.T) {
	path := snapshotPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewSnapshot(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrCorrupt)
}

func TestSnapshot_UnsupportedVersionRefusesToLoad(t *testing.T) {
	path := snapshotPath(t)
	data, err := json.Marshal(map[string]any{"version": 99, "subjects": []any{}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = NewSnapshot(path)
	assert.ErrorIs(t, err, sentinel.ErrCorrupt)
}

func TestSnapshot_FileOnDiskNeverExposesPartialWrites(t *testing.T) {
	path := snapshotPath(t)
	ctx := context.Background()
	now := time.Now().UTC()

	store, err := NewSnapshot(path)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, newTestSubject(t, "alice", now)))

	// Every mutation leaves a complete, parseable image behind.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var file snapshotFile
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, snapshotVersion, file.Version)
	require.Len(t, file.Subjects, 1)
	assert.Equal(t, "cred-alice", file.Subjects[0].Credential)
}
