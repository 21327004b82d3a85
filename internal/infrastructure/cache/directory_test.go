package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/collaborator"
)

type countingDirectory struct {
	calls   int
	entries map[id.ID]collaborator.Collaborator
}

func (d *countingDirectory) Resolve(_ context.Context, collaboratorID id.ID) (collaborator.Collaborator, error) {
	d.calls++
	c, ok := d.entries[collaboratorID]
	if !ok {
		return collaborator.Collaborator{}, apperror.NewNotFound("collaborator", collaboratorID.String())
	}
	return c, nil
}

func TestCachedDirectory_ServesFromCache(t *testing.T) {
	workerID := id.New()
	inner := &countingDirectory{entries: map[id.ID]collaborator.Collaborator{
		workerID: {ID: workerID, Name: "Ana", Active: true},
	}}
	dir := NewCachedDirectory(inner, time.Minute)

	for i := 0; i < 3; i++ {
		c, err := dir.Resolve(context.Background(), workerID)
		require.NoError(t, err)
		require.Equal(t, "Ana", c.Name)
	}

	require.Equal(t, 1, inner.calls)
}

func TestCachedDirectory_ExpiresAfterTTL(t *testing.T) {
	workerID := id.New()
	inner := &countingDirectory{entries: map[id.ID]collaborator.Collaborator{
		workerID: {ID: workerID, Name: "Ana", Active: true},
	}}
	dir := NewCachedDirectory(inner, time.Minute)

	current := time.Now()
	dir.now = func() time.Time { return current }

	_, err := dir.Resolve(context.Background(), workerID)
	require.NoError(t, err)

	// Deactivation becomes visible once the entry expires.
	inner.entries[workerID] = collaborator.Collaborator{ID: workerID, Name: "Ana", Active: false}
	current = current.Add(2 * time.Minute)

	c, err := dir.Resolve(context.Background(), workerID)
	require.NoError(t, err)
	require.False(t, c.Active)
	require.Equal(t, 2, inner.calls)
}

func TestCachedDirectory_DoesNotCacheMisses(t *testing.T) {
	inner := &countingDirectory{entries: map[id.ID]collaborator.Collaborator{}}
	dir := NewCachedDirectory(inner, time.Minute)

	unknown := id.New()
	for i := 0; i < 2; i++ {
		_, err := dir.Resolve(context.Background(), unknown)
		require.True(t, apperror.IsNotFound(err))
	}

	require.Equal(t, 2, inner.calls)
}

func TestCachedDirectory_Invalidate(t *testing.T) {
	workerID := id.New()
	inner := &countingDirectory{entries: map[id.ID]collaborator.Collaborator{
		workerID: {ID: workerID, Name: "Ana", Active: true},
	}}
	dir := NewCachedDirectory(inner, time.Minute)

	_, err := dir.Resolve(context.Background(), workerID)
	require.NoError(t, err)

	dir.Invalidate(workerID)

	_, err = dir.Resolve(context.Background(), workerID)
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}
