package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	stored, err := s.Store(ctx, strings.NewReader("hello evidence"), "evidence/expl-1/note.txt", "text/plain")
	require.NoError(t, err)

	assert.Equal(t, "evidence/expl-1/note.txt", stored.Path)
	assert.Equal(t, "http://localhost:8080/uploads/evidence/expl-1/note.txt", stored.URL)
	assert.Len(t, stored.Hash, 64)

	exists, err := s.Exists(ctx, stored.Path)
	require.NoError(t, err)
	assert.True(t, exists)

	url, err := s.GetURL(ctx, stored.Path, 0)
	require.NoError(t, err)
	assert.Equal(t, stored.URL, url)

	require.NoError(t, s.Delete(ctx, stored.Path))
	exists, err = s.Exists(ctx, stored.Path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageDeleteMissingIsNotAnError(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	assert.NoError(t, s.Delete(context.Background(), "never/stored.txt"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	_, err = s.Store(context.Background(), strings.NewReader("x"), "../outside.txt", "text/plain")
	assert.Error(t, err)
}
