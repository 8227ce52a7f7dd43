package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/landmarket/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage(t *testing.T) {
	root := filepath.Join(t.TempDir(), "images")
	s, err := NewLocalStorage(root, "/images/")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("put writes under root", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "abc.jpg", []byte("jpeg"), "image/jpeg"))
		b, err := os.ReadFile(filepath.Join(root, "abc.jpg"))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", string(b))

		exists, err := s.Exists(ctx, "abc.jpg")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("put creates nested directories", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "seller/logo.jpg", []byte("x"), "image/jpeg"))
		_, err := os.Stat(filepath.Join(root, "seller", "logo.jpg"))
		assert.NoError(t, err)
	})

	t.Run("delete ignores missing files", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "abc.jpg"))
		require.NoError(t, s.Delete(ctx, "abc.jpg"))
		exists, err := s.Exists(ctx, "abc.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("rejects keys escaping root", func(t *testing.T) {
		assert.Error(t, s.Put(ctx, "../evil.jpg", []byte("x"), "image/jpeg"))
		assert.Error(t, s.Delete(ctx, ""))
	})

	t.Run("url joins base and key", func(t *testing.T) {
		assert.Equal(t, "/images/abc.jpg", s.URL("abc.jpg"))
	})
}

func TestNew(t *testing.T) {
	t.Run("local driver", func(t *testing.T) {
		s, err := New(context.Background(), &config.StorageConfig{
			Driver: "local", LocalRoot: t.TempDir(), PublicBaseURL: "/images",
		}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &LocalStorage{}, s)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := New(context.Background(), &config.StorageConfig{Driver: "ftp"}, zap.NewNop())
		assert.ErrorContains(t, err, "unknown storage driver")
	})

	t.Run("local driver requires root", func(t *testing.T) {
		_, err := New(context.Background(), &config.StorageConfig{Driver: "local"}, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage("/images")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a.jpg", []byte("a"), "image/jpeg"))
	b, ok := s.Get("a.jpg")
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), b)
	assert.Equal(t, 1, s.Len())

	s.FailPut["b.jpg"] = assert.AnError
	assert.ErrorIs(t, s.Put(ctx, "b.jpg", nil, "image/jpeg"), assert.AnError)

	require.NoError(t, s.Delete(ctx, "a.jpg"))
	assert.Equal(t, 0, s.Len())
}
