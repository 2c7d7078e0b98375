package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), "/api/media")
	require.NoError(t, err)

	n, err := s.Put(ctx, "acc-1/m-1.png", strings.NewReader("pixels"), "image/png")
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
	assert.Equal(t, "/api/media/acc-1/m-1.png", s.URL("acc-1/m-1.png"))

	rc, err := s.Open(ctx, "acc-1/m-1.png")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(b))

	require.NoError(t, s.Delete(ctx, "acc-1/m-1.png"))
	require.NoError(t, s.Delete(ctx, "acc-1/m-1.png"))
	_, err = s.Open(ctx, "acc-1/m-1.png")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)
	for _, key := range []string{"", "../etc/passwd", "/abs", "a/../../b", "a/./b", `a\b`} {
		_, err := s.Put(context.Background(), key, strings.NewReader("x"), "")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestMediaKey(t *testing.T) {
	assert.Equal(t, "acc/id.png", MediaKey("acc", "id", "Photo.PNG"))
	assert.Equal(t, "acc/id", MediaKey("acc", "id", "README"))
	assert.Equal(t, "acc/id.jpg", MediaKey("acc", "id", `C:\tmp\x.jpg`))
}
