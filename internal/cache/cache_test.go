package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	var got item
	hit, err := c.GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetJSON(ctx, "a", item{Name: "x", N: 1}, 0))
	require.NoError(t, c.SetJSON(ctx, "b", "plain", 0))

	hit, err = c.GetJSON(ctx, "a", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, item{Name: "x", N: 1}, got)

	require.NoError(t, c.Del(ctx, "a", "b", "never-set"))
	hit, err = c.GetJSON(ctx, "a", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	var s string
	hit, err = c.GetJSON(ctx, "b", &s)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	exerciseCache(t, c)
}

func TestFileCacheSharesStateAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileCache(dir)
	require.NoError(t, err)
	b, err := NewFileCache(dir)
	require.NoError(t, err)

	require.NoError(t, a.SetJSON(context.Background(), "k", item{Name: "shared"}, 0))

	var got item
	hit, err := b.GetJSON(context.Background(), "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "shared", got.Name)
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetJSON(context.Background(), "k", 1, time.Minute))
	var n int
	hit, _ := c.GetJSON(context.Background(), "k", &n)
	assert.True(t, hit)

	now = now.Add(2 * time.Minute)
	hit, err = c.GetJSON(context.Background(), "k", &n)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCacheRecoversFromCorruptFile(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.Path(), []byte("{garbage"), 0o600))

	var n int
	hit, err := c.GetJSON(context.Background(), "k", &n)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, c.SetJSON(context.Background(), "k", 2, 0))
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	c := NewRedisCache(rdb, "rc:")
	exerciseCache(t, c)

	require.NoError(t, c.SetJSON(context.Background(), "k", 1, 0))
	assert.True(t, mr.Exists("rc:k"))

	mr.Set("rc:bad", "{oops")
	var n int
	hit, err := c.GetJSON(context.Background(), "bad", &n)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("rc:bad"))
}
