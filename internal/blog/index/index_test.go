package index

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "blog-generator/internal/common/errors"
	"blog-generator/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIndex(t *testing.T, maxEntries int) (*Index, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	idx, err := New(rdb, Config{KeyPrefix: "blog", MaxEntries: maxEntries}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return idx, mr
}

func TestRecordAndRecent(t *testing.T) {
	idx, mr := setupIndex(t, 3)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for n := 0; n < 5; n++ {
		require.NoError(t, idx.Record(ctx, Entry{
			Key:       fmt.Sprintf("blog-output/20240101_12000%d.txt", n),
			Topic:     fmt.Sprintf("topic %d", n),
			Bucket:    "aws_bedrock_course1",
			CreatedAt: base.Add(time.Duration(n) * time.Second),
		}))
	}

	list, err := mr.List("blog:recent")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	entries, err := idx.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "blog-output/20240101_120004.txt", entries[0].Key)
	assert.Equal(t, "topic 4", entries[0].Topic)
	assert.Equal(t, "blog-output/20240101_120002.txt", entries[2].Key)
	assert.True(t, base.Add(4*time.Second).Equal(entries[0].CreatedAt))

	entries, err = idx.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = idx.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecent_SkipsUndecodable(t *testing.T) {
	idx, mr := setupIndex(t, 10)
	ctx := context.Background()

	require.NoError(t, idx.Record(ctx, Entry{Key: "blog-output/a.txt"}))
	mr.Lpush("blog:recent", "not json")

	entries, err := idx.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "blog-output/a.txt", entries[0].Key)
}

func TestRecord_Unavailable(t *testing.T) {
	idx, mr := setupIndex(t, 10)
	mr.Close()

	err := idx.Record(context.Background(), Entry{Key: "blog-output/a.txt"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeIndexFailed, apperrors.CodeOf(err))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, Config{MaxEntries: 1}, nil)
	assert.Error(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer rdb.Close()
	_, err = New(rdb, Config{}, nil)
	assert.Error(t, err)

	idx, err := New(rdb, Config{MaxEntries: 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, "blog:recent", idx.listKey())
}
