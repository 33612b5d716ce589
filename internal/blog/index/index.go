// Package index keeps a bounded, newest-first list of stored artifacts in Redis.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "blog-generator/internal/common/errors"
	"blog-generator/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const recentSuffix = ":recent"

type Entry struct {
	Key       string    `json:"key"`
	Topic     string    `json:"topic"`
	Bucket    string    `json:"bucket"`
	CreatedAt time.Time `json:"createdAt"`
}

type Config struct {
	KeyPrefix  string
	MaxEntries int
}

type Index struct {
	rdb    redis.Cmdable
	config Config
	logger logger.Logger
}

func New(rdb redis.Cmdable, config Config, log logger.Logger) (*Index, error) {
	if rdb == nil {
		return nil, fmt.Errorf("index: redis client is required")
	}
	if config.MaxEntries <= 0 {
		return nil, fmt.Errorf("index: max entries must be positive")
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "blog"
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Index{rdb: rdb, config: config, logger: log.With(map[string]interface{}{"component": "index"})}, nil
}

func (i *Index) listKey() string {
	return i.config.KeyPrefix + recentSuffix
}

// Record prepends e and trims the list to MaxEntries in one transaction.
func (i *Index) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return apperrors.NewIndexFailedError(fmt.Errorf("encode entry: %w", err))
	}

	_, err = i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, i.listKey(), data)
		pipe.LTrim(ctx, i.listKey(), 0, int64(i.config.MaxEntries-1))
		return nil
	})
	if err != nil {
		return apperrors.NewIndexFailedError(fmt.Errorf("record %s: %w", e.Key, err))
	}

	i.logger.Debug("artifact indexed", map[string]interface{}{"key": e.Key})
	return nil
}

// Recent returns up to n entries, newest first. Entries that fail to decode
// are skipped.
func (i *Index) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}
	raw, err := i.rdb.LRange(ctx, i.listKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, apperrors.NewIndexFailedError(fmt.Errorf("read recent: %w", err))
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			i.logger.Warn("skipping undecodable index entry", map[string]interface{}{"error": err.Error()})
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
