package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"attendbot/constants"
	"attendbot/models"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// ErrStaleSummary báo rằng cache đã bị xóa sau khi dữ liệu được đọc, không được ghi lại
var ErrStaleSummary = errors.New("summary changed while loading")

const generationTTL = 24 * time.Hour

// SummaryCache giữ danh sách entry đã sắp xếp của từng user.
// Set chỉ ghi khi generation chưa đổi kể từ lúc đọc Generation.
type SummaryCache interface {
	Get(ctx context.Context, userID int64) ([]models.SummaryEntry, bool, error)
	Generation(ctx context.Context, userID int64) (int64, error)
	Set(ctx context.Context, userID int64, generation int64, entries []models.SummaryEntry) error
	Invalidate(ctx context.Context, userID int64) error
}

type RedisSummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSummaryCache(rdb *redis.Client, ttl time.Duration) *RedisSummaryCache {
	if ttl <= 0 {
		ttl = constants.SummaryCacheTTL
	}
	return &RedisSummaryCache{rdb: rdb, ttl: ttl}
}

func SummaryCacheKey(userID int64) string {
	return constants.SummaryCachePrefix + strconv.FormatInt(userID, 10)
}

func SummaryGenerationKey(userID int64) string {
	return SummaryCacheKey(userID) + ":gen"
}

func (c *RedisSummaryCache) Get(ctx context.Context, userID int64) ([]models.SummaryEntry, bool, error) {
	var entries []models.SummaryEntry
	ok, err := GetFromRedis(ctx, c.rdb, SummaryCacheKey(userID), &entries)
	if err != nil || !ok {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *RedisSummaryCache) Generation(ctx context.Context, userID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, SummaryGenerationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisSummaryCache) Set(ctx context.Context, userID int64, generation int64, entries []models.SummaryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	genKey := SummaryGenerationKey(userID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != generation {
			return ErrStaleSummary
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, SummaryCacheKey(userID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleSummary
	}
	return err
}

// Invalidate tăng generation và xóa cache trong cùng một MULTI
func (c *RedisSummaryCache) Invalidate(ctx context.Context, userID int64) error {
	genKey := SummaryGenerationKey(userID)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, SummaryCacheKey(userID))
		return nil
	})
	return err
}

// noopSummaryCache dùng khi không cấu hình Redis
type noopSummaryCache struct{}

func (noopSummaryCache) Get(context.Context, int64) ([]models.SummaryEntry, bool, error) {
	return nil, false, nil
}
func (noopSummaryCache) Generation(context.Context, int64) (int64, error)               { return 0, nil }
func (noopSummaryCache) Set(context.Context, int64, int64, []models.SummaryEntry) error { return nil }
func (noopSummaryCache) Invalidate(context.Context, int64) error                        { return nil }
