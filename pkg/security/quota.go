package security

import (
	"codex_backend/internal/util"
	"codex_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const quotaKeyPrefix = "codex:quota:analyze"

// DailyQuota 每个 IP 每天的调用次数，计数存在 Redis，limit 可热更新
type DailyQuota struct {
	rdb   *redis.Client
	limit atomic.Int64
	now   func() time.Time
}

func NewDailyQuota(rdb *redis.Client, limit int) *DailyQuota {
	q := &DailyQuota{rdb: rdb, now: time.Now}
	q.SetLimit(limit)
	return q
}

func (q *DailyQuota) SetLimit(limit int) {
	q.limit.Store(int64(limit))
}

func (q *DailyQuota) Limit() int {
	return int(q.limit.Load())
}

func (q *DailyQuota) key(ip string) string {
	return fmt.Sprintf("%s:%s:%s", quotaKeyPrefix, q.now().UTC().Format("20060102"), ip)
}

// Take 计数加一，超限返回 util.ErrQuotaExceeded。Redis 不可用或 limit<=0 时不限制
func (q *DailyQuota) Take(ctx context.Context, ip string) error {
	limit := q.limit.Load()
	if q.rdb == nil || limit <= 0 {
		return nil
	}

	key := q.key(ip)
	count, err := q.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		if err := q.rdb.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
			return fmt.Errorf("expire %s: %w", key, err)
		}
	}
	if count > limit {
		return util.ErrQuotaExceeded
	}
	return nil
}

func (q *DailyQuota) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := q.Take(c.Request.Context(), c.ClientIP())
		switch {
		case errors.Is(err, util.ErrQuotaExceeded):
			util.TooManyRequests(c, "Daily analysis quota exceeded")
			c.Abort()
			return
		case err != nil:
			// Redis 故障时放行
			logger.Log.Warn("Quota check failed, allowing request",
				zap.String("ip", c.ClientIP()),
				zap.Error(err),
			)
		}
		c.Next()
	}
}
