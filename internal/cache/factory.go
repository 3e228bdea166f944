package cache

import (
	"razorpay-checkout/internal/config"

	"go.uber.org/zap"
)

// NewLocker returns a Redis-backed Locker when Redis is configured and
// reachable, and an in-memory one otherwise.
func NewLocker(cfg *config.Redis, logger *zap.Logger) Locker {
	if cfg.Addr == "" {
		logger.Info("using in-memory verification lock")
		return NewInMemoryLocker()
	}

	locker, err := NewRedisLocker(RedisConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory verification lock. "+
			"Concurrent verifications on other instances are then serialized by the database only.",
			zap.Error(err),
		)
		return NewInMemoryLocker()
	}

	logger.Info("using Redis verification lock", zap.String("addr", cfg.Addr))
	return locker
}
