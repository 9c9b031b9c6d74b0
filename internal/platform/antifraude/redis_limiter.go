// Pacote antifraude limita a frequência de votos por usuário (Redis) ou desliga o controle (Noop).
package antifraude

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/premiacao/internal/domain"
)

var ErrRateLimitExceeded = errors.New("limite de votos atingido")

// RedisRateLimiter conta votos por usuário em janelas fixas.
type RedisRateLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisRateLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: prefix,
	}
}

func (r *RedisRateLimiter) Check(ctx context.Context, v domain.Vote) error {
	if r.client == nil || r.limit <= 0 || r.window <= 0 {
		return nil
	}

	key := r.key(v.UserID)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("antifraude: incrementar %s: %w", key, err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return fmt.Errorf("antifraude: definir expiracao: %w", err)
		}
	} else if ttl, err := r.client.TTL(ctx, key).Result(); err == nil && ttl < 0 {
		// Chave sem TTL (expire perdido) prenderia o usuário para sempre.
		_ = r.client.Expire(ctx, key, r.window).Err()
	}

	if count > int64(r.limit) {
		return fmt.Errorf("%w: usuario %s", ErrRateLimitExceeded, v.UserID)
	}
	return nil
}

func (r *RedisRateLimiter) key(user domain.UserID) string {
	return r.keyPrefix + ":user:" + string(user)
}

var _ domain.Antifraude = (*RedisRateLimiter)(nil)
