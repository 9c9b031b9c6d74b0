package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/premiacao/internal/domain"
)

// appliedKey guarda os ids de eventos já somados nos contadores.
const appliedKey = "votes:applied"

// applyOnceScript: KEYS[1] é o conjunto de aplicados, os demais são os contadores.
var applyOnceScript = redis.NewScript(`
if redis.call('SADD', KEYS[1], ARGV[1]) == 0 then
	return 0
end
for i = 2, #KEYS do
	redis.call('INCRBY', KEYS[i], 1)
end
return 1
`)

// Counter mantém inteiros sob chaves com prefixo; chave ausente vale zero.
type Counter struct {
	client *redis.Client
	prefix string
}

func NewCounter(client *redis.Client, prefix string) *Counter {
	return &Counter{
		client: client,
		prefix: prefix,
	}
}

func (c *Counter) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	v, err := c.client.IncrBy(ctx, c.key(key), delta).Result()
	if err != nil {
		return 0, fmt.Errorf("redis counter: incrementar %s: %w", key, err)
	}
	return v, nil
}

func (c *Counter) Get(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Get(ctx, c.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis counter: ler %s: %w", key, err)
	}
	return val, nil
}

func (c *Counter) GetAll(ctx context.Context, keys []string) (map[string]int64, error) {
	if len(keys) == 0 {
		return map[string]int64{}, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}

	// Um MGET só para o painel inteiro.
	values, err := c.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis counter: mget: %w", err)
	}

	out := make(map[string]int64, len(keys))
	for i, raw := range values {
		switch v := raw.(type) {
		case nil:
			out[keys[i]] = 0
		case string:
			num, convErr := strconv.ParseInt(v, 10, 64)
			if convErr != nil {
				return nil, fmt.Errorf("redis counter: valor invalido para %s: %w", keys[i], convErr)
			}
			out[keys[i]] = num
		case int64:
			out[keys[i]] = v
		default:
			return nil, fmt.Errorf("redis counter: tipo inesperado %T", raw)
		}
	}

	return out, nil
}

// Set sobrescreve o valor; usado na reconstrução a partir do banco.
func (c *Counter) Set(ctx context.Context, key string, value int64) error {
	if err := c.client.Set(ctx, c.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis counter: definir %s: %w", key, err)
	}
	return nil
}

// ApplyOnce marca o id e incrementa as chaves numa única operação atômica.
func (c *Counter) ApplyOnce(ctx context.Context, id string, keys []string) (bool, error) {
	full := make([]string, 0, len(keys)+1)
	full = append(full, c.key(appliedKey))
	for _, k := range keys {
		full = append(full, c.key(k))
	}

	applied, err := applyOnceScript.Run(ctx, c.client, full, id).Int64()
	if err != nil {
		return false, fmt.Errorf("redis counter: aplicar %s: %w", id, err)
	}
	return applied == 1, nil
}

// ResetApplied troca o conjunto de aplicados numa transação.
func (c *Counter) ResetApplied(ctx context.Context, ids []string) error {
	key := c.key(appliedKey)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		for start := 0; start < len(ids); start += 500 {
			end := min(start+500, len(ids))
			members := make([]any, 0, end-start)
			for _, id := range ids[start:end] {
				members = append(members, id)
			}
			pipe.SAdd(ctx, key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis counter: redefinir aplicados: %w", err)
	}
	return nil
}

func (c *Counter) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

var _ domain.Counter = (*Counter)(nil)
