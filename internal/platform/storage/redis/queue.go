package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/premiacao/internal/domain"
)

// voteMessage é o formato gravado na lista; desacopla o payload da struct de domínio.
type voteMessage struct {
	VoteID       string    `json:"vote_id"`
	UserID       string    `json:"user_id"`
	NomineeID    string    `json:"nominee_id"`
	NominationID string    `json:"nomination_id"`
	Choice       string    `json:"choice"`
	VotedAt      time.Time `json:"voted_at"`
}

// Queue publica eventos com LPUSH e consome com BRPOP (FIFO).
// Payloads que não decodificam vão para <key>:dead em vez de travar o consumidor.
type Queue struct {
	client      *redis.Client
	key         string
	pollTimeout time.Duration
}

func NewQueue(client *redis.Client, key string) *Queue {
	return &Queue{
		client:      client,
		key:         key,
		pollTimeout: 5 * time.Second,
	}
}

func (q *Queue) DeadLetterKey() string {
	return q.key + ":dead"
}

func (q *Queue) PublishVote(ctx context.Context, ev domain.VoteEvent) error {
	payload, err := json.Marshal(voteMessage{
		VoteID:       string(ev.VoteID),
		UserID:       string(ev.UserID),
		NomineeID:    string(ev.NomineeID),
		NominationID: string(ev.NominationID),
		Choice:       string(ev.Choice),
		VotedAt:      ev.VotedAt,
	})
	if err != nil {
		return fmt.Errorf("redis queue: serializar evento: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis queue: enfileirar evento: %w", err)
	}
	return nil
}

// ConsumeVotes bloqueia até o contexto terminar ou o handler devolver erro.
func (q *Queue) ConsumeVotes(ctx context.Context, handler func(context.Context, domain.VoteEvent) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Timeout curto no BRPOP para voltar a olhar o contexto.
		res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("redis queue: consumir evento: %w", err)
		}

		if len(res) != 2 {
			continue
		}

		var msg voteMessage
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			if dlqErr := q.client.LPush(ctx, q.DeadLetterKey(), res[1]).Err(); dlqErr != nil {
				return fmt.Errorf("redis queue: payload invalido e dead letter falhou: %w", dlqErr)
			}
			continue
		}

		ev := domain.VoteEvent{
			VoteID:       domain.VoteID(msg.VoteID),
			UserID:       domain.UserID(msg.UserID),
			NomineeID:    domain.NomineeID(msg.NomineeID),
			NominationID: domain.NominationID(msg.NominationID),
			Choice:       domain.Choice(msg.Choice),
			VotedAt:      msg.VotedAt,
		}
		if err := handler(ctx, ev); err != nil {
			return err
		}
	}
}

var _ domain.Queue = (*Queue)(nil)
