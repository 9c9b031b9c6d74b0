// Pacote worker consome os eventos de voto da fila Redis e mantém os contadores ao vivo.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/metrics"
)

// VoteProcessor aplica eventos de voto já gravados no banco aos contadores.
type VoteProcessor struct {
	repos   voting.Repositories
	counter domain.Counter
}

func NewVoteProcessor(repos voting.Repositories, counter domain.Counter) *VoteProcessor {
	return &VoteProcessor{repos: repos, counter: counter}
}

func (p *VoteProcessor) Process(ctx context.Context, ev domain.VoteEvent) error {
	start := time.Now()

	if !ev.Choice.Valid() || ev.NomineeID == "" || ev.VoteID == "" {
		return fmt.Errorf("worker: evento %s: %w", ev.VoteID, domain.ErrInvalidField)
	}

	// Voto apagado depois de publicado já saiu dos contadores na reconstrução.
	exists, err := p.repos.Votes.ExistsByID(ctx, ev.VoteID)
	if err != nil {
		return fmt.Errorf("worker: verificar voto %s: %w", ev.VoteID, err)
	}
	if !exists {
		metrics.IncVoteEventSkipped()
		return nil
	}

	// Eventos publicados sem a nominação são resolvidos pelo nominado.
	if ev.NominationID == "" {
		n, err := p.repos.Nominees.FindByID(ctx, ev.NomineeID)
		if err != nil {
			return fmt.Errorf("worker: nominado %s do evento %s: %w", ev.NomineeID, ev.VoteID, err)
		}
		ev.NominationID = n.NominationID
	}

	applied, err := voting.ApplyEvent(ctx, p.counter, ev)
	if err != nil {
		return fmt.Errorf("worker: aplicar evento %s: %w", ev.VoteID, err)
	}
	if !applied {
		metrics.IncVoteEventSkipped()
		return nil
	}

	metrics.IncVoteEventProcessed()
	metrics.ObserveVoteEventDuration(time.Since(start).Seconds())
	return nil
}

// Rebuild reconstrói os contadores a partir do banco; usado na partida do worker.
func (p *VoteProcessor) Rebuild(ctx context.Context) error {
	if err := voting.RebuildCounters(ctx, p.repos, p.counter); err != nil {
		return fmt.Errorf("worker: reconstruir contadores: %w", err)
	}
	return nil
}

// Run consome a fila até o contexto terminar. Falhas de um evento são
// registradas por onError e não interrompem o consumo.
func (p *VoteProcessor) Run(ctx context.Context, queue domain.Queue, onError func(domain.VoteEvent, error)) error {
	return queue.ConsumeVotes(ctx, func(ctx context.Context, ev domain.VoteEvent) error {
		if err := p.Process(ctx, ev); err != nil && onError != nil {
			onError(ev, err)
		}
		return nil
	})
}
