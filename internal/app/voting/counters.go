package voting

import (
	"context"
	"fmt"

	"github.com/marcelojr/premiacao/internal/domain"
)

const CounterKeyVotesTotal = "votes:total"

func CounterKeyNomination(id domain.NominationID) string {
	return fmt.Sprintf("nomination:%s:votes", id)
}

func CounterKeyNomineeChoice(id domain.NomineeID, c domain.Choice) string {
	return fmt.Sprintf("nominee:%s:choice:%s", id, c)
}

// NomineeChoiceKeys devolve as três chaves do nominado na ordem de domain.AllChoices.
func NomineeChoiceKeys(id domain.NomineeID) []string {
	choices := domain.AllChoices()
	keys := make([]string, len(choices))
	for i, c := range choices {
		keys[i] = CounterKeyNomineeChoice(id, c)
	}
	return keys
}

// EventCounterKeys lista as chaves incrementadas por um voto.
func EventCounterKeys(ev domain.VoteEvent) []string {
	keys := []string{CounterKeyVotesTotal, CounterKeyNomineeChoice(ev.NomineeID, ev.Choice)}
	if ev.NominationID != "" {
		keys = append(keys, CounterKeyNomination(ev.NominationID))
	}
	return keys
}

// ApplyEvent soma um voto em todas as chaves afetadas, uma única vez por VoteID.
// Devolve false quando o voto já estava contado (evento repetido ou já
// coberto por uma reconstrução).
func ApplyEvent(ctx context.Context, c domain.Counter, ev domain.VoteEvent) (bool, error) {
	if ev.VoteID == "" {
		return false, fmt.Errorf("%w: vote_id", domain.ErrMissingField)
	}
	return c.ApplyOnce(ctx, string(ev.VoteID), EventCounterKeys(ev))
}

// RebuildCounters sobrescreve os contadores com o estado atual do banco.
// Nominações e nominados sem votos ficam explicitamente em zero. Os votos
// lidos passam a constar como aplicados, então eventos ainda na fila para
// eles não somam de novo.
func RebuildCounters(ctx context.Context, repos Repositories, c domain.Counter) error {
	nominations, err := repos.Nominations.List(ctx, domain.NominationFilter{})
	if err != nil {
		return fmt.Errorf("contadores: listar nominacoes: %w", err)
	}
	nominees, err := repos.Nominees.List(ctx, domain.NomineeFilter{})
	if err != nil {
		return fmt.Errorf("contadores: listar nominados: %w", err)
	}
	tallies, err := repos.Votes.TallyAll(ctx)
	if err != nil {
		return fmt.Errorf("contadores: apurar votos: %w", err)
	}
	voteIDs, err := repos.Votes.IDs(ctx)
	if err != nil {
		return fmt.Errorf("contadores: listar votos: %w", err)
	}

	values := make(map[string]int64, len(nominations)+3*len(nominees)+1)
	for _, n := range nominations {
		values[CounterKeyNomination(n.ID)] = 0
	}

	var total int64
	for _, n := range nominees {
		t := tallies[n.ID]
		for _, choice := range domain.AllChoices() {
			values[CounterKeyNomineeChoice(n.ID, choice)] = t.Count(choice)
		}
		values[CounterKeyNomination(n.NominationID)] += t.Total()
		total += t.Total()
	}
	values[CounterKeyVotesTotal] = total

	for key, v := range values {
		if err := c.Set(ctx, key, v); err != nil {
			return fmt.Errorf("contadores: definir %s: %w", key, err)
		}
	}

	applied := make([]string, len(voteIDs))
	for i, id := range voteIDs {
		applied[i] = string(id)
	}
	if err := c.ResetApplied(ctx, applied); err != nil {
		return fmt.Errorf("contadores: marcar aplicados: %w", err)
	}
	return nil
}
