// Pacote stats calcula os agregados de leitura: contagens, apuração por escolha e média/máximo de votos.
package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/domain"
)

// VoteSummary resume os totais de votos por nominado.
// HasData é falso quando não há nominados; Average e Max ficam zerados.
type VoteSummary struct {
	Nominees int64   `json:"nominees"`
	HasData  bool    `json:"has_data"`
	Average  float64 `json:"average"`
	Max      int64   `json:"max"`
}

// Summarize calcula média e máximo de forma pura.
func Summarize(counts map[domain.NomineeID]int64) VoteSummary {
	if len(counts) == 0 {
		return VoteSummary{}
	}
	var sum, top int64
	for _, c := range counts {
		sum += c
		if c > top {
			top = c
		}
	}
	return VoteSummary{
		Nominees: int64(len(counts)),
		HasData:  true,
		Average:  float64(sum) / float64(len(counts)),
		Max:      top,
	}
}

type NominationSummary struct {
	Nomination   domain.Nomination `json:"nomination"`
	NomineeCount int64             `json:"nominee_count"`
	Active       bool              `json:"active"`
}

type NomineeSummary struct {
	Nominee domain.Nominee      `json:"nominee"`
	Tally   domain.Tally        `json:"tally"`
	IsNew   bool                `json:"is_new"`
	Scores  domain.ScoreSummary `json:"scores"`
}

type Aggregator struct {
	nominations domain.NominationRepository
	nominees    domain.NomineeRepository
	votes       domain.VoteRepository
	evaluations domain.EvaluationRepository
	counter     domain.Counter
	clock       domain.Clock
}

// NewAggregator aceita counter nil; nesse caso LiveTally lê do banco.
func NewAggregator(repos voting.Repositories, counter domain.Counter, clock domain.Clock) *Aggregator {
	return &Aggregator{
		nominations: repos.Nominations,
		nominees:    repos.Nominees,
		votes:       repos.Votes,
		evaluations: repos.Evaluations,
		counter:     counter,
		clock:       clock,
	}
}

// Nominations devolve as nominações (mais recentes primeiro) com contagem e situação.
func (a *Aggregator) Nominations(ctx context.Context, withNominees bool) ([]NominationSummary, error) {
	list, err := a.nominations.List(ctx, domain.NominationFilter{WithNominees: withNominees})
	if err != nil {
		return nil, err
	}
	counts, err := a.nominations.NomineeCounts(ctx)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	out := make([]NominationSummary, len(list))
	for i, n := range list {
		out[i] = NominationSummary{
			Nomination:   n,
			NomineeCount: counts[n.ID],
			Active:       domain.IsActive(n, now),
		}
	}
	return out, nil
}

func (a *Aggregator) Nominee(ctx context.Context, id domain.NomineeID) (NomineeSummary, error) {
	n, err := a.nominees.FindByID(ctx, id)
	if err != nil {
		return NomineeSummary{}, err
	}
	tally, err := a.votes.TallyByNominee(ctx, id)
	if err != nil {
		return NomineeSummary{}, err
	}
	scores, err := a.evaluations.ScoreSummary(ctx, id)
	if err != nil {
		return NomineeSummary{}, err
	}
	return NomineeSummary{
		Nominee: n,
		Tally:   tally,
		IsNew:   domain.IsNew(n, a.clock.Now()),
		Scores:  scores,
	}, nil
}

// Tallies devolve a apuração de cada nominado, inclusive os sem votos.
func (a *Aggregator) Tallies(ctx context.Context) ([]domain.Tally, error) {
	counts, err := a.votes.CountsPerNominee(ctx)
	if err != nil {
		return nil, err
	}
	tallies, err := a.votes.TallyAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Tally, 0, len(counts))
	for id := range counts {
		t := tallies[id]
		t.NomineeID = id
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total() != out[j].Total() {
			return out[i].Total() > out[j].Total()
		}
		return out[i].NomineeID < out[j].NomineeID
	})
	return out, nil
}

func (a *Aggregator) GlobalVoteSummary(ctx context.Context) (VoteSummary, error) {
	counts, err := a.votes.CountsPerNominee(ctx)
	if err != nil {
		return VoteSummary{}, err
	}
	return Summarize(counts), nil
}

// LiveTally lê os contadores do Redis; sem contador cai para a apuração no banco.
func (a *Aggregator) LiveTally(ctx context.Context, id domain.NomineeID) (domain.Tally, error) {
	if _, err := a.nominees.FindByID(ctx, id); err != nil {
		return domain.Tally{}, err
	}
	if a.counter == nil {
		return a.votes.TallyByNominee(ctx, id)
	}

	keys := voting.NomineeChoiceKeys(id)
	values, err := a.counter.GetAll(ctx, keys)
	if err != nil {
		return domain.Tally{}, fmt.Errorf("stats: ler contadores: %w", err)
	}
	t := domain.Tally{NomineeID: id}
	for i, c := range domain.AllChoices() {
		t.Add(c, values[keys[i]])
	}
	return t, nil
}
