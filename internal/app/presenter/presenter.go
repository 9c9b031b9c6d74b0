// Pacote presenter monta as projeções de leitura entregues à camada de renderização.
// Nada aqui escreve no banco nem valida entrada.
package presenter

import (
	"context"
	"fmt"

	"github.com/marcelojr/premiacao/internal/app/stats"
	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/domain"
)

// Context é o mapa chave → valor consumido pelos templates ou pela API JSON.
type Context map[string]any

// IndexNomineeLimit é quantos nominados recentes aparecem na página inicial.
const IndexNomineeLimit = 5

type Presenter struct {
	repos voting.Repositories
	agg   *stats.Aggregator
}

func New(repos voting.Repositories, agg *stats.Aggregator) *Presenter {
	return &Presenter{repos: repos, agg: agg}
}

func (p *Presenter) ListNominations(ctx context.Context) ([]stats.NominationSummary, error) {
	return p.agg.Nominations(ctx, true)
}

func (p *Presenter) ListNominees(ctx context.Context) ([]domain.Nominee, error) {
	return p.repos.Nominees.List(ctx, domain.NomineeFilter{})
}

func (p *Presenter) ListVotes(ctx context.Context) ([]domain.Vote, error) {
	return p.repos.Votes.List(ctx, domain.VoteFilter{})
}

// ListVotesByChoice filtra pela escolha; escolha vazia devolve todos.
func (p *Presenter) ListVotesByChoice(ctx context.Context, choice domain.Choice) ([]domain.Vote, error) {
	if choice != "" && !choice.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidChoice, choice)
	}
	return p.repos.Votes.List(ctx, domain.VoteFilter{Choice: choice})
}

func (p *Presenter) ListJury(ctx context.Context) ([]domain.Jury, error) {
	return p.repos.Juries.List(ctx)
}

func (p *Presenter) Index(ctx context.Context) (Context, error) {
	nominations, err := p.repos.Nominations.Count(ctx)
	if err != nil {
		return nil, err
	}
	nominees, err := p.repos.Nominees.Count(ctx)
	if err != nil {
		return nil, err
	}
	votes, err := p.repos.Votes.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := p.repos.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	jury, err := p.repos.Juries.Count(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := p.repos.Nominees.List(ctx, domain.NomineeFilter{Limit: IndexNomineeLimit})
	if err != nil {
		return nil, err
	}

	return Context{
		"nominations_count": nominations,
		"nominees_count":    nominees,
		"votes_count":       votes,
		"users_count":       users,
		"jury_count":        jury,
		"latest_nominees":   latest,
	}, nil
}

func (p *Presenter) Nominations(ctx context.Context) (Context, error) {
	list, err := p.ListNominations(ctx)
	if err != nil {
		return nil, err
	}
	return Context{"nominations": list}, nil
}

func (p *Presenter) Nominees(ctx context.Context) (Context, error) {
	list, err := p.ListNominees(ctx)
	if err != nil {
		return nil, err
	}
	return Context{"nominees": list}, nil
}

func (p *Presenter) Votes(ctx context.Context, choice domain.Choice) (Context, error) {
	list, err := p.ListVotesByChoice(ctx, choice)
	if err != nil {
		return nil, err
	}
	out := Context{"votes": list}
	if choice != "" {
		out["choice"] = choice.Label()
	}
	return out, nil
}

func (p *Presenter) JuryPanel(ctx context.Context) (Context, error) {
	list, err := p.ListJury(ctx)
	if err != nil {
		return nil, err
	}
	return Context{"jury": list}, nil
}

func (p *Presenter) NomineeDetail(ctx context.Context, id domain.NomineeID) (Context, error) {
	summary, err := p.agg.Nominee(ctx, id)
	if err != nil {
		return nil, err
	}
	evaluations, err := p.repos.Evaluations.List(ctx, domain.EvaluationFilter{NomineeID: id})
	if err != nil {
		return nil, err
	}
	return Context{
		"nominee":     summary.Nominee,
		"tally":       summary.Tally,
		"votes_count": summary.Tally.Total(),
		"is_new":      summary.IsNew,
		"scores":      summary.Scores,
		"evaluations": evaluations,
	}, nil
}

// Exams lista apenas os exames públicos.
func (p *Presenter) Exams(ctx context.Context) (Context, error) {
	list, err := p.repos.Exams.List(ctx, domain.ExamFilter{PublicOnly: true})
	if err != nil {
		return nil, err
	}
	return Context{"exams": list}, nil
}

func (p *Presenter) Stats(ctx context.Context) (Context, error) {
	summary, err := p.agg.GlobalVoteSummary(ctx)
	if err != nil {
		return nil, err
	}
	tallies, err := p.agg.Tallies(ctx)
	if err != nil {
		return nil, err
	}
	return Context{
		"vote_summary": summary,
		"tallies":      tallies,
	}, nil
}
