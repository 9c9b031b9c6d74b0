package presenter

import (
	"context"

	"github.com/marcelojr/premiacao/internal/domain"
)

// ReportParams parametriza a página de relatório. Campos vazios desligam a seção correspondente.
type ReportParams struct {
	NominationID        domain.NominationID
	ProjectPrefix       string
	ExcludeNominationID domain.NominationID
	// Limit vale para as listas de votos recentes e de nominados por nome; zero usa 10.
	Limit int
}

const defaultReportLimit = 10

// Report reúne as consultas filtradas usadas no painel administrativo.
func (p *Presenter) Report(ctx context.Context, params ReportParams) (Context, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultReportLimit
	}
	out := Context{}

	if params.NominationID != "" {
		votes, err := p.repos.Votes.List(ctx, domain.VoteFilter{NominationID: params.NominationID})
		if err != nil {
			return nil, err
		}
		out["nomination_votes"] = votes
	}

	if params.ProjectPrefix != "" {
		nominees, err := p.repos.Nominees.List(ctx, domain.NomineeFilter{ProjectPrefix: params.ProjectPrefix})
		if err != nil {
			return nil, err
		}
		out["nominees_by_prefix"] = nominees
	}

	if params.ExcludeNominationID != "" {
		nominees, err := p.repos.Nominees.List(ctx, domain.NomineeFilter{ExcludeNominationID: params.ExcludeNominationID})
		if err != nil {
			return nil, err
		}
		out["nominees_excluding"] = nominees
	}

	byName, err := p.repos.Nominees.List(ctx, domain.NomineeFilter{Order: domain.NomineesByProjectName, Limit: limit})
	if err != nil {
		return nil, err
	}
	out["nominees_by_name"] = byName

	recent, err := p.repos.Votes.List(ctx, domain.VoteFilter{Limit: limit})
	if err != nil {
		return nil, err
	}
	out["recent_votes"] = recent

	nominations, err := p.agg.Nominations(ctx, false)
	if err != nil {
		return nil, err
	}
	out["nominations"] = nominations

	summary, err := p.agg.GlobalVoteSummary(ctx)
	if err != nil {
		return nil, err
	}
	out["vote_summary"] = summary

	return out, nil
}
