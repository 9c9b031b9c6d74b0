package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/marcelojr/premiacao/internal/app/presenter"
	"github.com/marcelojr/premiacao/internal/domain"
)

func (a *API) listVotes(w http.ResponseWriter, r *http.Request) {
	var choice domain.Choice
	if raw := strings.TrimSpace(r.URL.Query().Get("choice")); raw != "" {
		c, err := domain.ParseChoice(raw)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		choice = c
	}

	out, err := a.queries.Votes(r.Context(), choice)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, out)
}

func (a *API) report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := presenter.ReportParams{
		NominationID:        domain.NominationID(q.Get("nomination")),
		ProjectPrefix:       q.Get("prefix"),
		ExcludeNominationID: domain.NominationID(q.Get("exclude_nomination")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			a.fail(w, r, errPayload)
			return
		}
		params.Limit = limit
	}

	out, err := a.queries.Report(r.Context(), params)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, out)
}

func (a *API) liveTally(w http.ResponseWriter, r *http.Request) {
	tally, err := a.tallies.LiveTally(r.Context(), domain.NomineeID(r.PathValue("id")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, map[string]any{
		"tally": tally,
		"total": tally.Total(),
	})
}
