// Pacote httpapi expõe as leituras e escritas administrativas como rotas JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/marcelojr/premiacao/internal/app/presenter"
	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/antifraude"
	"github.com/marcelojr/premiacao/internal/platform/ids"
)

// Commands são as escritas validadas; *voting.Service implementa.
type Commands interface {
	CreateRole(ctx context.Context, in voting.RoleInput) (domain.Role, error)
	UpdateRole(ctx context.Context, id domain.RoleID, in voting.RoleInput) (domain.Role, error)
	DeleteRole(ctx context.Context, id domain.RoleID) error
	CreateUser(ctx context.Context, in voting.UserInput) (domain.User, error)
	UpdateUser(ctx context.Context, id domain.UserID, in voting.UserInput) (domain.User, error)
	DeleteUser(ctx context.Context, id domain.UserID) error
	CreateNomination(ctx context.Context, in voting.NominationInput) (domain.Nomination, error)
	UpdateNomination(ctx context.Context, id domain.NominationID, in voting.NominationInput) (domain.Nomination, error)
	CloseNomination(ctx context.Context, id domain.NominationID) (domain.Nomination, error)
	ReopenNomination(ctx context.Context, id domain.NominationID) (domain.Nomination, error)
	DeleteNomination(ctx context.Context, id domain.NominationID) error
	CreateNominee(ctx context.Context, in voting.NomineeInput) (domain.Nominee, error)
	UpdateNominee(ctx context.Context, id domain.NomineeID, in voting.NomineeUpdate) (domain.Nominee, error)
	DeleteNominee(ctx context.Context, id domain.NomineeID) error
	CastVote(ctx context.Context, userID domain.UserID, nomineeID domain.NomineeID, choice domain.Choice) (domain.Vote, error)
	CreateJury(ctx context.Context, in voting.JuryInput) (domain.Jury, error)
	UpdateJury(ctx context.Context, id domain.JuryID, bio, photo string) (domain.Jury, error)
	Evaluate(ctx context.Context, in voting.EvaluationInput) (domain.JuryEvaluation, error)
	Subscribe(ctx context.Context, in voting.SubscriptionInput) (domain.Subscription, error)
	CreateExam(ctx context.Context, in voting.ExamInput) (domain.Exam, error)
}

// Queries são as projeções de leitura; *presenter.Presenter implementa.
type Queries interface {
	Index(ctx context.Context) (presenter.Context, error)
	Nominations(ctx context.Context) (presenter.Context, error)
	Nominees(ctx context.Context) (presenter.Context, error)
	NomineeDetail(ctx context.Context, id domain.NomineeID) (presenter.Context, error)
	Votes(ctx context.Context, choice domain.Choice) (presenter.Context, error)
	JuryPanel(ctx context.Context) (presenter.Context, error)
	Report(ctx context.Context, params presenter.ReportParams) (presenter.Context, error)
	Exams(ctx context.Context) (presenter.Context, error)
	Stats(ctx context.Context) (presenter.Context, error)
}

// Tallies lê a apuração ao vivo; *stats.Aggregator implementa.
type Tallies interface {
	LiveTally(ctx context.Context, id domain.NomineeID) (domain.Tally, error)
}

// API empacota os handlers HTTP e o logger.
type API struct {
	commands Commands
	queries  Queries
	tallies  Tallies
	logger   *slog.Logger
}

func New(commands Commands, queries Queries, tallies Tallies, logger *slog.Logger) *API {
	return &API{commands: commands, queries: queries, tallies: tallies, logger: logger}
}

func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/index", a.read(func(r *http.Request) (presenter.Context, error) {
		return a.queries.Index(r.Context())
	}))
	mux.HandleFunc("GET /api/nominations", a.read(func(r *http.Request) (presenter.Context, error) {
		return a.queries.Nominations(r.Context())
	}))
	mux.HandleFunc("GET /api/nominees", a.read(func(r *http.Request) (presenter.Context, error) {
		return a.queries.Nominees(r.Context())
	}))
	mux.HandleFunc("GET /api/nominees/{id}", a.withID(a.read(func(r *http.Request) (presenter.Context, error) {
		return a.queries.NomineeDetail(r.Context(), domain.NomineeID(r.PathValue("id")))
	})))
	mux.HandleFunc("GET /api/nominees/{id}/tally", a.withID(a.liveTally))
	mux.HandleFunc("GET /api/votes", a.listVotes)
	mux.HandleFunc("GET /api/jury", a.read(func(r *http.Request) (presenter.Context, error) {
		return a.queries.JuryPanel(r.Context())
	}))
	mux.HandleFunc("GET /api/report", a.report)
	mux.HandleFunc("GET /api/exams", a.read(func(r *http.Request) (presenter.Context, error) {
		return a.queries.Exams(r.Context())
	}))
	mux.HandleFunc("GET /api/stats", a.read(func(r *http.Request) (presenter.Context, error) {
		return a.queries.Stats(r.Context())
	}))

	mux.HandleFunc("POST /api/roles", a.createRole)
	mux.HandleFunc("PUT /api/roles/{id}", a.withID(a.updateRole))
	mux.HandleFunc("DELETE /api/roles/{id}", a.withID(a.deleteRole))
	mux.HandleFunc("POST /api/users", a.createUser)
	mux.HandleFunc("PUT /api/users/{id}", a.withID(a.updateUser))
	mux.HandleFunc("DELETE /api/users/{id}", a.withID(a.deleteUser))
	mux.HandleFunc("POST /api/nominations", a.createNomination)
	mux.HandleFunc("PUT /api/nominations/{id}", a.withID(a.updateNomination))
	mux.HandleFunc("POST /api/nominations/{id}/close", a.withID(a.closeNomination))
	mux.HandleFunc("POST /api/nominations/{id}/reopen", a.withID(a.reopenNomination))
	mux.HandleFunc("DELETE /api/nominations/{id}", a.withID(a.deleteNomination))
	mux.HandleFunc("POST /api/nominees", a.createNominee)
	mux.HandleFunc("PUT /api/nominees/{id}", a.withID(a.updateNominee))
	mux.HandleFunc("DELETE /api/nominees/{id}", a.withID(a.deleteNominee))
	mux.HandleFunc("POST /api/votes", a.castVote)
	mux.HandleFunc("POST /api/jury", a.createJury)
	mux.HandleFunc("PUT /api/jury/{id}", a.withID(a.updateJury))
	mux.HandleFunc("POST /api/evaluations", a.evaluate)
	mux.HandleFunc("POST /api/subscriptions", a.subscribe)
	mux.HandleFunc("POST /api/exams", a.createExam)
}

// withID recusa com 404 rotas cujo {id} não é um ULID, sem consultar o banco.
func (a *API) withID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := r.PathValue("id"); !ids.Valid(id) {
			a.fail(w, r, fmt.Errorf("%w: id %q", domain.ErrNotFound, id))
			return
		}
		next(w, r)
	}
}

// read adapta uma projeção do presenter para um handler GET.
func (a *API) read(load func(r *http.Request) (presenter.Context, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := load(r)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		responderJSON(w, http.StatusOK, out)
	}
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("falha na requisicao", "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		a.logger.Warn("requisicao recusada", "err", err, "method", r.Method, "path", r.URL.Path, "status", status)
	}
	responderJSON(w, status, map[string]string{"erro": err.Error()})
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errPayload
	}
	return nil
}

var errPayload = errors.New("payload invalido")

func responderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, errPayload), errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrReferentialIntegrity):
		return http.StatusConflict
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// voteStatus é o rótulo da métrica de votos.
func voteStatus(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return "rate_limited"
	case errors.Is(err, domain.ErrNominationClosed):
		return "closed"
	case errors.Is(err, domain.ErrDuplicateVote):
		return "duplicate"
	case errors.Is(err, errPayload), errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
