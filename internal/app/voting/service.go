// Pacote voting concentra as escritas validadas: cadastros, nominações, votos e avaliações do júri.
package voting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/ids"
	"github.com/marcelojr/premiacao/internal/platform/logger"
	"github.com/marcelojr/premiacao/internal/platform/metrics"
)

// Repositories agrupa o acesso ao banco usado pelo serviço.
type Repositories struct {
	Roles         domain.RoleRepository
	Users         domain.UserRepository
	Nominations   domain.NominationRepository
	Nominees      domain.NomineeRepository
	Votes         domain.VoteRepository
	Juries        domain.JuryRepository
	Evaluations   domain.EvaluationRepository
	Subscriptions domain.SubscriptionRepository
	Exams         domain.ExamRepository
}

type Service struct {
	repos         Repositories
	counter       domain.Counter
	queue         domain.Queue
	antifraude    domain.Antifraude
	clock         domain.Clock
	ids           *ids.Generator
	requireActive bool
}

type Option func(*Service)

// WithRequireActive liga a recusa de votos em nominações fora do período.
func WithRequireActive(enabled bool) Option {
	return func(s *Service) { s.requireActive = enabled }
}

// WithCounter atualiza os contadores na própria requisição quando não há fila.
func WithCounter(c domain.Counter) Option {
	return func(s *Service) { s.counter = c }
}

func WithQueue(q domain.Queue) Option {
	return func(s *Service) { s.queue = q }
}

func WithAntifraude(a domain.Antifraude) Option {
	return func(s *Service) { s.antifraude = a }
}

func WithIDs(gen *ids.Generator) Option {
	return func(s *Service) { s.ids = gen }
}

func NewService(repos Repositories, clock domain.Clock, opts ...Option) *Service {
	s := &Service{
		repos:         repos,
		clock:         clock,
		ids:           ids.DefaultGenerator(),
		requireActive: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RoleInput struct {
	Name        string
	Description string
}

func (s *Service) CreateRole(ctx context.Context, in RoleInput) (domain.Role, error) {
	if err := validateRole(in); err != nil {
		return domain.Role{}, observe("role", err)
	}
	r := domain.Role{
		ID:          domain.RoleID(s.ids.New()),
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.repos.Roles.Create(ctx, r); err != nil {
		return domain.Role{}, observe("role", err)
	}
	return r, observe("role", nil)
}

func (s *Service) UpdateRole(ctx context.Context, id domain.RoleID, in RoleInput) (domain.Role, error) {
	if err := validateRole(in); err != nil {
		return domain.Role{}, observe("role", err)
	}
	r := domain.Role{ID: id, Name: in.Name, Description: in.Description}
	if err := s.repos.Roles.Update(ctx, r); err != nil {
		return domain.Role{}, observe("role", notFound(err, "papel", id))
	}
	return r, observe("role", nil)
}

// DeleteRole falha com ErrReferentialIntegrity enquanto houver usuários no papel.
func (s *Service) DeleteRole(ctx context.Context, id domain.RoleID) error {
	return observe("role", notFound(s.repos.Roles.Delete(ctx, id), "papel", id))
}

type UserInput struct {
	Name    string
	Surname string
	Email   string
	RoleID  domain.RoleID
}

func (s *Service) CreateUser(ctx context.Context, in UserInput) (domain.User, error) {
	if err := validateUser(in); err != nil {
		return domain.User{}, observe("user", err)
	}
	role, err := s.repos.Roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return domain.User{}, observe("user", notFound(err, "papel", in.RoleID))
	}

	u := domain.User{
		ID:      domain.UserID(s.ids.New()),
		Name:    in.Name,
		Surname: in.Surname,
		Email:   in.Email,
		RoleID:  role.ID,
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return domain.User{}, observe("user", err)
	}
	u.Role = &role
	return u, observe("user", nil)
}

func (s *Service) UpdateUser(ctx context.Context, id domain.UserID, in UserInput) (domain.User, error) {
	if err := validateUser(in); err != nil {
		return domain.User{}, observe("user", err)
	}
	if _, err := s.repos.Users.FindByID(ctx, id); err != nil {
		return domain.User{}, observe("user", notFound(err, "usuario", id))
	}
	role, err := s.repos.Roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return domain.User{}, observe("user", notFound(err, "papel", in.RoleID))
	}

	u := domain.User{ID: id, Name: in.Name, Surname: in.Surname, Email: in.Email, RoleID: role.ID}
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return domain.User{}, observe("user", notFound(err, "usuario", id))
	}
	u.Role = &role
	return u, observe("user", nil)
}

// DeleteUser remove o usuário com nominados, votos, júri e inscrições.
func (s *Service) DeleteUser(ctx context.Context, id domain.UserID) error {
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return observe("user", notFound(err, "usuario", id))
	}
	s.refreshCounters(ctx)
	return observe("user", nil)
}

type NominationInput struct {
	Name        string
	Description string
	// CreatedDate zero usa o relógio do serviço.
	CreatedDate time.Time
	EndDate     *time.Time
}

func (s *Service) CreateNomination(ctx context.Context, in NominationInput) (domain.Nomination, error) {
	created := in.CreatedDate
	if created.IsZero() {
		created = s.clock.Now()
	}
	if err := validateNomination(in, created); err != nil {
		return domain.Nomination{}, observe("nomination", err)
	}

	n := domain.Nomination{
		ID:          domain.NominationID(s.ids.New()),
		Name:        in.Name,
		Description: in.Description,
		CreatedDate: created,
		EndDate:     in.EndDate,
	}
	if err := s.repos.Nominations.Create(ctx, n); err != nil {
		return domain.Nomination{}, observe("nomination", err)
	}
	return n, observe("nomination", nil)
}

// CloseNomination encerra a votação agora; reabrir remove a data de término.
func (s *Service) CloseNomination(ctx context.Context, id domain.NominationID) (domain.Nomination, error) {
	n, err := s.repos.Nominations.FindByID(ctx, id)
	if err != nil {
		return domain.Nomination{}, observe("nomination", notFound(err, "nominacao", id))
	}
	now := s.clock.Now()
	if err := domain.ValidateDateRange(n.CreatedDate, &now); err != nil {
		return domain.Nomination{}, observe("nomination", err)
	}
	if err := s.repos.Nominations.SetEndDate(ctx, id, &now); err != nil {
		return domain.Nomination{}, observe("nomination", notFound(err, "nominacao", id))
	}
	n.EndDate = &now
	return n, observe("nomination", nil)
}

func (s *Service) ReopenNomination(ctx context.Context, id domain.NominationID) (domain.Nomination, error) {
	n, err := s.repos.Nominations.FindByID(ctx, id)
	if err != nil {
		return domain.Nomination{}, observe("nomination", notFound(err, "nominacao", id))
	}
	if err := s.repos.Nominations.SetEndDate(ctx, id, nil); err != nil {
		return domain.Nomination{}, observe("nomination", notFound(err, "nominacao", id))
	}
	n.EndDate = nil
	return n, observe("nomination", nil)
}

// UpdateNomination troca nome, descrição e término; created_date não muda e
// o término continua sujeito a ValidateDateRange.
func (s *Service) UpdateNomination(ctx context.Context, id domain.NominationID, in NominationInput) (domain.Nomination, error) {
	n, err := s.repos.Nominations.FindByID(ctx, id)
	if err != nil {
		return domain.Nomination{}, observe("nomination", notFound(err, "nominacao", id))
	}
	if err := validateNomination(in, n.CreatedDate); err != nil {
		return domain.Nomination{}, observe("nomination", err)
	}

	n.Name = in.Name
	n.Description = in.Description
	n.EndDate = in.EndDate
	if err := s.repos.Nominations.Update(ctx, n); err != nil {
		return domain.Nomination{}, observe("nomination", notFound(err, "nominacao", id))
	}
	n.Nominees = nil
	return n, observe("nomination", nil)
}

func (s *Service) DeleteNomination(ctx context.Context, id domain.NominationID) error {
	if err := s.repos.Nominations.Delete(ctx, id); err != nil {
		return observe("nomination", notFound(err, "nominacao", id))
	}
	s.refreshCounters(ctx)
	return observe("nomination", nil)
}

type NomineeInput struct {
	NominationID domain.NominationID
	UserID       domain.UserID
	ProjectName  string
	Description  string
	Contact      string
	Attachment   string
}

// CreateNominee registra o projeto de um usuário; cada usuário entra no máximo uma vez por nominação.
func (s *Service) CreateNominee(ctx context.Context, in NomineeInput) (domain.Nominee, error) {
	if err := validateNominee(in); err != nil {
		return domain.Nominee{}, observe("nominee", err)
	}
	nomination, err := s.repos.Nominations.FindByID(ctx, in.NominationID)
	if err != nil {
		return domain.Nominee{}, observe("nominee", notFound(err, "nominacao", in.NominationID))
	}
	user, err := s.repos.Users.FindByID(ctx, in.UserID)
	if err != nil {
		return domain.Nominee{}, observe("nominee", notFound(err, "usuario", in.UserID))
	}

	exists, err := s.repos.Nominees.Exists(ctx, in.NominationID, in.UserID)
	if err != nil {
		return domain.Nominee{}, observe("nominee", err)
	}
	if exists {
		return domain.Nominee{}, observe("nominee", domain.ErrDuplicateNomination)
	}

	n := domain.Nominee{
		ID:           domain.NomineeID(s.ids.New()),
		NominationID: in.NominationID,
		UserID:       in.UserID,
		ProjectName:  in.ProjectName,
		Description:  in.Description,
		Contact:      in.Contact,
		Attachment:   in.Attachment,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repos.Nominees.Create(ctx, n); err != nil {
		// Outra requisição pode ter gravado o mesmo par entre o Exists e o insert.
		return domain.Nominee{}, observe("nominee", conflictAs(err, domain.ErrDuplicateNomination))
	}

	nomination.Nominees = nil
	n.Nomination = &nomination
	n.User = &user
	return n, observe("nominee", nil)
}

// NomineeUpdate traz os campos editáveis; nominação e usuário ficam fixos.
type NomineeUpdate struct {
	ProjectName string
	Description string
	Contact     string
	Attachment  string
}

func (s *Service) UpdateNominee(ctx context.Context, id domain.NomineeID, in NomineeUpdate) (domain.Nominee, error) {
	n, err := s.repos.Nominees.FindByID(ctx, id)
	if err != nil {
		return domain.Nominee{}, observe("nominee", notFound(err, "nominado", id))
	}
	if err := validateNominee(NomineeInput{
		NominationID: n.NominationID,
		UserID:       n.UserID,
		ProjectName:  in.ProjectName,
		Contact:      in.Contact,
	}); err != nil {
		return domain.Nominee{}, observe("nominee", err)
	}

	n.ProjectName = in.ProjectName
	n.Description = in.Description
	n.Contact = in.Contact
	n.Attachment = in.Attachment
	if err := s.repos.Nominees.Update(ctx, n); err != nil {
		return domain.Nominee{}, observe("nominee", notFound(err, "nominado", id))
	}
	return n, observe("nominee", nil)
}

// DeleteNominee remove o nominado com seus votos e avaliações.
func (s *Service) DeleteNominee(ctx context.Context, id domain.NomineeID) error {
	if err := s.repos.Nominees.Delete(ctx, id); err != nil {
		return observe("nominee", notFound(err, "nominado", id))
	}
	s.refreshCounters(ctx)
	return observe("nominee", nil)
}

// CastVote grava o voto de forma síncrona (o índice único decide corridas) e
// depois publica o evento que alimenta os contadores ao vivo.
func (s *Service) CastVote(ctx context.Context, userID domain.UserID, nomineeID domain.NomineeID, choice domain.Choice) (domain.Vote, error) {
	if !choice.Valid() {
		return domain.Vote{}, fmt.Errorf("%w: %q", domain.ErrInvalidChoice, choice)
	}
	if err := firstErr(
		required("user_id", string(userID)),
		required("nominee_id", string(nomineeID)),
	); err != nil {
		return domain.Vote{}, err
	}

	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return domain.Vote{}, notFound(err, "usuario", userID)
	}
	nominee, err := s.repos.Nominees.FindByID(ctx, nomineeID)
	if err != nil {
		return domain.Vote{}, notFound(err, "nominado", nomineeID)
	}

	now := s.clock.Now()
	if s.requireActive && nominee.Nomination != nil && !domain.IsActive(*nominee.Nomination, now) {
		return domain.Vote{}, fmt.Errorf("%w: %s", domain.ErrNominationClosed, nominee.NominationID)
	}

	exists, err := s.repos.Votes.Exists(ctx, userID, nomineeID)
	if err != nil {
		return domain.Vote{}, err
	}
	if exists {
		return domain.Vote{}, domain.ErrDuplicateVote
	}

	v := domain.Vote{
		ID:        domain.VoteID(s.ids.New()),
		UserID:    userID,
		NomineeID: nomineeID,
		Choice:    choice,
		VotedAt:   now,
	}

	if s.antifraude != nil {
		if err := s.antifraude.Check(ctx, v); err != nil {
			return domain.Vote{}, err
		}
	}

	if err := s.repos.Votes.Create(ctx, v); err != nil {
		return domain.Vote{}, conflictAs(err, domain.ErrDuplicateVote)
	}

	s.announce(ctx, domain.VoteEvent{
		VoteID:       v.ID,
		UserID:       v.UserID,
		NomineeID:    v.NomineeID,
		NominationID: nominee.NominationID,
		Choice:       v.Choice,
		VotedAt:      v.VotedAt,
	})

	nominee.Nomination = nil
	v.User = &user
	v.Nominee = &nominee
	return v, nil
}

// announce não falha o voto: o banco já é a fonte da verdade e os contadores podem ser reconstruídos.
func (s *Service) announce(ctx context.Context, ev domain.VoteEvent) {
	if s.queue != nil {
		if err := s.queue.PublishVote(ctx, ev); err != nil {
			metrics.IncVoteEventPublishFailure()
			logger.Warn("falha ao publicar evento de voto", "err", err, "vote", ev.VoteID)
		}
		return
	}
	if s.counter != nil {
		if _, err := ApplyEvent(ctx, s.counter, ev); err != nil {
			logger.Warn("falha ao atualizar contadores", "err", err, "vote", ev.VoteID)
		}
	}
}

func (s *Service) refreshCounters(ctx context.Context) {
	if s.counter == nil {
		return
	}
	if err := RebuildCounters(ctx, s.repos, s.counter); err != nil {
		logger.Warn("falha ao reconstruir contadores apos exclusao", "err", err)
	}
}

type JuryInput struct {
	UserID domain.UserID
	Bio    string
	Photo  string
}

func (s *Service) CreateJury(ctx context.Context, in JuryInput) (domain.Jury, error) {
	if err := required("user_id", string(in.UserID)); err != nil {
		return domain.Jury{}, observe("jury", err)
	}
	user, err := s.repos.Users.FindByID(ctx, in.UserID)
	if err != nil {
		return domain.Jury{}, observe("jury", notFound(err, "usuario", in.UserID))
	}

	j := domain.Jury{
		ID:     domain.JuryID(s.ids.New()),
		UserID: in.UserID,
		Bio:    in.Bio,
		Photo:  in.Photo,
	}
	if err := s.repos.Juries.Create(ctx, j); err != nil {
		return domain.Jury{}, observe("jury", err)
	}
	j.User = &user
	return j, observe("jury", nil)
}

// UpdateJury altera bio e foto; o usuário do jurado não muda.
func (s *Service) UpdateJury(ctx context.Context, id domain.JuryID, bio, photo string) (domain.Jury, error) {
	j, err := s.repos.Juries.FindByID(ctx, id)
	if err != nil {
		return domain.Jury{}, observe("jury", notFound(err, "jurado", id))
	}
	j.Bio = bio
	j.Photo = photo
	if err := s.repos.Juries.Update(ctx, j); err != nil {
		return domain.Jury{}, observe("jury", notFound(err, "jurado", id))
	}
	return j, observe("jury", nil)
}

type EvaluationInput struct {
	JuryID    domain.JuryID
	NomineeID domain.NomineeID
	Score     int
	Comment   string
}

func (s *Service) Evaluate(ctx context.Context, in EvaluationInput) (domain.JuryEvaluation, error) {
	if err := firstErr(
		required("jury_id", string(in.JuryID)),
		required("nominee_id", string(in.NomineeID)),
		validateScore(in.Score),
	); err != nil {
		return domain.JuryEvaluation{}, observe("evaluation", err)
	}
	if _, err := s.repos.Juries.FindByID(ctx, in.JuryID); err != nil {
		return domain.JuryEvaluation{}, observe("evaluation", notFound(err, "jurado", in.JuryID))
	}
	if _, err := s.repos.Nominees.FindByID(ctx, in.NomineeID); err != nil {
		return domain.JuryEvaluation{}, observe("evaluation", notFound(err, "nominado", in.NomineeID))
	}

	exists, err := s.repos.Evaluations.Exists(ctx, in.JuryID, in.NomineeID)
	if err != nil {
		return domain.JuryEvaluation{}, observe("evaluation", err)
	}
	if exists {
		return domain.JuryEvaluation{}, observe("evaluation", domain.ErrDuplicateEvaluation)
	}

	e := domain.JuryEvaluation{
		ID:          domain.EvaluationID(s.ids.New()),
		JuryID:      in.JuryID,
		NomineeID:   in.NomineeID,
		Score:       in.Score,
		Comment:     in.Comment,
		EvaluatedAt: s.clock.Now(),
	}
	if err := s.repos.Evaluations.Create(ctx, e); err != nil {
		return domain.JuryEvaluation{}, observe("evaluation", conflictAs(err, domain.ErrDuplicateEvaluation))
	}
	return e, observe("evaluation", nil)
}

type SubscriptionInput struct {
	UserID       domain.UserID
	NominationID domain.NominationID
	Notes        string
}

func (s *Service) Subscribe(ctx context.Context, in SubscriptionInput) (domain.Subscription, error) {
	if err := firstErr(
		required("user_id", string(in.UserID)),
		required("nomination_id", string(in.NominationID)),
	); err != nil {
		return domain.Subscription{}, observe("subscription", err)
	}
	if _, err := s.repos.Users.FindByID(ctx, in.UserID); err != nil {
		return domain.Subscription{}, observe("subscription", notFound(err, "usuario", in.UserID))
	}
	if _, err := s.repos.Nominations.FindByID(ctx, in.NominationID); err != nil {
		return domain.Subscription{}, observe("subscription", notFound(err, "nominacao", in.NominationID))
	}

	exists, err := s.repos.Subscriptions.Exists(ctx, in.UserID, in.NominationID)
	if err != nil {
		return domain.Subscription{}, observe("subscription", err)
	}
	if exists {
		return domain.Subscription{}, observe("subscription", domain.ErrDuplicateSubscription)
	}

	sub := domain.Subscription{
		ID:           domain.SubscriptionID(s.ids.New()),
		UserID:       in.UserID,
		NominationID: in.NominationID,
		Notes:        in.Notes,
		SubscribedAt: s.clock.Now(),
	}
	if err := s.repos.Subscriptions.Create(ctx, sub); err != nil {
		return domain.Subscription{}, observe("subscription", conflictAs(err, domain.ErrDuplicateSubscription))
	}
	return sub, observe("subscription", nil)
}

type ExamInput struct {
	Name      string
	ExamDate  time.Time
	TaskImage string
	IsPublic  bool
	UserIDs   []domain.UserID
}

func (s *Service) CreateExam(ctx context.Context, in ExamInput) (domain.Exam, error) {
	if err := validateExam(in); err != nil {
		return domain.Exam{}, observe("exam", err)
	}

	e := domain.Exam{
		ID:        domain.ExamID(s.ids.New()),
		Name:      in.Name,
		CreatedAt: s.clock.Now(),
		ExamDate:  in.ExamDate,
		TaskImage: in.TaskImage,
		IsPublic:  in.IsPublic,
	}
	for _, id := range in.UserIDs {
		e.Users = append(e.Users, domain.User{ID: id})
	}
	if err := s.repos.Exams.Create(ctx, e); err != nil {
		return domain.Exam{}, observe("exam", err)
	}

	created, err := s.repos.Exams.FindByID(ctx, e.ID)
	if err != nil {
		return domain.Exam{}, observe("exam", err)
	}
	return created, observe("exam", nil)
}

// SetExamVisibility publica ou oculta um exame da listagem pública.
func (s *Service) SetExamVisibility(ctx context.Context, id domain.ExamID, public bool) (domain.Exam, error) {
	e, err := s.repos.Exams.FindByID(ctx, id)
	if err != nil {
		return domain.Exam{}, observe("exam", notFound(err, "exame", id))
	}
	e.IsPublic = public
	if err := s.repos.Exams.Update(ctx, e); err != nil {
		return domain.Exam{}, observe("exam", notFound(err, "exame", id))
	}
	return e, observe("exam", nil)
}

// notFound acrescenta a entidade e o id ao ErrNotFound vindo do repositório.
func notFound[T ~string](err error, what string, id T) error {
	if err != nil && errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id)
	}
	return err
}

// conflictAs troca a violação genérica de unicidade pelo erro específico da operação.
func conflictAs(err, specific error) error {
	if errors.Is(err, domain.ErrDuplicateKey) {
		return specific
	}
	return err
}

func observe(entity string, err error) error {
	metrics.ObserveWrite(entity, Outcome(err))
	return err
}

// Outcome classifica um erro para métricas e logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrReferentialIntegrity):
		return "referenced"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
