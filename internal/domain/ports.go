package domain

import (
	"context"
	"time"
)

type RoleRepository interface {
	Create(ctx context.Context, r Role) error
	FindByID(ctx context.Context, id RoleID) (Role, error)
	List(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, r Role) error
	Delete(ctx context.Context, id RoleID) error
}

type UserRepository interface {
	Create(ctx context.Context, u User) error
	FindByID(ctx context.Context, id UserID) (User, error)
	List(ctx context.Context, f UserFilter) ([]User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id UserID) error
	Count(ctx context.Context) (int64, error)
}

type NominationRepository interface {
	Create(ctx context.Context, n Nomination) error
	FindByID(ctx context.Context, id NominationID) (Nomination, error)
	List(ctx context.Context, f NominationFilter) ([]Nomination, error)
	Update(ctx context.Context, n Nomination) error
	SetEndDate(ctx context.Context, id NominationID, end *time.Time) error
	Delete(ctx context.Context, id NominationID) error
	Count(ctx context.Context) (int64, error)
	NomineeCounts(ctx context.Context) (map[NominationID]int64, error)
}

type NomineeRepository interface {
	Create(ctx context.Context, n Nominee) error
	FindByID(ctx context.Context, id NomineeID) (Nominee, error)
	Exists(ctx context.Context, nominationID NominationID, userID UserID) (bool, error)
	List(ctx context.Context, f NomineeFilter) ([]Nominee, error)
	Update(ctx context.Context, n Nominee) error
	Delete(ctx context.Context, id NomineeID) error
	Count(ctx context.Context) (int64, error)
}

type VoteRepository interface {
	Create(ctx context.Context, v Vote) error
	Exists(ctx context.Context, userID UserID, nomineeID NomineeID) (bool, error)
	List(ctx context.Context, f VoteFilter) ([]Vote, error)
	Count(ctx context.Context) (int64, error)
	TallyByNominee(ctx context.Context, id NomineeID) (Tally, error)
	TallyAll(ctx context.Context) (map[NomineeID]Tally, error)
	CountsPerNominee(ctx context.Context) (map[NomineeID]int64, error)
	ExistsByID(ctx context.Context, id VoteID) (bool, error)
	IDs(ctx context.Context) ([]VoteID, error)
}

type JuryRepository interface {
	Create(ctx context.Context, j Jury) error
	FindByID(ctx context.Context, id JuryID) (Jury, error)
	List(ctx context.Context) ([]Jury, error)
	Update(ctx context.Context, j Jury) error
	Delete(ctx context.Context, id JuryID) error
	Count(ctx context.Context) (int64, error)
}

type EvaluationRepository interface {
	Create(ctx context.Context, e JuryEvaluation) error
	Exists(ctx context.Context, juryID JuryID, nomineeID NomineeID) (bool, error)
	List(ctx context.Context, f EvaluationFilter) ([]JuryEvaluation, error)
	Delete(ctx context.Context, id EvaluationID) error
	ScoreSummary(ctx context.Context, nomineeID NomineeID) (ScoreSummary, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, s Subscription) error
	Exists(ctx context.Context, userID UserID, nominationID NominationID) (bool, error)
	List(ctx context.Context, f SubscriptionFilter) ([]Subscription, error)
	Delete(ctx context.Context, id SubscriptionID) error
}

type ExamRepository interface {
	Create(ctx context.Context, e Exam) error
	FindByID(ctx context.Context, id ExamID) (Exam, error)
	List(ctx context.Context, f ExamFilter) ([]Exam, error)
	Update(ctx context.Context, e Exam) error
	Delete(ctx context.Context, id ExamID) error
}

// VoteEvent é publicado depois que um voto foi gravado; alimenta os contadores ao vivo.
type VoteEvent struct {
	VoteID       VoteID
	UserID       UserID
	NomineeID    NomineeID
	NominationID NominationID
	Choice       Choice
	VotedAt      time.Time
}

type Counter interface {
	Incr(ctx context.Context, key string, delta int64) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
	GetAll(ctx context.Context, keys []string) (map[string]int64, error)
	Set(ctx context.Context, key string, value int64) error
	// ApplyOnce incrementa cada chave em 1 somente se id ainda não foi aplicado.
	// Devolve false quando id já constava como aplicado.
	ApplyOnce(ctx context.Context, id string, keys []string) (bool, error)
	// ResetApplied substitui o conjunto de ids aplicados.
	ResetApplied(ctx context.Context, ids []string) error
}

type Queue interface {
	PublishVote(ctx context.Context, ev VoteEvent) error
	ConsumeVotes(ctx context.Context, handler func(context.Context, VoteEvent) error) error
}

type Antifraude interface {
	Check(ctx context.Context, v Vote) error
}

type Clock interface {
	Now() time.Time
}
