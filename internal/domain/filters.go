package domain

type NomineeOrder int

const (
	// NomineesNewestFirst é a ordem padrão (created_at desc).
	NomineesNewestFirst NomineeOrder = iota
	NomineesByProjectName
)

type UserFilter struct {
	RoleID RoleID
	Search string
}

type NominationFilter struct {
	// WithNominees carrega os nominados de cada nominação.
	WithNominees bool
	Limit        int
}

type NomineeFilter struct {
	NominationID        NominationID
	ExcludeNominationID NominationID
	UserID              UserID
	ProjectPrefix       string
	Order               NomineeOrder
	Limit               int
}

type VoteFilter struct {
	NomineeID    NomineeID
	NominationID NominationID
	UserID       UserID
	Choice       Choice
	Limit        int
}

type EvaluationFilter struct {
	JuryID    JuryID
	NomineeID NomineeID
}

type SubscriptionFilter struct {
	UserID       UserID
	NominationID NominationID
}

type ExamFilter struct {
	PublicOnly bool
}
