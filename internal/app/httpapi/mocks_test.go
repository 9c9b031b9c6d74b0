package httpapi

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/marcelojr/premiacao/internal/app/presenter"
	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/domain"
)

// MockCommands implementa Commands para testes
type MockCommands struct {
	mock.Mock
}

func (m *MockCommands) CreateRole(ctx context.Context, in voting.RoleInput) (domain.Role, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Role), args.Error(1)
}

func (m *MockCommands) UpdateRole(ctx context.Context, id domain.RoleID, in voting.RoleInput) (domain.Role, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(domain.Role), args.Error(1)
}

func (m *MockCommands) DeleteRole(ctx context.Context, id domain.RoleID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCommands) CreateUser(ctx context.Context, in voting.UserInput) (domain.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockCommands) UpdateUser(ctx context.Context, id domain.UserID, in voting.UserInput) (domain.User, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockCommands) DeleteUser(ctx context.Context, id domain.UserID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCommands) CreateNomination(ctx context.Context, in voting.NominationInput) (domain.Nomination, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Nomination), args.Error(1)
}

func (m *MockCommands) UpdateNomination(ctx context.Context, id domain.NominationID, in voting.NominationInput) (domain.Nomination, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(domain.Nomination), args.Error(1)
}

func (m *MockCommands) CloseNomination(ctx context.Context, id domain.NominationID) (domain.Nomination, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Nomination), args.Error(1)
}

func (m *MockCommands) ReopenNomination(ctx context.Context, id domain.NominationID) (domain.Nomination, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Nomination), args.Error(1)
}

func (m *MockCommands) DeleteNomination(ctx context.Context, id domain.NominationID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCommands) CreateNominee(ctx context.Context, in voting.NomineeInput) (domain.Nominee, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Nominee), args.Error(1)
}

func (m *MockCommands) UpdateNominee(ctx context.Context, id domain.NomineeID, in voting.NomineeUpdate) (domain.Nominee, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(domain.Nominee), args.Error(1)
}

func (m *MockCommands) DeleteNominee(ctx context.Context, id domain.NomineeID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCommands) CastVote(ctx context.Context, userID domain.UserID, nomineeID domain.NomineeID, choice domain.Choice) (domain.Vote, error) {
	args := m.Called(ctx, userID, nomineeID, choice)
	return args.Get(0).(domain.Vote), args.Error(1)
}

func (m *MockCommands) CreateJury(ctx context.Context, in voting.JuryInput) (domain.Jury, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Jury), args.Error(1)
}

func (m *MockCommands) UpdateJury(ctx context.Context, id domain.JuryID, bio, photo string) (domain.Jury, error) {
	args := m.Called(ctx, id, bio, photo)
	return args.Get(0).(domain.Jury), args.Error(1)
}

func (m *MockCommands) Evaluate(ctx context.Context, in voting.EvaluationInput) (domain.JuryEvaluation, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.JuryEvaluation), args.Error(1)
}

func (m *MockCommands) Subscribe(ctx context.Context, in voting.SubscriptionInput) (domain.Subscription, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Subscription), args.Error(1)
}

func (m *MockCommands) CreateExam(ctx context.Context, in voting.ExamInput) (domain.Exam, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Exam), args.Error(1)
}

// MockQueries implementa Queries para testes
type MockQueries struct {
	mock.Mock
}

func (m *MockQueries) result(args mock.Arguments) (presenter.Context, error) {
	out, _ := args.Get(0).(presenter.Context)
	return out, args.Error(1)
}

func (m *MockQueries) Index(ctx context.Context) (presenter.Context, error) {
	return m.result(m.Called(ctx))
}

func (m *MockQueries) Nominations(ctx context.Context) (presenter.Context, error) {
	return m.result(m.Called(ctx))
}

func (m *MockQueries) Nominees(ctx context.Context) (presenter.Context, error) {
	return m.result(m.Called(ctx))
}

func (m *MockQueries) NomineeDetail(ctx context.Context, id domain.NomineeID) (presenter.Context, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockQueries) Votes(ctx context.Context, choice domain.Choice) (presenter.Context, error) {
	return m.result(m.Called(ctx, choice))
}

func (m *MockQueries) JuryPanel(ctx context.Context) (presenter.Context, error) {
	return m.result(m.Called(ctx))
}

func (m *MockQueries) Report(ctx context.Context, params presenter.ReportParams) (presenter.Context, error) {
	return m.result(m.Called(ctx, params))
}

func (m *MockQueries) Exams(ctx context.Context) (presenter.Context, error) {
	return m.result(m.Called(ctx))
}

func (m *MockQueries) Stats(ctx context.Context) (presenter.Context, error) {
	return m.result(m.Called(ctx))
}

// MockTallies implementa Tallies para testes
type MockTallies struct {
	mock.Mock
}

func (m *MockTallies) LiveTally(ctx context.Context, id domain.NomineeID) (domain.Tally, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Tally), args.Error(1)
}
