// Pacote dbtest sobe um SQLite em memória com o schema migrado e oferece
// atalhos para semear registros nos testes de repositórios e serviços.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/ids"
	"github.com/marcelojr/premiacao/internal/platform/migrations"
	"github.com/marcelojr/premiacao/internal/platform/storage/database"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), database.NewConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Cada conexão nova em :memory: seria outro banco vazio.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migrations.Run(db))
	return db
}

// Seeder cria registros válidos com o mínimo de campos preenchidos.
type Seeder struct {
	t   *testing.T
	db  *gorm.DB
	gen *ids.Generator
	Now time.Time
}

func NewSeeder(t *testing.T, db *gorm.DB) *Seeder {
	return &Seeder{
		t:   t,
		db:  db,
		gen: ids.NewGenerator(),
		Now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (s *Seeder) create(v any) {
	s.t.Helper()
	require.NoError(s.t, s.db.WithContext(context.Background()).Omit(clause.Associations).Create(v).Error)
}

func (s *Seeder) Role(name string) domain.Role {
	s.t.Helper()
	r := domain.Role{ID: domain.RoleID(s.gen.New()), Name: name}
	s.create(&r)
	return r
}

func (s *Seeder) User(role domain.Role, email string) domain.User {
	s.t.Helper()
	u := domain.User{ID: domain.UserID(s.gen.New()), Name: "Nome", Surname: "Sobrenome", Email: email, RoleID: role.ID}
	s.create(&u)
	return u
}

func (s *Seeder) Nomination(name string, created time.Time, end *time.Time) domain.Nomination {
	s.t.Helper()
	n := domain.Nomination{ID: domain.NominationID(s.gen.New()), Name: name, CreatedDate: created, EndDate: end}
	s.create(&n)
	return n
}

func (s *Seeder) Nominee(nomination domain.Nomination, user domain.User, project string, created time.Time) domain.Nominee {
	s.t.Helper()
	n := domain.Nominee{
		ID:           domain.NomineeID(s.gen.New()),
		NominationID: nomination.ID,
		UserID:       user.ID,
		ProjectName:  project,
		CreatedAt:    created,
	}
	s.create(&n)
	return n
}

func (s *Seeder) Vote(user domain.User, nominee domain.Nominee, choice domain.Choice) domain.Vote {
	s.t.Helper()
	v := domain.Vote{ID: domain.VoteID(s.gen.New()), UserID: user.ID, NomineeID: nominee.ID, Choice: choice, VotedAt: s.Now}
	s.create(&v)
	return v
}

func (s *Seeder) Jury(user domain.User) domain.Jury {
	s.t.Helper()
	j := domain.Jury{ID: domain.JuryID(s.gen.New()), UserID: user.ID}
	s.create(&j)
	return j
}

func (s *Seeder) Evaluation(jury domain.Jury, nominee domain.Nominee, score int) domain.JuryEvaluation {
	s.t.Helper()
	e := domain.JuryEvaluation{ID: domain.EvaluationID(s.gen.New()), JuryID: jury.ID, NomineeID: nominee.ID, Score: score, EvaluatedAt: s.Now}
	s.create(&e)
	return e
}

func (s *Seeder) Subscription(user domain.User, nomination domain.Nomination) domain.Subscription {
	s.t.Helper()
	sub := domain.Subscription{ID: domain.SubscriptionID(s.gen.New()), UserID: user.ID, NominationID: nomination.ID, SubscribedAt: s.Now}
	s.create(&sub)
	return sub
}

func (s *Seeder) ID() string {
	return s.gen.New()
}
