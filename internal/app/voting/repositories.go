package voting

import (
	"gorm.io/gorm"

	"github.com/marcelojr/premiacao/internal/platform/storage/database"
)

// RepositoriesFor liga todos os repositórios GORM a uma mesma conexão.
func RepositoriesFor(db *gorm.DB) Repositories {
	return Repositories{
		Roles:         database.NewRoleRepository(db),
		Users:         database.NewUserRepository(db),
		Nominations:   database.NewNominationRepository(db),
		Nominees:      database.NewNomineeRepository(db),
		Votes:         database.NewVoteRepository(db),
		Juries:        database.NewJuryRepository(db),
		Evaluations:   database.NewEvaluationRepository(db),
		Subscriptions: database.NewSubscriptionRepository(db),
		Exams:         database.NewExamRepository(db),
	}
}
