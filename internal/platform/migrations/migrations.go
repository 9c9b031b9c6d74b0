// Pacote migrations centraliza as versões gormigrate aplicadas na inicialização.
package migrations

import (
	"fmt"

	gormigrate "github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/marcelojr/premiacao/internal/domain"
)

func Run(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrations: db nulo")
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, List())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migrations: falha ao aplicar: %w", err)
	}

	return nil
}

// RollbackLast desfaz a migração mais recente; usado pelo CLI administrativo.
func RollbackLast(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrations: db nulo")
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, List())
	if err := m.RollbackLast(); err != nil {
		return fmt.Errorf("migrations: falha no rollback: %w", err)
	}
	return nil
}

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202501100001_voting_schema",
			Migrate: func(tx *gorm.DB) error {
				// A ordem respeita as chaves estrangeiras: pais antes dos filhos.
				return tx.AutoMigrate(
					&domain.Role{},
					&domain.User{},
					&domain.Nomination{},
					&domain.Nominee{},
					&domain.Vote{},
					&domain.Jury{},
					&domain.JuryEvaluation{},
					&domain.Subscription{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"subscriptions",
					"jury_evaluations",
					"juries",
					"votes",
					"nominees",
					"nominations",
					"users",
					"roles",
				)
			},
		},
		{
			ID: "202501100002_exams",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&domain.Exam{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("exam_users", "exams")
			},
		},
	}
}
