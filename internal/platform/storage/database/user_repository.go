package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
)

// UserRepository persiste usuários e remove em cascata tudo o que pertence a eles.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&u).Error; err != nil {
		return fmt.Errorf("gorm user: inserir: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		First(&u, "id = ?", id).Error; err != nil {
		return domain.User{}, translateFind("gorm user: buscar id", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Preload("Role")
	if f.RoleID != "" {
		q = q.Where("role_id = ?", f.RoleID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where("LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(surname) LIKE ? ESCAPE '\\'", like, like, like)
	}

	var users []domain.User
	if err := q.Order("email ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("gorm user: listar: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u domain.User) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"name":    u.Name,
			"surname": u.Surname,
			"email":   u.Email,
			"role_id": u.RoleID,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm user: atualizar: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id domain.UserID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.Select("id").First(&u, "id = ?", id).Error; err != nil {
			return translateFind("gorm user: buscar id", err)
		}

		var nominees []domain.NomineeID
		if err := tx.Model(&domain.Nominee{}).Where("user_id = ?", id).Pluck("id", &nominees).Error; err != nil {
			return fmt.Errorf("gorm user: listar nominados: %w", err)
		}
		var juries []domain.JuryID
		if err := tx.Model(&domain.Jury{}).Where("user_id = ?", id).Pluck("id", &juries).Error; err != nil {
			return fmt.Errorf("gorm user: listar juri: %w", err)
		}

		// Filhos primeiro para não violar as chaves estrangeiras no Postgres.
		steps := []struct {
			name string
			run  func() error
		}{
			{"votos", func() error {
				return tx.Where("user_id = ? OR nominee_id IN ?", id, nominees).Delete(&domain.Vote{}).Error
			}},
			{"avaliacoes", func() error {
				return tx.Where("jury_id IN ? OR nominee_id IN ?", juries, nominees).Delete(&domain.JuryEvaluation{}).Error
			}},
			{"nominados", func() error {
				return tx.Where("user_id = ?", id).Delete(&domain.Nominee{}).Error
			}},
			{"juri", func() error {
				return tx.Where("user_id = ?", id).Delete(&domain.Jury{}).Error
			}},
			{"inscricoes", func() error {
				return tx.Where("user_id = ?", id).Delete(&domain.Subscription{}).Error
			}},
			{"exames", func() error {
				return tx.Exec("DELETE FROM exam_users WHERE user_id = ?", id).Error
			}},
			{"usuario", func() error {
				return tx.Delete(&domain.User{}, "id = ?", id).Error
			}},
		}
		for _, step := range steps {
			if err := step.run(); err != nil {
				return fmt.Errorf("gorm user: excluir %s: %w", step.name, translate(err))
			}
		}
		return nil
	})
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm user: contar: %w", err)
	}
	return total, nil
}

var _ domain.UserRepository = (*UserRepository)(nil)
