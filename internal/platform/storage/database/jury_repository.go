package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
)

type JuryRepository struct {
	db *gorm.DB
}

func NewJuryRepository(db *gorm.DB) *JuryRepository {
	return &JuryRepository{db: db}
}

func (r *JuryRepository) Create(ctx context.Context, j domain.Jury) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&j).Error; err != nil {
		return fmt.Errorf("gorm jury: inserir: %w", translate(err))
	}
	return nil
}

func (r *JuryRepository) FindByID(ctx context.Context, id domain.JuryID) (domain.Jury, error) {
	var j domain.Jury
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&j, "id = ?", id).Error; err != nil {
		return domain.Jury{}, translateFind("gorm jury: buscar id", err)
	}
	return j, nil
}

func (r *JuryRepository) List(ctx context.Context) ([]domain.Jury, error) {
	var list []domain.Jury
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = juries.user_id").
		Order("users.name ASC, users.surname ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("gorm jury: listar: %w", err)
	}
	return list, nil
}

func (r *JuryRepository) Update(ctx context.Context, j domain.Jury) error {
	res := r.db.WithContext(ctx).Model(&domain.Jury{}).
		Where("id = ?", j.ID).
		Updates(map[string]any{
			"bio":   j.Bio,
			"photo": j.Photo,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm jury: atualizar: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete remove o jurado junto com as avaliações que ele fez.
func (r *JuryRepository) Delete(ctx context.Context, id domain.JuryID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("jury_id = ?", id).Delete(&domain.JuryEvaluation{}).Error; err != nil {
			return fmt.Errorf("gorm jury: excluir avaliacoes: %w", translate(err))
		}
		res := tx.Delete(&domain.Jury{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("gorm jury: excluir: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *JuryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Jury{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm jury: contar: %w", err)
	}
	return total, nil
}

var _ domain.JuryRepository = (*JuryRepository)(nil)
