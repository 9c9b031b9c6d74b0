package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
)

// NomineeRepository persiste nominados; votos e avaliações caem junto na exclusão.
type NomineeRepository struct {
	db *gorm.DB
}

func NewNomineeRepository(db *gorm.DB) *NomineeRepository {
	return &NomineeRepository{db: db}
}

func (r *NomineeRepository) Create(ctx context.Context, n domain.Nominee) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&n).Error; err != nil {
		return fmt.Errorf("gorm nominee: inserir: %w", translate(err))
	}
	return nil
}

func (r *NomineeRepository) FindByID(ctx context.Context, id domain.NomineeID) (domain.Nominee, error) {
	var n domain.Nominee
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Nomination").
		First(&n, "id = ?", id).Error; err != nil {
		return domain.Nominee{}, translateFind("gorm nominee: buscar id", err)
	}
	return n, nil
}

func (r *NomineeRepository) Exists(ctx context.Context, nominationID domain.NominationID, userID domain.UserID) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Nominee{}).
		Where("nomination_id = ? AND user_id = ?", nominationID, userID).
		Count(&total).Error; err != nil {
		return false, fmt.Errorf("gorm nominee: verificar par: %w", err)
	}
	return total > 0, nil
}

func (r *NomineeRepository) List(ctx context.Context, f domain.NomineeFilter) ([]domain.Nominee, error) {
	q := r.db.WithContext(ctx).Preload("User").Preload("Nomination")
	if f.NominationID != "" {
		q = q.Where("nomination_id = ?", f.NominationID)
	}
	if f.ExcludeNominationID != "" {
		q = q.Where("nomination_id <> ?", f.ExcludeNominationID)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ProjectPrefix != "" {
		q = q.Where("project_name LIKE ? ESCAPE '\\'", escapeLike(f.ProjectPrefix)+"%")
	}

	switch f.Order {
	case domain.NomineesByProjectName:
		q = q.Order("project_name ASC")
	default:
		q = q.Order("created_at DESC")
	}

	var list []domain.Nominee
	if err := applyLimit(q, f.Limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("gorm nominee: listar: %w", err)
	}
	return list, nil
}

func (r *NomineeRepository) Update(ctx context.Context, n domain.Nominee) error {
	res := r.db.WithContext(ctx).Model(&domain.Nominee{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{
			"project_name": n.ProjectName,
			"description":  n.Description,
			"contact":      n.Contact,
			"attachment":   n.Attachment,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm nominee: atualizar: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NomineeRepository) Delete(ctx context.Context, id domain.NomineeID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n domain.Nominee
		if err := tx.Select("id").First(&n, "id = ?", id).Error; err != nil {
			return translateFind("gorm nominee: buscar id", err)
		}
		if err := tx.Where("nominee_id = ?", id).Delete(&domain.Vote{}).Error; err != nil {
			return fmt.Errorf("gorm nominee: excluir votos: %w", err)
		}
		if err := tx.Where("nominee_id = ?", id).Delete(&domain.JuryEvaluation{}).Error; err != nil {
			return fmt.Errorf("gorm nominee: excluir avaliacoes: %w", err)
		}
		if err := tx.Delete(&domain.Nominee{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("gorm nominee: excluir: %w", translate(err))
		}
		return nil
	})
}

func (r *NomineeRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Nominee{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm nominee: contar: %w", err)
	}
	return total, nil
}

var _ domain.NomineeRepository = (*NomineeRepository)(nil)
