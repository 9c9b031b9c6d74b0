package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
)

// NominationRepository mapeia o agregado de nominação e seus nominados.
type NominationRepository struct {
	db *gorm.DB
}

func NewNominationRepository(db *gorm.DB) *NominationRepository {
	return &NominationRepository{db: db}
}

func (r *NominationRepository) Create(ctx context.Context, n domain.Nomination) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&n).Error; err != nil {
		return fmt.Errorf("gorm nomination: inserir: %w", translate(err))
	}
	return nil
}

func (r *NominationRepository) FindByID(ctx context.Context, id domain.NominationID) (domain.Nomination, error) {
	var n domain.Nomination
	if err := r.db.WithContext(ctx).
		// Preload garante relação pronta para as projeções de leitura.
		Preload("Nominees", preloadNominees).
		First(&n, "id = ?", id).Error; err != nil {
		return domain.Nomination{}, translateFind("gorm nomination: buscar id", err)
	}
	return n, nil
}

func (r *NominationRepository) List(ctx context.Context, f domain.NominationFilter) ([]domain.Nomination, error) {
	q := r.db.WithContext(ctx)
	if f.WithNominees {
		q = q.Preload("Nominees", preloadNominees)
	}

	var list []domain.Nomination
	if err := applyLimit(q, f.Limit).Order("created_date DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("gorm nomination: listar: %w", err)
	}
	return list, nil
}

func (r *NominationRepository) Update(ctx context.Context, n domain.Nomination) error {
	res := r.db.WithContext(ctx).Model(&domain.Nomination{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{
			"name":        n.Name,
			"description": n.Description,
			"end_date":    n.EndDate,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm nomination: atualizar: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetEndDate implementa as ações de encerrar (end != nil) e reabrir (end == nil).
func (r *NominationRepository) SetEndDate(ctx context.Context, id domain.NominationID, end *time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Nomination{}).
		Where("id = ?", id).
		Update("end_date", end)
	if res.Error != nil {
		return fmt.Errorf("gorm nomination: definir termino: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NominationRepository) Delete(ctx context.Context, id domain.NominationID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n domain.Nomination
		if err := tx.Select("id").First(&n, "id = ?", id).Error; err != nil {
			return translateFind("gorm nomination: buscar id", err)
		}

		var nominees []domain.NomineeID
		if err := tx.Model(&domain.Nominee{}).Where("nomination_id = ?", id).Pluck("id", &nominees).Error; err != nil {
			return fmt.Errorf("gorm nomination: listar nominados: %w", err)
		}

		if err := tx.Where("nominee_id IN ?", nominees).Delete(&domain.Vote{}).Error; err != nil {
			return fmt.Errorf("gorm nomination: excluir votos: %w", err)
		}
		if err := tx.Where("nominee_id IN ?", nominees).Delete(&domain.JuryEvaluation{}).Error; err != nil {
			return fmt.Errorf("gorm nomination: excluir avaliacoes: %w", err)
		}
		if err := tx.Where("nomination_id = ?", id).Delete(&domain.Nominee{}).Error; err != nil {
			return fmt.Errorf("gorm nomination: excluir nominados: %w", err)
		}
		if err := tx.Where("nomination_id = ?", id).Delete(&domain.Subscription{}).Error; err != nil {
			return fmt.Errorf("gorm nomination: excluir inscricoes: %w", err)
		}
		if err := tx.Delete(&domain.Nomination{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("gorm nomination: excluir: %w", translate(err))
		}
		return nil
	})
}

func (r *NominationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Nomination{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm nomination: contar: %w", err)
	}
	return total, nil
}

// NomineeCounts devolve o número de nominados por nominação, incluindo as vazias.
func (r *NominationRepository) NomineeCounts(ctx context.Context) (map[domain.NominationID]int64, error) {
	type resultado struct {
		NominationID string
		Total        int64
	}
	var res []resultado
	if err := r.db.WithContext(ctx).
		Model(&domain.Nomination{}).
		Select("nominations.id AS nomination_id, COUNT(nominees.id) AS total").
		Joins("LEFT JOIN nominees ON nominees.nomination_id = nominations.id").
		Group("nominations.id").
		Scan(&res).Error; err != nil {
		return nil, fmt.Errorf("gorm nomination: contar nominados: %w", err)
	}

	totais := make(map[domain.NominationID]int64, len(res))
	for _, item := range res {
		totais[domain.NominationID(item.NominationID)] = item.Total
	}
	return totais, nil
}

func preloadNominees(db *gorm.DB) *gorm.DB {
	return db.Order("nominees.created_at DESC")
}

var _ domain.NominationRepository = (*NominationRepository)(nil)
