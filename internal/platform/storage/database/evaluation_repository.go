package database

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

func (r *EvaluationRepository) Create(ctx context.Context, e domain.JuryEvaluation) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&e).Error; err != nil {
		return fmt.Errorf("gorm evaluation: inserir: %w", translate(err))
	}
	return nil
}

func (r *EvaluationRepository) Exists(ctx context.Context, juryID domain.JuryID, nomineeID domain.NomineeID) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.JuryEvaluation{}).
		Where("jury_id = ? AND nominee_id = ?", juryID, nomineeID).
		Count(&total).Error; err != nil {
		return false, fmt.Errorf("gorm evaluation: verificar par: %w", err)
	}
	return total > 0, nil
}

func (r *EvaluationRepository) List(ctx context.Context, f domain.EvaluationFilter) ([]domain.JuryEvaluation, error) {
	q := r.db.WithContext(ctx).
		Preload("Jury.User").
		Preload("Nominee")
	if f.JuryID != "" {
		q = q.Where("jury_id = ?", f.JuryID)
	}
	if f.NomineeID != "" {
		q = q.Where("nominee_id = ?", f.NomineeID)
	}

	var list []domain.JuryEvaluation
	if err := q.Order("evaluated_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("gorm evaluation: listar: %w", err)
	}
	return list, nil
}

func (r *EvaluationRepository) Delete(ctx context.Context, id domain.EvaluationID) error {
	res := r.db.WithContext(ctx).Delete(&domain.JuryEvaluation{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("gorm evaluation: excluir: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ScoreSummary devolve zeros quando o nominado ainda não foi avaliado.
func (r *EvaluationRepository) ScoreSummary(ctx context.Context, nomineeID domain.NomineeID) (domain.ScoreSummary, error) {
	var row struct {
		Total   int64
		Average sql.NullFloat64
		Max     sql.NullInt64
	}
	if err := r.db.WithContext(ctx).
		Model(&domain.JuryEvaluation{}).
		Select("COUNT(*) AS total, AVG(score) AS average, MAX(score) AS max").
		Where("nominee_id = ?", nomineeID).
		Scan(&row).Error; err != nil {
		return domain.ScoreSummary{}, fmt.Errorf("gorm evaluation: resumir notas: %w", err)
	}

	return domain.ScoreSummary{
		NomineeID:   nomineeID,
		Evaluations: row.Total,
		Average:     row.Average.Float64,
		Max:         int(row.Max.Int64),
	}, nil
}

var _ domain.EvaluationRepository = (*EvaluationRepository)(nil)
