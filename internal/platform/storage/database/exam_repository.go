package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
)

// examUserRow mapeia a tabela de junção criada pelo many2many de Exam.
type examUserRow struct {
	ExamID domain.ExamID `gorm:"column:exam_id;primaryKey"`
	UserID domain.UserID `gorm:"column:user_id;primaryKey"`
}

func (examUserRow) TableName() string { return "exam_users" }

type ExamRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// Create grava o exame e os vínculos com usuários na mesma transação.
func (r *ExamRepository) Create(ctx context.Context, e domain.Exam) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userIDs := make([]domain.UserID, 0, len(e.Users))
		for _, u := range e.Users {
			userIDs = append(userIDs, u.ID)
		}
		if len(userIDs) > 0 {
			var found int64
			if err := tx.Model(&domain.User{}).Where("id IN ?", userIDs).Count(&found).Error; err != nil {
				return fmt.Errorf("gorm exam: verificar usuarios: %w", err)
			}
			if found != int64(len(dedupUsers(userIDs))) {
				return fmt.Errorf("gorm exam: usuario do exame: %w", domain.ErrNotFound)
			}
		}

		if err := tx.Omit(clause.Associations).Create(&e).Error; err != nil {
			return fmt.Errorf("gorm exam: inserir: %w", translate(err))
		}

		rows := make([]examUserRow, 0, len(userIDs))
		for _, id := range dedupUsers(userIDs) {
			rows = append(rows, examUserRow{ExamID: e.ID, UserID: id})
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("gorm exam: vincular usuarios: %w", translate(err))
		}
		return nil
	})
}

func (r *ExamRepository) FindByID(ctx context.Context, id domain.ExamID) (domain.Exam, error) {
	var e domain.Exam
	if err := r.db.WithContext(ctx).
		Preload("Users", func(db *gorm.DB) *gorm.DB { return db.Order("users.email ASC") }).
		First(&e, "id = ?", id).Error; err != nil {
		return domain.Exam{}, translateFind("gorm exam: buscar id", err)
	}
	return e, nil
}

func (r *ExamRepository) List(ctx context.Context, f domain.ExamFilter) ([]domain.Exam, error) {
	q := r.db.WithContext(ctx).Preload("Users")
	if f.PublicOnly {
		q = q.Where("is_public = ?", true)
	}

	var list []domain.Exam
	if err := q.Order("exam_date DESC").Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("gorm exam: listar: %w", err)
	}
	return list, nil
}

func (r *ExamRepository) Update(ctx context.Context, e domain.Exam) error {
	res := r.db.WithContext(ctx).Model(&domain.Exam{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"name":       e.Name,
			"exam_date":  e.ExamDate,
			"task_image": e.TaskImage,
			"is_public":  e.IsPublic,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm exam: atualizar: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ExamRepository) Delete(ctx context.Context, id domain.ExamID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", id).Delete(&examUserRow{}).Error; err != nil {
			return fmt.Errorf("gorm exam: desvincular usuarios: %w", translate(err))
		}
		res := tx.Delete(&domain.Exam{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("gorm exam: excluir: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func dedupUsers(ids []domain.UserID) []domain.UserID {
	seen := make(map[domain.UserID]struct{}, len(ids))
	out := make([]domain.UserID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var _ domain.ExamRepository = (*ExamRepository)(nil)
