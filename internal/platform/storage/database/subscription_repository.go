package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s domain.Subscription) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&s).Error; err != nil {
		return fmt.Errorf("gorm subscription: inserir: %w", translate(err))
	}
	return nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, userID domain.UserID, nominationID domain.NominationID) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND nomination_id = ?", userID, nominationID).
		Count(&total).Error; err != nil {
		return false, fmt.Errorf("gorm subscription: verificar par: %w", err)
	}
	return total > 0, nil
}

func (r *SubscriptionRepository) List(ctx context.Context, f domain.SubscriptionFilter) ([]domain.Subscription, error) {
	q := r.db.WithContext(ctx).Preload("User").Preload("Nomination")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.NominationID != "" {
		q = q.Where("nomination_id = ?", f.NominationID)
	}

	var list []domain.Subscription
	if err := q.Order("subscribed_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("gorm subscription: listar: %w", err)
	}
	return list, nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id domain.SubscriptionID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Subscription{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("gorm subscription: excluir: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.SubscriptionRepository = (*SubscriptionRepository)(nil)
