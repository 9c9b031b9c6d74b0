package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
)

// RoleRepository persiste papéis; a exclusão é bloqueada enquanto houver usuários.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&role).Error; err != nil {
		return fmt.Errorf("gorm role: inserir: %w", translate(err))
	}
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id domain.RoleID) (domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return domain.Role{}, translateFind("gorm role: buscar id", err)
	}
	return role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("gorm role: listar: %w", err)
	}
	return roles, nil
}

func (r *RoleRepository) Update(ctx context.Context, role domain.Role) error {
	res := r.db.WithContext(ctx).Model(&domain.Role{}).
		Where("id = ?", role.ID).
		Updates(map[string]any{
			"name":        role.Name,
			"description": role.Description,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm role: atualizar: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id domain.RoleID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&domain.User{}).Where("role_id = ?", id).Count(&users).Error; err != nil {
			return fmt.Errorf("gorm role: contar usuarios: %w", err)
		}
		if users > 0 {
			return fmt.Errorf("%w: papel %s possui %d usuario(s)", domain.ErrReferentialIntegrity, id, users)
		}

		res := tx.Delete(&domain.Role{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("gorm role: excluir: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

var _ domain.RoleRepository = (*RoleRepository)(nil)
