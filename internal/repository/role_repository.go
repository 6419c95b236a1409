package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edugrant/internal/model"
)

// RoleRepository defines role and role-grant persistence operations.
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	FindByName(ctx context.Context, name string) (*model.Role, error)
	Grant(ctx context.Context, userID, roleID uuid.UUID) error
	Revoke(ctx context.Context, userID, roleID uuid.UUID) error
	GrantNames(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// Create creates a new role.
func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// FindByName finds a role by its unique name.
func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// Grant records a role grant for a user. Re-granting is a no-op.
func (r *roleRepository) Grant(ctx context.Context, userID, roleID uuid.UUID) error {
	grant := model.UserRole{UserID: userID, RoleID: roleID}
	err := r.db.WithContext(ctx).Create(&grant).Error
	if err == gorm.ErrDuplicatedKey {
		return nil
	}
	return err
}

// Revoke removes a role grant from a user.
func (r *roleRepository) Revoke(ctx context.Context, userID, roleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&model.UserRole{}).Error
}

// GrantNames returns the names of all roles granted to a user. This is
// the live lookup behind token verification, so new grants take effect
// without re-login.
func (r *roleRepository) GrantNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ?", userID).
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
