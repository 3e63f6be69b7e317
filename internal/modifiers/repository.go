package modifiers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/db/models"
)

// Repository wires together modifier and addon persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindGroupByID loads a modifier group with its options.
func (r *Repository) FindGroupByID(ctx context.Context, id uuid.UUID) (*models.ModifierGroup, error) {
	var group models.ModifierGroup
	err := r.db.WithContext(ctx).
		Preload("Modifiers").
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroupsByProduct returns the product's groups ordered for display.
func (r *Repository) ListGroupsByProduct(ctx context.Context, productID uuid.UUID) ([]models.ModifierGroup, error) {
	var groups []models.ModifierGroup
	err := r.db.WithContext(ctx).
		Preload("Modifiers").
		Where("product_id = ?", productID).
		Order("sort_order ASC, name ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroup persists a modifier group with any nested options.
func (r *Repository) CreateGroup(ctx context.Context, group *models.ModifierGroup) (*models.ModifierGroup, error) {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateGroup saves the mutated group row. Options are managed separately.
func (r *Repository) UpdateGroup(ctx context.Context, group *models.ModifierGroup) (*models.ModifierGroup, error) {
	err := r.db.WithContext(ctx).
		Omit("Modifiers").
		Save(group).Error
	if err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group; options cascade.
func (r *Repository) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ModifierGroup{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindModifierByID loads a single modifier option.
func (r *Repository) FindModifierByID(ctx context.Context, id uuid.UUID) (*models.Modifier, error) {
	var modifier models.Modifier
	if err := r.db.WithContext(ctx).First(&modifier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &modifier, nil
}

// CreateModifier persists one option under an existing group.
func (r *Repository) CreateModifier(ctx context.Context, modifier *models.Modifier) (*models.Modifier, error) {
	if err := r.db.WithContext(ctx).Create(modifier).Error; err != nil {
		return nil, err
	}
	return modifier, nil
}

// UpdateModifier saves the mutated option row.
func (r *Repository) UpdateModifier(ctx context.Context, modifier *models.Modifier) (*models.Modifier, error) {
	if err := r.db.WithContext(ctx).Save(modifier).Error; err != nil {
		return nil, err
	}
	return modifier, nil
}

// DeleteModifier removes one option.
func (r *Repository) DeleteModifier(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Modifier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAddonByID loads a single addon.
func (r *Repository) FindAddonByID(ctx context.Context, id uuid.UUID) (*models.Addon, error) {
	var addon models.Addon
	if err := r.db.WithContext(ctx).First(&addon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &addon, nil
}

// ListAddonsForProduct returns the product's addons plus storewide ones.
func (r *Repository) ListAddonsForProduct(ctx context.Context, productID uuid.UUID) ([]models.Addon, error) {
	var addons []models.Addon
	err := r.db.WithContext(ctx).
		Where("product_id = ? OR product_id IS NULL", productID).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&addons).Error
	if err != nil {
		return nil, err
	}
	return addons, nil
}

// CreateAddon persists an addon.
func (r *Repository) CreateAddon(ctx context.Context, addon *models.Addon) (*models.Addon, error) {
	if err := r.db.WithContext(ctx).Create(addon).Error; err != nil {
		return nil, err
	}
	return addon, nil
}

// UpdateAddon saves the mutated addon row.
func (r *Repository) UpdateAddon(ctx context.Context, addon *models.Addon) (*models.Addon, error) {
	if err := r.db.WithContext(ctx).Save(addon).Error; err != nil {
		return nil, err
	}
	return addon, nil
}

// DeleteAddon removes an addon.
func (r *Repository) DeleteAddon(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Addon{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
