package staff

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/db/models"
)

// Repository wires together staff persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a staff repository bound to the provided DB.
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

// FindByID loads one staff member.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	var member models.Staff
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByEmail loads a staff member by normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var member models.Staff
	err := r.db.WithContext(ctx).
		First(&member, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// List returns all staff members ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Staff, error) {
	var members []models.Staff
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Create persists a new staff member.
func (r *Repository) Create(ctx context.Context, member *models.Staff) (*models.Staff, error) {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// Update saves the mutated staff row.
func (r *Repository) Update(ctx context.Context, member *models.Staff) (*models.Staff, error) {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// CountByEmail reports whether another member already uses the email.
func (r *Repository) CountByEmail(ctx context.Context, email string, excludeID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Staff{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
