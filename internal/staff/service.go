package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/auth"
	"github.com/tavolopos/tavolo-backend/pkg/config"
	"github.com/tavolopos/tavolo-backend/pkg/db/models"
	"github.com/tavolopos/tavolo-backend/pkg/enums"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
	"github.com/tavolopos/tavolo-backend/pkg/security"
)

// Service exposes staff management and register login.
type Service interface {
	Login(ctx context.Context, email, pin string) (*LoginResult, error)
	CreateStaff(ctx context.Context, input CreateStaffInput) (*StaffDTO, error)
	UpdateStaff(ctx context.Context, staffID uuid.UUID, input UpdateStaffInput) (*StaffDTO, error)
	GetStaff(ctx context.Context, staffID uuid.UUID) (*StaffDTO, error)
	ListStaff(ctx context.Context) ([]StaffDTO, error)
}

// StaffDTO is the staff payload returned to clients. The PIN hash never
// leaves the service.
type StaffDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResult pairs the issued token with the authenticated member.
type LoginResult struct {
	Token string   `json:"token"`
	Staff StaffDTO `json:"staff"`
}

// CreateStaffInput holds the payload to register a staff member.
type CreateStaffInput struct {
	Name  string
	Email string
	PIN   string
	Role  enums.StaffRole
}

// UpdateStaffInput holds optional mutation values for a member.
type UpdateStaffInput struct {
	Name     *string
	Email    *string
	PIN      *string
	Role     *enums.StaffRole
	IsActive *bool
}

type service struct {
	repo      *Repository
	jwtConfig config.JWTConfig
	pinConfig config.PasswordConfig
	logg      *logger.Logger
}

// NewService constructs a staff service instance.
func NewService(repo *Repository, jwtConfig config.JWTConfig, pinConfig config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("staff repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		jwtConfig: jwtConfig,
		pinConfig: pinConfig,
		logg:      logg,
	}, nil
}

// Login verifies the PIN and issues a register token. Lookup failures and
// bad PINs return the same unauthorized error.
func (s *service) Login(ctx context.Context, email, pin string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || pin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and pin required")
	}

	member, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff member")
	}
	if !member.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPIN(pin, member.PINHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify pin")
	}
	if !ok {
		ctx = s.logg.WithStaffID(ctx, member.ID.String())
		s.logg.Warn(ctx, "failed login attempt")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.IssueToken(s.jwtConfig, member.ID, member.Name, member.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue token")
	}

	ctx = s.logg.WithStaffID(ctx, member.ID.String())
	s.logg.Info(ctx, "staff logged in")
	return &LoginResult{Token: token, Staff: newStaffDTO(member)}, nil
}

func (s *service) CreateStaff(ctx context.Context, input CreateStaffInput) (*StaffDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if err := validatePIN(input.PIN); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = enums.StaffRoleCashier
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	count, err := s.repo.CountByEmail(ctx, email, uuid.Nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email uniqueness")
	}
	if count > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
	}

	hash, err := security.HashPIN(input.PIN, s.pinConfig)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
	}

	member := &models.Staff{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		PINHash:  hash,
		Role:     role,
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, member)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create staff member")
	}

	dto := newStaffDTO(created)
	return &dto, nil
}

func (s *service) UpdateStaff(ctx context.Context, staffID uuid.UUID, input UpdateStaffInput) (*StaffDTO, error) {
	member, err := s.loadMember(ctx, staffID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		member.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		count, err := s.repo.CountByEmail(ctx, email, staffID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email uniqueness")
		}
		if count > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		member.Email = email
	}
	if input.PIN != nil {
		if err := validatePIN(*input.PIN); err != nil {
			return nil, err
		}
		hash, err := security.HashPIN(*input.PIN, s.pinConfig)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
		}
		member.PINHash = hash
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		member.Role = *input.Role
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, member)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update staff member")
	}

	dto := newStaffDTO(updated)
	return &dto, nil
}

func (s *service) GetStaff(ctx context.Context, staffID uuid.UUID) (*StaffDTO, error) {
	member, err := s.loadMember(ctx, staffID)
	if err != nil {
		return nil, err
	}
	dto := newStaffDTO(member)
	return &dto, nil
}

func (s *service) ListStaff(ctx context.Context) ([]StaffDTO, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	dtos := make([]StaffDTO, len(members))
	for i := range members {
		dtos[i] = newStaffDTO(&members[i])
	}
	return dtos, nil
}

func (s *service) loadMember(ctx context.Context, staffID uuid.UUID) (*models.Staff, error) {
	if staffID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	member, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff member")
	}
	return member, nil
}

func newStaffDTO(member *models.Staff) StaffDTO {
	return StaffDTO{
		ID:        member.ID,
		Name:      member.Name,
		Email:     member.Email,
		Role:      member.Role.String(),
		IsActive:  member.IsActive,
		CreatedAt: member.CreatedAt,
	}
}

func validatePIN(pin string) error {
	if len(pin) < 4 {
		return pkgerrors.New(pkgerrors.CodeValidation, "pin must be at least 4 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return pkgerrors.New(pkgerrors.CodeValidation, "pin must be numeric")
		}
	}
	return nil
}
