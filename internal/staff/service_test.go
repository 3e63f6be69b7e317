package staff

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tavolopos/tavolo-backend/pkg/auth"
	"github.com/tavolopos/tavolo-backend/pkg/config"
	"github.com/tavolopos/tavolo-backend/pkg/enums"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "tavolo-pos",
	ExpirationMinutes: 60,
}

// low-cost argon parameters keep the suite fast
var testPIN = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func newTestService(t *testing.T) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(NewRepository(openTestDB(t)), testJWT, testPIN, logg)
	require.NoError(t, err)
	return svc
}

func TestCreateStaffAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, CreateStaffInput{
		Name:  "Ada",
		Email: "Ada@Example.com",
		PIN:   "4321",
		Role:  enums.StaffRoleManager,
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", created.Email)
	require.Equal(t, "manager", created.Role)
	require.True(t, created.IsActive)

	result, err := svc.Login(ctx, "ada@example.com", "4321")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, created.ID, result.Staff.ID)

	claims, err := auth.ParseToken(testJWT, result.Token)
	require.NoError(t, err)
	require.Equal(t, created.ID, claims.StaffID)
	require.Equal(t, enums.StaffRoleManager, claims.Role)
}

func TestLoginWrongPIN(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, CreateStaffInput{Name: "Ada", Email: "ada@example.com", PIN: "4321"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "0000")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLoginUnknownEmailMatchesWrongPIN(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "4321")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
	require.Equal(t, "invalid credentials", appErr.Message())
}

func TestLoginInactiveStaff(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, CreateStaffInput{Name: "Ada", Email: "ada@example.com", PIN: "4321"})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateStaff(ctx, created.ID, UpdateStaffInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "4321")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestCreateStaffValidatesPIN(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var appErr *pkgerrors.Error

	_, err := svc.CreateStaff(ctx, CreateStaffInput{Name: "Ada", Email: "a@example.com", PIN: "12"})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.CreateStaff(ctx, CreateStaffInput{Name: "Ada", Email: "a@example.com", PIN: "12ab"})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, CreateStaffInput{Name: "Ada", Email: "ada@example.com", PIN: "4321"})
	require.NoError(t, err)

	_, err = svc.CreateStaff(ctx, CreateStaffInput{Name: "Other", Email: "ADA@example.com", PIN: "9999"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestUpdateStaffRotatesPIN(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, CreateStaffInput{Name: "Ada", Email: "ada@example.com", PIN: "4321"})
	require.NoError(t, err)

	newPIN := "8765"
	_, err = svc.UpdateStaff(ctx, created.ID, UpdateStaffInput{PIN: &newPIN})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "4321")
	require.Error(t, err)

	result, err := svc.Login(ctx, "ada@example.com", "8765")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
}
