package service

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/frostline/crm/internal/employee/domain"
	"github.com/frostline/crm/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	}).(*Service)
}

func TestCreate_NormalizesEmailAndDefaultsRole(t *testing.T) {
	svc := newTestService(t)

	employee, err := svc.Create(context.Background(), domain.CreateEmployeeRequest{
		Name:  "Ravi Kumar",
		Email: "  Ravi.Kumar@Example.COM ",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi.kumar@example.com", employee.Email)
	assert.Equal(t, domain.RoleSales, employee.Role)
	assert.True(t, employee.Active)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateEmployeeRequest{Name: "Ravi", Email: "ravi@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateEmployeeRequest{Name: "Other Ravi", Email: "RAVI@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateEmployeeRequest{
		Name:  "Ravi",
		Email: "ravi@example.com",
		Role:  domain.Role("janitor"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestDeactivate_RemovesFromActiveList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	employee, err := svc.Create(ctx, domain.CreateEmployeeRequest{Name: "Ravi", Email: "ravi@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, employee.ID.String()))

	reloaded, err := svc.GetByID(ctx, domain.GetEmployeeRequest{ID: employee.ID.String()})
	require.NoError(t, err)
	assert.False(t, reloaded.Active)

	active := true
	list, err := svc.List(ctx, domain.ListEmployeeRequest{Active: &active})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetByEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateEmployeeRequest{Name: "Ravi", Email: "ravi@example.com"})
	require.NoError(t, err)

	found, err := svc.GetByEmail(ctx, "Ravi@Example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
