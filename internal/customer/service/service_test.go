package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/frostline/crm/internal/customer/domain"
	"github.com/frostline/crm/internal/customer/repository"
	"github.com/frostline/crm/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(6)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	}).(*Service)
}

func TestCreate_RoundTrips(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Meridian Hotels",
		Email: "facilities@meridian.example",
		Phone: "044-2811-0000",
		City:  "Chennai",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, created.Email, fetched.Email)
	assert.Equal(t, "Chennai", fetched.City)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Email: "a@b.example"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "No Email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Bad Email", Email: "nonsense"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Meridian Hotels",
		Email: "facilities@meridian.example",
		Phone: "044-2811-0000",
		City:  "Chennai",
	})
	require.NoError(t, err)

	newPhone := "044-2811-9999"
	updated, err := svc.Update(ctx, domain.UpdateCustomerRequest{
		ID:    created.ID.String(),
		Phone: &newPhone,
	})
	require.NoError(t, err)
	assert.Equal(t, newPhone, updated.Phone)
	assert.Equal(t, "Chennai", updated.City)
	assert.Equal(t, created.Email, updated.Email)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByID(context.Background(), domain.GetCustomerRequest{ID: "987654321"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), domain.GetCustomerRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestList_CursorPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{
			Name:  fmt.Sprintf("Customer %02d", i),
			Email: fmt.Sprintf("c%02d@example.com", i),
		})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, first.Customers, 2)
	assert.True(t, first.HasMore)
	assert.NotEmpty(t, first.NextPageToken)

	all, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, all.Customers, 5)
	assert.False(t, all.HasMore)
}

func TestList_CursorWalksAllPages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Seed through the repository with fixed whole-second timestamps,
	// including a shared one so the id tie-break is exercised.
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	stamps := []time.Time{base, base, base.Add(-time.Minute), base.Add(-2 * time.Minute), base.Add(-2 * time.Minute)}
	for i, stamp := range stamps {
		customer := domain.Customer{
			ID:        svc.genID.Generate(),
			Name:      fmt.Sprintf("Customer %02d", i),
			Email:     fmt.Sprintf("c%02d@example.com", i),
			Metadata:  datatypes.JSONMap{},
			CreatedAt: stamp,
			UpdatedAt: stamp,
		}
		require.NoError(t, svc.repo.Insert(ctx, svc.db, &customer))
	}

	seen := map[string]int{}
	token := ""
	pages := 0
	for {
		resp, err := svc.List(ctx, domain.ListCustomerRequest{PageToken: token, PageSize: 2})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Customers)
		for _, c := range resp.Customers {
			seen[c.ID.String()]++
		}
		pages++
		require.LessOrEqual(t, pages, 5, "pagination did not terminate")
		if !resp.HasMore {
			break
		}
		token = resp.NextPageToken
	}

	assert.Equal(t, 3, pages)
	require.Len(t, seen, 5)
	for id, n := range seen {
		assert.Equal(t, 1, n, "customer %s returned more than once", id)
	}
}

func TestList_RejectsMalformedPageToken(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.List(context.Background(), domain.ListCustomerRequest{PageToken: "not-a-token"})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
}

func TestList_FiltersByName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Alpha Traders", Email: "alpha@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Beta Mills", Email: "beta@example.com"})
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListCustomerRequest{Name: "Alpha"})
	require.NoError(t, err)
	require.Len(t, resp.Customers, 1)
	assert.Equal(t, "Alpha Traders", resp.Customers[0].Name)
}
