package service

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	customerdomain "github.com/frostline/crm/internal/customer/domain"
	customerrepository "github.com/frostline/crm/internal/customer/repository"
	customerservice "github.com/frostline/crm/internal/customer/service"
	"github.com/frostline/crm/internal/lead/domain"
	"github.com/frostline/crm/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, customerdomain.Service, *snowflake.Node) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)

	logger := zap.NewNop()
	customerSvc := customerservice.New(customerservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Repo:  customerrepository.Provide(),
	})

	svc := New(Params{
		DB:          db,
		Log:         logger,
		GenID:       node,
		CustomerSvc: customerSvc,
	}).(*Service)

	return svc, customerSvc, node
}

func createLead(t *testing.T, svc *Service, email string) domain.Lead {
	t.Helper()
	lead, err := svc.Create(context.Background(), domain.CreateLeadRequest{
		Name:        "Asha Pillai",
		Phone:       "9876501234",
		Email:       email,
		Source:      "referral",
		Requirement: "3 ton ducted unit for shop floor",
	})
	require.NoError(t, err)
	return lead
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateLeadRequest{Phone: "9876501234"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(context.Background(), domain.CreateLeadRequest{Name: "Asha Pillai"})
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)
}

func TestConvert_QualifiedLeadBecomesCustomer(t *testing.T) {
	svc, customerSvc, _ := newTestService(t)
	ctx := context.Background()

	lead := createLead(t, svc, "asha@example.com")

	_, err := svc.Convert(ctx, domain.ConvertLeadRequest{ID: lead.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotQualified)

	_, err = svc.UpdateStatus(ctx, domain.UpdateLeadStatusRequest{
		ID:     lead.ID.String(),
		Status: domain.LeadStatusQualified,
	})
	require.NoError(t, err)

	converted, err := svc.Convert(ctx, domain.ConvertLeadRequest{ID: lead.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusConverted, converted.Status)
	require.NotNil(t, converted.CustomerID)

	customer, err := customerSvc.GetByID(ctx, customerdomain.GetCustomerRequest{ID: converted.CustomerID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Asha Pillai", customer.Name)
	assert.Equal(t, "asha@example.com", customer.Email)

	// converting twice would duplicate the customer
	_, err = svc.Convert(ctx, domain.ConvertLeadRequest{ID: lead.ID.String()})
	assert.ErrorIs(t, err, domain.ErrAlreadyConverted)
}

func TestConvert_SynthesizesEmailFromPhone(t *testing.T) {
	svc, customerSvc, _ := newTestService(t)
	ctx := context.Background()

	lead := createLead(t, svc, "")
	_, err := svc.UpdateStatus(ctx, domain.UpdateLeadStatusRequest{
		ID:     lead.ID.String(),
		Status: domain.LeadStatusQualified,
	})
	require.NoError(t, err)

	converted, err := svc.Convert(ctx, domain.ConvertLeadRequest{ID: lead.ID.String()})
	require.NoError(t, err)

	customer, err := customerSvc.GetByID(ctx, customerdomain.GetCustomerRequest{ID: converted.CustomerID.String()})
	require.NoError(t, err)
	assert.Equal(t, "9876501234@leads.local", customer.Email)
}

func TestUpdateStatus_CannotSetConvertedDirectly(t *testing.T) {
	svc, _, _ := newTestService(t)

	lead := createLead(t, svc, "")
	_, err := svc.UpdateStatus(context.Background(), domain.UpdateLeadStatusRequest{
		ID:     lead.ID.String(),
		Status: domain.LeadStatusConverted,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
