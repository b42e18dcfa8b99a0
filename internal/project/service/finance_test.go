package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	activityservice "github.com/frostline/crm/internal/activity/service"
	"github.com/frostline/crm/internal/clock"
	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
	"github.com/frostline/crm/internal/migration"
	"github.com/frostline/crm/internal/project/domain"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	logger := zap.NewNop()
	activitySvc := activityservice.New(activityservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
	})

	svc := New(Params{
		DB:          db,
		Log:         logger,
		GenID:       node,
		ActivitySvc: activitySvc,
	}).(*Service)

	return svc, db, node
}

func seedQuotation(t *testing.T, db *gorm.DB, node *snowflake.Node, projectID snowflake.ID, status quotationdomain.QuotationStatus, total string) {
	t.Helper()
	amount := decimal.RequireFromString(total)
	row := quotationdomain.Quotation{
		ID:              node.Generate(),
		QuoteNumber:     "QT-2025-" + node.Generate().String()[:5],
		Version:         "v1",
		IsLatestVersion: true,
		CustomerID:      node.Generate(),
		ProjectID:       &projectID,
		CreatedBy:       node.Generate(),
		Title:           "seed",
		Status:          status,
		Subtotal:        amount,
		TotalAmount:     amount,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, db.Create(&row).Error)
}

func seedInvoice(t *testing.T, db *gorm.DB, node *snowflake.Node, projectID snowflake.ID, status invoicedomain.InvoiceStatus, total, paid string) snowflake.ID {
	t.Helper()
	amount := decimal.RequireFromString(total)
	paidAmount := decimal.RequireFromString(paid)
	row := invoicedomain.Invoice{
		ID:            node.Generate(),
		InvoiceNumber: "INV-2025-" + node.Generate().String(),
		InvoiceType:   invoicedomain.InvoiceTypeFull,
		CustomerID:    node.Generate(),
		ProjectID:     &projectID,
		Status:        status,
		Subtotal:      amount,
		TotalAmount:   amount,
		AmountPaid:    paidAmount,
		BalanceDue:    amount.Sub(paidAmount),
		CreatedBy:     node.Generate(),
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(&row).Error)

	if paidAmount.IsPositive() {
		payment := invoicedomain.Payment{
			ID:         node.Generate(),
			InvoiceID:  row.ID,
			Amount:     paidAmount,
			RecordedBy: node.Generate(),
			PaidAt:     time.Now().UTC(),
			CreatedAt:  time.Now().UTC(),
		}
		require.NoError(t, db.Create(&payment).Error)
	}
	return row.ID
}

func createProject(t *testing.T, svc *Service, node *snowflake.Node, budget string) domain.Project {
	t.Helper()
	project, err := svc.Create(context.Background(), domain.CreateProjectRequest{
		CustomerID: node.Generate().String(),
		Name:       "Office retrofit",
		Budget:     decimal.RequireFromString(budget),
		ActorID:    node.Generate().String(),
	})
	require.NoError(t, err)
	return project
}

func TestFinance_RollsUpDocumentsAndPayments(t *testing.T) {
	svc, db, node := newTestService(t)

	project := createProject(t, svc, node, "3000")

	seedQuotation(t, db, node, project.ID, quotationdomain.StatusSent, "2124")
	seedQuotation(t, db, node, project.ID, quotationdomain.StatusApproved, "1000")
	seedQuotation(t, db, node, project.ID, quotationdomain.StatusRejected, "500")

	seedInvoice(t, db, node, project.ID, invoicedomain.InvoiceStatusSent, "1000", "400")
	seedInvoice(t, db, node, project.ID, invoicedomain.InvoiceStatusPaid, "2124", "2124")

	summary, err := svc.Finance(context.Background(), project.ID.String())
	require.NoError(t, err)

	assert.True(t, summary.TotalQuoted.Equal(decimal.RequireFromString("3624")), "quoted %s", summary.TotalQuoted)
	assert.True(t, summary.OutstandingQuotes.Equal(decimal.RequireFromString("2124")), "outstanding quotes %s", summary.OutstandingQuotes)
	assert.True(t, summary.TotalInvoiced.Equal(decimal.RequireFromString("3124")), "invoiced %s", summary.TotalInvoiced)
	assert.True(t, summary.TotalReceived.Equal(decimal.RequireFromString("2524")), "received %s", summary.TotalReceived)
	assert.True(t, summary.OutstandingInvoices.Equal(decimal.RequireFromString("600")), "outstanding invoices %s", summary.OutstandingInvoices)

	// margin = (received - budget) / received * 100
	require.NotNil(t, summary.ProfitMargin)
	want := decimal.RequireFromString("2524").Sub(decimal.RequireFromString("3000")).
		Div(decimal.RequireFromString("2524")).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	assert.True(t, summary.ProfitMargin.Equal(want), "margin %s", summary.ProfitMargin)
}

func TestFinance_NoReceiptsMeansNoMargin(t *testing.T) {
	svc, db, node := newTestService(t)

	project := createProject(t, svc, node, "3000")
	seedQuotation(t, db, node, project.ID, quotationdomain.StatusDraft, "1500")

	summary, err := svc.Finance(context.Background(), project.ID.String())
	require.NoError(t, err)

	assert.True(t, summary.TotalQuoted.Equal(decimal.RequireFromString("1500")))
	assert.True(t, summary.TotalReceived.IsZero())
	assert.Nil(t, summary.ProfitMargin)
}

func TestFinance_UnknownProject(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.Finance(context.Background(), node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
