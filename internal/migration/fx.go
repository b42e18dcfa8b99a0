package migration

import (
	activitydomain "github.com/frostline/crm/internal/activity/domain"
	"github.com/frostline/crm/internal/config"
	customerdomain "github.com/frostline/crm/internal/customer/domain"
	employeedomain "github.com/frostline/crm/internal/employee/domain"
	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
	leaddomain "github.com/frostline/crm/internal/lead/domain"
	projectdomain "github.com/frostline/crm/internal/project/domain"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"github.com/frostline/crm/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql setups (local dev, tests) build the schema
			// from the models directly
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		return seed.EnsureAdminEmployee(conn, cfg)
	}),
)

// AutoMigrate creates the schema from the gorm models.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&employeedomain.Employee{},
		&customerdomain.Customer{},
		&leaddomain.Lead{},
		&projectdomain.Project{},
		&activitydomain.ProjectActivity{},
		&quotationdomain.Quotation{},
		&quotationdomain.QuotationItem{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.Payment{},
	)
}
