package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/frostline/crm/internal/activity"
	activitydomain "github.com/frostline/crm/internal/activity/domain"
	"github.com/frostline/crm/internal/config"
	"github.com/frostline/crm/internal/customer"
	customerdomain "github.com/frostline/crm/internal/customer/domain"
	"github.com/frostline/crm/internal/employee"
	employeedomain "github.com/frostline/crm/internal/employee/domain"
	"github.com/frostline/crm/internal/invoice"
	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
	"github.com/frostline/crm/internal/lead"
	leaddomain "github.com/frostline/crm/internal/lead/domain"
	"github.com/frostline/crm/internal/project"
	projectdomain "github.com/frostline/crm/internal/project/domain"
	"github.com/frostline/crm/internal/quotation"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	activity.Module,
	customer.Module,
	employee.Module,
	lead.Module,
	project.Module,
	quotation.Module,
	invoice.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type ServerParams struct {
	fx.In

	Log          *zap.Logger
	ActivitySvc  activitydomain.Service
	CustomerSvc  customerdomain.Service
	EmployeeSvc  employeedomain.Service
	LeadSvc      leaddomain.Service
	ProjectSvc   projectdomain.Service
	QuotationSvc quotationdomain.Service
	InvoiceSvc   invoicedomain.Service
}

type Server struct {
	log          *zap.Logger
	activitySvc  activitydomain.Service
	customerSvc  customerdomain.Service
	employeeSvc  employeedomain.Service
	leadSvc      leaddomain.Service
	projectSvc   projectdomain.Service
	quotationSvc quotationdomain.Service
	invoiceSvc   invoicedomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		log:          p.Log.Named("http.server"),
		activitySvc:  p.ActivitySvc,
		customerSvc:  p.CustomerSvc,
		employeeSvc:  p.EmployeeSvc,
		leadSvc:      p.LeadSvc,
		projectSvc:   p.ProjectSvc,
		quotationSvc: p.QuotationSvc,
		invoiceSvc:   p.InvoiceSvc,
	}
}

func registerRoutes(r *gin.Engine, s *Server) {
	s.RegisterAPIRoutes(r)
}

// RegisterAPIRoutes mounts the JSON API under /api/v1.
func (s *Server) RegisterAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	quotations := api.Group("/quotations")
	quotations.POST("", s.CreateQuotation)
	quotations.GET("", s.ListQuotations)
	quotations.GET("/:id", s.GetQuotation)
	quotations.POST("/:id/status", s.UpdateQuotationStatus)
	quotations.POST("/:id/versions", s.CreateQuotationVersion)
	quotations.POST("/:id/convert", s.ConvertQuotation)

	customers := api.Group("/customers")
	customers.POST("", s.CreateCustomer)
	customers.GET("", s.ListCustomers)
	customers.GET("/:id", s.GetCustomerByID)
	customers.PATCH("/:id", s.UpdateCustomer)

	leads := api.Group("/leads")
	leads.POST("", s.CreateLead)
	leads.GET("", s.ListLeads)
	leads.GET("/:id", s.GetLead)
	leads.POST("/:id/status", s.UpdateLeadStatus)
	leads.POST("/:id/convert", s.ConvertLead)

	projects := api.Group("/projects")
	projects.POST("", s.CreateProject)
	projects.GET("", s.ListProjects)
	projects.GET("/:id", s.GetProject)
	projects.PATCH("/:id", s.UpdateProject)
	projects.GET("/:id/finance", s.GetProjectFinance)
	projects.GET("/:id/activities", s.ListProjectActivities)

	invoices := api.Group("/invoices")
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoice)
	invoices.POST("/:id/status", s.UpdateInvoiceStatus)
	invoices.POST("/:id/payments", s.RecordPayment)

	employees := api.Group("/employees")
	employees.POST("", s.CreateEmployee)
	employees.GET("", s.ListEmployees)
	employees.GET("/:id", s.GetEmployee)
	employees.DELETE("/:id", s.DeactivateEmployee)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", srv.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
