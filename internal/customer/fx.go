package customer

import (
	"github.com/frostline/crm/internal/customer/repository"
	"github.com/frostline/crm/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
