package quotation

import (
	"github.com/frostline/crm/internal/quotation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quotation.service",
	fx.Provide(service.New),
)
