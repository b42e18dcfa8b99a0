package activity

import (
	"github.com/frostline/crm/internal/activity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.service",
	fx.Provide(service.New),
)
