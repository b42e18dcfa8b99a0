package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/frostline/crm/internal/clock"
	"github.com/frostline/crm/internal/config"
	"github.com/frostline/crm/internal/logger"
	"github.com/frostline/crm/internal/migration"
	"github.com/frostline/crm/internal/scheduler"
	"github.com/frostline/crm/internal/server"
	"github.com/frostline/crm/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		scheduler.Module,
		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
