package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/waselhq/wasel/internal/clock"
	"github.com/waselhq/wasel/internal/config"
	"github.com/waselhq/wasel/internal/logger"
	"github.com/waselhq/wasel/internal/migration"
	"github.com/waselhq/wasel/internal/observability"
	"github.com/waselhq/wasel/internal/order"
	"github.com/waselhq/wasel/internal/points"
	"github.com/waselhq/wasel/internal/scheduler"
	"github.com/waselhq/wasel/internal/server"
	"github.com/waselhq/wasel/internal/settlement"
	"github.com/waselhq/wasel/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		points.Module,
		settlement.Module,
		order.Module,
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
