package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/clock"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/observability"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/server"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
