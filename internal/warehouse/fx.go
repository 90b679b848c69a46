package warehouse

import (
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/fallback"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/service"
	"go.uber.org/fx"
)

var Module = fx.Module("warehouse.service",
	fx.Provide(
		service.NewService,
		fallback.NewLoader,
	),
)
