package runrate

import (
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/runrate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("runrate.service",
	fx.Provide(service.NewService),
)
