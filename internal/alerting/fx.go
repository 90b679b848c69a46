package alerting

import (
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/alerting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alerting.service",
	fx.Provide(service.NewService),
)
