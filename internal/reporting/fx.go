package reporting

import (
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/reporting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reporting.service",
	fx.Provide(service.NewService),
)
