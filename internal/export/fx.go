package export

import (
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/export/service"
	"go.uber.org/fx"
)

var Module = fx.Module("export.service",
	fx.Provide(service.NewService),
)
