package contract

import (
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contract.service",
	fx.Provide(service.NewService),
)
