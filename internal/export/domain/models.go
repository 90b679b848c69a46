package domain

import (
	"context"
	"time"

	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

// Request scopes a table export.
type Request struct {
	Start      time.Time
	End        time.Time
	Customer   string
	UsageTypes []string
}

// Export is a rendered CSV payload. Data is nil when the table was empty.
type Export struct {
	Filename string
	Source   warehousedomain.Source
	Data     []byte
}

// Service renders warehouse tables as CSV downloads.
type Service interface {
	Usage(ctx context.Context, req Request) (Export, error)
	Balances(ctx context.Context, req Request) (Export, error)
	Contracts(ctx context.Context, req Request) (Export, error)
}
