package domain

import "context"

// Service loads reseller billing facts from the warehouse views. Loaders
// return a *SourceError on failure; the caller decides whether to fall back
// to sample data.
type Service interface {
	Usage(ctx context.Context, q UsageQuery) ([]UsageRow, error)
	Balances(ctx context.Context, q BalanceQuery) ([]BalanceRow, error)
	Contracts(ctx context.Context, q ContractQuery) ([]ContractRow, error)
	Customers(ctx context.Context) ([]string, error)
}
