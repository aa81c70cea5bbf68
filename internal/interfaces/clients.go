// Package interfaces defines service contracts for Fundwatch
package interfaces

import (
	"context"

	"github.com/bobmcallan/fundwatch/internal/models"
)

// ValuationClient provides access to the real-time valuation endpoint.
type ValuationClient interface {
	// GetValuation retrieves the intraday estimate snapshot for one fund.
	GetValuation(ctx context.Context, code string) (*models.RealTimeValuation, error)
}

// HistoryClient provides access to the historical NAV endpoint.
type HistoryClient interface {
	// GetHistory retrieves the full NAV series, sorted ascending by date
	// and deduplicated. An empty slice (no error) means no data was found.
	GetHistory(ctx context.Context, code string) ([]models.HistoricalPoint, error)
}

// FundInfoClient provides access to the static fund detail endpoint.
type FundInfoClient interface {
	// GetFundInfo retrieves the best-effort scraped static facts.
	// Partial results are expected; nil is returned only when nothing
	// could be resolved.
	GetFundInfo(ctx context.Context, code string) (*models.StaticInfo, error)
}
