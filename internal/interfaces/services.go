package interfaces

import (
	"context"

	"github.com/bobmcallan/fundwatch/internal/models"
)

// FundService is the normalized fund data pipeline consumed by the API layer.
type FundService interface {
	// ListTracked returns one page of the tracked-fund universe. The full
	// universe is fetched at most once per cache window; pagination is
	// applied to the cached snapshot.
	ListTracked(ctx context.Context, page, pageSize int) (*models.FundPage, error)

	// Search filters the tracked universe snapshot by code or name
	// substring. An empty keyword returns the full snapshot.
	Search(ctx context.Context, keyword string) ([]models.FundListItem, error)

	// BatchValuations fetches valuations for arbitrary codes, returning a
	// map keyed by code. Codes that could not be resolved are omitted.
	BatchValuations(ctx context.Context, codes []string) (map[string]models.RealTimeValuation, error)

	// GetDetail assembles the full detail record for one fund, with the
	// chart filtered to the given period and metrics computed over it.
	GetDetail(ctx context.Context, code string, period models.ChartPeriod) (*models.FundDetailRecord, error)

	// GetHistory returns the period-filtered NAV series for one fund.
	GetHistory(ctx context.Context, code string, period models.ChartPeriod) ([]models.HistoricalPoint, error)

	// RefreshTracked forces a re-fetch of the tracked universe, replacing
	// the cached snapshot. Used by the background scheduler.
	RefreshTracked(ctx context.Context) error
}

// PositionService manages user fund positions and their computed returns.
type PositionService interface {
	// List returns all positions with derived valuation fields populated
	// from the current batch valuations.
	List(ctx context.Context) ([]models.FundPosition, error)

	// Add inserts a position, merging shares and cost into an existing
	// position for the same fund code.
	Add(ctx context.Context, position models.FundPosition) error

	// Update patches an existing position. Unknown codes are an error.
	Update(ctx context.Context, code string, shares, cost *float64, buyDate string) error

	// Delete removes the position for a fund code.
	Delete(ctx context.Context, code string) error

	// Clear removes all positions.
	Clear(ctx context.Context) error

	// Summary aggregates the valued position list.
	Summary(ctx context.Context) (*models.PositionSummary, error)
}
