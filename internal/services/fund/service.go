// Package fund implements the normalized fund data pipeline: batch
// valuation fetch with a single-slot snapshot cache, detail assembly, and
// period-filtered history.
package fund

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/fundwatch/internal/classify"
	"github.com/bobmcallan/fundwatch/internal/clients/eastmoney"
	"github.com/bobmcallan/fundwatch/internal/common"
	"github.com/bobmcallan/fundwatch/internal/interfaces"
	"github.com/bobmcallan/fundwatch/internal/metrics"
	"github.com/bobmcallan/fundwatch/internal/models"
)

// batchConcurrency bounds the number of in-flight upstream requests during
// a universe sweep.
const batchConcurrency = 8

var (
	// ErrInvalidCode signals a request for a malformed fund code.
	ErrInvalidCode = errors.New("invalid fund code")

	// ErrUniverseUnavailable signals that a full tracked-universe sweep
	// resolved nothing at all. Individual fund failures degrade silently;
	// only a total failure is surfaced so the caller can offer a retry.
	ErrUniverseUnavailable = errors.New("tracked fund universe unavailable")
)

// typeLabels are the display tags attached per inferred fund type.
var typeLabels = map[models.TypeTag]string{
	models.TypeStock: "股票型",
	models.TypeBond:  "债券型",
	models.TypeMixed: "混合型",
	models.TypeIndex: "指数型",
}

// Service implements FundService over the three upstream adapters.
type Service struct {
	valuation interfaces.ValuationClient
	history   interfaces.HistoryClient
	fundInfo  interfaces.FundInfoClient
	positions interfaces.PositionStore // may be nil; position-relative fields are skipped
	tracked   []string
	logger    *common.Logger
	cache     *snapshotCache
	fetchMu   sync.Mutex // collapses concurrent cache misses into one sweep
	now       func() time.Time

	// per-code caches for the slow endpoints; the valuation snapshot has
	// its own single-slot cache above
	histMu    sync.Mutex
	histCache map[string]historyEntry
	infoMu    sync.Mutex
	infoCache map[string]staticEntry
}

type historyEntry struct {
	points  []models.HistoricalPoint
	fetched time.Time
}

type staticEntry struct {
	info    *models.StaticInfo
	fetched time.Time
}

// NewService creates a fund service over the given adapters.
// positions may be nil when no position store is wired.
func NewService(
	valuation interfaces.ValuationClient,
	history interfaces.HistoryClient,
	fundInfo interfaces.FundInfoClient,
	positions interfaces.PositionStore,
	tracked []string,
	cacheWindow time.Duration,
	logger *common.Logger,
) *Service {
	return &Service{
		valuation: valuation,
		history:   history,
		fundInfo:  fundInfo,
		positions: positions,
		tracked:   tracked,
		logger:    logger,
		cache:     newSnapshotCache(cacheWindow),
		now:       time.Now,
		histCache: make(map[string]historyEntry),
		infoCache: make(map[string]staticEntry),
	}
}

// ListTracked returns one page of the tracked-fund universe. The universe
// is fetched at most once per cache window; pagination runs against the
// cached snapshot.
func (s *Service) ListTracked(ctx context.Context, page, pageSize int) (*models.FundPage, error) {
	list, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	items, meta := models.Paginate(list, page, pageSize)
	return &models.FundPage{List: items, PageMeta: meta}, nil
}

// Search filters the tracked universe snapshot by code or name substring.
// An empty keyword returns the full snapshot.
func (s *Service) Search(ctx context.Context, keyword string) ([]models.FundListItem, error) {
	list, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return list, nil
	}

	matched := make([]models.FundListItem, 0, len(list))
	for _, item := range list {
		if strings.Contains(item.Code, keyword) || strings.Contains(item.Name, keyword) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// BatchValuations fetches valuations for arbitrary codes concurrently.
// The result is keyed by code; codes that could not be resolved are
// omitted rather than reported as errors.
func (s *Service) BatchValuations(ctx context.Context, codes []string) (map[string]models.RealTimeValuation, error) {
	results := make(map[string]models.RealTimeValuation, len(codes))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, code := range codes {
		code := code
		if !models.ValidFundCode(code) {
			s.logger.Warn().Str("code", code).Msg("Skipping malformed fund code in batch")
			continue
		}
		g.Go(func() error {
			valuation, err := s.valuation.GetValuation(gctx, code)
			if err != nil {
				s.logger.Warn().Err(err).Str("code", code).Msg("Valuation fetch failed")
				return nil // degrade, never fail the batch
			}
			mu.Lock()
			results[code] = *valuation
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetDetail assembles the full detail record for one fund. Each upstream
// contribution is best-effort: a failed valuation, static-info, or history
// fetch leaves its fields unset rather than failing the record.
func (s *Service) GetDetail(ctx context.Context, code string, period models.ChartPeriod) (*models.FundDetailRecord, error) {
	if !models.ValidFundCode(code) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	if !period.Valid() {
		period = models.PeriodAll
	}

	record := &models.FundDetailRecord{
		Code:      code,
		ChartData: []models.HistoricalPoint{},
	}

	valuation, err := s.valuation.GetValuation(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("Valuation fetch failed for detail")
	} else {
		record.Name = valuation.Name
		record.CurrentValue = valuation
	}

	if info := s.loadStaticInfo(ctx, code); info != nil {
		record.Manager = info.Manager
		record.Scale = info.Scale
		record.EstablishDate = info.EstablishDate
	}

	record.ChartData = eastmoney.FilterPeriod(s.loadHistory(ctx, code), period)

	record.Type = classify.FundType(record.Name)
	record.Company = classify.CompanyName(record.Name)
	record.RiskLevel = classify.RiskLevel(record.Type, record.Name)
	record.PerformanceMetrics = metrics.Compute(record.ChartData)

	return record, nil
}

// GetHistory returns the period-filtered NAV series for one fund.
func (s *Service) GetHistory(ctx context.Context, code string, period models.ChartPeriod) ([]models.HistoricalPoint, error) {
	if !models.ValidFundCode(code) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	if !period.Valid() {
		period = models.PeriodAll
	}

	return eastmoney.FilterPeriod(s.loadHistory(ctx, code), period), nil
}

// loadHistory returns the full NAV series for a code, re-fetching only
// when the cached series has gone stale. Failures degrade to whatever is
// cached, or an empty series.
func (s *Service) loadHistory(ctx context.Context, code string) []models.HistoricalPoint {
	s.histMu.Lock()
	defer s.histMu.Unlock()

	entry, ok := s.histCache[code]
	if ok && common.IsFresh(entry.fetched, common.FreshnessHistory) {
		return entry.points
	}

	points, err := s.history.GetHistory(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("History fetch failed")
		if ok {
			return entry.points // stale beats empty
		}
		return []models.HistoricalPoint{}
	}

	s.histCache[code] = historyEntry{points: points, fetched: s.now()}
	return points
}

// loadStaticInfo returns the best-effort static facts for a code, cached
// for a day. nil means nothing could be resolved.
func (s *Service) loadStaticInfo(ctx context.Context, code string) *models.StaticInfo {
	s.infoMu.Lock()
	defer s.infoMu.Unlock()

	entry, ok := s.infoCache[code]
	if ok && common.IsFresh(entry.fetched, common.FreshnessStaticInfo) {
		return entry.info
	}

	info, err := s.fundInfo.GetFundInfo(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("Static info fetch failed")
		if ok {
			return entry.info
		}
		return nil
	}

	s.infoCache[code] = staticEntry{info: info, fetched: s.now()}
	return info
}

// RefreshTracked forces a fresh universe sweep, replacing the cached
// snapshot. Used by the background scheduler.
func (s *Service) RefreshTracked(ctx context.Context) error {
	list, err := s.fetchUniverse(ctx)
	if err != nil {
		return err
	}
	s.cache.populate(list)
	return nil
}

// snapshot returns the cached universe list, running at most one upstream
// sweep per cache window regardless of concurrent callers.
func (s *Service) snapshot(ctx context.Context) ([]models.FundListItem, error) {
	if list := s.cache.get(); list != nil {
		return list, nil
	}

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	// A concurrent caller may have populated the slot while we waited.
	if list := s.cache.get(); list != nil {
		return list, nil
	}

	list, err := s.fetchUniverse(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.populate(list)
	return list, nil
}

// fetchUniverse sweeps the tracked codes concurrently and normalizes the
// results into list items in tracked-universe order. Individual failures
// leave gaps; only a sweep that resolves nothing at all is an error.
func (s *Service) fetchUniverse(ctx context.Context) ([]models.FundListItem, error) {
	valuations, err := s.BatchValuations(ctx, s.tracked)
	if err != nil {
		return nil, err
	}
	if len(valuations) == 0 && len(s.tracked) > 0 {
		return nil, ErrUniverseUnavailable
	}

	positions := s.positionsByCode(ctx)

	list := make([]models.FundListItem, 0, len(valuations))
	for _, code := range s.tracked {
		valuation, ok := valuations[code]
		if !ok {
			continue
		}
		item := s.buildListItem(valuation)
		if position, held := positions[code]; held {
			s.applyPosition(&item, position, valuation)
		}
		list = append(list, item)
	}

	s.logger.Info().
		Int("tracked", len(s.tracked)).
		Int("resolved", len(list)).
		Msg("Tracked universe refreshed")

	return list, nil
}

// buildListItem normalizes one valuation into its display record.
func (s *Service) buildListItem(valuation models.RealTimeValuation) models.FundListItem {
	typeTag := classify.FundType(valuation.Name)

	item := models.FundListItem{
		Code:                   valuation.Code,
		Name:                   valuation.Name,
		Type:                   typeTag,
		UnitValue:              valuation.UnitNav,
		EstimateValue:          valuation.EstimateNav,
		EstimateChangeFraction: valuation.EstimateChangeFraction,
		EstimateTime:           valuation.EstimateTime,
	}
	if label, ok := typeLabels[typeTag]; ok {
		item.Tags = append(item.Tags, label)
	}
	return item
}

// applyPosition fills the position-relative fields on a held fund's item.
func (s *Service) applyPosition(item *models.FundListItem, position models.FundPosition, valuation models.RealTimeValuation) {
	combined := position
	combined.ApplyValuation(valuation.BestNav())

	rate := combined.ProfitRate
	item.ReturnAfterAddition = &rate
	item.Tags = append(item.Tags, "持有")

	if buyDate, err := time.Parse("2006-01-02", position.BuyDate); err == nil {
		days := int(s.now().Sub(buyDate).Hours() / 24)
		if days >= 0 {
			item.DurationDays = days
		}
	}
}

// positionsByCode loads stored positions keyed by fund code. A missing or
// failing store degrades to no position enrichment.
func (s *Service) positionsByCode(ctx context.Context) map[string]models.FundPosition {
	if s.positions == nil {
		return nil
	}
	stored, err := s.positions.GetPositions(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Position load failed; list items carry no holding fields")
		return nil
	}

	byCode := make(map[string]models.FundPosition, len(stored))
	for _, p := range stored {
		byCode[p.FundCode] = p
	}
	return byCode
}

// Ensure Service implements the FundService interface
var _ interfaces.FundService = (*Service)(nil)
