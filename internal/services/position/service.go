// Package position manages user fund positions and their computed returns.
package position

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/fundwatch/internal/common"
	"github.com/bobmcallan/fundwatch/internal/interfaces"
	"github.com/bobmcallan/fundwatch/internal/models"
)

var (
	// ErrPositionNotFound signals an update against a code with no stored position.
	ErrPositionNotFound = errors.New("position not found")

	// ErrInvalidCode signals a malformed fund code.
	ErrInvalidCode = errors.New("invalid fund code")
)

// Service implements PositionService over a position store, valuing
// holdings through the fund service's batch valuation fetch.
type Service struct {
	store  interfaces.PositionStore
	funds  interfaces.FundService
	logger *common.Logger
}

// NewService creates a position service.
// funds may be nil — derived valuation fields are then left unset.
func NewService(store interfaces.PositionStore, funds interfaces.FundService, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		funds:  funds,
		logger: logger,
	}
}

// List returns all positions with derived fields populated from the current
// batch valuations. A failed valuation leaves that position's derived
// fields zero rather than failing the list.
func (s *Service) List(ctx context.Context) ([]models.FundPosition, error) {
	positions, err := s.store.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	if len(positions) == 0 {
		return []models.FundPosition{}, nil
	}

	valuations := s.batchValuations(ctx, positions)
	for i := range positions {
		if v, ok := valuations[positions[i].FundCode]; ok {
			positions[i].ApplyValuation(v.BestNav())
		}
	}
	return positions, nil
}

// Add inserts a position. An existing position for the same fund code is
// merged: shares and cost accumulate, and the incoming buy date wins.
func (s *Service) Add(ctx context.Context, position models.FundPosition) error {
	if !models.ValidFundCode(position.FundCode) {
		return fmt.Errorf("%w: %q", ErrInvalidCode, position.FundCode)
	}

	positions, err := s.store.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}

	merged := false
	for i := range positions {
		if positions[i].FundCode != position.FundCode {
			continue
		}
		positions[i].Shares += position.Shares
		positions[i].Cost += position.Cost
		if position.BuyDate != "" {
			positions[i].BuyDate = position.BuyDate
		}
		if position.FundName != "" {
			positions[i].FundName = position.FundName
		}
		merged = true
		break
	}
	if !merged {
		positions = append(positions, position)
	}

	s.logger.Info().
		Str("code", position.FundCode).
		Bool("merged", merged).
		Msg("Position added")

	return s.store.SavePositions(ctx, positions)
}

// Update patches an existing position. Nil fields are left unchanged.
func (s *Service) Update(ctx context.Context, code string, shares, cost *float64, buyDate string) error {
	positions, err := s.store.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}

	for i := range positions {
		if positions[i].FundCode != code {
			continue
		}
		if shares != nil {
			positions[i].Shares = *shares
		}
		if cost != nil {
			positions[i].Cost = *cost
		}
		if buyDate != "" {
			positions[i].BuyDate = buyDate
		}
		return s.store.SavePositions(ctx, positions)
	}
	return fmt.Errorf("%w: %s", ErrPositionNotFound, code)
}

// Delete removes the position for a fund code. Deleting an absent code is
// a no-op.
func (s *Service) Delete(ctx context.Context, code string) error {
	positions, err := s.store.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}

	kept := positions[:0]
	for _, p := range positions {
		if p.FundCode != code {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(positions) {
		return nil
	}
	return s.store.SavePositions(ctx, kept)
}

// Clear removes all positions.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.DeletePositions(ctx)
}

// Summary aggregates the valued position list.
func (s *Service) Summary(ctx context.Context) (*models.PositionSummary, error) {
	positions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	summary := models.Summarize(positions)
	return &summary, nil
}

// batchValuations fetches valuations for the held codes, degrading to an
// empty map when the fund service is absent or the batch fails.
func (s *Service) batchValuations(ctx context.Context, positions []models.FundPosition) map[string]models.RealTimeValuation {
	if s.funds == nil {
		return nil
	}

	codes := make([]string, 0, len(positions))
	for _, p := range positions {
		codes = append(codes, p.FundCode)
	}

	valuations, err := s.funds.BatchValuations(ctx, codes)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Batch valuation failed; positions listed without derived fields")
		return nil
	}
	return valuations
}

// Ensure Service implements the PositionService interface
var _ interfaces.PositionService = (*Service)(nil)
