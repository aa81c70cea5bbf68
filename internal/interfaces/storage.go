package interfaces

import (
	"context"

	"github.com/bobmcallan/fundwatch/internal/models"
)

// PositionStore persists the user's position list.
type PositionStore interface {
	// GetPositions returns the stored positions, or an empty slice when
	// none have been saved yet.
	GetPositions(ctx context.Context) ([]models.FundPosition, error)

	// SavePositions replaces the stored position list.
	SavePositions(ctx context.Context, positions []models.FundPosition) error

	// DeletePositions removes the stored position list.
	DeletePositions(ctx context.Context) error
}

// KeyValueStore persists small system key-value pairs (schema versions,
// runtime flags).
type KeyValueStore interface {
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error
}

// Storage aggregates the persistence surfaces.
type Storage interface {
	PositionStore
	KeyValueStore
}
