package db

import (
	"context"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

// StateStore loads and saves the whole application state
type StateStore interface {
	LoadState(ctx context.Context) (*model.State, error)
	SaveState(ctx context.Context, state *model.State) error
}

// Database defines the interface for all database operations.
// Both the JSON file store db.FileStore and postgres.DB implement this interface.
type Database interface {
	StateStore
	Close()
}
