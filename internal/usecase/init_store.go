package usecase

import (
	"context"
	"fmt"

	"github.com/taskgate/taskgate/internal/domain"
)

// InitStoreOutput contains the result of initializing the store.
type InitStoreOutput struct {
	AlreadyInitialized bool
}

// InitStore creates the data directory layout.
type InitStore struct {
	store  domain.StoreInitializer
	logger domain.Logger
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(store domain.StoreInitializer, logger domain.Logger) *InitStore {
	return &InitStore{store: store, logger: logger}
}

// Execute initializes the store. Initializing twice is a no-op.
func (uc *InitStore) Execute(_ context.Context) (*InitStoreOutput, error) {
	if uc.store.IsInitialized() {
		return &InitStoreOutput{AlreadyInitialized: true}, nil
	}
	if err := uc.store.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info("", "store", "initialized")
	}
	return &InitStoreOutput{}, nil
}
