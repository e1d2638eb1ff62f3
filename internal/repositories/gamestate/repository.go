// Package gamestate defines the interface for game snapshot persistence.
// The engine has no opinion on where snapshots live; this package owns
// the named-slot model around its serialize/restore boundary.
package gamestate

//go:generate mockgen -destination=mock/mock_repository.go -package=gamestatemock github.com/caravangame/caravan-api/internal/repositories/gamestate Repository

import (
	"context"

	"github.com/caravangame/caravan-api/internal/entities"
)

// Repository defines the interface for game state persistence
type Repository interface {
	// Save stores a complete snapshot under a named slot, replacing any
	// previous snapshot in that slot
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Get retrieves the snapshot in a named slot
	// Returns errors.InvalidArgument for empty slot names
	// Returns errors.NotFound if the slot is empty
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete clears a named slot
	// Returns errors.NotFound if the slot is empty
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// List returns the names of all occupied slots
	// Returns errors.Internal for storage failures
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// SaveInput defines the input for saving a snapshot
type SaveInput struct {
	Slot  string
	State *entities.GameState
}

// SaveOutput defines the output for saving a snapshot
type SaveOutput struct{}

// GetInput defines the input for loading a snapshot
type GetInput struct {
	Slot string
}

// GetOutput defines the output for loading a snapshot
type GetOutput struct {
	State *entities.GameState
}

// DeleteInput defines the input for clearing a slot
type DeleteInput struct {
	Slot string
}

// DeleteOutput defines the output for clearing a slot
type DeleteOutput struct{}

// ListInput defines the input for listing occupied slots
type ListInput struct{}

// ListOutput defines the output for listing occupied slots
type ListOutput struct {
	Slots []string
}
