package expedition

import (
	"github.com/caravangame/caravan-api/internal/entities"
)

// TransferDirection selects which way TransferItems moves goods between
// shared storage and a character's pockets.
type TransferDirection string

// Transfer directions
const (
	TransferToPockets TransferDirection = "to_pockets"
	TransferToStorage TransferDirection = "to_storage"
)

// NewGameInput defines the request for starting a new game
type NewGameInput struct {
	Slot       string
	Seed       string
	PlayerName string
}

// NewGameOutput defines the response for starting a new game
type NewGameOutput struct {
	State *entities.GameState
}

// GetStateInput defines the request for reading a game state. The read
// replays elapsed time first, so the returned snapshot is current.
type GetStateInput struct {
	Slot string
}

// GetStateOutput defines the response for reading a game state
type GetStateOutput struct {
	State *entities.GameState
}

// ListSavesInput defines the request for listing occupied save slots
type ListSavesInput struct{}

// ListSavesOutput defines the response for listing occupied save slots
type ListSavesOutput struct {
	Slots []string
}

// DeleteSaveInput defines the request for clearing a save slot
type DeleteSaveInput struct {
	Slot string
}

// DeleteSaveOutput defines the response for clearing a save slot
type DeleteSaveOutput struct{}

// SetLocationInput defines the request for moving the camp
type SetLocationInput struct {
	Slot string
	Lat  float64
	Lon  float64
}

// SetLocationOutput defines the response for moving the camp
type SetLocationOutput struct {
	Tile  *entities.Tile
	State *entities.GameState
}

// AdvanceTimeInput defines the request for shifting virtual time
type AdvanceTimeInput struct {
	Slot    string
	DeltaMs int64
}

// AdvanceTimeOutput defines the response for shifting virtual time
type AdvanceTimeOutput struct {
	State *entities.GameState
}

// QueueJobInput defines the request for queueing a job
type QueueJobInput struct {
	Slot        string
	CharacterID string
	JobID       string
	Pace        entities.Pace

	// Variant parameters
	ContainerItemID string
	ActionJobID     string
}

// QueueJobOutput defines the response for queueing a job
type QueueJobOutput struct {
	Entry *entities.JobEntry
	State *entities.GameState
}

// CancelJobInput defines the request for cancelling a queued job
type CancelJobInput struct {
	Slot        string
	CharacterID string
	EntryID     string
}

// CancelJobOutput defines the response for cancelling a queued job
type CancelJobOutput struct {
	State *entities.GameState
}

// QueueCraftInput defines the request for queueing a craft
type QueueCraftInput struct {
	Slot      string
	StationID string
	RecipeID  string
}

// QueueCraftOutput defines the response for queueing a craft
type QueueCraftOutput struct {
	Entry *entities.CraftEntry
	State *entities.GameState
}

// CancelCraftInput defines the request for cancelling a queued craft
type CancelCraftInput struct {
	Slot      string
	StationID string
	EntryID   string
}

// CancelCraftOutput defines the response for cancelling a queued craft
type CancelCraftOutput struct {
	State *entities.GameState
}

// UpgradeStationInput defines the request for upgrading a station
type UpgradeStationInput struct {
	Slot      string
	StationID string
}

// UpgradeStationOutput defines the response for upgrading a station
type UpgradeStationOutput struct {
	State *entities.GameState
}

// TransferItemsInput defines the request for moving goods between
// shared storage and a character's pockets. Either a stackable ItemID
// with Quantity or a unique ItemUID is set, not both.
type TransferItemsInput struct {
	Slot        string
	CharacterID string
	Direction   TransferDirection
	ItemID      string
	Quantity    int32
	ItemUID     string
}

// TransferItemsOutput defines the response for moving goods
type TransferItemsOutput struct {
	State *entities.GameState
}

// RecruitSurvivorInput defines the request for recruiting an NPC
type RecruitSurvivorInput struct {
	Slot       string
	TemplateID string
}

// RecruitSurvivorOutput defines the response for recruiting an NPC
type RecruitSurvivorOutput struct {
	Character *entities.Character
	State     *entities.GameState
}

// UseItemInput defines the request for applying a consumable
type UseItemInput struct {
	Slot        string
	CharacterID string
	ItemID      string
}

// UseItemOutput defines the response for applying a consumable
type UseItemOutput struct {
	State *entities.GameState
}

// EquipItemInput defines the request for equipping a pocketed instance
type EquipItemInput struct {
	Slot        string
	CharacterID string
	ItemUID     string
}

// EquipItemOutput defines the response for equipping an instance
type EquipItemOutput struct {
	State *entities.GameState
}

// UnequipItemInput defines the request for stowing an equipped instance
type UnequipItemInput struct {
	Slot        string
	CharacterID string
	EquipSlot   string
}

// UnequipItemOutput defines the response for stowing an instance
type UnequipItemOutput struct {
	State *entities.GameState
}
