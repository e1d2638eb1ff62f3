// Package expedition implements the orchestrator tying the simulation
// engine to persistence: every operation loads the named save slot,
// replays elapsed virtual time, applies the requested change, and
// writes the slot back.
package expedition

import (
	"context"
	"log/slog"

	"github.com/caravangame/caravan-api/internal/engine"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
	"github.com/caravangame/caravan-api/internal/repositories/gamestate"
)

// DefaultSlot is used when a request does not name a save slot.
const DefaultSlot = "main"

// Service defines the interface for expedition operations
type Service interface {
	NewGame(ctx context.Context, input *NewGameInput) (*NewGameOutput, error)
	GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error)
	ListSaves(ctx context.Context, input *ListSavesInput) (*ListSavesOutput, error)
	DeleteSave(ctx context.Context, input *DeleteSaveInput) (*DeleteSaveOutput, error)

	SetLocation(ctx context.Context, input *SetLocationInput) (*SetLocationOutput, error)
	AdvanceTime(ctx context.Context, input *AdvanceTimeInput) (*AdvanceTimeOutput, error)

	QueueJob(ctx context.Context, input *QueueJobInput) (*QueueJobOutput, error)
	CancelJob(ctx context.Context, input *CancelJobInput) (*CancelJobOutput, error)
	QueueCraft(ctx context.Context, input *QueueCraftInput) (*QueueCraftOutput, error)
	CancelCraft(ctx context.Context, input *CancelCraftInput) (*CancelCraftOutput, error)

	UpgradeStation(ctx context.Context, input *UpgradeStationInput) (*UpgradeStationOutput, error)
	TransferItems(ctx context.Context, input *TransferItemsInput) (*TransferItemsOutput, error)
	RecruitSurvivor(ctx context.Context, input *RecruitSurvivorInput) (*RecruitSurvivorOutput, error)
	UseItem(ctx context.Context, input *UseItemInput) (*UseItemOutput, error)
	EquipItem(ctx context.Context, input *EquipItemInput) (*EquipItemOutput, error)
	UnequipItem(ctx context.Context, input *UnequipItemInput) (*UnequipItemOutput, error)
}

// Config holds the dependencies for the expedition orchestrator
type Config struct {
	GameStateRepo gamestate.Repository
	Engine        *engine.Engine
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.GameStateRepo == nil {
		vb.RequiredField("GameStateRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}

	return vb.Build()
}

type orchestrator struct {
	repo   gamestate.Repository
	engine *engine.Engine
}

// NewOrchestrator creates a new expedition orchestrator with the
// provided dependencies.
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		repo:   cfg.GameStateRepo,
		engine: cfg.Engine,
	}, nil
}

func slotOrDefault(slot string) string {
	if slot == "" {
		return DefaultSlot
	}
	return slot
}

// loadCurrent reads a slot and replays elapsed time so the operation
// acts on the present, never on a stale snapshot.
func (o *orchestrator) loadCurrent(ctx context.Context, slot string) (*entities.GameState, error) {
	output, err := o.repo.Get(ctx, gamestate.GetInput{Slot: slot})
	if err != nil {
		return nil, err
	}
	o.engine.SimulateToNow(output.State)
	return output.State, nil
}

func (o *orchestrator) save(ctx context.Context, slot string, state *entities.GameState) error {
	_, err := o.repo.Save(ctx, gamestate.SaveInput{Slot: slot, State: state})
	return err
}

func (o *orchestrator) NewGame(ctx context.Context, input *NewGameInput) (*NewGameOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.engine.NewGame(input.Seed, input.PlayerName)
	if err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}

	slog.Info("new game started", "slot", slot, "game_id", state.ID, "seed", input.Seed)
	return &NewGameOutput{State: state}, nil
}

func (o *orchestrator) GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	// Reads advance the clock too; persist the catch-up so the slot
	// never drifts behind what the caller saw.
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}
	return &GetStateOutput{State: state}, nil
}

func (o *orchestrator) ListSaves(ctx context.Context, _ *ListSavesInput) (*ListSavesOutput, error) {
	output, err := o.repo.List(ctx, gamestate.ListInput{})
	if err != nil {
		return nil, err
	}
	return &ListSavesOutput{Slots: output.Slots}, nil
}

func (o *orchestrator) DeleteSave(ctx context.Context, input *DeleteSaveInput) (*DeleteSaveOutput, error) {
	slot := slotOrDefault(input.Slot)
	if _, err := o.repo.Delete(ctx, gamestate.DeleteInput{Slot: slot}); err != nil {
		return nil, err
	}
	slog.Info("save deleted", "slot", slot)
	return &DeleteSaveOutput{}, nil
}

func (o *orchestrator) SetLocation(ctx context.Context, input *SetLocationInput) (*SetLocationOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	tile, err := o.engine.SetLocation(state, input.Lat, input.Lon)
	if err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}

	slog.Info("camp moved", "slot", slot, "tile_id", tile.ID, "biome_id", tile.BiomeID)
	return &SetLocationOutput{Tile: tile, State: state}, nil
}

func (o *orchestrator) AdvanceTime(ctx context.Context, input *AdvanceTimeInput) (*AdvanceTimeOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	if err := o.engine.AdvanceTime(state, input.DeltaMs); err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}

	slog.Info("time advanced", "slot", slot, "delta_ms", input.DeltaMs)
	return &AdvanceTimeOutput{State: state}, nil
}

func (o *orchestrator) QueueJob(ctx context.Context, input *QueueJobInput) (*QueueJobOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	entry, err := o.engine.StartJob(state, input.CharacterID, input.JobID, input.Pace, engine.StartJobOptions{
		ContainerItemID: input.ContainerItemID,
		ActionJobID:     input.ActionJobID,
	})
	if err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}

	slog.Info("job queued", "slot", slot, "character_id", input.CharacterID, "job_id", input.JobID, "entry_id", entry.ID)
	return &QueueJobOutput{Entry: entry, State: state}, nil
}

func (o *orchestrator) CancelJob(ctx context.Context, input *CancelJobInput) (*CancelJobOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	if err := o.engine.CancelJob(state, input.CharacterID, input.EntryID); err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}

	slog.Info("job cancelled", "slot", slot, "character_id", input.CharacterID, "entry_id", input.EntryID)
	return &CancelJobOutput{State: state}, nil
}

func (o *orchestrator) QueueCraft(ctx context.Context, input *QueueCraftInput) (*QueueCraftOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	entry, err := o.engine.QueueCraft(state, input.StationID, input.RecipeID)
	if err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}

	slog.Info("craft queued", "slot", slot, "station_id", input.StationID, "recipe_id", input.RecipeID, "entry_id", entry.ID)
	return &QueueCraftOutput{Entry: entry, State: state}, nil
}

func (o *orchestrator) CancelCraft(ctx context.Context, input *CancelCraftInput) (*CancelCraftOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	if err := o.engine.CancelCraft(state, input.StationID, input.EntryID); err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}

	slog.Info("craft cancelled", "slot", slot, "station_id", input.StationID, "entry_id", input.EntryID)
	return &CancelCraftOutput{State: state}, nil
}

func (o *orchestrator) UpgradeStation(ctx context.Context, input *UpgradeStationInput) (*UpgradeStationOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	if err := o.engine.UpgradeStation(state, input.StationID); err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}

	slog.Info("station upgraded", "slot", slot, "station_id", input.StationID)
	return &UpgradeStationOutput{State: state}, nil
}

func (o *orchestrator) TransferItems(ctx context.Context, input *TransferItemsInput) (*TransferItemsOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}

	char := state.CharacterByID(input.CharacterID)
	if char == nil {
		return nil, errors.NotFoundf("character %s not found", input.CharacterID)
	}

	var from, to *entities.Inventory
	switch input.Direction {
	case TransferToPockets:
		from, to = state.Storage, char.Pockets
	case TransferToStorage:
		from, to = char.Pockets, state.Storage
	default:
		return nil, errors.InvalidArgumentf("unknown transfer direction %q", input.Direction)
	}

	if input.ItemUID != "" {
		err = o.engine.TransferInstance(from, to, input.ItemUID)
	} else {
		err = o.engine.TransferStack(from, to, input.ItemID, input.Quantity)
	}
	if err != nil {
		return nil, err
	}

	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}
	return &TransferItemsOutput{State: state}, nil
}

func (o *orchestrator) RecruitSurvivor(ctx context.Context, input *RecruitSurvivorInput) (*RecruitSurvivorOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	ch, err := o.engine.Recruit(state, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}

	slog.Info("survivor recruited", "slot", slot, "template_id", input.TemplateID, "character_id", ch.ID)
	return &RecruitSurvivorOutput{Character: ch, State: state}, nil
}

func (o *orchestrator) UseItem(ctx context.Context, input *UseItemInput) (*UseItemOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	if err := o.engine.UseItem(state, input.CharacterID, input.ItemID); err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}
	return &UseItemOutput{State: state}, nil
}

func (o *orchestrator) EquipItem(ctx context.Context, input *EquipItemInput) (*EquipItemOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	if err := o.engine.Equip(state, input.CharacterID, input.ItemUID); err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}
	return &EquipItemOutput{State: state}, nil
}

func (o *orchestrator) UnequipItem(ctx context.Context, input *UnequipItemInput) (*UnequipItemOutput, error) {
	slot := slotOrDefault(input.Slot)

	state, err := o.loadCurrent(ctx, slot)
	if err != nil {
		return nil, err
	}
	if err := o.engine.Unequip(state, input.CharacterID, input.EquipSlot); err != nil {
		return nil, err
	}
	if err := o.save(ctx, slot, state); err != nil {
		return nil, err
	}
	return &UnequipItemOutput{State: state}, nil
}
