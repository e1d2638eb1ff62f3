package engine

import (
	"fmt"
	"sort"

	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
)

// QueueCraft validates a recipe against storage and the station's level
// capacity, deducts the inputs immediately, and appends the entry to
// the station queue. Deducting at enqueue time means a queued craft can
// never fail for missing inputs later.
func (e *Engine) QueueCraft(state *entities.GameState, stationID, recipeID string) (*entities.CraftEntry, error) {
	station, ok := state.Stations[stationID]
	if !ok {
		return nil, errors.NotFoundf("station %s not found", stationID)
	}
	recipe := e.catalog.RecipeByID(recipeID)
	if recipe == nil {
		return nil, errors.NotFoundf("recipe %s not found", recipeID)
	}
	if recipe.StationID != stationID {
		return nil, errors.InvalidArgumentf("recipe %s belongs to %s", recipeID, recipe.StationID)
	}

	if len(station.Queue) >= craftQueueCap {
		return nil, errors.ResourceExhaustedf("%s queue is full", stationID)
	}

	for _, input := range recipe.Inputs {
		if state.Storage.StackQuantity(input.ItemID) < input.Quantity {
			item := e.catalog.ItemByID(input.ItemID)
			return nil, errors.FailedPreconditionf("not enough %s in storage", item.Name)
		}
	}

	reserved := make([]entities.ItemQuantity, 0, len(recipe.Inputs))
	for _, input := range recipe.Inputs {
		_ = e.RemoveFromInventory(state.Storage, input.ItemID, input.Quantity)
		reserved = append(reserved, entities.ItemQuantity{ItemID: input.ItemID, Quantity: input.Quantity})
	}

	now := e.VirtualNow(state)
	entry := &entities.CraftEntry{
		ID:             e.idGen.Generate(),
		RecipeID:       recipe.ID,
		CreatedAt:      now,
		DurationMs:     recipe.DurationMs,
		ReservedInputs: reserved,
	}
	if len(station.Queue) == 0 {
		entry.StartAt = now
	}
	station.Queue = append(station.Queue, entry)

	e.appendLog(state, now, entities.SeverityInfo,
		fmt.Sprintf("Queued %s at the %s.", recipe.ID, stationID))
	return entry, nil
}

// CancelCraft removes a queued or running craft and refunds its
// reserved inputs to storage. Refunds that no longer fit are dropped
// and logged.
func (e *Engine) CancelCraft(state *entities.GameState, stationID, entryID string) error {
	station, ok := state.Stations[stationID]
	if !ok {
		return errors.NotFoundf("station %s not found", stationID)
	}

	queue, removed, idx := removeWhere(station.Queue, func(c *entities.CraftEntry) bool { return c.ID == entryID })
	if removed == nil {
		return errors.NotFoundf("craft entry %s not found", entryID)
	}
	station.Queue = queue

	now := e.VirtualNow(state)
	for _, input := range removed.ReservedInputs {
		if err := e.AddToInventory(state.Storage, input.ItemID, input.Quantity); err != nil {
			e.appendLog(state, now, entities.SeverityWarn,
				fmt.Sprintf("Storage is full; %dx %s from a cancelled craft is lost.", input.Quantity, input.ItemID))
		}
	}

	if idx == 0 && len(station.Queue) > 0 && station.Queue[0].StartAt == 0 {
		station.Queue[0].StartAt = now
	}

	e.appendLog(state, now, entities.SeverityInfo,
		fmt.Sprintf("Cancelled %s at the %s.", removed.RecipeID, stationID))
	return nil
}

// tickCrafts completes every craft whose end time has passed. Stations
// are walked in sorted order so repeated catch-ups over the same state
// produce identical logs.
func (e *Engine) tickCrafts(state *entities.GameState, now int64) {
	ids := make([]string, 0, len(state.Stations))
	for id := range state.Stations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		station := state.Stations[id]
		for len(station.Queue) > 0 {
			head := station.Queue[0]
			if head.StartAt == 0 {
				head.StartAt = now
			}
			end := head.StartAt + head.DurationMs
			if end > now {
				break
			}

			e.resolveCraft(state, id, head, end)

			station.Queue, _ = popHead(station.Queue)
			if len(station.Queue) > 0 && station.Queue[0].StartAt == 0 {
				station.Queue[0].StartAt = end
			}
		}
	}
}

// resolveCraft deposits a finished recipe's outputs. Each output is
// attempted independently, so a full storage loses only what does not
// fit.
func (e *Engine) resolveCraft(state *entities.GameState, stationID string, entry *entities.CraftEntry, completedAt int64) {
	recipe := e.catalog.RecipeByID(entry.RecipeID)
	if recipe == nil {
		e.appendLog(state, completedAt, entities.SeveritySystem,
			fmt.Sprintf("internal fault: recipe %s vanished from the catalog", entry.RecipeID))
		return
	}

	for _, output := range recipe.Outputs {
		if err := e.AddToInventory(state.Storage, output.ItemID, output.Quantity); err != nil {
			e.appendLog(state, completedAt, entities.SeverityWarn,
				fmt.Sprintf("Storage is full; %dx %s from the %s is lost.", output.Quantity, output.ItemID, stationID))
			continue
		}
	}

	e.appendLog(state, completedAt, entities.SeverityGood,
		fmt.Sprintf("The %s finished %s.", stationID, recipe.ID))
}
