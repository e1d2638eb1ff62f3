package engine

import (
	"fmt"

	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
)

// UpgradeStation raises a station one level, consuming the next level's
// upgrade cost from storage. Raising the storage station lifts the
// shared capacity ceiling immediately; stored goods are untouched.
func (e *Engine) UpgradeStation(state *entities.GameState, stationID string) error {
	station, ok := state.Stations[stationID]
	if !ok {
		return errors.NotFoundf("station %s not found", stationID)
	}
	spec := e.catalog.StationByID(stationID)
	if spec == nil {
		return errors.Internalf("station %s has no catalog entry", stationID)
	}

	next := int(station.Level) + 1
	if next >= len(spec.Levels) {
		return errors.FailedPreconditionf("%s is already at its highest level", spec.Name)
	}
	cost := spec.Levels[next].UpgradeCost

	for _, c := range cost {
		if state.Storage.StackQuantity(c.ItemID) < c.Quantity {
			item := e.catalog.ItemByID(c.ItemID)
			return errors.FailedPreconditionf("not enough %s to upgrade %s", item.Name, spec.Name)
		}
	}
	for _, c := range cost {
		_ = e.RemoveFromInventory(state.Storage, c.ItemID, c.Quantity)
	}

	station.Level = int32(next)
	if stationID == "storage" {
		state.Storage.Capacity = e.storageCapacity(state.Stations)
	}

	e.appendLog(state, e.VirtualNow(state), entities.SeverityGood,
		fmt.Sprintf("%s upgraded to level %d.", spec.Name, next))
	return nil
}
