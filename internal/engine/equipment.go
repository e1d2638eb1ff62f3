package engine

import (
	"fmt"

	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
)

// Equip moves an instance from the character's pockets into its item's
// equipment slot. A previously equipped instance swaps back into the
// freed pocket unit, so the move can never fail for lack of space.
func (e *Engine) Equip(state *entities.GameState, charID, uid string) error {
	char := state.CharacterByID(charID)
	if char == nil {
		return errors.NotFoundf("character %s not found", charID)
	}
	inst, ok := char.Pockets.Instances[uid]
	if !ok {
		return errors.NotFoundf("item %s not in %s's pockets", uid, char.Name)
	}
	item := e.catalog.ItemByID(inst.ItemID)
	if item == nil || item.Slot == "" {
		return errors.InvalidArgumentf("%s cannot be equipped", inst.ItemID)
	}

	if char.Equipment == nil {
		char.Equipment = make(map[string]*entities.ItemInstance)
	}
	delete(char.Pockets.Instances, uid)
	if prev := char.Equipment[item.Slot]; prev != nil {
		char.Pockets.Instances[prev.UID] = prev
	}
	char.Equipment[item.Slot] = inst

	e.appendLog(state, e.VirtualNow(state), entities.SeverityInfo,
		fmt.Sprintf("%s equips %s.", char.Name, item.Name))
	return nil
}

// Unequip moves an equipped instance back into the character's pockets.
// Fails with no effect when the pockets are full.
func (e *Engine) Unequip(state *entities.GameState, charID, slot string) error {
	char := state.CharacterByID(charID)
	if char == nil {
		return errors.NotFoundf("character %s not found", charID)
	}
	inst := char.Equipped(slot)
	if inst == nil {
		return errors.NotFoundf("nothing equipped in the %s slot", slot)
	}
	if err := e.AddInstance(char.Pockets, inst); err != nil {
		return err
	}
	delete(char.Equipment, slot)

	item := e.catalog.ItemByID(inst.ItemID)
	e.appendLog(state, e.VirtualNow(state), entities.SeverityInfo,
		fmt.Sprintf("%s stows %s.", char.Name, item.Name))
	return nil
}
