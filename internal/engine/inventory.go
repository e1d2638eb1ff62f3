package engine

import (
	"sort"

	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
)

// Inventory mutations enforce the capacity invariant: used units never
// exceed capacity, and an operation that would violate it is rejected
// with no partial effect. A stack occupies one unit regardless of
// quantity; each unique instance occupies one unit.

// unitsNeeded computes how many additional units adding qty of itemID
// would occupy.
func (e *Engine) unitsNeeded(inv *entities.Inventory, itemID string, qty int32) (int32, error) {
	item := e.catalog.ItemByID(itemID)
	if item == nil {
		return 0, errors.NotFoundf("unknown item %s", itemID)
	}
	if item.Stackable {
		if inv.StackQuantity(itemID) > 0 {
			return 0, nil
		}
		return 1, nil
	}
	return qty, nil
}

// CanFit reports whether qty of itemID fits into inv.
func (e *Engine) CanFit(inv *entities.Inventory, itemID string, qty int32) bool {
	units, err := e.unitsNeeded(inv, itemID, qty)
	if err != nil {
		return false
	}
	return inv.UsedUnits()+units <= inv.Capacity
}

// AddToInventory adds qty of itemID, creating fresh instances for
// non-stackable items. Rejected whole if the capacity invariant would
// break.
func (e *Engine) AddToInventory(inv *entities.Inventory, itemID string, qty int32) error {
	if qty <= 0 {
		return errors.InvalidArgument("quantity must be positive")
	}
	item := e.catalog.ItemByID(itemID)
	if item == nil {
		return errors.NotFoundf("unknown item %s", itemID)
	}

	units, _ := e.unitsNeeded(inv, itemID, qty)
	if inv.UsedUnits()+units > inv.Capacity {
		return errors.ResourceExhaustedf("no room for %dx %s", qty, item.Name).
			WithMeta("item_id", itemID)
	}

	if item.Stackable {
		if inv.Stacks == nil {
			inv.Stacks = make(map[string]int32)
		}
		inv.Stacks[itemID] += qty
		return nil
	}

	if inv.Instances == nil {
		inv.Instances = make(map[string]*entities.ItemInstance)
	}
	for i := int32(0); i < qty; i++ {
		inst := &entities.ItemInstance{
			UID:    e.idGen.Generate(),
			ItemID: itemID,
		}
		if item.Tool != nil {
			inst.Durability = item.Tool.MaxDurability
		}
		inv.Instances[inst.UID] = inst
	}
	return nil
}

// RemoveFromInventory removes qty of a stackable item. Fails with no
// effect if the stack is short.
func (e *Engine) RemoveFromInventory(inv *entities.Inventory, itemID string, qty int32) error {
	if qty <= 0 {
		return errors.InvalidArgument("quantity must be positive")
	}
	have := inv.StackQuantity(itemID)
	if have < qty {
		return errors.FailedPreconditionf("need %dx %s, have %d", qty, itemID, have)
	}
	if have == qty {
		delete(inv.Stacks, itemID)
	} else {
		inv.Stacks[itemID] = have - qty
	}
	return nil
}

// AddInstance places an existing instance into inv, subject to capacity.
func (e *Engine) AddInstance(inv *entities.Inventory, inst *entities.ItemInstance) error {
	if inv.UsedUnits()+1 > inv.Capacity {
		return errors.ResourceExhaustedf("no room for %s", inst.ItemID)
	}
	if inv.Instances == nil {
		inv.Instances = make(map[string]*entities.ItemInstance)
	}
	inv.Instances[inst.UID] = inst
	return nil
}

// TakeInstance removes and returns an instance by uid.
func (e *Engine) TakeInstance(inv *entities.Inventory, uid string) (*entities.ItemInstance, error) {
	inst, ok := inv.Instances[uid]
	if !ok {
		return nil, errors.NotFoundf("instance %s not found", uid)
	}
	delete(inv.Instances, uid)
	return inst, nil
}

// sortedStackIDs returns the inventory's stack item ids in a stable
// order. Gameplay-affecting item selection must never depend on map
// iteration order, or identical replays diverge.
func sortedStackIDs(inv *entities.Inventory) []string {
	ids := make([]string, 0, len(inv.Stacks))
	for itemID := range inv.Stacks {
		ids = append(ids, itemID)
	}
	sort.Strings(ids)
	return ids
}

// HasItem reports whether itemID is present as a stack or instance.
func (e *Engine) HasItem(inv *entities.Inventory, itemID string) bool {
	if inv.StackQuantity(itemID) > 0 {
		return true
	}
	for _, inst := range inv.Instances {
		if inst.ItemID == itemID {
			return true
		}
	}
	return false
}

// TransferStack moves qty of a stackable item between inventories using
// validate-both-sides-then-commit, so no intermediate state is ever
// observable.
func (e *Engine) TransferStack(from, to *entities.Inventory, itemID string, qty int32) error {
	if qty <= 0 {
		return errors.InvalidArgument("quantity must be positive")
	}
	item := e.catalog.ItemByID(itemID)
	if item == nil {
		return errors.NotFoundf("unknown item %s", itemID)
	}
	if !item.Stackable {
		return errors.InvalidArgumentf("%s is not stackable", itemID)
	}
	if from.StackQuantity(itemID) < qty {
		return errors.FailedPreconditionf("need %dx %s, have %d", qty, itemID, from.StackQuantity(itemID))
	}
	if !e.CanFit(to, itemID, qty) {
		return errors.ResourceExhaustedf("no room for %dx %s", qty, item.Name)
	}

	// Both sides validated; commit cannot fail.
	_ = e.RemoveFromInventory(from, itemID, qty)
	_ = e.AddToInventory(to, itemID, qty)
	return nil
}

// TransferInstance moves a unique item between inventories with the
// same two-phase discipline.
func (e *Engine) TransferInstance(from, to *entities.Inventory, uid string) error {
	inst, ok := from.Instances[uid]
	if !ok {
		return errors.NotFoundf("instance %s not found", uid)
	}
	if to.UsedUnits()+1 > to.Capacity {
		return errors.ResourceExhaustedf("no room for %s", inst.ItemID)
	}

	delete(from.Instances, uid)
	if to.Instances == nil {
		to.Instances = make(map[string]*entities.ItemInstance)
	}
	to.Instances[inst.UID] = inst
	return nil
}

// storageCapacity derives the shared-storage unit ceiling from the
// storage station's current level.
func (e *Engine) storageCapacity(stations map[string]*entities.Station) int32 {
	st, ok := stations["storage"]
	if !ok {
		return 0
	}
	spec := e.catalog.StationByID("storage")
	if spec == nil || len(spec.Levels) == 0 {
		return 0
	}
	level := int(st.Level)
	if level >= len(spec.Levels) {
		level = len(spec.Levels) - 1
	}
	return spec.Levels[level].Capacity
}
