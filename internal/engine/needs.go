package engine

import (
	"fmt"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
	"github.com/caravangame/caravan-api/internal/pkg/seedrand"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// applyMoodlet attaches a timed morale modifier, replacing any active
// moodlet with the same id rather than stacking it.
func applyMoodlet(char *entities.Character, id string, magnitude float64, endsAt int64) {
	for i := range char.Moodlets {
		if char.Moodlets[i].ID == id {
			char.Moodlets[i].Magnitude = magnitude
			char.Moodlets[i].EndsAt = endsAt
			return
		}
	}
	char.Moodlets = append(char.Moodlets, entities.Moodlet{
		ID: id, Magnitude: magnitude, EndsAt: endsAt,
	})
}

// expireTimedEffects drops moodlets and clears conditions whose end
// time has passed.
func (e *Engine) expireTimedEffects(state *entities.GameState, char *entities.Character, now int64) {
	kept := char.Moodlets[:0]
	for _, m := range char.Moodlets {
		if m.EndsAt > now {
			kept = append(kept, m)
		}
	}
	char.Moodlets = kept
	if len(char.Moodlets) == 0 {
		char.Moodlets = nil
	}

	if s := char.Conditions.Sickness; s != nil && s.EndsAt <= now {
		char.Conditions.Sickness = nil
		e.appendLog(state, now, entities.SeverityGood,
			fmt.Sprintf("%s shakes off the sickness.", char.Name))
	}
	if inj := char.Conditions.Injury; inj != nil && inj.EndsAt <= now {
		char.Conditions.Injury = nil
		e.appendLog(state, now, entities.SeverityGood,
			fmt.Sprintf("%s's injury has healed.", char.Name))
	}
}

// maybeAutoConsume feeds and waters a character whose needs dropped to
// or below the configured thresholds, preferring pockets over shared
// storage. Finding nothing suitable applies a negative moodlet instead
// of blocking the simulation.
func (e *Engine) maybeAutoConsume(state *entities.GameState, char *entities.Character, now int64) {
	if char.Conditions.Downed {
		return
	}

	if char.Needs.Thirst <= autoDrinkThreshold {
		if item, src := e.bestWater(state, char); item != nil {
			e.drink(state, char, item, src, now)
		} else {
			applyMoodlet(char, moodletNoWaterID, moodletShortageAmount, now+moodletShortageMs)
			e.appendLog(state, now, entities.SeverityBad,
				fmt.Sprintf("%s is parched and there is nothing to drink.", char.Name))
		}
	}

	if char.Needs.Hunger <= autoEatThreshold {
		if item, src := e.bestRation(state, char); item != nil {
			e.eat(state, char, item, src, now)
		} else {
			applyMoodlet(char, moodletNoFoodID, moodletShortageAmount, now+moodletShortageMs)
			e.appendLog(state, now, entities.SeverityBad,
				fmt.Sprintf("%s is starving and the larder is empty.", char.Name))
		}
	}
}

// bestWater picks the best drinkable item: clean preferred over dirty,
// pockets searched before shared storage.
func (e *Engine) bestWater(state *entities.GameState, char *entities.Character) (*catalogs.Item, *entities.Inventory) {
	var dirty *catalogs.Item
	var dirtySrc *entities.Inventory
	for _, inv := range []*entities.Inventory{char.Pockets, state.Storage} {
		for _, itemID := range sortedStackIDs(inv) {
			if inv.Stacks[itemID] <= 0 {
				continue
			}
			item := e.catalog.ItemByID(itemID)
			if item == nil || item.Water == nil {
				continue
			}
			if item.Water.Clean {
				return item, inv
			}
			if dirty == nil {
				dirty = item
				dirtySrc = inv
			}
		}
	}
	return dirty, dirtySrc
}

// bestRation picks the lowest-quality ration-flagged food so the good
// stock is preserved.
func (e *Engine) bestRation(state *entities.GameState, char *entities.Character) (*catalogs.Item, *entities.Inventory) {
	var best *catalogs.Item
	var bestSrc *entities.Inventory
	for _, inv := range []*entities.Inventory{char.Pockets, state.Storage} {
		for _, itemID := range sortedStackIDs(inv) {
			if inv.Stacks[itemID] <= 0 {
				continue
			}
			item := e.catalog.ItemByID(itemID)
			if item == nil || item.Food == nil || !item.Food.Ration {
				continue
			}
			if best == nil || item.Food.Quality < best.Food.Quality {
				best = item
				bestSrc = inv
			}
		}
	}
	return best, bestSrc
}

func (e *Engine) drink(state *entities.GameState, char *entities.Character, item *catalogs.Item, src *entities.Inventory, now int64) {
	if err := e.RemoveFromInventory(src, item.ID, 1); err != nil {
		return
	}
	char.Needs.Thirst = clamp(char.Needs.Thirst+item.Water.RestoreThirst, 0, 100)

	if !item.Water.Clean && char.Conditions.Sickness == nil {
		rng := seedrand.New(seedrand.CompositeSeed(state.Seed, "drink", char.ID, fmt.Sprint(now)))
		if rng.Chance(item.Water.SicknessChance) {
			char.Conditions.Sickness = &entities.Sickness{EndsAt: now + sicknessDurationMs}
			e.appendLog(state, now, entities.SeverityBad,
				fmt.Sprintf("%s drinks foul water and falls sick.", char.Name))
			return
		}
	}
	e.appendLog(state, now, entities.SeverityInfo,
		fmt.Sprintf("%s drinks %s.", char.Name, item.Name))
}

func (e *Engine) eat(state *entities.GameState, char *entities.Character, item *catalogs.Item, src *entities.Inventory, now int64) {
	if err := e.RemoveFromInventory(src, item.ID, 1); err != nil {
		return
	}
	char.Needs.Hunger = clamp(char.Needs.Hunger+item.Food.RestoreHunger, 0, 100)
	e.appendLog(state, now, entities.SeverityInfo,
		fmt.Sprintf("%s eats %s.", char.Name, item.Name))
}

// UseItem applies one unit of a consumable to a character: food, water,
// a cure, or a revival item.
func (e *Engine) UseItem(state *entities.GameState, charID, itemID string) error {
	char := state.CharacterByID(charID)
	if char == nil {
		return errors.NotFoundf("character %s not found", charID)
	}
	item := e.catalog.ItemByID(itemID)
	if item == nil {
		return errors.NotFoundf("unknown item %s", itemID)
	}

	var src *entities.Inventory
	switch {
	case char.Pockets.StackQuantity(itemID) > 0:
		src = char.Pockets
	case state.Storage.StackQuantity(itemID) > 0:
		src = state.Storage
	default:
		return errors.FailedPreconditionf("no %s available", item.Name)
	}

	now := e.VirtualNow(state)

	switch {
	case item.Revival:
		if !char.Conditions.Downed {
			return errors.FailedPreconditionf("%s is not downed", char.Name)
		}
		_ = e.RemoveFromInventory(src, itemID, 1)
		e.revive(state, char, now)
	case item.Cures == "sickness":
		if char.Conditions.Sickness == nil {
			return errors.FailedPreconditionf("%s is not sick", char.Name)
		}
		_ = e.RemoveFromInventory(src, itemID, 1)
		char.Conditions.Sickness = nil
		e.appendLog(state, now, entities.SeverityGood,
			fmt.Sprintf("%s is cured of the sickness.", char.Name))
	case item.Cures == "injury":
		if char.Conditions.Injury == nil {
			return errors.FailedPreconditionf("%s is not injured", char.Name)
		}
		_ = e.RemoveFromInventory(src, itemID, 1)
		char.Conditions.Injury = nil
		e.appendLog(state, now, entities.SeverityGood,
			fmt.Sprintf("%s's wounds are treated.", char.Name))
	case item.Water != nil:
		e.drink(state, char, item, src, now)
	case item.Food != nil:
		e.eat(state, char, item, src, now)
	default:
		return errors.InvalidArgumentf("%s is not usable", item.Name)
	}
	return nil
}

// revive clears the downed flag and leaves the character at the edge of
// collapse rather than fully restored.
func (e *Engine) revive(state *entities.GameState, char *entities.Character, now int64) {
	char.Conditions.Downed = false
	if char.Needs.Health < 20 {
		char.Needs.Health = 20
	}
	e.appendLog(state, now, entities.SeverityGood,
		fmt.Sprintf("%s is back on their feet.", char.Name))
}

// maybeAutoRevive consumes a revival item from shared storage if one is
// available the moment a character goes down.
func (e *Engine) maybeAutoRevive(state *entities.GameState, char *entities.Character, now int64) {
	for _, itemID := range sortedStackIDs(state.Storage) {
		if state.Storage.Stacks[itemID] <= 0 {
			continue
		}
		item := e.catalog.ItemByID(itemID)
		if item == nil || !item.Revival {
			continue
		}
		_ = e.RemoveFromInventory(state.Storage, itemID, 1)
		e.revive(state, char, now)
		return
	}
}
