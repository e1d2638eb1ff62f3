package engine

import (
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
)

// SimulateToNow replays elapsed virtual time into discrete state
// changes: need drains, timed-effect expiry, craft and job queue
// advancement, then auto-consumption. Drains and queue resolution are
// replay-exact: one call after a ten-hour absence lands on the same
// values as a call every second for ten hours. Auto-consumption runs
// once per call, so a coarse catch-up can consume fewer items than
// fine-grained stepping that re-crosses a threshold repeatedly. A
// non-positive elapsed span (clock skew, a reduced admin offset) is a
// no-op.
func (e *Engine) SimulateToNow(state *entities.GameState) {
	now := e.VirtualNow(state)
	elapsed := now - state.LastSimAt
	if elapsed <= 0 {
		return
	}
	minutes := float64(elapsed) / 60000.0

	for _, char := range state.Characters {
		if !char.Conditions.Downed {
			char.Needs.Hunger = clamp(char.Needs.Hunger-hungerDrainPerMinute*minutes, 0, 100)
			char.Needs.Thirst = clamp(char.Needs.Thirst-thirstDrainPerMinute*minutes, 0, 100)
			if !char.Busy() && char.IdleBehavior == entities.IdleRest {
				char.Needs.Morale = clamp(char.Needs.Morale+restMoralePerMinute*minutes, 0, 100)
			} else {
				char.Needs.Morale = clamp(char.Needs.Morale-moraleDrainPerMinute*minutes, 0, 100)
			}
		}
		e.expireTimedEffects(state, char, now)
	}

	e.tickCrafts(state, now)
	for _, char := range state.Characters {
		e.tickJobs(state, char, now)
	}
	for _, char := range state.Characters {
		e.maybeAutoConsume(state, char, now)
	}

	state.LastSimAt = now
}

// AdvanceTime shifts the admin time offset and immediately replays the
// simulation to the new virtual now. Used for fast-forward and testing;
// zero offset in normal play.
func (e *Engine) AdvanceTime(state *entities.GameState, deltaMs int64) error {
	if deltaMs == 0 {
		return errors.InvalidArgument("delta must be non-zero")
	}
	state.TimeOffsetMs += deltaMs
	e.SimulateToNow(state)
	return nil
}
