package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/pkg/seedrand"
)

// Two independent engines with the same seed, ids, and clock must land
// on identical outcomes when replaying the same job.
func TestResolve_Deterministic(t *testing.T) {
	run := func() (*entities.GameState, *entities.Character) {
		eng, fake := newTestEngine(t)
		state, err := eng.NewGame("world-1", "Ada")
		require.NoError(t, err)
		player := state.Player()

		_, err = eng.StartJob(state, player.ID, "scavenge", entities.PacePush, StartJobOptions{})
		require.NoError(t, err)
		_, err = eng.StartJob(state, player.ID, "forage", entities.PaceNormal, StartJobOptions{})
		require.NoError(t, err)

		fake.Advance(2 * time.Hour)
		eng.SimulateToNow(state)
		return state, player
	}

	s1, p1 := run()
	s2, p2 := run()

	assert.Equal(t, s1.Storage.Stacks, s2.Storage.Stacks)
	assert.Equal(t, p1.XP, p2.XP)
	assert.Equal(t, p1.Stats, p2.Stats)
	assert.Equal(t, p1.Conditions, p2.Conditions)
	assert.Equal(t, p1.Needs, p2.Needs)
}

func TestResolve_StrainCostsNeeds(t *testing.T) {
	eng, fake := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	_, err = eng.StartJob(state, player.ID, "scavenge", entities.PaceNormal, StartJobOptions{})
	require.NoError(t, err)

	fake.Advance(10 * time.Minute)
	eng.SimulateToNow(state)

	// Passive drain for the window plus strain 1.0 over ten job minutes.
	wantHunger := 80 - 10*hungerDrainPerMinute - 10*strainHungerPerMinute
	wantThirst := 80 - 10*thirstDrainPerMinute - 10*strainThirstPerMinute
	assert.InDelta(t, wantHunger, player.Needs.Hunger, 1e-9)
	assert.InDelta(t, wantThirst, player.Needs.Thirst, 1e-9)
}

func TestResolve_GrantsXPAndLevels(t *testing.T) {
	eng, fake := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	// 30 minutes of foraging at normal pace: two 8-minute runs fit, each
	// worth round(10+8x2) = 26 XP. 52 total is below the 60 needed for
	// level one.
	for i := 0; i < 2; i++ {
		_, err = eng.StartJob(state, player.ID, "forage", entities.PaceNormal, StartJobOptions{})
		require.NoError(t, err)
	}
	fake.Advance(30 * time.Minute)
	eng.SimulateToNow(state)

	assert.Equal(t, int32(52), player.XP["foraging"])
	assert.Equal(t, int32(0), player.SkillLevel("foraging"))

	_, err = eng.StartJob(state, player.ID, "forage", entities.PaceNormal, StartJobOptions{})
	require.NoError(t, err)
	fake.Advance(10 * time.Minute)
	eng.SimulateToNow(state)

	assert.Equal(t, int32(1), player.SkillLevel("foraging"), "78 XP crosses the 60 threshold")
	assert.Equal(t, int32(18), player.XP["foraging"])
}

func TestOutcomeMultipliers(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()
	job := eng.catalog.JobByID("chop_wood")

	y, r := eng.outcomeMultipliers(player, job, entities.PaceNormal, 0)
	assert.InDelta(t, 1.0, y, 1e-9)
	assert.InDelta(t, 1.0, r, 1e-9)

	// Skill and tool tier push yield up and risk down.
	player.Stats = map[string]int32{"woodcutting": 3}
	y, r = eng.outcomeMultipliers(player, job, entities.PaceNormal, 2)
	assert.InDelta(t, (1+3*skillYieldPerLevel)*(1+2*toolYieldPerTier), y, 1e-9)
	assert.InDelta(t, 1-2*toolRiskPerTier, r, 1e-9)

	// Armor cuts risk; conditions raise it.
	require.NoError(t, eng.AddToInventory(player.Pockets, "cloth_tunic", 1))
	for uid := range player.Pockets.Instances {
		require.NoError(t, eng.Equip(state, player.ID, uid))
	}
	player.Conditions.Sickness = &entities.Sickness{EndsAt: 1}
	player.Stats = nil
	_, r = eng.outcomeMultipliers(player, job, entities.PaceNormal, 0)
	assert.InDelta(t, (1-0.10*armorRiskFactor)*(1+sickRiskBonus), r, 1e-9)

	// Negative moodlets shave yield.
	player.Conditions.Sickness = nil
	applyMoodlet(player, "gloom", -50, 1<<62)
	y, _ = eng.outcomeMultipliers(player, job, entities.PaceNormal, 0)
	assert.InDelta(t, 1-50*moralePenaltyFactor, y, 1e-9)
}

func TestWearTool_BreaksAtZero(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	player.Equipment[entities.SlotTool] = &entities.ItemInstance{
		UID: "axe-1", ItemID: "crude_axe", Durability: 3,
	}

	eng.wearTool(state, player, 1.0, 1, eng.VirtualNow(state))
	inst := player.Equipped(entities.SlotTool)
	assert.Equal(t, int32(0), inst.Durability, "wear of round(2+1) empties 3 durability")
	require.Len(t, player.Moodlets, 1)
	assert.Equal(t, moodletToolBrokeID, player.Moodlets[0].ID)

	// A broken tool no longer counts as usable.
	assert.Nil(t, eng.equippedTool(player))
}

func TestCheckDowned(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()
	now := eng.VirtualNow(state)

	// Healthy character never rolls, regardless of the stream.
	for i := 0; i < 50; i++ {
		rng := newResolveStream(state, i)
		eng.checkDowned(state, player, rng, now)
		require.False(t, player.Conditions.Downed)
	}

	// Starvation plus dehydration plus a major injury is score 6; with
	// enough rolls one lands, and the starter stim kit auto-revives.
	player.Needs.Hunger = 0
	player.Needs.Thirst = 0
	player.Conditions.Injury = &entities.Injury{Severity: entities.InjuryMajor, EndsAt: now + 1}
	revived := false
	for i := 0; i < 50 && !revived; i++ {
		eng.checkDowned(state, player, newResolveStream(state, i), now)
		revived = !player.Conditions.Downed && state.Storage.StackQuantity("stim_kit") == 0
	}
	assert.True(t, revived, "downed roll fired and the stim kit was consumed")
}

func TestResolveEntry_PanicBoundary(t *testing.T) {
	eng, fake := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	entry, err := eng.StartJob(state, player.ID, "gather_water", entities.PaceNormal,
		StartJobOptions{ContainerItemID: "waterskin"})
	require.NoError(t, err)
	// Sabotage the entry so resolution faults mid-algorithm.
	entry.Variant.GatherWater = nil

	fake.Advance(10 * time.Minute)
	require.NotPanics(t, func() { eng.SimulateToNow(state) })
	assert.Empty(t, player.Queue, "faulted entry is still removed")

	var diagnosed bool
	for _, l := range state.Log {
		if l.Severity == entities.SeveritySystem && l.At > state.CreatedAt {
			diagnosed = true
		}
	}
	assert.True(t, diagnosed, "fault leaves a diagnostic log entry")
}

func TestRollYields_StorageFullKeepsPartialHaul(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()
	fiberBefore := state.Storage.StackQuantity("fiber")

	// Guaranteed three-entry haul: fiber tops up an existing stack, wood
	// and scrap would each need a fresh unit.
	job := &catalogs.Job{ID: "salvage", Name: "Salvage", Skill: "scavenging",
		Yields: []catalogs.YieldEntry{
			{ItemID: "fiber", Min: 3, Max: 3, Chance: 1.0},
			{ItemID: "wood", Min: 3, Max: 3, Chance: 1.0},
			{ItemID: "scrap", Min: 3, Max: 3, Chance: 1.0},
		}}

	state.Storage.Capacity = state.Storage.UsedUnits()
	rng := seedrand.New(seedrand.CompositeSeed(state.Seed, "haul", "1"))
	eng.rollYields(state, player, job, eng.ActingTile(state), rng, 1.0, 1.0, eng.VirtualNow(state))

	assert.Greater(t, state.Storage.StackQuantity("fiber"), fiberBefore,
		"yields landed before the abort are kept")
	assert.Equal(t, int32(0), state.Storage.StackQuantity("wood"),
		"first full deposit aborts")
	assert.Equal(t, int32(0), state.Storage.StackQuantity("scrap"),
		"entries after the abort are never attempted")
	assert.True(t, hasLogMessage(state, entities.SeverityWarn, "drops the rest of the haul"))
}

func newResolveStream(state *entities.GameState, n int) *seedrand.Stream {
	return seedrand.New(seedrand.CompositeSeed(state.Seed, "roll", fmt.Sprint(n)))
}
