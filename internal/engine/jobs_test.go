package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caravangame/caravan-api/internal/entities"
)

func TestStartJob_Validation(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	_, err = eng.StartJob(state, "ghost", "scavenge", entities.PaceNormal, StartJobOptions{})
	require.Error(t, err)

	_, err = eng.StartJob(state, player.ID, "mine_gold", entities.PaceNormal, StartJobOptions{})
	require.Error(t, err)

	_, err = eng.StartJob(state, player.ID, "scavenge", "sprint", StartJobOptions{})
	require.Error(t, err)

	player.Conditions.Downed = true
	_, err = eng.StartJob(state, player.ID, "scavenge", entities.PaceNormal, StartJobOptions{})
	require.Error(t, err)
	player.Conditions.Downed = false

	entry, err := eng.StartJob(state, player.ID, "scavenge", entities.PaceNormal, StartJobOptions{})
	require.NoError(t, err)
	assert.True(t, entry.Started(), "first entry starts immediately")
	assert.Equal(t, int64(10*60*1000), entry.DurationMs)
}

func TestStartJob_PaceScalesDuration(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	entry, err := eng.StartJob(state, player.ID, "scavenge", entities.PaceSafe, StartJobOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(11*60*1000), entry.DurationMs)

	entry, err = eng.StartJob(state, player.ID, "scavenge", entities.PacePush, StartJobOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(8*60*1000+30*1000), entry.DurationMs)
}

func TestQueueChaining(t *testing.T) {
	eng, fake := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()
	t0 := eng.VirtualNow(state)

	a, err := eng.StartJob(state, player.ID, "scavenge", entities.PaceNormal, StartJobOptions{DurationMs: 10_000})
	require.NoError(t, err)
	b, err := eng.StartJob(state, player.ID, "scavenge", entities.PaceNormal, StartJobOptions{DurationMs: 20_000})
	require.NoError(t, err)

	assert.Equal(t, t0, a.StartAt)
	assert.False(t, b.Started(), "queued entry has no start time yet")

	// Past A's end but inside B's window: B runs from A's end, not from
	// enqueue time.
	fake.Advance(12 * time.Second)
	eng.SimulateToNow(state)
	require.Len(t, player.Queue, 1)
	assert.Equal(t, b.ID, player.Queue[0].ID)
	assert.Equal(t, t0+10_000, b.StartAt)

	fake.Advance(19 * time.Second)
	eng.SimulateToNow(state)
	assert.Empty(t, player.Queue, "31s covers both windows")
}

func TestCancelJob(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	a, err := eng.StartJob(state, player.ID, "scavenge", entities.PaceNormal, StartJobOptions{})
	require.NoError(t, err)
	b, err := eng.StartJob(state, player.ID, "forage", entities.PaceNormal, StartJobOptions{})
	require.NoError(t, err)

	require.Error(t, eng.CancelJob(state, player.ID, "nope"))

	// Cancelling the running head promotes and restarts the next entry.
	require.NoError(t, eng.CancelJob(state, player.ID, a.ID))
	require.Len(t, player.Queue, 1)
	assert.Equal(t, b.ID, player.Queue[0].ID)
	assert.True(t, player.Queue[0].Started())

	require.NoError(t, eng.CancelJob(state, player.ID, b.ID))
	assert.Empty(t, player.Queue)
}

func TestGatherWater(t *testing.T) {
	eng, fake := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	_, err = eng.StartJob(state, player.ID, "gather_water", entities.PaceNormal, StartJobOptions{})
	require.Error(t, err, "container is required")

	_, err = eng.StartJob(state, player.ID, "gather_water", entities.PaceNormal,
		StartJobOptions{ContainerItemID: "bucket"})
	require.Error(t, err, "no bucket in storage")

	dirtyBefore := state.Storage.StackQuantity("water_dirty")
	entry, err := eng.StartJob(state, player.ID, "gather_water", entities.PaceNormal,
		StartJobOptions{ContainerItemID: "waterskin"})
	require.NoError(t, err)
	assert.Equal(t, int64(6*60*1000), entry.DurationMs, "duration comes from the container")

	fake.Advance(7 * time.Minute)
	eng.SimulateToNow(state)

	assert.Equal(t, dirtyBefore+3, state.Storage.StackQuantity("water_dirty"))
	assert.Empty(t, player.Queue)
}

func TestExplore_ReservesAndRefundsProvisions(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	_, err = eng.StartJob(state, player.ID, "explore", entities.PaceNormal,
		StartJobOptions{ActionJobID: "scavenge"})
	require.Error(t, err, "empty pockets cannot provision an outing")

	require.NoError(t, eng.TransferStack(state.Storage, player.Pockets, "berries", 1))
	require.NoError(t, eng.TransferStack(state.Storage, player.Pockets, "water_clean", 1))

	_, err = eng.StartJob(state, player.ID, "explore", entities.PaceNormal,
		StartJobOptions{ActionJobID: "gather_water"})
	require.Error(t, err, "non-explorable action job")

	entry, err := eng.StartJob(state, player.ID, "explore", entities.PaceNormal,
		StartJobOptions{ActionJobID: "scavenge"})
	require.NoError(t, err)
	assert.Equal(t, int32(0), player.Pockets.StackQuantity("berries"))
	assert.Equal(t, int32(0), player.Pockets.StackQuantity("water_clean"))

	require.NoError(t, eng.CancelJob(state, player.ID, entry.ID))
	assert.Equal(t, int32(1), player.Pockets.StackQuantity("berries"))
	assert.Equal(t, int32(1), player.Pockets.StackQuantity("water_clean"))
}

func TestCancelJob_RefundDroppedWhenPocketsFull(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	player := state.Player()

	require.NoError(t, eng.TransferStack(state.Storage, player.Pockets, "berries", 1))
	require.NoError(t, eng.TransferStack(state.Storage, player.Pockets, "water_clean", 1))

	entry, err := eng.StartJob(state, player.ID, "explore", entities.PaceNormal,
		StartJobOptions{ActionJobID: "scavenge"})
	require.NoError(t, err)

	// The reservation emptied the pockets; shrink them so nothing fits
	// back.
	player.Pockets.Capacity = player.Pockets.UsedUnits()

	require.NoError(t, eng.CancelJob(state, player.ID, entry.ID))
	assert.Equal(t, int32(0), player.Pockets.StackQuantity("berries"))
	assert.Equal(t, int32(0), player.Pockets.StackQuantity("water_clean"))
	assert.True(t, hasLogMessage(state, entities.SeverityWarn, "refunded berries is lost"))
	assert.True(t, hasLogMessage(state, entities.SeverityWarn, "refunded water_clean is lost"))
}

func TestExplore_ProvisionChoiceIsStable(t *testing.T) {
	// Identical snapshots must reserve identical provisions, no matter
	// how the pocket stacks happen to hash.
	foods := map[string]bool{}
	waters := map[string]bool{}

	for i := 0; i < 50; i++ {
		eng, _ := newTestEngine(t)
		state, err := eng.NewGame("world-1", "Ada")
		require.NoError(t, err)
		player := state.Player()

		require.NoError(t, eng.AddToInventory(state.Storage, "dried_meat", 1))
		for _, itemID := range []string{"berries", "dried_meat", "water_clean", "water_dirty"} {
			require.NoError(t, eng.TransferStack(state.Storage, player.Pockets, itemID, 1))
		}

		entry, err := eng.StartJob(state, player.ID, "explore", entities.PaceNormal,
			StartJobOptions{ActionJobID: "scavenge"})
		require.NoError(t, err)
		foods[entry.Variant.Explore.FoodItemID] = true
		waters[entry.Variant.Explore.WaterItemID] = true
	}

	assert.Equal(t, map[string]bool{"berries": true}, foods)
	assert.Equal(t, map[string]bool{"water_clean": true}, waters)
}

func TestIdleAutoFill(t *testing.T) {
	eng, fake := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)

	mara, err := eng.Recruit(state, "mara")
	require.NoError(t, err)

	// Safe-pace scavenge runs 11 minutes; 45 minutes of absence fits four
	// back-to-back runs, which is exactly the per-tick fill cap.
	fake.Advance(45 * time.Minute)
	eng.SimulateToNow(state)

	// XP is deterministic: 4 jobs at round(10+11x2) = 32 XP each lifts
	// scavenging from 2 to 3 on the exponential curve.
	assert.Equal(t, int32(3), mara.SkillLevel("scavenging"))
	assert.Equal(t, int32(19), mara.XP["scavenging"])
}

func TestIdleRest_DoesNotAutoFill(t *testing.T) {
	eng, fake := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)

	fake.Advance(45 * time.Minute)
	eng.SimulateToNow(state)

	assert.Empty(t, state.Player().Queue)
	assert.Empty(t, state.Player().XP)
}
