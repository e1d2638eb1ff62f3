package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/pkg/clock"
	"github.com/caravangame/caravan-api/internal/pkg/idgen"
)

func TestQueueCraft_DeductsInputsUpFront(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)

	// Starter kit carries exactly three fiber.
	entry, err := eng.QueueCraft(state, "workbench", "craft_waterskin")
	require.NoError(t, err)
	assert.Equal(t, int32(0), state.Storage.StackQuantity("fiber"))
	assert.Equal(t, []string{"fiber"}, reservedItemIDs(entry.ReservedInputs))

	_, err = eng.QueueCraft(state, "workbench", "craft_waterskin")
	require.Error(t, err, "inputs already spent")
}

func TestQueueCraft_Validation(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)

	_, err = eng.QueueCraft(state, "forge", "craft_waterskin")
	require.Error(t, err)

	_, err = eng.QueueCraft(state, "workbench", "transmute_lead")
	require.Error(t, err)

	_, err = eng.QueueCraft(state, "campfire", "craft_waterskin")
	require.Error(t, err, "recipe belongs to the workbench")
}

func TestCancelCraft_RefundsInputs(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)

	entry, err := eng.QueueCraft(state, "workbench", "craft_waterskin")
	require.NoError(t, err)
	require.Equal(t, int32(0), state.Storage.StackQuantity("fiber"))

	require.NoError(t, eng.CancelCraft(state, "workbench", entry.ID))
	assert.Equal(t, int32(3), state.Storage.StackQuantity("fiber"))
	assert.Empty(t, state.Stations["workbench"].Queue)

	require.Error(t, eng.CancelCraft(state, "workbench", entry.ID))
}

func TestCancelCraft_RefundDroppedWhenStorageFull(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	require.NoError(t, eng.AddToInventory(state.Storage, "wood", 1))

	entry, err := eng.QueueCraft(state, "campfire", "purify_water")
	require.NoError(t, err)
	require.Equal(t, int32(0), state.Storage.StackQuantity("wood"),
		"queueing emptied the wood stack")

	// No free units left: the wood refund needs a fresh stack and is
	// dropped, the dirty-water refund tops up its surviving stack.
	state.Storage.Capacity = state.Storage.UsedUnits()

	require.NoError(t, eng.CancelCraft(state, "campfire", entry.ID))
	assert.Equal(t, int32(0), state.Storage.StackQuantity("wood"))
	assert.Equal(t, int32(2), state.Storage.StackQuantity("water_dirty"))
	assert.True(t, hasLogMessage(state, entities.SeverityWarn, "wood from a cancelled craft is lost"))
}

func TestResolveCraft_StorageFullDropsPerOutput(t *testing.T) {
	fake := clock.NewFake(time.Unix(1_700_000_000, 0))
	cat := catalogs.Default()
	cat.Recipes = append(cat.Recipes, &catalogs.Recipe{
		ID: "strip_cordage", Name: "Strip Cordage", StationID: "workbench",
		DurationMs: 60 * 1000,
		Inputs:     []catalogs.ItemAmount{{ItemID: "fiber", Quantity: 1}},
		Outputs: []catalogs.ItemAmount{
			{ItemID: "wood", Quantity: 1},
			{ItemID: "fiber", Quantity: 2},
		},
	})
	cat.Index()
	eng, err := New(&Config{
		Catalog:     cat,
		Clock:       fake,
		IDGenerator: idgen.NewSequential("test"),
	})
	require.NoError(t, err)

	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)

	_, err = eng.QueueCraft(state, "workbench", "strip_cordage")
	require.NoError(t, err)

	// Full storage: the wood output would need a fresh stack and is
	// lost, the fiber output still lands on its existing stack.
	state.Storage.Capacity = state.Storage.UsedUnits()

	fake.Advance(2 * time.Minute)
	eng.SimulateToNow(state)

	assert.Empty(t, state.Stations["workbench"].Queue)
	assert.Equal(t, int32(0), state.Storage.StackQuantity("wood"))
	assert.Equal(t, int32(4), state.Storage.StackQuantity("fiber"),
		"three starter minus one input plus two output")
	assert.True(t, hasLogMessage(state, entities.SeverityWarn, "wood from the workbench is lost"))
}

func TestCraftCompletion(t *testing.T) {
	eng, fake := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	require.NoError(t, eng.AddToInventory(state.Storage, "wood", 2))

	_, err = eng.QueueCraft(state, "campfire", "purify_water")
	require.NoError(t, err)
	cleanBefore := state.Storage.StackQuantity("water_clean")

	fake.Advance(4 * time.Minute)
	eng.SimulateToNow(state)

	assert.Equal(t, cleanBefore+1, state.Storage.StackQuantity("water_clean"))
	assert.Empty(t, state.Stations["campfire"].Queue)
}

func TestCraftQueue_ChainsBackToBack(t *testing.T) {
	eng, fake := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)
	require.NoError(t, eng.AddToInventory(state.Storage, "wood", 4))

	first, err := eng.QueueCraft(state, "campfire", "purify_water")
	require.NoError(t, err)
	second, err := eng.QueueCraft(state, "campfire", "purify_water")
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.StartAt)

	// One step past both three-minute windows: the second ran from the
	// first's end, not from its own enqueue time.
	fake.Advance(7 * time.Minute)
	eng.SimulateToNow(state)

	assert.Empty(t, state.Stations["campfire"].Queue)
	assert.Equal(t, first.StartAt+first.DurationMs, second.StartAt)
}

func reservedItemIDs(reserved []entities.ItemQuantity) []string {
	ids := make([]string, 0, len(reserved))
	for _, r := range reserved {
		ids = append(ids, r.ItemID)
	}
	return ids
}
