package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/pkg/clock"
	"github.com/caravangame/caravan-api/internal/pkg/idgen"
)

func newTestEngine(t *testing.T) (*Engine, *clock.Fake) {
	t.Helper()

	fake := clock.NewFake(time.Unix(1_700_000_000, 0))
	eng, err := New(&Config{
		Catalog:     catalogs.Default(),
		Clock:       fake,
		IDGenerator: idgen.NewSequential("test"),
	})
	require.NoError(t, err)
	return eng, fake
}

func hasLogMessage(state *entities.GameState, sev entities.Severity, substr string) bool {
	for _, l := range state.Log {
		if l.Severity == sev && strings.Contains(l.Message, substr) {
			return true
		}
	}
	return false
}

func TestNew_ValidatesConfig(t *testing.T) {
	_, err := New(&Config{})
	require.Error(t, err)
}

func TestNewGame(t *testing.T) {
	eng, _ := newTestEngine(t)

	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)

	player := state.Player()
	require.NotNil(t, player)
	assert.Equal(t, "Ada", player.Name)
	assert.Equal(t, 80.0, player.Needs.Hunger)
	assert.Equal(t, 80.0, player.Needs.Thirst)
	assert.Equal(t, 80.0, player.Needs.Morale)
	assert.Equal(t, 100.0, player.Needs.Health)

	require.Contains(t, state.Stations, "storage")
	assert.Equal(t, int32(0), state.Stations["storage"].Level)
	assert.Equal(t, int32(60), state.Storage.Capacity)

	// Starter kit landed in shared storage.
	assert.Equal(t, int32(4), state.Storage.StackQuantity("berries"))
	assert.Equal(t, int32(4), state.Storage.StackQuantity("water_clean"))
}

func TestNewGame_RequiresSeed(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.NewGame("", "Ada")
	require.Error(t, err)
}

func TestRecruit(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)

	ch, err := eng.Recruit(state, "mara")
	require.NoError(t, err)
	assert.Equal(t, "Mara", ch.Name)
	assert.False(t, ch.IsPlayer)
	assert.Equal(t, int32(2), ch.SkillLevel("scavenging"))
	assert.Equal(t, "scavenge", ch.IdleBehavior)
	assert.Len(t, state.Characters, 2)

	_, err = eng.Recruit(state, "mara")
	require.Error(t, err, "recruiting the same survivor twice")

	_, err = eng.Recruit(state, "nobody")
	require.Error(t, err)
}

func TestAppendLog_Capped(t *testing.T) {
	eng, _ := newTestEngine(t)
	state, err := eng.NewGame("world-1", "Ada")
	require.NoError(t, err)

	for i := 0; i < logCap+50; i++ {
		eng.appendLog(state, int64(i), "info", "tick")
	}
	assert.Len(t, state.Log, logCap)
}
