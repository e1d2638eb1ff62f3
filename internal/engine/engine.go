// Package engine implements the deterministic survival simulation: tile
// discovery, time catch-up, job and craft scheduling, outcome
// resolution, and the needs state machine. The engine owns no state of
// its own beyond immutable dependencies; every call threads the
// GameState through explicitly so snapshots serialize cleanly.
package engine

import (
	"fmt"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
	"github.com/caravangame/caravan-api/internal/pkg/clock"
	"github.com/caravangame/caravan-api/internal/pkg/idgen"
)

// Config holds the dependencies for the engine
type Config struct {
	Catalog     *catalogs.Catalog
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Engine runs the simulation. Safe for sequential use only: one
// simulation step completes atomically before the next begins, and
// there is no internal locking.
type Engine struct {
	catalog *catalogs.Catalog
	clock   clock.Clock
	idGen   idgen.Generator
}

// New creates an engine with the provided dependencies.
func New(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Engine{
		catalog: cfg.Catalog,
		clock:   cfg.Clock,
		idGen:   cfg.IDGenerator,
	}, nil
}

// VirtualNow is the simulation clock: real time plus the state's
// admin-adjustable offset, in unix milliseconds.
func (e *Engine) VirtualNow(state *entities.GameState) int64 {
	return e.clock.Now().UnixMilli() + state.TimeOffsetMs
}

// NewGame builds a fresh game state with the player character, base
// stations at level zero, and a small starter kit in shared storage.
func (e *Engine) NewGame(seed, playerName string) (*entities.GameState, error) {
	if seed == "" {
		return nil, errors.InvalidArgument("seed is required")
	}
	if playerName == "" {
		playerName = "Survivor"
	}

	now := e.clock.Now().UnixMilli()

	stations := make(map[string]*entities.Station, len(e.catalog.Stations))
	for _, st := range e.catalog.Stations {
		stations[st.ID] = &entities.Station{ID: st.ID, Level: 0}
	}

	state := &entities.GameState{
		ID:         e.idGen.Generate(),
		Seed:       seed,
		CreatedAt:  now,
		LastSimAt:  now,
		Characters: []*entities.Character{e.newCharacter(playerName, true, nil, entities.IdleRest)},
		Tiles:      make(map[string]*entities.Tile),
		Storage:    entities.NewInventory(e.storageCapacity(stations)),
		Stations:   stations,
	}

	for _, kit := range starterKit {
		if err := e.AddToInventory(state.Storage, kit.ItemID, kit.Quantity); err != nil {
			return nil, errors.Wrap(err, "failed to seed starter kit")
		}
	}

	e.appendLog(state, now, entities.SeveritySystem, "The caravan sets up camp.")
	return state, nil
}

// Recruit adds an NPC from a survivor template to the crew.
func (e *Engine) Recruit(state *entities.GameState, templateID string) (*entities.Character, error) {
	var tpl *catalogs.SurvivorTemplate
	for _, t := range e.catalog.Survivors {
		if t.ID == templateID {
			tpl = t
			break
		}
	}
	if tpl == nil {
		return nil, errors.NotFoundf("survivor template %s not found", templateID)
	}
	for _, c := range state.Characters {
		if c.Name == tpl.Name {
			return nil, errors.AlreadyExistsf("%s already joined the crew", tpl.Name)
		}
	}

	idle := tpl.IdleBehavior
	if idle == "" {
		idle = entities.IdleRest
	}
	ch := e.newCharacter(tpl.Name, false, tpl.Stats, idle)
	state.Characters = append(state.Characters, ch)

	e.appendLog(state, e.VirtualNow(state), entities.SeverityGood,
		fmt.Sprintf("%s joins the caravan.", ch.Name))
	return ch, nil
}

func (e *Engine) newCharacter(name string, isPlayer bool, stats map[string]int32, idle string) *entities.Character {
	copied := make(map[string]int32, len(stats))
	for k, v := range stats {
		copied[k] = v
	}

	return &entities.Character{
		ID:       e.idGen.Generate(),
		Name:     name,
		IsPlayer: isPlayer,
		Stats:    copied,
		XP:       make(map[string]int32),
		Needs: entities.Needs{
			Hunger: newGameHunger,
			Thirst: newGameThirst,
			Morale: newGameMorale,
			Health: newGameHealth,
		},
		Equipment:    make(map[string]*entities.ItemInstance),
		Pockets:      entities.NewInventory(pocketCapacity),
		IdleBehavior: idle,
	}
}

// appendLog records a human-readable event on the capped state log.
func (e *Engine) appendLog(state *entities.GameState, at int64, sev entities.Severity, msg string) {
	state.Log = append(state.Log, entities.LogEntry{At: at, Severity: sev, Message: msg})
	if len(state.Log) > logCap {
		state.Log = state.Log[len(state.Log)-logCap:]
	}
}
