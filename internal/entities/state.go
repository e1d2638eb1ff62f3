package entities

// Severity tags a log line for the presentation layer.
type Severity string

// Log severities
const (
	SeverityInfo   Severity = "info"
	SeverityGood   Severity = "good"
	SeverityBad    Severity = "bad"
	SeverityWarn   Severity = "warn"
	SeveritySystem Severity = "system"
)

// LogEntry is one human-readable line in the capped event log.
type LogEntry struct {
	At       int64    `json:"at"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Station is a placed base facility with a per-game upgrade level and a
// FIFO craft queue. Its capabilities come from the station catalog.
type Station struct {
	ID    string        `json:"id"` // station catalog id, one station per type
	Level int32         `json:"level"`
	Queue []*CraftEntry `json:"queue,omitempty"` // FIFO, head is index 0
}

// GameState is the complete, serializable simulation state. It is the
// single owner of all mutable data; the engine threads it through every
// call and never reads ambient globals.
type GameState struct {
	ID           string `json:"id"`
	Seed         string `json:"seed"`
	CreatedAt    int64  `json:"created_at"`
	LastSimAt    int64  `json:"last_sim_at"`
	TimeOffsetMs int64  `json:"time_offset_ms"` // admin fast-forward, zero in normal play

	LocationTileID string `json:"location_tile_id,omitempty"`
	FirstTileSeen  bool   `json:"first_tile_seen"`

	Characters []*Character        `json:"characters"`
	Tiles      map[string]*Tile    `json:"tiles"`
	Storage    *Inventory          `json:"storage"`
	Stations   map[string]*Station `json:"stations"`

	Log []LogEntry `json:"log,omitempty"`
}

// CharacterByID finds a crew member, nil if absent.
func (s *GameState) CharacterByID(id string) *Character {
	for _, c := range s.Characters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Player returns the player character, nil if the state is malformed.
func (s *GameState) Player() *Character {
	for _, c := range s.Characters {
		if c.IsPlayer {
			return c
		}
	}
	return nil
}
