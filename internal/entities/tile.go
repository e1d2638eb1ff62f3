package entities

// Tile is a discovered grid cell. The biome is rolled once at discovery
// and never changes afterwards.
type Tile struct {
	ID           string `json:"id"`
	BiomeID      string `json:"biome_id"`
	CreatedAt    int64  `json:"created_at"`
	HasEncounter bool   `json:"has_encounter,omitempty"` // one-shot tutorial encounter
}
