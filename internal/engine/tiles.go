package engine

import (
	"fmt"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
	"github.com/caravangame/caravan-api/internal/pkg/seedrand"
)

// DefaultTileID is the deterministic fallback tile used when the player
// never set a location: the geocode of (0, 0) at standard precision.
func DefaultTileID() string {
	id, err := Encode(0, 0, geoPrecision)
	if err != nil {
		// Static inputs; cannot fail.
		panic(err)
	}
	return id
}

// SetLocation geocodes a coordinate, discovers the tile, and makes it
// the crew's acting tile.
func (e *Engine) SetLocation(state *entities.GameState, lat, lon float64) (*entities.Tile, error) {
	tileID, err := Encode(lat, lon, geoPrecision)
	if err != nil {
		return nil, err
	}

	tile := e.GetOrCreateTile(state, tileID)
	if state.LocationTileID != tileID {
		state.LocationTileID = tileID
		biome := e.catalog.BiomeByID(tile.BiomeID)
		name := tile.BiomeID
		if biome != nil {
			name = biome.Name
		}
		e.appendLog(state, e.VirtualNow(state), entities.SeverityInfo,
			fmt.Sprintf("The caravan rolls into %s territory.", name))
	}
	return tile, nil
}

// GetOrCreateTile returns the tile for tileID, rolling its biome on
// first discovery. Idempotent: a discovered tile is returned unchanged,
// never re-rolled.
func (e *Engine) GetOrCreateTile(state *entities.GameState, tileID string) *entities.Tile {
	if tile, ok := state.Tiles[tileID]; ok {
		return tile
	}

	tile := &entities.Tile{
		ID:        tileID,
		BiomeID:   e.rollBiome(state, tileID),
		CreatedAt: e.VirtualNow(state),
	}

	// The very first discovered tile carries a scripted encounter,
	// exactly once per game.
	if !state.FirstTileSeen {
		state.FirstTileSeen = true
		tile.HasEncounter = true
	}

	state.Tiles[tileID] = tile
	return tile
}

// rollBiome picks a biome by cumulative-weight roulette over the
// catalog's base weights, nudged toward biomes already present on
// cardinal neighbors so regions come out contiguous.
func (e *Engine) rollBiome(state *entities.GameState, tileID string) string {
	biomes := e.catalog.Biomes
	if len(biomes) == 0 {
		return ""
	}

	rng := seedrand.New(seedrand.CompositeSeed(state.Seed, tileID))

	weights := make([]float64, len(biomes))
	for i, b := range biomes {
		weights[i] = b.Weight
	}

	var reference *catalogs.Biome
	for _, dir := range []Direction{North, South, East, West} {
		adjID, err := Adjacent(tileID, dir)
		if err != nil {
			continue
		}
		neighbor, ok := state.Tiles[adjID]
		if !ok {
			continue
		}
		nb := e.catalog.BiomeByID(neighbor.BiomeID)
		if nb == nil {
			continue
		}
		if reference == nil {
			reference = nb
		}
		for i, b := range biomes {
			if b.ID == nb.ID {
				weights[i] += neighborBiomeBonus
			}
		}
	}

	// A smaller bonus for biomes sharing tags with one reference
	// neighbor, so e.g. "wet" biomes drift toward each other.
	if reference != nil {
		for i, b := range biomes {
			weights[i] += sharedTagBonusPerTag * float64(sharedTags(b.Tags, reference.Tags))
		}
	}

	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return biomes[0].ID
	}

	roll := rng.Float64() * total
	acc := 0.0
	for i, b := range biomes {
		if weights[i] <= 0 {
			continue
		}
		acc += weights[i]
		if roll < acc {
			return b.ID
		}
	}
	return biomes[len(biomes)-1].ID
}

func sharedTags(a, b []string) int {
	count := 0
	for _, ta := range a {
		for _, tb := range b {
			if ta == tb {
				count++
			}
		}
	}
	return count
}

// ActingTile resolves the tile jobs run on: the current location, or
// the deterministic default when no location was ever set.
func (e *Engine) ActingTile(state *entities.GameState) *entities.Tile {
	tileID := state.LocationTileID
	if tileID == "" {
		tileID = DefaultTileID()
	}
	return e.GetOrCreateTile(state, tileID)
}

// TileNeighbors exposes the grid adjacency for a discovered tile.
func (e *Engine) TileNeighbors(tileID string) (map[Direction]string, error) {
	if tileID == "" {
		return nil, errors.InvalidArgument("tile id is empty")
	}
	return Neighbors(tileID)
}
