// Package catalogs holds the immutable reference data the simulation
// reads: items, jobs, recipes, stations, biomes, and survivor templates.
// A Catalog is loaded once before simulation starts and only consulted
// through indexed by-id lookups. Saved games reference catalog entries
// by id, so catalogs may grow over time but existing ids must keep
// their meaning.
package catalogs

import (
	"github.com/caravangame/caravan-api/internal/errors"
)

// ToolSpec describes the tool properties of an item.
type ToolSpec struct {
	Tag           string `yaml:"tag" json:"tag"`
	Tier          int32  `yaml:"tier" json:"tier"`
	Power         int32  `yaml:"power" json:"power"`
	MaxDurability int32  `yaml:"max_durability" json:"max_durability"`
}

// ContainerSpec describes a water container used by gather-water jobs.
type ContainerSpec struct {
	WaterUnits int32 `yaml:"water_units" json:"water_units"`
	GatherMs   int64 `yaml:"gather_ms" json:"gather_ms"`
}

// FoodSpec describes an edible item. Ration-flagged food is eligible
// for auto-consumption.
type FoodSpec struct {
	Ration        bool    `yaml:"ration" json:"ration"`
	Quality       int32   `yaml:"quality" json:"quality"`
	RestoreHunger float64 `yaml:"restore_hunger" json:"restore_hunger"`
}

// WaterSpec describes a drinkable item. Dirty water carries a sickness
// chance on top of its thirst restore.
type WaterSpec struct {
	Clean          bool    `yaml:"clean" json:"clean"`
	RestoreThirst  float64 `yaml:"restore_thirst" json:"restore_thirst"`
	SicknessChance float64 `yaml:"sickness_chance,omitempty" json:"sickness_chance,omitempty"`
}

// Item is a catalog entry for a stackable good or unique equipment.
type Item struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Stackable bool     `yaml:"stackable" json:"stackable"`
	Tags      []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	Food      *FoodSpec      `yaml:"food,omitempty" json:"food,omitempty"`
	Water     *WaterSpec     `yaml:"water,omitempty" json:"water,omitempty"`
	Tool      *ToolSpec      `yaml:"tool,omitempty" json:"tool,omitempty"`
	Container *ContainerSpec `yaml:"container,omitempty" json:"container,omitempty"`

	Slot       string  `yaml:"slot,omitempty" json:"slot,omitempty"` // equip slot for instances
	Protection float64 `yaml:"protection,omitempty" json:"protection,omitempty"`

	Revival bool   `yaml:"revival,omitempty" json:"revival,omitempty"`
	Cures   string `yaml:"cures,omitempty" json:"cures,omitempty"` // "sickness" or "injury"
}

// HasTag reports whether the item carries the given tag.
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// YieldEntry is one row of a job's loot table.
type YieldEntry struct {
	ItemID string  `yaml:"item_id" json:"item_id"`
	Min    int32   `yaml:"min" json:"min"`
	Max    int32   `yaml:"max" json:"max"`
	Chance float64 `yaml:"chance" json:"chance"`
}

// JobVariant distinguishes special jobs that need extra handling inside
// resolution.
type JobVariant string

// Job variants
const (
	VariantNone        JobVariant = ""
	VariantGatherWater JobVariant = "gather_water"
	VariantExplore     JobVariant = "explore"
)

// Job is a timed activity a character performs.
type Job struct {
	ID             string       `yaml:"id" json:"id"`
	Name           string       `yaml:"name" json:"name"`
	Skill          string       `yaml:"skill" json:"skill"`
	BaseDurationMs int64        `yaml:"base_duration_ms" json:"base_duration_ms"`
	Strain         float64      `yaml:"strain" json:"strain"` // hunger/thirst cost scale
	ToolTag        string       `yaml:"tool_tag,omitempty" json:"tool_tag,omitempty"`
	RequiresItemID string       `yaml:"requires_item_id,omitempty" json:"requires_item_id,omitempty"`
	Yields         []YieldEntry `yaml:"yields,omitempty" json:"yields,omitempty"`
	Variant        JobVariant   `yaml:"variant,omitempty" json:"variant,omitempty"`
	Explorable     bool         `yaml:"explorable,omitempty" json:"explorable,omitempty"` // usable as an explore action job
}

// ItemAmount pairs an item id with a quantity in catalog data.
type ItemAmount struct {
	ItemID   string `yaml:"item_id" json:"item_id"`
	Quantity int32  `yaml:"quantity" json:"quantity"`
}

// Recipe converts inputs into outputs at a station.
type Recipe struct {
	ID         string       `yaml:"id" json:"id"`
	Name       string       `yaml:"name" json:"name"`
	StationID  string       `yaml:"station_id" json:"station_id"`
	DurationMs int64        `yaml:"duration_ms" json:"duration_ms"`
	Inputs     []ItemAmount `yaml:"inputs" json:"inputs"`
	Outputs    []ItemAmount `yaml:"outputs" json:"outputs"`
}

// StationLevel describes one upgrade step of a station.
type StationLevel struct {
	Capacity    int32        `yaml:"capacity,omitempty" json:"capacity,omitempty"` // storage stations only
	UpgradeCost []ItemAmount `yaml:"upgrade_cost,omitempty" json:"upgrade_cost,omitempty"`
}

// Station is a base facility type. Levels[0] is the starting level; the
// upgrade cost on level N is what it takes to move from N-1 to N.
type Station struct {
	ID     string         `yaml:"id" json:"id"`
	Name   string         `yaml:"name" json:"name"`
	Levels []StationLevel `yaml:"levels" json:"levels"`
}

// Biome is a named environment type with a spawn weight and per-item
// yield modifiers.
type Biome struct {
	ID               string             `yaml:"id" json:"id"`
	Name             string             `yaml:"name" json:"name"`
	Weight           float64            `yaml:"weight" json:"weight"`
	Tags             []string           `yaml:"tags,omitempty" json:"tags,omitempty"`
	YieldMultipliers map[string]float64 `yaml:"yield_multipliers,omitempty" json:"yield_multipliers,omitempty"`
}

// SurvivorTemplate seeds a recruited NPC.
type SurvivorTemplate struct {
	ID           string           `yaml:"id" json:"id"`
	Name         string           `yaml:"name" json:"name"`
	Stats        map[string]int32 `yaml:"stats,omitempty" json:"stats,omitempty"`
	IdleBehavior string           `yaml:"idle_behavior,omitempty" json:"idle_behavior,omitempty"`
}

// Catalog bundles all reference data. Slices preserve declaration order
// (the biome roulette and its first-entry fallback depend on it); maps
// are derived indexes built by Index.
type Catalog struct {
	Items     []*Item             `yaml:"items" json:"items"`
	Jobs      []*Job              `yaml:"jobs" json:"jobs"`
	Recipes   []*Recipe           `yaml:"recipes" json:"recipes"`
	Stations  []*Station          `yaml:"stations" json:"stations"`
	Biomes    []*Biome            `yaml:"biomes" json:"biomes"`
	Survivors []*SurvivorTemplate `yaml:"survivors,omitempty" json:"survivors,omitempty"`

	itemsByID    map[string]*Item
	jobsByID     map[string]*Job
	recipesByID  map[string]*Recipe
	stationsByID map[string]*Station
	biomesByID   map[string]*Biome
}

// Index rebuilds the by-id lookup maps. Must be called after the data
// slices change; Default and Load do it for you.
func (c *Catalog) Index() {
	c.itemsByID = make(map[string]*Item, len(c.Items))
	for _, it := range c.Items {
		c.itemsByID[it.ID] = it
	}
	c.jobsByID = make(map[string]*Job, len(c.Jobs))
	for _, j := range c.Jobs {
		c.jobsByID[j.ID] = j
	}
	c.recipesByID = make(map[string]*Recipe, len(c.Recipes))
	for _, r := range c.Recipes {
		c.recipesByID[r.ID] = r
	}
	c.stationsByID = make(map[string]*Station, len(c.Stations))
	for _, s := range c.Stations {
		c.stationsByID[s.ID] = s
	}
	c.biomesByID = make(map[string]*Biome, len(c.Biomes))
	for _, b := range c.Biomes {
		c.biomesByID[b.ID] = b
	}
}

// ItemByID looks up an item, nil if unknown.
func (c *Catalog) ItemByID(id string) *Item { return c.itemsByID[id] }

// JobByID looks up a job, nil if unknown.
func (c *Catalog) JobByID(id string) *Job { return c.jobsByID[id] }

// RecipeByID looks up a recipe, nil if unknown.
func (c *Catalog) RecipeByID(id string) *Recipe { return c.recipesByID[id] }

// StationByID looks up a station type, nil if unknown.
func (c *Catalog) StationByID(id string) *Station { return c.stationsByID[id] }

// BiomeByID looks up a biome, nil if unknown.
func (c *Catalog) BiomeByID(id string) *Biome { return c.biomesByID[id] }

// Validate checks cross-references inside the catalog so a bad data
// file fails at startup instead of mid-simulation.
func (c *Catalog) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(c.Biomes) == 0 {
		vb.RequiredField("biomes")
	}
	for _, j := range c.Jobs {
		for _, y := range j.Yields {
			if c.ItemByID(y.ItemID) == nil {
				vb.InvalidField("jobs", "job "+j.ID+" yields unknown item "+y.ItemID)
			}
		}
		if j.RequiresItemID != "" && c.ItemByID(j.RequiresItemID) == nil {
			vb.InvalidField("jobs", "job "+j.ID+" requires unknown item "+j.RequiresItemID)
		}
	}
	for _, r := range c.Recipes {
		if c.StationByID(r.StationID) == nil {
			vb.InvalidField("recipes", "recipe "+r.ID+" references unknown station "+r.StationID)
		}
		for _, in := range r.Inputs {
			if c.ItemByID(in.ItemID) == nil {
				vb.InvalidField("recipes", "recipe "+r.ID+" consumes unknown item "+in.ItemID)
			}
		}
		for _, out := range r.Outputs {
			if c.ItemByID(out.ItemID) == nil {
				vb.InvalidField("recipes", "recipe "+r.ID+" produces unknown item "+out.ItemID)
			}
		}
	}
	for _, s := range c.Stations {
		if len(s.Levels) == 0 {
			vb.InvalidField("stations", "station "+s.ID+" has no levels")
		}
	}

	return vb.Build()
}
