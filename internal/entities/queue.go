package entities

// Pace trades duration against yield and risk.
type Pace string

// Pace settings
const (
	PaceSafe   Pace = "safe"
	PaceNormal Pace = "normal"
	PacePush   Pace = "push"
)

// Valid reports whether p is a known pace setting.
func (p Pace) Valid() bool {
	switch p {
	case PaceSafe, PaceNormal, PacePush:
		return true
	}
	return false
}

// GatherWaterMeta carries the container choice for a gather-water job.
// Duration and yield come from the container, not the job catalog.
type GatherWaterMeta struct {
	ContainerItemID string `json:"container_item_id"`
	WaterUnits      int32  `json:"water_units"`
}

// ExploreMeta carries the provisions reserved when an explore job was
// queued. The reservation is refunded to pockets on cancellation.
type ExploreMeta struct {
	ActionJobID  string `json:"action_job_id"`
	FoodItemID   string `json:"food_item_id"`
	WaterItemID  string `json:"water_item_id"`
}

// VariantMeta is a tagged union over special job variants. At most one
// field is non-nil; a plain job carries no VariantMeta at all.
type VariantMeta struct {
	GatherWater *GatherWaterMeta `json:"gather_water,omitempty"`
	Explore     *ExploreMeta     `json:"explore,omitempty"`
}

// JobEntry is one unit of work in a character's queue. StartAt zero
// means queued but not yet running.
type JobEntry struct {
	ID         string       `json:"id"`
	JobID      string       `json:"job_id"`
	Pace       Pace         `json:"pace"`
	CreatedAt  int64        `json:"created_at"`
	StartAt    int64        `json:"start_at,omitempty"`
	DurationMs int64        `json:"duration_ms"`
	TileID     string       `json:"tile_id,omitempty"`
	Variant    *VariantMeta `json:"variant,omitempty"`
	ToolUsable bool         `json:"tool_usable"`
}

// Started reports whether the entry has begun running.
func (e *JobEntry) Started() bool {
	return e.StartAt > 0
}

// EndsAt returns the entry's completion time, zero if not started.
func (e *JobEntry) EndsAt() int64 {
	if !e.Started() {
		return 0
	}
	return e.StartAt + e.DurationMs
}

// CraftEntry is one unit of work in a station's queue. Inputs were
// already deducted from storage when the entry was queued, so a queued
// craft is always fully paid for.
type CraftEntry struct {
	ID             string         `json:"id"`
	RecipeID       string         `json:"recipe_id"`
	CreatedAt      int64          `json:"created_at"`
	StartAt        int64          `json:"start_at,omitempty"`
	DurationMs     int64          `json:"duration_ms"`
	ReservedInputs []ItemQuantity `json:"reserved_inputs"`
}

// Started reports whether the entry has begun running.
func (e *CraftEntry) Started() bool {
	return e.StartAt > 0
}

// EndsAt returns the entry's completion time, zero if not started.
func (e *CraftEntry) EndsAt() int64 {
	if !e.Started() {
		return 0
	}
	return e.StartAt + e.DurationMs
}
