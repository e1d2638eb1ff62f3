// Package entities implements the simulation's data model. These are
// data-only structs: all rules (drains, resolution, capacity checks)
// live in internal/engine, and the whole graph is JSON-serializable so
// a snapshot can round-trip through persistence unchanged.
package entities

// Equipment slot names
const (
	SlotTool = "tool"
	SlotBody = "body"
	SlotLegs = "legs"
)

// Idle behaviors. Anything other than these two is treated as a job ID
// the character falls back to when its queue runs dry.
const (
	IdleNone = "none"
	IdleRest = "rest"
)

// Needs are continuous values in [0, 100].
type Needs struct {
	Hunger float64 `json:"hunger"`
	Thirst float64 `json:"thirst"`
	Morale float64 `json:"morale"`
	Health float64 `json:"health"`
}

// Moodlet is a timed morale modifier. Magnitude may be negative.
type Moodlet struct {
	ID        string  `json:"id"`
	EndsAt    int64   `json:"ends_at"`
	Magnitude float64 `json:"magnitude"`
}

// InjurySeverity distinguishes minor from major injuries.
type InjurySeverity string

// Injury severities
const (
	InjuryMinor InjurySeverity = "minor"
	InjuryMajor InjurySeverity = "major"
)

// Injury is a timed condition applied by job resolution.
type Injury struct {
	Severity InjurySeverity `json:"severity"`
	EndsAt   int64          `json:"ends_at"`
}

// Sickness is a timed condition applied by job resolution or bad water.
type Sickness struct {
	EndsAt int64 `json:"ends_at"`
}

// Conditions tracks a character's afflictions. Nil pointers mean the
// condition is absent.
type Conditions struct {
	Sickness *Sickness `json:"sickness,omitempty"`
	Injury   *Injury   `json:"injury,omitempty"`
	Downed   bool      `json:"downed"`
}

// Character is a crew member. The player character is created once at
// new-game; NPCs are created by recruitment.
type Character struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	IsPlayer     bool                     `json:"is_player"`
	Stats        map[string]int32         `json:"stats"` // skill -> level
	XP           map[string]int32         `json:"xp"`    // skill -> points
	Needs        Needs                    `json:"needs"`
	Moodlets     []Moodlet                `json:"moodlets,omitempty"`
	Conditions   Conditions               `json:"conditions"`
	Equipment    map[string]*ItemInstance `json:"equipment,omitempty"` // slot -> equipped instance
	Pockets      *Inventory               `json:"pockets"`
	IdleBehavior string                   `json:"idle_behavior"`
	Queue        []*JobEntry              `json:"queue,omitempty"` // FIFO, head is index 0
}

// SkillLevel returns the character's level in a skill, zero if untrained.
func (c *Character) SkillLevel(skill string) int32 {
	if c.Stats == nil {
		return 0
	}
	return c.Stats[skill]
}

// Equipped returns the instance in the given slot, nil if empty.
func (c *Character) Equipped(slot string) *ItemInstance {
	if c.Equipment == nil {
		return nil
	}
	return c.Equipment[slot]
}

// MoraleModifier sums the magnitudes of all active moodlets.
func (c *Character) MoraleModifier() float64 {
	total := 0.0
	for _, m := range c.Moodlets {
		total += m.Magnitude
	}
	return total
}

// Busy reports whether the character has a running or queued job.
func (c *Character) Busy() bool {
	return len(c.Queue) > 0
}
