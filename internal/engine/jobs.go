package engine

import (
	"fmt"
	"math"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
)

// StartJobOptions carries variant-specific parameters for queueing a
// job.
type StartJobOptions struct {
	// ContainerItemID selects the water container for gather_water.
	ContainerItemID string
	// ActionJobID selects which job's yield table an explore success
	// applies.
	ActionJobID string
	// DurationMs overrides the computed duration when positive. Used by
	// variant jobs with container-dependent timing.
	DurationMs int64
}

// StartJob validates and enqueues a job at the tail of the character's
// queue. If the queue was empty the entry starts immediately.
func (e *Engine) StartJob(state *entities.GameState, charID, jobID string, pace entities.Pace, opts StartJobOptions) (*entities.JobEntry, error) {
	char := state.CharacterByID(charID)
	if char == nil {
		return nil, errors.NotFoundf("character %s not found", charID)
	}
	if char.Conditions.Downed {
		return nil, errors.FailedPreconditionf("%s is down and cannot work", char.Name)
	}
	if pace == "" {
		pace = entities.PaceNormal
	}
	if !pace.Valid() {
		return nil, errors.InvalidArgumentf("unknown pace %q", pace)
	}
	job := e.catalog.JobByID(jobID)
	if job == nil {
		return nil, errors.NotFoundf("job %s not found", jobID)
	}
	if job.RequiresItemID != "" && !e.HasItem(state.Storage, job.RequiresItemID) {
		item := e.catalog.ItemByID(job.RequiresItemID)
		return nil, errors.FailedPreconditionf("requires %s in storage", item.Name)
	}

	// A missing tool is not fatal; it degrades outcomes instead.
	toolUsable := false
	if job.ToolTag != "" {
		if tool := e.equippedTool(char); tool != nil && tool.Tag == job.ToolTag {
			toolUsable = true
		}
	}

	now := e.VirtualNow(state)
	entry := &entities.JobEntry{
		ID:         e.idGen.Generate(),
		JobID:      job.ID,
		Pace:       pace,
		CreatedAt:  now,
		TileID:     e.ActingTile(state).ID,
		ToolUsable: toolUsable,
	}

	switch job.Variant {
	case catalogs.VariantGatherWater:
		meta, durationMs, err := e.prepareGatherWater(state, opts)
		if err != nil {
			return nil, err
		}
		entry.Variant = &entities.VariantMeta{GatherWater: meta}
		entry.DurationMs = durationMs
	case catalogs.VariantExplore:
		meta, err := e.reserveExploreProvisions(char, opts)
		if err != nil {
			return nil, err
		}
		entry.Variant = &entities.VariantMeta{Explore: meta}
	}

	if entry.DurationMs == 0 {
		entry.DurationMs = paceDuration(job.BaseDurationMs, pace)
	}
	if opts.DurationMs > 0 {
		entry.DurationMs = opts.DurationMs
	}

	if len(char.Queue) == 0 {
		entry.StartAt = now
	}
	char.Queue = append(char.Queue, entry)

	e.appendLog(state, now, entities.SeverityInfo,
		fmt.Sprintf("%s sets out to %s (%s pace).", char.Name, job.Name, pace))
	return entry, nil
}

// paceDuration applies the pace time multiplier and rounds to whole
// seconds.
func paceDuration(baseMs int64, pace entities.Pace) int64 {
	scaled := float64(baseMs) * paceProfiles[pace].time
	return int64(math.Round(scaled/1000)) * 1000
}

func (e *Engine) prepareGatherWater(state *entities.GameState, opts StartJobOptions) (*entities.GatherWaterMeta, int64, error) {
	if opts.ContainerItemID == "" {
		return nil, 0, errors.InvalidArgument("gather_water needs a container")
	}
	item := e.catalog.ItemByID(opts.ContainerItemID)
	if item == nil || item.Container == nil {
		return nil, 0, errors.InvalidArgumentf("%s is not a water container", opts.ContainerItemID)
	}
	if !e.HasItem(state.Storage, item.ID) {
		return nil, 0, errors.FailedPreconditionf("no %s in storage", item.Name)
	}
	meta := &entities.GatherWaterMeta{
		ContainerItemID: item.ID,
		WaterUnits:      item.Container.WaterUnits,
	}
	return meta, item.Container.GatherMs, nil
}

// reserveExploreProvisions takes one ration and one water unit out of
// the character's pockets up front. Fully rolled back if either half is
// missing.
func (e *Engine) reserveExploreProvisions(char *entities.Character, opts StartJobOptions) (*entities.ExploreMeta, error) {
	if opts.ActionJobID == "" {
		return nil, errors.InvalidArgument("explore needs an action job")
	}
	action := e.catalog.JobByID(opts.ActionJobID)
	if action == nil {
		return nil, errors.NotFoundf("job %s not found", opts.ActionJobID)
	}
	if !action.Explorable {
		return nil, errors.InvalidArgumentf("%s cannot be done while exploring", action.Name)
	}

	var foodID, waterID string
	for _, itemID := range sortedStackIDs(char.Pockets) {
		if char.Pockets.Stacks[itemID] <= 0 {
			continue
		}
		item := e.catalog.ItemByID(itemID)
		if item == nil {
			continue
		}
		if foodID == "" && item.Food != nil && item.Food.Ration {
			foodID = itemID
		}
		if waterID == "" && item.Water != nil {
			waterID = itemID
		}
	}
	if foodID == "" || waterID == "" {
		return nil, errors.FailedPrecondition("exploring needs one ration and one water in pockets")
	}

	_ = e.RemoveFromInventory(char.Pockets, foodID, 1)
	_ = e.RemoveFromInventory(char.Pockets, waterID, 1)

	return &entities.ExploreMeta{
		ActionJobID: action.ID,
		FoodItemID:  foodID,
		WaterItemID: waterID,
	}, nil
}

// CancelJob removes an entry wherever it sits in the queue, refunds any
// variant reservation, and restarts the new head if the running entry
// was removed.
func (e *Engine) CancelJob(state *entities.GameState, charID, entryID string) error {
	char := state.CharacterByID(charID)
	if char == nil {
		return errors.NotFoundf("character %s not found", charID)
	}

	queue, removed, idx := removeWhere(char.Queue, func(j *entities.JobEntry) bool { return j.ID == entryID })
	if removed == nil {
		return errors.NotFoundf("job entry %s not found", entryID)
	}
	char.Queue = queue

	now := e.VirtualNow(state)
	e.refundJobReservation(state, char, removed, now)

	if idx == 0 && len(char.Queue) > 0 && !char.Queue[0].Started() {
		char.Queue[0].StartAt = now
	}

	e.appendLog(state, now, entities.SeverityInfo,
		fmt.Sprintf("%s abandons a job.", char.Name))
	return nil
}

// refundJobReservation returns resources reserved at queue time. A
// refund that no longer fits is dropped and logged, never rolled back.
func (e *Engine) refundJobReservation(state *entities.GameState, char *entities.Character, entry *entities.JobEntry, now int64) {
	if entry.Variant == nil || entry.Variant.Explore == nil {
		return
	}
	meta := entry.Variant.Explore
	for _, itemID := range []string{meta.FoodItemID, meta.WaterItemID} {
		if itemID == "" {
			continue
		}
		if err := e.AddToInventory(char.Pockets, itemID, 1); err != nil {
			e.appendLog(state, now, entities.SeverityWarn,
				fmt.Sprintf("%s's pockets are full; a refunded %s is lost.", char.Name, itemID))
		}
	}
}

// tickJobs advances one character's queue to the given virtual time:
// idle auto-fill, head start stamping, and the completion loop. When a
// completed entry is popped the next one starts exactly at its end
// time, so back-to-back jobs chain without gaps or overlaps.
func (e *Engine) tickJobs(state *entities.GameState, char *entities.Character, now int64) {
	// Where new work starts when the queue was idle: the last simulated
	// instant, so idle behavior makes progress across long absences.
	cursor := state.LastSimAt
	autoFilled := 0

	for {
		if len(char.Queue) == 0 {
			if !e.autoFillIdle(state, char, cursor, &autoFilled) {
				return
			}
		}

		head := char.Queue[0]
		if !head.Started() {
			head.StartAt = now
		}
		if head.EndsAt() > now {
			return
		}

		e.resolveEntry(state, char, head)

		cursor = head.EndsAt()
		char.Queue, _ = popHead(char.Queue)
		if len(char.Queue) > 0 && !char.Queue[0].Started() {
			char.Queue[0].StartAt = cursor
		}
	}
}

// autoFillIdle enqueues one safe-pace instance of the character's idle
// behavior, bounded per tick so a large time jump cannot loop forever.
func (e *Engine) autoFillIdle(state *entities.GameState, char *entities.Character, startAt int64, autoFilled *int) bool {
	behavior := char.IdleBehavior
	if behavior == entities.IdleNone || behavior == entities.IdleRest || behavior == "" {
		return false
	}
	if char.Conditions.Downed {
		return false
	}
	if *autoFilled >= idleAutoFillCapPerTick {
		return false
	}

	job := e.catalog.JobByID(behavior)
	if job == nil || job.Variant != catalogs.VariantNone {
		return false
	}
	if job.RequiresItemID != "" && !e.HasItem(state.Storage, job.RequiresItemID) {
		return false
	}

	toolUsable := false
	if job.ToolTag != "" {
		if tool := e.equippedTool(char); tool != nil && tool.Tag == job.ToolTag {
			toolUsable = true
		}
	}

	entry := &entities.JobEntry{
		ID:         e.idGen.Generate(),
		JobID:      job.ID,
		Pace:       entities.PaceSafe,
		CreatedAt:  startAt,
		StartAt:    startAt,
		DurationMs: paceDuration(job.BaseDurationMs, entities.PaceSafe),
		TileID:     e.ActingTile(state).ID,
		ToolUsable: toolUsable,
	}
	char.Queue = append(char.Queue, entry)
	*autoFilled++
	return true
}

// resolveEntry runs resolution behind a per-entry fault boundary: a
// panic still removes the entry (the caller pops it) and the rest of
// the tick continues unaffected.
func (e *Engine) resolveEntry(state *entities.GameState, char *entities.Character, entry *entities.JobEntry) {
	defer func() {
		if r := recover(); r != nil {
			e.appendLog(state, entry.EndsAt(), entities.SeveritySystem,
				fmt.Sprintf("internal fault resolving job %s: %v", entry.ID, r))
		}
	}()
	e.resolveJob(state, char, entry)
}

func (e *Engine) equippedTool(char *entities.Character) *catalogs.ToolSpec {
	inst := char.Equipped(entities.SlotTool)
	if inst == nil || inst.Durability <= 0 {
		return nil
	}
	item := e.catalog.ItemByID(inst.ItemID)
	if item == nil || item.Tool == nil {
		return nil
	}
	return item.Tool
}
