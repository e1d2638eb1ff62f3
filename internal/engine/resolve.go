package engine

import (
	"fmt"
	"math"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/pkg/seedrand"
)

// resolveJob applies a completed job entry's full outcome: strain cost,
// loot, risk rolls, XP, and the downed check. Invoked exactly once per
// entry; all randomness comes from a stream derived from the world
// seed, the entry's end second, and the entry id, so replaying the same
// snapshot resolves identically.
func (e *Engine) resolveJob(state *entities.GameState, char *entities.Character, entry *entities.JobEntry) {
	job := e.catalog.JobByID(entry.JobID)
	if job == nil {
		e.appendLog(state, entry.EndsAt(), entities.SeveritySystem,
			fmt.Sprintf("internal fault: job %s vanished from the catalog", entry.JobID))
		return
	}

	completedAt := entry.EndsAt()
	tile := e.GetOrCreateTile(state, entry.TileID)
	rng := seedrand.New(seedrand.CompositeSeed(
		state.Seed, fmt.Sprint(completedAt/1000), entry.ID))

	minutes := float64(entry.DurationMs) / 60000.0

	// Working costs land before auto-consume so a snapshot taken right
	// after resolution never shows a fed character that is starving.
	char.Needs.Hunger = clamp(char.Needs.Hunger-job.Strain*strainHungerPerMinute*minutes, 0, 100)
	char.Needs.Thirst = clamp(char.Needs.Thirst-job.Strain*strainThirstPerMinute*minutes, 0, 100)
	e.maybeAutoConsume(state, char, completedAt)

	tool := e.usableTool(char, entry)
	toolTier := int32(0)
	toolPower := int32(0)
	if tool != nil {
		toolTier = tool.Tier
		toolPower = tool.Power
	}

	yieldMult, riskMult := e.outcomeMultipliers(char, job, entry.Pace, toolTier)

	switch job.Variant {
	case catalogs.VariantGatherWater:
		e.resolveGatherWater(state, char, entry, completedAt)
	case catalogs.VariantExplore:
		e.resolveExplore(state, char, job, entry, tile, rng, yieldMult, completedAt)
	default:
		e.rollYields(state, char, job, tile, rng, yieldMult, 1.0, completedAt)
	}

	paceRiskRaw := paceProfiles[entry.Pace].risk
	e.rollRisks(state, char, rng, riskMult, paceRiskRaw, toolPower, tool != nil, completedAt)

	e.grantXP(state, char, job.Skill, minutes, toolTier, completedAt)

	e.checkDowned(state, char, rng, completedAt)
}

// usableTool returns the equipped tool spec if the entry snapshotted it
// as usable and it still has durability.
func (e *Engine) usableTool(char *entities.Character, entry *entities.JobEntry) *catalogs.ToolSpec {
	if !entry.ToolUsable {
		return nil
	}
	return e.equippedTool(char)
}

// outcomeMultipliers computes the yield and risk scalars from pace,
// skill, tool tier, morale, armor, and current conditions.
func (e *Engine) outcomeMultipliers(char *entities.Character, job *catalogs.Job, pace entities.Pace, toolTier int32) (yieldMult, riskMult float64) {
	profile := paceProfiles[pace]

	moralePenalty := math.Max(0, -char.MoraleModifier()) * moralePenaltyFactor
	yieldMult = profile.yield *
		(1 + float64(char.SkillLevel(job.Skill))*skillYieldPerLevel) *
		(1 + float64(toolTier)*toolYieldPerTier) *
		(1 - moralePenalty)

	protection := 0.0
	for _, slot := range []string{entities.SlotBody, entities.SlotLegs} {
		inst := char.Equipped(slot)
		if inst == nil {
			continue
		}
		if item := e.catalog.ItemByID(inst.ItemID); item != nil {
			protection += item.Protection
		}
	}
	protection = clamp(protection, 0, maxArmorProtection)

	conditionBonus := 0.0
	if char.Conditions.Sickness != nil {
		conditionBonus += sickRiskBonus
	}
	if inj := char.Conditions.Injury; inj != nil {
		if inj.Severity == entities.InjuryMajor {
			conditionBonus += majorInjuryRiskBonus
		} else {
			conditionBonus += minorInjuryRiskBonus
		}
	}

	riskMult = profile.risk *
		(1 - protection*armorRiskFactor) *
		(1 - float64(toolTier)*toolRiskPerTier) *
		(1 + conditionBonus)
	return yieldMult, riskMult
}

// rollYields walks a job's loot table and deposits what lands. The
// first storage-full aborts the remaining entries; whatever already
// landed is kept.
func (e *Engine) rollYields(state *entities.GameState, char *entities.Character, job *catalogs.Job, tile *entities.Tile, rng *seedrand.Stream, yieldMult, scale float64, now int64) {
	biome := e.catalog.BiomeByID(tile.BiomeID)

	for _, y := range job.Yields {
		if !rng.Chance(y.Chance) {
			continue
		}
		amount := float64(rng.Between(int(y.Min), int(y.Max)))
		if biome != nil {
			if mult, ok := biome.YieldMultipliers[y.ItemID]; ok {
				amount *= mult
			}
		}
		amount *= yieldMult * scale
		qty := int32(math.Floor(amount))
		if qty <= 0 {
			continue
		}
		if err := e.AddToInventory(state.Storage, y.ItemID, qty); err != nil {
			e.appendLog(state, now, entities.SeverityWarn,
				fmt.Sprintf("Storage is full; %s drops the rest of the haul.", char.Name))
			return
		}
		item := e.catalog.ItemByID(y.ItemID)
		e.appendLog(state, now, entities.SeverityGood,
			fmt.Sprintf("%s brings back %dx %s.", char.Name, qty, item.Name))
	}
}

// resolveGatherWater deposits the container-defined amount of dirty
// water. No randomness.
func (e *Engine) resolveGatherWater(state *entities.GameState, char *entities.Character, entry *entities.JobEntry, now int64) {
	meta := entry.Variant.GatherWater
	if err := e.AddToInventory(state.Storage, "water_dirty", meta.WaterUnits); err != nil {
		e.appendLog(state, now, entities.SeverityWarn,
			fmt.Sprintf("Storage is full; %s pours the water back out.", char.Name))
		return
	}
	e.appendLog(state, now, entities.SeverityGood,
		fmt.Sprintf("%s hauls back %d units of water.", char.Name, meta.WaterUnits))
}

// resolveExplore rolls one success check against the chosen action
// job's loot table, scaled up for the longer outing, plus an
// independent minor-injury roll that applies either way.
func (e *Engine) resolveExplore(state *entities.GameState, char *entities.Character, job *catalogs.Job, entry *entities.JobEntry, tile *entities.Tile, rng *seedrand.Stream, yieldMult float64, now int64) {
	meta := entry.Variant.Explore
	action := e.catalog.JobByID(meta.ActionJobID)
	if action == nil {
		e.appendLog(state, now, entities.SeveritySystem,
			fmt.Sprintf("internal fault: explore action %s vanished from the catalog", meta.ActionJobID))
		return
	}

	successChance := clamp(
		exploreSuccessBase+float64(char.SkillLevel(job.Skill))*exploreSkillPerLevel,
		exploreSuccessMin, exploreSuccessMax)

	if rng.Chance(successChance) {
		e.appendLog(state, now, entities.SeverityGood,
			fmt.Sprintf("%s finds a promising spot to %s.", char.Name, action.Name))
		e.rollYields(state, char, action, tile, rng, yieldMult, exploreYieldScale, now)
	} else {
		e.appendLog(state, now, entities.SeverityBad,
			fmt.Sprintf("%s wanders far but finds nothing worth taking.", char.Name))
	}

	if rng.Chance(exploreInjuryChance) && char.Conditions.Injury == nil {
		e.applyInjury(state, char, entities.InjuryMinor, now)
	}
}

// rollRisks runs the independent injury, sickness, and tool wear rolls.
// Each chance is scaled by the risk multiplier and capped at its safety
// ceiling. At most one injury is applied, major checked first, and only
// if the character is currently uninjured.
func (e *Engine) rollRisks(state *entities.GameState, char *entities.Character, rng *seedrand.Stream, riskMult, paceRiskRaw float64, toolPower int32, toolUsed bool, now int64) {
	if char.Conditions.Injury == nil {
		majorChance := math.Min(majorInjuryBase*riskMult, majorInjuryCeiling)
		minorChance := math.Min(minorInjuryBase*riskMult, minorInjuryCeiling)
		if rng.Chance(majorChance) {
			e.applyInjury(state, char, entities.InjuryMajor, now)
		} else if rng.Chance(minorChance) {
			e.applyInjury(state, char, entities.InjuryMinor, now)
		}
	}

	if char.Conditions.Sickness == nil {
		sickChance := math.Min(sicknessBase*riskMult, sicknessCeiling)
		if rng.Chance(sickChance) {
			char.Conditions.Sickness = &entities.Sickness{EndsAt: now + sicknessDurationMs}
			e.appendLog(state, now, entities.SeverityBad,
				fmt.Sprintf("%s comes down with something.", char.Name))
		}
	}

	if toolUsed {
		wearChance := math.Min(toolWearBase*riskMult, toolWearCeiling)
		if rng.Chance(wearChance) {
			e.wearTool(state, char, paceRiskRaw, toolPower, now)
		}
	}
}

func (e *Engine) applyInjury(state *entities.GameState, char *entities.Character, severity entities.InjurySeverity, now int64) {
	duration := int64(minorInjuryDurationMs)
	if severity == entities.InjuryMajor {
		duration = majorInjuryDurationMs
	}
	char.Conditions.Injury = &entities.Injury{Severity: severity, EndsAt: now + duration}
	e.appendLog(state, now, entities.SeverityBad,
		fmt.Sprintf("%s suffers a %s injury.", char.Name, severity))
}

// wearTool reduces the equipped tool's durability, breaking it at zero
// with a morale-penalizing moodlet.
func (e *Engine) wearTool(state *entities.GameState, char *entities.Character, paceRiskRaw float64, toolPower int32, now int64) {
	inst := char.Equipped(entities.SlotTool)
	if inst == nil {
		return
	}
	wear := int32(math.Round((2 + float64(toolPower)) * paceRiskRaw))
	inst.Durability -= wear
	if inst.Durability > 0 {
		return
	}
	inst.Durability = 0
	item := e.catalog.ItemByID(inst.ItemID)
	applyMoodlet(char, moodletToolBrokeID, moodletToolBrokeAmount, now+moodletToolBrokeMs)
	e.appendLog(state, now, entities.SeverityBad,
		fmt.Sprintf("%s's %s breaks.", char.Name, item.Name))
}

// grantXP awards skill experience and applies level-ups against an
// exponential curve, capped so a huge time jump cannot loop forever.
func (e *Engine) grantXP(state *entities.GameState, char *entities.Character, skill string, minutes float64, toolTier int32, now int64) {
	if skill == "" {
		return
	}
	if char.XP == nil {
		char.XP = make(map[string]int32)
	}
	if char.Stats == nil {
		char.Stats = make(map[string]int32)
	}

	gained := int32(math.Round(10 + minutes*2 + float64(toolTier)*2))
	char.XP[skill] += gained

	for i := 0; i < maxLevelUpsPerResolution; i++ {
		needed := int32(math.Round(xpBase * math.Pow(xpGrowth, float64(char.Stats[skill]))))
		if char.XP[skill] < needed {
			break
		}
		char.XP[skill] -= needed
		char.Stats[skill]++
		e.appendLog(state, now, entities.SeverityGood,
			fmt.Sprintf("%s reaches %s level %d.", char.Name, skill, char.Stats[skill]))
	}
}

// checkDowned accumulates a danger score from critical needs, major
// injury, and sickness, then rolls for the character going down once
// the score crosses the threshold. Only sets the flag; auto-revive
// handles recovery if a revival item is on hand.
func (e *Engine) checkDowned(state *entities.GameState, char *entities.Character, rng *seedrand.Stream, now int64) {
	if char.Conditions.Downed {
		return
	}

	score := 0
	if char.Needs.Hunger <= criticalNeedLevel {
		score += dangerCriticalNeed
	}
	if char.Needs.Thirst <= criticalNeedLevel {
		score += dangerCriticalNeed
	}
	if inj := char.Conditions.Injury; inj != nil && inj.Severity == entities.InjuryMajor {
		score += dangerMajorInjury
	}
	if char.Conditions.Sickness != nil {
		score += dangerSickness
	}
	if score < dangerScoreThreshold {
		return
	}

	chance := math.Min(downedBaseChance+float64(score-dangerScoreThreshold)*downedPerExtraPoint, 1)
	if !rng.Chance(chance) {
		return
	}

	char.Conditions.Downed = true
	e.appendLog(state, now, entities.SeverityBad,
		fmt.Sprintf("%s collapses.", char.Name))
	e.maybeAutoRevive(state, char, now)
}
