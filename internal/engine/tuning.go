package engine

import (
	"github.com/caravangame/caravan-api/internal/entities"
)

// Balance constants. Values were carried over as-is; retuning them is a
// product decision, not an engineering one.
const (
	newGameHunger = 80.0
	newGameThirst = 80.0
	newGameMorale = 80.0
	newGameHealth = 100.0

	pocketCapacity = 8
	logCap         = 200

	// Continuous per-minute drains applied to every non-downed
	// character during catch-up.
	hungerDrainPerMinute = 0.06
	thirstDrainPerMinute = 0.08

	// Morale recovery for idle characters whose behavior is "rest";
	// everyone else bleeds morale at the baseline rate.
	restMoralePerMinute  = 0.10
	moraleDrainPerMinute = 0.02

	// Auto-consumption triggers at or below these values.
	autoEatThreshold   = 25.0
	autoDrinkThreshold = 25.0

	// Working hunger/thirst cost per job minute, scaled by the job's
	// strain.
	strainHungerPerMinute = 0.10
	strainThirstPerMinute = 0.12

	// Idle auto-fill enqueues at most this many jobs per tick so a huge
	// time jump cannot loop forever.
	idleAutoFillCapPerTick = 4

	// Pending crafts allowed per station queue.
	craftQueueCap = 8

	// Yield/risk multiplier terms.
	skillYieldPerLevel  = 0.04
	toolYieldPerTier    = 0.05
	toolRiskPerTier     = 0.06
	moralePenaltyFactor = 0.002
	armorRiskFactor     = 0.6
	maxArmorProtection  = 0.7
	sickRiskBonus       = 0.15
	minorInjuryRiskBonus = 0.10
	majorInjuryRiskBonus = 0.25

	// Base chances for risk rolls, scaled by the risk multiplier and
	// clamped to the safety ceilings below.
	majorInjuryBase = 0.04
	minorInjuryBase = 0.12
	sicknessBase    = 0.05
	toolWearBase    = 0.30

	majorInjuryCeiling = 0.35
	minorInjuryCeiling = 0.60
	sicknessCeiling    = 0.35
	toolWearCeiling    = 0.95

	minorInjuryDurationMs = 2 * 60 * 60 * 1000
	majorInjuryDurationMs = 6 * 60 * 60 * 1000
	sicknessDurationMs    = 4 * 60 * 60 * 1000

	// Explore variant.
	exploreSuccessBase    = 0.55
	exploreSuccessMin     = 0.25
	exploreSuccessMax     = 0.95
	exploreSkillPerLevel  = 0.03
	exploreYieldScale     = 1.5
	exploreInjuryChance   = 0.12

	// Experience curve.
	xpBase                   = 60.0
	xpGrowth                 = 1.35
	maxLevelUpsPerResolution = 25

	// Danger score for the downed check.
	criticalNeedLevel    = 5.0
	dangerCriticalNeed   = 2
	dangerMajorInjury    = 2
	dangerSickness       = 1
	dangerScoreThreshold = 3
	downedBaseChance     = 0.35
	downedPerExtraPoint  = 0.10

	// Moodlets.
	moodletNoFoodID       = "no_food"
	moodletNoWaterID      = "no_water"
	moodletToolBrokeID    = "tool_broke"
	moodletShortageAmount = -10.0
	moodletShortageMs     = 30 * 60 * 1000
	moodletToolBrokeAmount = -8.0
	moodletToolBrokeMs     = 2 * 60 * 60 * 1000

	// Tile generation.
	neighborBiomeBonus   = 12.0
	sharedTagBonusPerTag = 3.0
	geoPrecision         = 7
)

type paceProfile struct {
	time  float64
	yield float64
	risk  float64
}

var paceProfiles = map[entities.Pace]paceProfile{
	entities.PaceSafe:   {time: 1.10, yield: 0.90, risk: 0.75},
	entities.PaceNormal: {time: 1.0, yield: 1.0, risk: 1.0},
	entities.PacePush:   {time: 0.85, yield: 1.15, risk: 1.35},
}

// starterKit is deposited into shared storage at new-game.
var starterKit = []entities.ItemQuantity{
	{ItemID: "berries", Quantity: 4},
	{ItemID: "water_clean", Quantity: 4},
	{ItemID: "water_dirty", Quantity: 2},
	{ItemID: "fiber", Quantity: 3},
	{ItemID: "waterskin", Quantity: 1},
	{ItemID: "stim_kit", Quantity: 1},
}
