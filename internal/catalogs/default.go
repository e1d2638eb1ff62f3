package catalogs

import "github.com/caravangame/caravan-api/internal/entities"

// Default returns the built-in reference data. Load can overlay
// additional entries from YAML files on top of it.
func Default() *Catalog {
	c := &Catalog{
		Items: []*Item{
			{ID: "fiber", Name: "Fiber", Stackable: true, Tags: []string{"material"}},
			{ID: "wood", Name: "Wood", Stackable: true, Tags: []string{"material"}},
			{ID: "scrap", Name: "Scrap Metal", Stackable: true, Tags: []string{"material"}},
			{ID: "raw_meat", Name: "Raw Meat", Stackable: true, Tags: []string{"food_raw"},
				Food: &FoodSpec{Ration: false, Quality: 1, RestoreHunger: 10}},
			{ID: "berries", Name: "Berries", Stackable: true,
				Food: &FoodSpec{Ration: true, Quality: 1, RestoreHunger: 18}},
			{ID: "dried_meat", Name: "Dried Meat", Stackable: true,
				Food: &FoodSpec{Ration: true, Quality: 2, RestoreHunger: 32}},
			{ID: "water_dirty", Name: "Dirty Water", Stackable: true,
				Water: &WaterSpec{Clean: false, RestoreThirst: 20, SicknessChance: 0.15}},
			{ID: "water_clean", Name: "Clean Water", Stackable: true,
				Water: &WaterSpec{Clean: true, RestoreThirst: 26}},
			{ID: "waterskin", Name: "Waterskin", Stackable: true,
				Container: &ContainerSpec{WaterUnits: 3, GatherMs: 6 * 60 * 1000}},
			{ID: "bucket", Name: "Bucket", Stackable: true,
				Container: &ContainerSpec{WaterUnits: 6, GatherMs: 10 * 60 * 1000}},
			{ID: "crude_axe", Name: "Crude Axe", Slot: entities.SlotTool,
				Tool: &ToolSpec{Tag: "axe", Tier: 1, Power: 1, MaxDurability: 40}},
			{ID: "iron_axe", Name: "Iron Axe", Slot: entities.SlotTool,
				Tool: &ToolSpec{Tag: "axe", Tier: 2, Power: 2, MaxDurability: 80}},
			{ID: "hunting_spear", Name: "Hunting Spear", Slot: entities.SlotTool,
				Tool: &ToolSpec{Tag: "spear", Tier: 1, Power: 1, MaxDurability: 30}},
			{ID: "cloth_tunic", Name: "Cloth Tunic", Slot: entities.SlotBody, Protection: 0.10},
			{ID: "padded_leggings", Name: "Padded Leggings", Slot: entities.SlotLegs, Protection: 0.08},
			{ID: "medkit", Name: "Medkit", Stackable: true, Cures: "injury"},
			{ID: "herbal_tea", Name: "Herbal Tea", Stackable: true, Cures: "sickness"},
			{ID: "stim_kit", Name: "Stim Kit", Stackable: true, Revival: true},
		},
		Jobs: []*Job{
			{ID: "scavenge", Name: "Scavenge", Skill: "scavenging",
				BaseDurationMs: 10 * 60 * 1000, Strain: 1.0, Explorable: true,
				Yields: []YieldEntry{
					{ItemID: "fiber", Min: 1, Max: 3, Chance: 0.8},
					{ItemID: "scrap", Min: 1, Max: 2, Chance: 0.5},
				}},
			{ID: "forage", Name: "Forage", Skill: "foraging",
				BaseDurationMs: 8 * 60 * 1000, Strain: 0.8, Explorable: true,
				Yields: []YieldEntry{
					{ItemID: "berries", Min: 1, Max: 4, Chance: 0.9},
					{ItemID: "fiber", Min: 1, Max: 2, Chance: 0.4},
				}},
			{ID: "chop_wood", Name: "Chop Wood", Skill: "woodcutting",
				BaseDurationMs: 15 * 60 * 1000, Strain: 1.4, ToolTag: "axe", Explorable: true,
				Yields: []YieldEntry{
					{ItemID: "wood", Min: 2, Max: 5, Chance: 1.0},
				}},
			{ID: "hunt", Name: "Hunt", Skill: "hunting",
				BaseDurationMs: 20 * 60 * 1000, Strain: 1.6, ToolTag: "spear", Explorable: true,
				Yields: []YieldEntry{
					{ItemID: "raw_meat", Min: 1, Max: 2, Chance: 0.55},
				}},
			{ID: "gather_water", Name: "Gather Water", Skill: "foraging",
				BaseDurationMs: 6 * 60 * 1000, Strain: 0.6, Variant: VariantGatherWater},
			{ID: "explore", Name: "Explore", Skill: "exploration",
				BaseDurationMs: 30 * 60 * 1000, Strain: 1.2, Variant: VariantExplore},
		},
		Recipes: []*Recipe{
			{ID: "purify_water", Name: "Purify Water", StationID: "campfire",
				DurationMs: 3 * 60 * 1000,
				Inputs:     []ItemAmount{{ItemID: "water_dirty", Quantity: 1}, {ItemID: "wood", Quantity: 1}},
				Outputs:    []ItemAmount{{ItemID: "water_clean", Quantity: 1}}},
			{ID: "dry_meat", Name: "Dry Meat", StationID: "campfire",
				DurationMs: 12 * 60 * 1000,
				Inputs:     []ItemAmount{{ItemID: "raw_meat", Quantity: 1}, {ItemID: "wood", Quantity: 1}},
				Outputs:    []ItemAmount{{ItemID: "dried_meat", Quantity: 1}}},
			{ID: "brew_herbal_tea", Name: "Brew Herbal Tea", StationID: "campfire",
				DurationMs: 5 * 60 * 1000,
				Inputs:     []ItemAmount{{ItemID: "berries", Quantity: 2}, {ItemID: "water_clean", Quantity: 1}},
				Outputs:    []ItemAmount{{ItemID: "herbal_tea", Quantity: 1}}},
			{ID: "craft_waterskin", Name: "Craft Waterskin", StationID: "workbench",
				DurationMs: 6 * 60 * 1000,
				Inputs:     []ItemAmount{{ItemID: "fiber", Quantity: 3}},
				Outputs:    []ItemAmount{{ItemID: "waterskin", Quantity: 1}}},
			{ID: "craft_crude_axe", Name: "Craft Crude Axe", StationID: "workbench",
				DurationMs: 10 * 60 * 1000,
				Inputs:     []ItemAmount{{ItemID: "wood", Quantity: 2}, {ItemID: "fiber", Quantity: 1}, {ItemID: "scrap", Quantity: 1}},
				Outputs:    []ItemAmount{{ItemID: "crude_axe", Quantity: 1}}},
			{ID: "craft_medkit", Name: "Craft Medkit", StationID: "workbench",
				DurationMs: 8 * 60 * 1000,
				Inputs:     []ItemAmount{{ItemID: "fiber", Quantity: 2}, {ItemID: "water_clean", Quantity: 1}},
				Outputs:    []ItemAmount{{ItemID: "medkit", Quantity: 1}}},
		},
		Stations: []*Station{
			{ID: "storage", Name: "Storage", Levels: []StationLevel{
				{Capacity: 60},
				{Capacity: 90, UpgradeCost: []ItemAmount{{ItemID: "wood", Quantity: 10}, {ItemID: "scrap", Quantity: 4}}},
				{Capacity: 120, UpgradeCost: []ItemAmount{{ItemID: "wood", Quantity: 20}, {ItemID: "scrap", Quantity: 8}}},
			}},
			{ID: "workbench", Name: "Workbench", Levels: []StationLevel{
				{},
				{UpgradeCost: []ItemAmount{{ItemID: "wood", Quantity: 8}, {ItemID: "scrap", Quantity: 6}}},
			}},
			{ID: "campfire", Name: "Campfire", Levels: []StationLevel{
				{},
			}},
		},
		Biomes: []*Biome{
			{ID: "forest", Name: "Forest", Weight: 30, Tags: []string{"woodland", "green"},
				YieldMultipliers: map[string]float64{"wood": 1.5, "berries": 1.2}},
			{ID: "plains", Name: "Plains", Weight: 30, Tags: []string{"open", "green"},
				YieldMultipliers: map[string]float64{"fiber": 1.3, "raw_meat": 1.2}},
			{ID: "hills", Name: "Hills", Weight: 20, Tags: []string{"rocky"},
				YieldMultipliers: map[string]float64{"scrap": 1.4, "wood": 0.8}},
			{ID: "marsh", Name: "Marsh", Weight: 10, Tags: []string{"wet"},
				YieldMultipliers: map[string]float64{"fiber": 1.2, "berries": 0.7}},
			{ID: "lakeshore", Name: "Lakeshore", Weight: 10, Tags: []string{"wet", "open"},
				YieldMultipliers: map[string]float64{"berries": 1.1}},
		},
		Survivors: []*SurvivorTemplate{
			{ID: "mara", Name: "Mara", Stats: map[string]int32{"scavenging": 2}, IdleBehavior: "scavenge"},
			{ID: "jonas", Name: "Jonas", Stats: map[string]int32{"woodcutting": 2}, IdleBehavior: "chop_wood"},
			{ID: "edda", Name: "Edda", Stats: map[string]int32{"foraging": 2}, IdleBehavior: "forage"},
		},
	}

	c.Index()
	return c
}
