package entities

// ItemInstance is a unique, non-stackable item with its own durability
// (tools, armor). Stackable goods live in Inventory.Stacks instead.
type ItemInstance struct {
	UID        string `json:"uid"`
	ItemID     string `json:"item_id"`
	Durability int32  `json:"durability"`
}

// ItemQuantity pairs an item with an amount, used for craft inputs,
// refunds, and upgrade costs.
type ItemQuantity struct {
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
}

// Inventory holds stackable goods and unique instances under a shared
// unit capacity: each stack counts as one unit regardless of quantity,
// and each instance counts as one unit. The engine enforces
// used <= capacity on every adding mutation.
type Inventory struct {
	Capacity  int32                    `json:"capacity"`
	Stacks    map[string]int32         `json:"stacks,omitempty"`    // item id -> quantity
	Instances map[string]*ItemInstance `json:"instances,omitempty"` // uid -> instance
}

// NewInventory creates an empty inventory with the given unit capacity.
func NewInventory(capacity int32) *Inventory {
	return &Inventory{
		Capacity:  capacity,
		Stacks:    make(map[string]int32),
		Instances: make(map[string]*ItemInstance),
	}
}

// UsedUnits counts occupied units: one per stack plus one per instance.
func (inv *Inventory) UsedUnits() int32 {
	return int32(len(inv.Stacks) + len(inv.Instances))
}

// StackQuantity returns the quantity of a stackable item, zero if absent.
func (inv *Inventory) StackQuantity(itemID string) int32 {
	if inv.Stacks == nil {
		return 0
	}
	return inv.Stacks[itemID]
}
