package market

// Category classifies a tradeable good.
type Category string

const (
	CategoryRawMaterial Category = "raw_material"
	CategoryReagent     Category = "reagent"
	CategoryCrafted     Category = "crafted"
	CategoryConsumable  Category = "consumable"
	CategoryLuxury      Category = "luxury"
)

// Item is one tradeable good in the marketplace.
// CurrentPrice is derived and stays strictly positive in every state
// produced by this package or the engine.
type Item struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     Category `json:"category"`
	BasePrice    float64  `json:"basePrice"`
	Supply       float64  `json:"supply"`
	Demand       float64  `json:"demand"`
	CurrentPrice float64  `json:"currentPrice"`
}

// State is an ordered collection of items. Order is catalog-defined and
// preserved across snapshots.
type State struct {
	Items []Item `json:"items"`
}

// DefaultState builds the built-in catalog with every item priced at its base.
func DefaultState() *State {
	items := []Item{
		{ID: "iron_ore", Name: "Iron Ore", Category: CategoryRawMaterial, BasePrice: 10.00, Supply: 100, Demand: 80},
		{ID: "timber", Name: "Timber", Category: CategoryRawMaterial, BasePrice: 6.00, Supply: 120, Demand: 90},
		{ID: "herbs", Name: "Wild Herbs", Category: CategoryRawMaterial, BasePrice: 8.00, Supply: 70, Demand: 65},
		{ID: "crystal_shard", Name: "Crystal Shard", Category: CategoryReagent, BasePrice: 150.00, Supply: 20, Demand: 45},
		{ID: "iron_sword", Name: "Iron Sword", Category: CategoryCrafted, BasePrice: 45.00, Supply: 60, Demand: 55},
		{ID: "steel_armor", Name: "Steel Armor", Category: CategoryCrafted, BasePrice: 120.00, Supply: 30, Demand: 38},
		{ID: "healing_potion", Name: "Healing Potion", Category: CategoryConsumable, BasePrice: 25.00, Supply: 80, Demand: 95},
		{ID: "mana_potion", Name: "Mana Potion", Category: CategoryConsumable, BasePrice: 30.00, Supply: 60, Demand: 58},
		{ID: "enchanted_ring", Name: "Enchanted Ring", Category: CategoryLuxury, BasePrice: 300.00, Supply: 10, Demand: 14},
		{ID: "bread", Name: "Fresh Bread", Category: CategoryConsumable, BasePrice: 3.00, Supply: 200, Demand: 180},
	}
	for i := range items {
		items[i].CurrentPrice = items[i].BasePrice
	}
	return &State{Items: items}
}

// Snapshot returns a fully independent deep copy of the given state.
// A nil state snapshots the default catalog. Mutating the copy never
// affects the source, and vice versa.
func Snapshot(s *State) *State {
	if s == nil {
		return DefaultState()
	}
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return &State{Items: items}
}

// Item returns a pointer to the item with the given id, or nil.
func (s *State) Item(id string) *Item {
	if s == nil {
		return nil
	}
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

// IDs returns the item ids in catalog order.
func (s *State) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.Items))
	for i := range s.Items {
		out[i] = s.Items[i].ID
	}
	return out
}
