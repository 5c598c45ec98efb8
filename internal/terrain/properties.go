package terrain

// Properties holds the static movement attributes of a cell category.
// Values depend only on the category, never on a particular cell instance.
type Properties struct {
	Passable       bool    `json:"passable" yaml:"passable"`
	MoveResistance int     `json:"move_resistance" yaml:"move_resistance"` // Always >= 1
	StrainChance   float64 `json:"strain_chance" yaml:"strain_chance"`     // Probability in [0,1]
	StrainAmount   int     `json:"strain_amount" yaml:"strain_amount"`
}

var properties = [cellCount]Properties{
	Empty:          {Passable: true, MoveResistance: 1},
	Grass:          {Passable: true, MoveResistance: 2, StrainChance: 0.05, StrainAmount: 1},
	Mountain:       {Passable: true, MoveResistance: 5, StrainChance: 0.5, StrainAmount: 3},
	Water:          {Passable: false, MoveResistance: 10, StrainChance: 1, StrainAmount: 5},
	Tree:           {Passable: false, MoveResistance: 10},
	LargeTree:      {Passable: false, MoveResistance: 10},
	Road:           {Passable: true, MoveResistance: 1},
	SettlementWall: {Passable: false, MoveResistance: 10},
	SettlementGate: {Passable: true, MoveResistance: 1},
	BuildingWall:   {Passable: false, MoveResistance: 10},
	BuildingGate:   {Passable: true, MoveResistance: 1},
	DeliveryPoint:  {Passable: true, MoveResistance: 1},
	PickupPoint:    {Passable: true, MoveResistance: 1},
	RestPoint:      {Passable: true, MoveResistance: 1},
}

// PropertiesOf returns the movement attributes for a cell category.
// Unknown categories are treated as impassable.
func PropertiesOf(c Cell) Properties {
	if !c.Valid() {
		return Properties{Passable: false, MoveResistance: 10}
	}
	return properties[c]
}

// IsPassable is shorthand for PropertiesOf(c).Passable
func IsPassable(c Cell) bool {
	return PropertiesOf(c).Passable
}

// PropertyTable returns a copy of the full properties table keyed by cell name
func PropertyTable() map[string]Properties {
	table := make(map[string]Properties, cellCount)
	for _, c := range AllCells() {
		table[c.String()] = properties[c]
	}
	return table
}
