package catalog

// Archetype is the kind of business a building houses
type Archetype int

const (
	Bar Archetype = iota
	Yard
	Hotel
	Exchange
	Restaurant
)

// String returns the string representation of an Archetype
func (a Archetype) String() string {
	switch a {
	case Bar:
		return "bar"
	case Yard:
		return "yard"
	case Hotel:
		return "hotel"
	case Exchange:
		return "exchange"
	case Restaurant:
		return "restaurant"
	default:
		return "unknown"
	}
}

// AllArchetypes returns every archetype in declaration order
func AllArchetypes() []Archetype {
	return []Archetype{Bar, Yard, Hotel, Exchange, Restaurant}
}

// ParseArchetype converts a string to an Archetype
func ParseArchetype(s string) (Archetype, bool) {
	for _, a := range AllArchetypes() {
		if a.String() == s {
			return a, true
		}
	}
	return Bar, false
}

// SizeCategory is one of the fixed building footprints
type SizeCategory int

const (
	Small  SizeCategory = iota // 4x4
	Medium                     // 5x4
	Large                      // 6x5
	Grand                      // 6x6
)

// String returns the string representation of a SizeCategory
func (s SizeCategory) String() string {
	switch s {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	case Grand:
		return "grand"
	default:
		return "unknown"
	}
}

// Dimensions returns the width and height of the footprint
func (s SizeCategory) Dimensions() (width, height int) {
	switch s {
	case Small:
		return 4, 4
	case Medium:
		return 5, 4
	case Large:
		return 6, 5
	case Grand:
		return 6, 6
	default:
		return 0, 0
	}
}

// AllSizes returns every size category from smallest to largest
func AllSizes() []SizeCategory {
	return []SizeCategory{Small, Medium, Large, Grand}
}

// ParseSize converts a string to a SizeCategory
func ParseSize(s string) (SizeCategory, bool) {
	for _, size := range AllSizes() {
		if size.String() == s {
			return size, true
		}
	}
	return Small, false
}
