package terrain

// InteractionKind identifies what a player can do at a building point
type InteractionKind int

const (
	InteractionDelivery InteractionKind = iota // Hand over cargo
	InteractionPickup                          // Collect cargo
	InteractionRest                            // Recover strain
)

// String returns the string representation of an InteractionKind
func (k InteractionKind) String() string {
	switch k {
	case InteractionDelivery:
		return "delivery"
	case InteractionPickup:
		return "pickup"
	case InteractionRest:
		return "rest"
	default:
		return "unknown"
	}
}

// Cell returns the grid cell that marks this interaction point
func (k InteractionKind) Cell() Cell {
	switch k {
	case InteractionDelivery:
		return DeliveryPoint
	case InteractionPickup:
		return PickupPoint
	case InteractionRest:
		return RestPoint
	default:
		return Empty
	}
}

// AllInteractionKinds returns every interaction kind
func AllInteractionKinds() []InteractionKind {
	return []InteractionKind{InteractionDelivery, InteractionPickup, InteractionRest}
}

// ParseInteractionKind converts a string to an InteractionKind
func ParseInteractionKind(s string) (InteractionKind, bool) {
	switch s {
	case "delivery":
		return InteractionDelivery, true
	case "pickup":
		return InteractionPickup, true
	case "rest":
		return InteractionRest, true
	default:
		return InteractionDelivery, false
	}
}
