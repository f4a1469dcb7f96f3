package primitive

import "strings"

// Kind enumerates the primitive catalog. Tags arrive as free-form strings
// from lesson extraction; anything outside the catalog maps to KindUnknown,
// which still renders (the synthesizer treats it as a graph).
type Kind int

const (
	KindUnknown Kind = iota
	KindResistor
	KindBattery
	KindStethoscope
	KindGraph
)

// ParseKind maps a primitive tag to its catalog kind.
func ParseKind(tag string) Kind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "resistor":
		return KindResistor
	case "battery":
		return KindBattery
	case "stethoscope":
		return KindStethoscope
	case "graph":
		return KindGraph
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindResistor:
		return "resistor"
	case KindBattery:
		return "battery"
	case KindStethoscope:
		return "stethoscope"
	case KindGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// Request identifies one primitive to resolve: a catalog tag plus an
// order-irrelevant parameter mapping. Two requests are equivalent iff the
// tag and the canonical (key-sorted) serialization of Params match.
type Request struct {
	Tag    string         `json:"primitive_id"`
	Params map[string]any `json:"params,omitempty"`
}
