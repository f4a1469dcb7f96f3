package primitive

import "testing"

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want Kind
	}{
		{"resistor", KindResistor},
		{"battery", KindBattery},
		{"stethoscope", KindStethoscope},
		{"graph", KindGraph},
		{"  Resistor ", KindResistor},
		{"GRAPH", KindGraph},
		{"flux-capacitor", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		if got := ParseKind(tt.tag); got != tt.want {
			t.Fatalf("ParseKind(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if KindResistor.String() != "resistor" {
		t.Fatalf("unexpected name: %s", KindResistor)
	}
	if Kind(99).String() != "unknown" {
		t.Fatalf("out-of-range kinds should stringify as unknown")
	}
}
