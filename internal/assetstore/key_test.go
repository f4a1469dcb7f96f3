package assetstore

import (
	"regexp"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	t.Parallel()

	params := map[string]any{"value": "10kΩ", "tolerance": 5}

	k1, err := DeriveKey("resistor", params, "v1")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	k2, err := DeriveKey("resistor", params, "v1")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if k1 != k2 {
		t.Fatalf("expected identical keys, got %s and %s", k1, k2)
	}
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(k1) {
		t.Fatalf("key is not a hex sha256 digest: %s", k1)
	}
}

func TestDeriveKeyParamOrderIrrelevant(t *testing.T) {
	t.Parallel()

	a := map[string]any{}
	a["a"] = 1
	a["b"] = 2

	b := map[string]any{}
	b["b"] = 2
	b["a"] = 1

	ka, err := DeriveKey("graph", a, "v1")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	kb, err := DeriveKey("graph", b, "v1")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if ka != kb {
		t.Fatalf("insertion order changed the key: %s vs %s", ka, kb)
	}
}

func TestDeriveKeyEmptyParams(t *testing.T) {
	t.Parallel()

	kNil, err := DeriveKey("battery", nil, "v1")
	if err != nil {
		t.Fatalf("DeriveKey(nil): %v", err)
	}
	kEmpty, err := DeriveKey("battery", map[string]any{}, "v1")
	if err != nil {
		t.Fatalf("DeriveKey(empty): %v", err)
	}
	if kNil != kEmpty {
		t.Fatalf("nil and empty params should canonicalize identically")
	}
}

func TestDeriveKeyDistinguishesInputs(t *testing.T) {
	t.Parallel()

	base, _ := DeriveKey("resistor", map[string]any{"value": "10kΩ"}, "v1")

	otherTag, _ := DeriveKey("battery", map[string]any{"value": "10kΩ"}, "v1")
	if base == otherTag {
		t.Fatalf("different tags must produce different keys")
	}

	otherParams, _ := DeriveKey("resistor", map[string]any{"value": "20kΩ"}, "v1")
	if base == otherParams {
		t.Fatalf("different params must produce different keys")
	}

	otherVersion, _ := DeriveKey("resistor", map[string]any{"value": "10kΩ"}, "v2")
	if base == otherVersion {
		t.Fatalf("different versions must produce different keys")
	}
}
