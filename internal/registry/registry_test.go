package registry_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"otadocs/internal/registry"
)

func TestAddKeepsDiscoveryOrderAndIgnoresDuplicates(t *testing.T) {
	reg := registry.New()
	reg.Add("husky", "vic")
	reg.Add("husky", "udc")
	if reg.Add("husky", "vic") {
		t.Fatal("expected duplicate pair to be rejected")
	}
	if reg.Add("", "vic") || reg.Add("husky", "") {
		t.Fatal("expected empty keys to be rejected")
	}

	got := reg.Branches("husky")
	if len(got) != 2 || got[0] != "vic" || got[1] != "udc" {
		t.Fatalf("expected discovery order [vic udc], got %v", got)
	}
	got[0] = "mutated"
	if reg.Branches("husky")[0] != "vic" {
		t.Fatal("Branches should return a copy")
	}
}

func TestKeysAndPairsAreSorted(t *testing.T) {
	reg := registry.New()
	reg.Add("oriole", "udc")
	reg.Add("cheetah", "vic")
	reg.Add("cheetah", "udc")
	reg.Add("akita", "vic")

	keys := reg.Keys()
	want := []string{"akita", "cheetah", "oriole"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}

	pairs := reg.Pairs()
	if len(pairs) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(pairs))
	}
	if pairs[1] != (registry.Pair{Device: "cheetah", Branch: "vic"}) || pairs[2] != (registry.Pair{Device: "cheetah", Branch: "udc"}) {
		t.Fatalf("expected cheetah branches in discovery order, got %v", pairs)
	}
}

func TestEncodeFormat(t *testing.T) {
	reg := registry.New()
	reg.Add("oriole", "vic")
	reg.Add("husky", "vic")
	reg.Add("husky", "udc")

	data, err := reg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	want := "{\n  \"husky\": [\n    \"vic\",\n    \"udc\"\n  ],\n  \"oriole\": [\n    \"vic\"\n  ]\n}\n"
	if string(data) != want {
		t.Fatalf("unexpected snapshot:\n%s\nwant:\n%s", data, want)
	}
}

func TestEncodeEmptyRegistry(t *testing.T) {
	data, err := registry.New().Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if string(data) != "{}\n" {
		t.Fatalf("unexpected empty snapshot %q", data)
	}
}

func TestSaveLoadRoundTripIsByteIdentical(t *testing.T) {
	reg := registry.New()
	reg.Add("zenfone", "udc")
	reg.Add("a52q", "vic")
	reg.Add("a52q", "udc")

	path := filepath.Join(t.TempDir(), "out", "devices.json")
	if err := reg.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	loaded, err := registry.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := loaded.Branches("a52q"); len(got) != 2 || got[0] != "vic" {
		t.Fatalf("branch order not preserved: %v", got)
	}
	second, err := loaded.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("round trip changed snapshot:\n%s\n---\n%s", first, second)
	}
}

func TestMarshalJSONMatchesEncode(t *testing.T) {
	reg := registry.New()
	reg.Add("b", "vic")
	reg.Add("a", "vic")

	compact, err := json.Marshal(reg)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(compact) != `{"a":["vic"],"b":["vic"]}` {
		t.Fatalf("unexpected compact encoding %s", compact)
	}
}

func TestMarshalJSONKeepsHTMLCharactersLikeEncode(t *testing.T) {
	reg := registry.New()
	reg.Add("r&d<x>", "fourteen&up")

	compact, err := reg.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}
	if string(compact) != `{"r&d<x>":["fourteen&up"]}` {
		t.Fatalf("unexpected compact encoding %s", compact)
	}
	indented, err := reg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !bytes.Contains(indented, []byte(`"r&d<x>"`)) || !bytes.Contains(indented, []byte(`"fourteen&up"`)) {
		t.Fatalf("Encode escaped names:\n%s", indented)
	}
}

func TestLoadRejectsBrokenInvariants(t *testing.T) {
	cases := map[string]string{
		"empty branch list": `{"husky": []}`,
		"duplicate branch":  `{"husky": ["vic", "vic"]}`,
		"empty key":         `{"": ["vic"]}`,
		"not an object":     `["husky"]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "devices.json")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := registry.Load(path); err == nil {
				t.Fatal("expected Load to fail")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := registry.Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "read registry") {
		t.Fatalf("expected read error, got %v", err)
	}
}
