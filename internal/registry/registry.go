package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Registry maps device keys to the branches that ship them. Branches keep
// discovery order; device keys are sorted wherever the registry is listed or
// persisted. A single writer builds it, so it carries no lock.
type Registry struct {
	devices map[string][]string
}

// Pair is one (device, branch) unit of work.
type Pair struct {
	Device string
	Branch string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{devices: make(map[string][]string)}
}

// Add records that branch ships device. It reports whether the pair was new;
// repeated pairs are ignored so each entry's branch set stays unique.
func (r *Registry) Add(device, branch string) bool {
	if device == "" || branch == "" {
		return false
	}
	for _, existing := range r.devices[device] {
		if existing == branch {
			return false
		}
	}
	r.devices[device] = append(r.devices[device], branch)
	return true
}

// Len returns the number of devices.
func (r *Registry) Len() int {
	return len(r.devices)
}

// Keys returns device keys sorted lexicographically.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.devices))
	for key := range r.devices {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Branches returns a copy of the branch list for device in discovery order.
func (r *Registry) Branches(device string) []string {
	branches := r.devices[device]
	if len(branches) == 0 {
		return nil
	}
	out := make([]string, len(branches))
	copy(out, branches)
	return out
}

// Has reports whether device is present.
func (r *Registry) Has(device string) bool {
	_, ok := r.devices[device]
	return ok
}

// Pairs returns every (device, branch) pair, devices sorted and branches in
// discovery order.
func (r *Registry) Pairs() []Pair {
	var pairs []Pair
	for _, device := range r.Keys() {
		for _, branch := range r.devices[device] {
			pairs = append(pairs, Pair{Device: device, Branch: branch})
		}
	}
	return pairs
}

// MarshalJSON encodes the registry as a compact object keyed by device, with
// the same escaping rules as Encode. encoding/json sorts map keys, which gives
// the deterministic snapshot order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	data, err := r.encode("")
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(data, []byte("\n")), nil
}

// UnmarshalJSON decodes a snapshot, rejecting entries that break the
// non-empty, duplicate-free branch invariant.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	devices := make(map[string][]string, len(raw))
	for device, branches := range raw {
		if strings.TrimSpace(device) == "" {
			return errors.New("snapshot contains an empty device key")
		}
		if len(branches) == 0 {
			return fmt.Errorf("device %q has no branches", device)
		}
		seen := make(map[string]struct{}, len(branches))
		for _, branch := range branches {
			if _, dup := seen[branch]; dup {
				return fmt.Errorf("device %q lists branch %q twice", device, branch)
			}
			seen[branch] = struct{}{}
		}
		devices[device] = branches
	}
	r.devices = devices
	return nil
}

// Encode renders the snapshot with two-space indentation and a trailing newline.
func (r *Registry) Encode() ([]byte, error) {
	return r.encode("  ")
}

func (r *Registry) encode(indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(r.devices); err != nil {
		return nil, fmt.Errorf("encode registry: %w", err)
	}
	return buf.Bytes(), nil
}

// Save overwrites the snapshot at path in full.
func (r *Registry) Save(path string) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// Load reads a snapshot previously written by Save.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	reg := New()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return reg, nil
}
