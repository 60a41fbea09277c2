package assets_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"otadocs/internal/assets"
	"otadocs/internal/registry"
	"otadocs/internal/services"
)

type fakeSource struct {
	mu       sync.Mutex
	images   map[string]string
	fetchErr error
	heads    []string
	gets     []string
}

func (f *fakeSource) Exists(_ context.Context, device string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heads = append(f.heads, device)
	_, ok := f.images[device]
	return ok, nil
}

func (f *fakeSource) Fetch(_ context.Context, device string, w io.Writer) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, device)
	if f.fetchErr != nil {
		_, _ = io.WriteString(w, "partial")
		return 7, f.fetchErr
	}
	n, err := io.WriteString(w, f.images[device])
	return int64(n), err
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.heads) + len(f.gets)
}

func TestResolveFetchesMissingImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	source := &fakeSource{images: map[string]string{"husky": "png-bytes"}}
	resolver := assets.NewResolver(dir, source, nil)

	outcome, err := resolver.Resolve(context.Background(), "husky")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if outcome != assets.OutcomeFetched {
		t.Fatalf("expected fetched, got %s", outcome)
	}
	data, err := os.ReadFile(filepath.Join(dir, "husky.png"))
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected image contents %q", data)
	}
}

func TestResolveExistingMakesNoRequests(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "husky.png")
	if err := os.WriteFile(path, []byte("manual"), 0o644); err != nil {
		t.Fatalf("seed image: %v", err)
	}
	source := &fakeSource{images: map[string]string{"husky": "upstream"}}
	resolver := assets.NewResolver(dir, source, nil)

	outcome, err := resolver.Resolve(context.Background(), "husky")
	if err != nil || outcome != assets.OutcomeExisting {
		t.Fatalf("expected existing outcome, got %s %v", outcome, err)
	}
	if source.calls() != 0 {
		t.Fatalf("expected no upstream calls, got %d", source.calls())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "manual" {
		t.Fatalf("existing image was overwritten: %q", data)
	}
}

func TestResolveMissingUpstream(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{images: map[string]string{}}
	resolver := assets.NewResolver(dir, source, nil)

	outcome, err := resolver.Resolve(context.Background(), "ghost")
	if outcome != assets.OutcomeMissing {
		t.Fatalf("expected missing, got %s", outcome)
	}
	if !errors.Is(err, services.ErrAssetMissing) {
		t.Fatalf("expected asset missing marker, got %v", err)
	}
	if len(source.gets) != 0 {
		t.Fatalf("expected no GET for absent image, got %v", source.gets)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "ghost.png")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no file for missing image, stat err=%v", statErr)
	}
}

func TestResolveFailedDownloadLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{
		images:   map[string]string{"husky": "png"},
		fetchErr: services.Wrap(services.ErrTransport, "wiki", "fetch image", "boom", nil),
	}
	resolver := assets.NewResolver(dir, source, nil)

	outcome, err := resolver.Resolve(context.Background(), "husky")
	if outcome != assets.OutcomeFailed || !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport failure, got %s %v", outcome, err)
	}
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("read dir: %v", readErr)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected empty images dir, found %s", strings.Join(names, ", "))
	}
}

func TestResolveAllContinuesPastMissingAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{images: map[string]string{"husky": "a", "shiba": "b"}}
	resolver := assets.NewResolver(dir, source, nil)

	reg := registry.New()
	reg.Add("shiba", "udc")
	reg.Add("ghost", "udc")
	reg.Add("husky", "vic")

	tally, err := resolver.ResolveAll(context.Background(), reg)
	if err != nil {
		t.Fatalf("ResolveAll returned error: %v", err)
	}
	if tally[assets.OutcomeFetched] != 2 || tally[assets.OutcomeMissing] != 1 {
		t.Fatalf("unexpected tally %v", tally)
	}

	// Second pass only re-probes the device that is still missing.
	before := source.calls()
	tally, err = resolver.ResolveAll(context.Background(), reg)
	if err != nil {
		t.Fatalf("second ResolveAll returned error: %v", err)
	}
	if tally[assets.OutcomeExisting] != 2 || tally[assets.OutcomeMissing] != 1 {
		t.Fatalf("unexpected second tally %v", tally)
	}
	if got := source.calls() - before; got != 1 {
		t.Fatalf("expected a single HEAD on rerun, got %d calls", got)
	}
}

func TestResolveAllStopsOnCancellation(t *testing.T) {
	source := &fakeSource{images: map[string]string{"husky": "a"}}
	resolver := assets.NewResolver(t.TempDir(), source, nil)
	reg := registry.New()
	reg.Add("husky", "udc")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := resolver.ResolveAll(ctx, reg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if source.calls() != 0 {
		t.Fatalf("expected no calls after cancellation, got %d", source.calls())
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[assets.Outcome]string{
		assets.OutcomeExisting: "existing",
		assets.OutcomeFetched:  "fetched",
		assets.OutcomeMissing:  "missing",
		assets.OutcomeFailed:   "failed",
	}
	for outcome, want := range cases {
		if got := outcome.String(); got != want {
			t.Fatalf("Outcome(%d).String() = %q, want %q", int(outcome), got, want)
		}
	}
}
