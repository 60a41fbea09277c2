package instructions_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"otadocs/internal/instructions"
	"otadocs/internal/registry"
	"otadocs/internal/services"
	"otadocs/internal/services/ota"
)

type fakeFetcher struct {
	descriptors map[string]*ota.Descriptor
	failures    map[string]error
	calls       []string
}

func (f *fakeFetcher) GetDescriptor(_ context.Context, device, branch string) (*ota.Descriptor, error) {
	key := branch + "/" + device
	f.calls = append(f.calls, key)
	if err, ok := f.failures[key]; ok {
		return nil, err
	}
	if desc, ok := f.descriptors[key]; ok {
		return desc, nil
	}
	return nil, &ota.FetchError{Op: "get descriptor", Device: device, Branch: branch, Status: 404, Body: "404: Not Found",
		Err: services.Wrap(services.ErrTransport, "", "", "returned 404", nil)}
}

func descriptor(oem string, images ...string) *ota.Descriptor {
	return &ota.Descriptor{
		OEM:                       oem,
		Download:                  "https://dl.test/files/dev/10.0/rom.zip/download",
		InitialInstallationImages: images,
	}
}

func TestGenerateWritesBranchScopedPage(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{descriptors: map[string]*ota.Descriptor{
		"udc/a52q": descriptor("Samsung", "boot", "vendor"),
	}}
	synth := instructions.NewSynthesizer(dir, fetcher, nil)

	path, err := synth.Generate(context.Background(), "a52q", "udc")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if path != filepath.Join(dir, "udc", "a52q.md") {
		t.Fatalf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(data), "3.\n```heimdall flash --BOOT boot.img```\n\n```heimdall flash --VENDOR vendor.img```\n\n4.") {
		t.Fatalf("unexpected flashing block:\n%s", data)
	}
}

func TestGenerateOverwritesExistingPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "udc", "husky.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed page: %v", err)
	}
	fetcher := &fakeFetcher{descriptors: map[string]*ota.Descriptor{"udc/husky": descriptor("Google", "boot")}}

	if _, err := instructions.NewSynthesizer(dir, fetcher, nil).Generate(context.Background(), "husky", "udc"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "stale") {
		t.Fatal("expected page to be overwritten")
	}
}

func TestGenerateAllSkipsUnusableDescriptorsAndContinues(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{
		descriptors: map[string]*ota.Descriptor{
			"vic/husky": descriptor("Google", "boot"),
			"udc/shiba": descriptor("Google", "boot", "super_empty"),
			"udc/tiny":  {OEM: "Google", Download: "zip"},
		},
		failures: map[string]error{
			"udc/husky": &ota.FetchError{Op: "get descriptor", Device: "husky", Branch: "udc", Status: 200, Body: `{"response":[]}`,
				Err: services.Wrap(services.ErrEmpty, "", "", "response has no entries", nil)},
		},
	}
	reg := registry.New()
	reg.Add("husky", "udc")
	reg.Add("husky", "vic")
	reg.Add("shiba", "udc")
	reg.Add("tiny", "udc")
	reg.Add("ghost", "udc")

	summary, err := instructions.NewSynthesizer(dir, fetcher, nil).GenerateAll(context.Background(), reg)
	if err != nil {
		t.Fatalf("GenerateAll returned error: %v", err)
	}
	if summary.Written != 2 || summary.Failed != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	want := []string{"udc/ghost", "udc/husky", "vic/husky", "udc/shiba", "udc/tiny"}
	if strings.Join(fetcher.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected call order %v", fetcher.calls)
	}
	for _, missing := range []string{"udc/husky.md", "udc/ghost.md", "udc/tiny.md"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(missing))); !os.IsNotExist(err) {
			t.Fatalf("expected no page at %s (err=%v)", missing, err)
		}
	}
	for _, present := range []string{"vic/husky.md", "udc/shiba.md"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(present))); err != nil {
			t.Fatalf("expected page at %s: %v", present, err)
		}
	}
}

func TestGenerateUnusableDownloadIsParseFailure(t *testing.T) {
	fetcher := &fakeFetcher{descriptors: map[string]*ota.Descriptor{"udc/tiny": {Download: "zip"}}}
	_, err := instructions.NewSynthesizer(t.TempDir(), fetcher, nil).Generate(context.Background(), "tiny", "udc")
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse failure, got %v", err)
	}
}

func TestGenerateAllStopsOnCancellation(t *testing.T) {
	fetcher := &fakeFetcher{}
	reg := registry.New()
	reg.Add("husky", "udc")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := instructions.NewSynthesizer(t.TempDir(), fetcher, nil).GenerateAll(ctx, reg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Fatalf("expected no fetches, got %v", fetcher.calls)
	}
}
