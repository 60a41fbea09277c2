package main

import (
	"strings"
	"testing"
)

func TestRenderDeviceTableRightAlignsPages(t *testing.T) {
	out := renderDeviceTable([]deviceRow{
		{Device: "husky", Branches: "udc, vic", Image: "yes", Pages: "1/2"},
		{Device: "a52q", Branches: "udc", Image: "no", Pages: "10/10"},
	})

	if !strings.Contains(strings.ToUpper(out), "PAGES") {
		t.Fatalf("expected header row in:\n%s", out)
	}
	if !strings.Contains(out, "│   1/2 │") {
		t.Fatalf("expected right-aligned page count in:\n%s", out)
	}
	if !strings.Contains(out, "│ husky  │") {
		t.Fatalf("expected left-aligned device in:\n%s", out)
	}
}
