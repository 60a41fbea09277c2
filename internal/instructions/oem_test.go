package instructions_test

import (
	"testing"

	"otadocs/internal/instructions"
)

func TestClassifyOEM(t *testing.T) {
	cases := map[string]instructions.OEMClass{
		"Samsung":  instructions.OEMClassSamsung,
		"samsung":  instructions.OEMClassGeneric,
		"Google":   instructions.OEMClassGeneric,
		"":         instructions.OEMClassGeneric,
		"Samsung ": instructions.OEMClassGeneric,
	}
	for oem, want := range cases {
		if got := instructions.ClassifyOEM(oem); got != want {
			t.Fatalf("ClassifyOEM(%q) = %s, want %s", oem, got, want)
		}
	}
}

func TestFlashCommandsSamsung(t *testing.T) {
	got := instructions.FlashCommands("Samsung", []string{"boot", "vendor"})
	want := "```heimdall flash --BOOT boot.img```\n\n```heimdall flash --VENDOR vendor.img```"
	if got != want {
		t.Fatalf("unexpected samsung commands:\n%s", got)
	}
}

func TestFlashCommandsGenericWipesSuperEmpty(t *testing.T) {
	got := instructions.FlashCommands("Google", []string{"boot", "super_empty"})
	want := "```fastboot flash boot boot.img```\n\n```fastboot wipe-super super_empty.img```"
	if got != want {
		t.Fatalf("unexpected generic commands:\n%s", got)
	}
}

func TestFlashCommandsSamsungKeepsSuperEmptyAsFlash(t *testing.T) {
	got := instructions.FlashCommands("Samsung", []string{"super_empty"})
	if got != "```heimdall flash --SUPER_EMPTY super_empty.img```" {
		t.Fatalf("unexpected samsung super_empty command: %s", got)
	}
}

func TestFlashCommandsEmpty(t *testing.T) {
	if got := instructions.FlashCommands("Google", nil); got != "" {
		t.Fatalf("expected empty block, got %q", got)
	}
}
