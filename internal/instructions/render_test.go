package instructions_test

import (
	"testing"

	"otadocs/internal/instructions"
	"otadocs/internal/services/ota"
)

const huskyPage = "## THESE INSTRUCTIONS ASSUME YOUR DEVICE'S BOOTLOADER IS ALREADY UNLOCKED\n" +
	"\n" +
	"1. Download boot, super_empty, rom for husky from [here](https://sourceforge.net/projects/evolution-x/files/husky/10.0/).\n" +
	"2. Reboot to bootloader.\n" +
	"3.\n" +
	"```fastboot flash boot boot.img```\n" +
	"\n" +
	"```fastboot wipe-super super_empty.img```\n" +
	"\n" +
	"4. Reboot to recovery.\n" +
	"5. While in recovery, navigate to **Factory Reset** → **Format Data/Factory Reset** and confirm to format the device.\n" +
	"6. When done formatting, go back to the main menu and then navigate to **Apply Update** → **Apply from ADB**.\n" +
	"7. `adb sideload rom.zip` (replace \"rom.zip\" with the actual build filename).\n" +
	"8. (Optional) Reboot to recovery (fully) to sideload any add-ons.\n" +
	"9. Reboot to system and **#KeepEvolving**.\n"

func TestRenderFullPage(t *testing.T) {
	desc := &ota.Descriptor{
		OEM:                       "Google",
		Download:                  "https://sourceforge.net/projects/evolution-x/files/husky/10.0/EvolutionX-10.0-husky.zip/download",
		InitialInstallationImages: []string{"boot", "super_empty"},
	}
	got, err := instructions.Render("husky", desc, "")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != huskyPage {
		t.Fatalf("unexpected page:\n%s", got)
	}
}

func TestRenderIgnoresDescriptorHost(t *testing.T) {
	desc := &ota.Descriptor{
		OEM:      "Samsung",
		Download: "https://evil.example/anything/9.1/build.zip",
	}
	got, err := instructions.Render("a52q", desc, "https://mirror.test/{device}/{version}/")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := "1. Download rom for a52q from [here](https://mirror.test/a52q/9.1/)."
	if !containsLine(got, want) {
		t.Fatalf("expected line %q in:\n%s", want, got)
	}
}

func TestRenderRejectsUnusableDownload(t *testing.T) {
	if _, err := instructions.Render("husky", &ota.Descriptor{Download: "zip"}, ""); err == nil {
		t.Fatal("expected error for short download url")
	}
	if _, err := instructions.Render("husky", nil, ""); err == nil {
		t.Fatal("expected error for nil descriptor")
	}
}

func containsLine(text, line string) bool {
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			if text[start:i] == line {
				return true
			}
			start = i + 1
		}
	}
	return false
}
