package instructions

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"otadocs/internal/services/ota"
)

//go:embed instructions.md.tmpl
var pageSource string

var page = template.Must(template.New("instructions").Parse(pageSource))

type pageData struct {
	Device        string
	Downloads     string
	MirrorURL     string
	FlashCommands string
}

// Render produces the installation page for device from its descriptor.
// mirrorTemplate may be empty to use DefaultMirrorTemplate.
func Render(device string, desc *ota.Descriptor, mirrorTemplate string) (string, error) {
	if desc == nil {
		return "", errors.New("descriptor is nil")
	}
	version, err := VersionToken(desc.Download)
	if err != nil {
		return "", err
	}
	data := pageData{
		Device:        device,
		Downloads:     DownloadList(desc.InitialInstallationImages),
		MirrorURL:     MirrorURL(mirrorTemplate, device, version),
		FlashCommands: FlashCommands(desc.OEM, desc.InitialInstallationImages),
	}
	var b strings.Builder
	if err := page.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render instructions: %w", err)
	}
	return b.String(), nil
}
