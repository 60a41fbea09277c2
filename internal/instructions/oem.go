package instructions

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OEMClass selects the flashing tool family for a device.
type OEMClass int

const (
	OEMClassGeneric OEMClass = iota
	OEMClassSamsung
)

func (c OEMClass) String() string {
	if c == OEMClassSamsung {
		return "samsung"
	}
	return "generic"
}

// ClassifyOEM maps the descriptor's oem field to a flashing class. Matching is
// exact; "samsung" or " Samsung" fall through to the generic class.
func ClassifyOEM(oem string) OEMClass {
	if oem == "Samsung" {
		return OEMClassSamsung
	}
	return OEMClassGeneric
}

// Renderer turns one initial-installation image into a flash command.
type Renderer interface {
	Command(image string) string
}

type samsungRenderer struct {
	upper cases.Caser
}

func (r samsungRenderer) Command(image string) string {
	return fmt.Sprintf("heimdall flash --%s %s.img", r.upper.String(image), image)
}

type genericRenderer struct{}

// super_empty is only special-cased here; Samsung devices keep the plain
// heimdall form for it.
func (genericRenderer) Command(image string) string {
	if image == "super_empty" {
		return "fastboot wipe-super super_empty.img"
	}
	return fmt.Sprintf("fastboot flash %s %s.img", image, image)
}

// RendererFor returns the strategy for class.
func RendererFor(class OEMClass) Renderer {
	switch class {
	case OEMClassSamsung:
		return samsungRenderer{upper: cases.Upper(language.Und)}
	default:
		return genericRenderer{}
	}
}

// FlashCommands renders images in order, each as its own inline code span,
// separated by blank lines.
func FlashCommands(oem string, images []string) string {
	renderer := RendererFor(ClassifyOEM(oem))
	blocks := make([]string, 0, len(images))
	for _, image := range images {
		blocks = append(blocks, "```"+renderer.Command(image)+"```")
	}
	return strings.Join(blocks, "\n\n")
}
