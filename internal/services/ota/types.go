package ota

import "context"

// Descriptor is the first entry of a device's build document on one branch.
// Only OEM, InitialInstallationImages, and Download drive instruction
// generation; the remaining fields are decoded for diagnostics.
type Descriptor struct {
	Device                    string   `json:"device"`
	OEM                       string   `json:"oem"`
	Maintainer                string   `json:"maintainer"`
	GitHub                    string   `json:"github"`
	Filename                  string   `json:"filename"`
	Version                   string   `json:"version"`
	Download                  string   `json:"download"`
	InitialInstallationImages []string `json:"initial_installation_images"`
}

// envelope wraps descriptors the way the OTA repository publishes them.
type envelope struct {
	Response []Descriptor `json:"response"`
}

type branchEntry struct {
	Name string `json:"name"`
}

type contentEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Source defines the OTA metadata operations used by the registry builder and
// instruction synthesizer.
type Source interface {
	ListBranches(ctx context.Context) ([]string, error)
	ListDevices(ctx context.Context, branch string) ([]string, error)
	GetDescriptor(ctx context.Context, device, branch string) (*Descriptor, error)
}
