package ota

import (
	"fmt"
	"strings"
)

// FetchError describes a failed upstream request with enough context to
// diagnose drift in the OTA repository. Err carries a services marker
// (ErrTransport, ErrParse, or ErrEmpty) so callers can classify with errors.Is.
type FetchError struct {
	Op     string
	Branch string
	Device string
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString("ota ")
	b.WriteString(e.Op)
	switch {
	case e.Device != "" && e.Branch != "":
		fmt.Fprintf(&b, " %s on %s", e.Device, e.Branch)
	case e.Branch != "":
		fmt.Fprintf(&b, " on %s", e.Branch)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
