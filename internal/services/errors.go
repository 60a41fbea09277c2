package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUsage marks a bad invocation. Always fatal.
	ErrUsage = errors.New("usage error")
	// ErrTransport marks an upstream request that failed or returned a non-success status.
	ErrTransport = errors.New("fetch failed")
	// ErrParse marks an upstream document that could not be decoded.
	ErrParse = errors.New("malformed upstream document")
	// ErrEmpty marks a well-formed upstream document with no usable entry.
	ErrEmpty = errors.New("empty upstream result")
	// ErrAssetMissing marks a device image absent from the asset feed.
	ErrAssetMissing = errors.New("asset missing")
)

// Wrap builds an error message that includes component context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short label for the taxonomy marker carried by err, suitable
// for the error_kind log field.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUsage):
		return "usage"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrEmpty):
		return "empty"
	case errors.Is(err, ErrAssetMissing):
		return "asset_missing"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
