package logging

import (
	"context"
	"log/slog"

	"otadocs/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for the per-invocation run identifier.
	FieldRunID = "run_id"
	// FieldBranch is the standardized structured logging key for OTA branch names.
	FieldBranch = "branch"
	// FieldDevice is the standardized structured logging key for device keys.
	FieldDevice = "device"
	// FieldEventType classifies a log line for filtering (e.g. descriptor_fetch_failed).
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for a warning or error.
	FieldErrorHint = "error_hint"
	// FieldErrorKind carries the failure taxonomy label from services.Kind.
	FieldErrorKind = "error_kind"
	// FieldStatus carries an upstream HTTP status code.
	FieldStatus = "status"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if branch, ok := services.BranchFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBranch, branch))
	}
	if device, ok := services.DeviceFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldDevice, device))
	}
	return fields
}
