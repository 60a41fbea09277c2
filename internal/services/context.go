package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	branchKey contextKey = "branch"
	deviceKey contextKey = "device"
)

// WithRunID annotates context with the per-invocation run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithBranch annotates context with the OTA branch being processed.
func WithBranch(ctx context.Context, branch string) context.Context {
	if branch == "" {
		return ctx
	}
	return context.WithValue(ctx, branchKey, branch)
}

// BranchFromContext returns the branch name if present.
func BranchFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(branchKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithDevice annotates context with the device key being processed.
func WithDevice(ctx context.Context, device string) context.Context {
	if device == "" {
		return ctx
	}
	return context.WithValue(ctx, deviceKey, device)
}

// DeviceFromContext returns the device key if present.
func DeviceFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(deviceKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
