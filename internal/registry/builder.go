package registry

import (
	"context"
	"log/slog"

	"otadocs/internal/logging"
	"otadocs/internal/services"
)

// DeviceLister lists the device keys published on one branch.
type DeviceLister interface {
	ListDevices(ctx context.Context, branch string) ([]string, error)
}

// Builder aggregates per-branch device listings into a Registry.
type Builder struct {
	source DeviceLister
	logger *slog.Logger
}

// NewBuilder wires a builder to its device source.
func NewBuilder(source DeviceLister, logger *slog.Logger) *Builder {
	return &Builder{
		source: source,
		logger: logging.NewComponentLogger(logger, "registry"),
	}
}

// Build walks branches in order. A branch whose listing fails is logged and
// skipped; its devices are simply absent from this run's registry. The only
// error returned is context cancellation.
func (b *Builder) Build(ctx context.Context, branches []string) (*Registry, error) {
	reg := New()
	for _, branch := range branches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		branchCtx := services.WithBranch(ctx, branch)
		b.logger.InfoContext(branchCtx, "fetching devices")

		devices, err := b.source.ListDevices(branchCtx, branch)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logging.ErrorWithContext(branchCtx, b.logger, "failed to fetch devices; skipping branch", "branch_list_failed",
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the token scope and that the branch still has a builds directory"),
			)
			continue
		}
		if len(devices) == 0 {
			b.logger.InfoContext(branchCtx, "no devices found")
			continue
		}
		added := 0
		for _, device := range devices {
			if reg.Add(device, branch) {
				added++
			}
		}
		b.logger.DebugContext(branchCtx, "branch devices recorded",
			logging.Int("listed", len(devices)),
			logging.Int("added", added),
		)
	}
	b.logger.InfoContext(ctx, "registry built", logging.Int("devices", reg.Len()))
	return reg, nil
}
