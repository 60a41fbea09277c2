package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"otadocs/internal/fileutil"
	"otadocs/internal/logging"
	"otadocs/internal/registry"
	"otadocs/internal/services"
)

// ImageSource is the secondary feed device images are copied from.
type ImageSource interface {
	Exists(ctx context.Context, device string) (bool, error)
	Fetch(ctx context.Context, device string, w io.Writer) (int64, error)
}

// Outcome reports what Resolve did for one device.
type Outcome int

const (
	// OutcomeExisting means a local image was already present; no request was made.
	OutcomeExisting Outcome = iota
	// OutcomeFetched means the image was downloaded and written.
	OutcomeFetched
	// OutcomeMissing means the feed has no image for the device.
	OutcomeMissing
	// OutcomeFailed means probing, downloading, or writing failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExisting:
		return "existing"
	case OutcomeFetched:
		return "fetched"
	case OutcomeMissing:
		return "missing"
	default:
		return "failed"
	}
}

// Tally counts outcomes across a ResolveAll pass.
type Tally map[Outcome]int

// Resolver makes sure each device has a local image, fetching it once.
type Resolver struct {
	dir    string
	source ImageSource
	logger *slog.Logger
}

// NewResolver creates a resolver writing <dir>/<device>.png.
func NewResolver(dir string, source ImageSource, logger *slog.Logger) *Resolver {
	return &Resolver{
		dir:    dir,
		source: source,
		logger: logging.NewComponentLogger(logger, "assets"),
	}
}

// Path returns the canonical local image path for device.
func (r *Resolver) Path(device string) string {
	return filepath.Join(r.dir, device+".png")
}

// Resolve ensures device's image exists locally. An existing file is never
// re-fetched or overwritten. A device absent from the feed yields
// OutcomeMissing with an error wrapping services.ErrAssetMissing.
func (r *Resolver) Resolve(ctx context.Context, device string) (Outcome, error) {
	path := r.Path(device)
	if _, err := os.Stat(path); err == nil {
		return OutcomeExisting, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return OutcomeFailed, fmt.Errorf("stat %s: %w", path, err)
	}

	ok, err := r.source.Exists(ctx, device)
	if err != nil {
		return OutcomeFailed, err
	}
	if !ok {
		return OutcomeMissing, services.Wrap(services.ErrAssetMissing, "assets", device, "image not found upstream", nil)
	}

	if err := r.download(ctx, device, path); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeFetched, nil
}

// download writes through a temp file so an interrupted transfer never
// leaves a partial image that would satisfy the existence check next run.
func (r *Resolver) download(ctx context.Context, device, path string) error {
	n, err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) (int64, error) {
		return r.source.Fetch(ctx, device, w)
	})
	if err != nil {
		return err
	}
	r.logger.DebugContext(ctx, "image written", logging.String("path", path), logging.Any("bytes", n))
	return nil
}

// ResolveAll runs Resolve for every device in reg in key order. Failures are
// logged and never abort the pass; only context cancellation is returned.
func (r *Resolver) ResolveAll(ctx context.Context, reg *registry.Registry) (Tally, error) {
	tally := Tally{}
	for _, device := range reg.Keys() {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		deviceCtx := services.WithDevice(ctx, device)
		outcome, err := r.Resolve(deviceCtx, device)
		tally[outcome]++

		switch outcome {
		case OutcomeExisting:
			r.logger.InfoContext(deviceCtx, "image already exists", logging.String("path", r.Path(device)))
		case OutcomeFetched:
			r.logger.InfoContext(deviceCtx, "image fetched", logging.String("path", r.Path(device)))
		case OutcomeMissing:
			logging.WarnWithContext(deviceCtx, r.logger, "image does not exist upstream; add it manually", "asset_missing",
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String("path", r.Path(device)),
				logging.String(logging.FieldErrorHint, "place a PNG at the listed path"),
				logging.String(logging.FieldImpact, "device page renders without artwork"),
			)
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return tally, ctxErr
			}
			logging.WarnWithContext(deviceCtx, r.logger, "image fetch failed", "asset_fetch_failed",
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "image will be retried on the next run"),
			)
		}
	}
	return tally, nil
}
