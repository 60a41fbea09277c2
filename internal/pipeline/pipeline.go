package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"otadocs/internal/assets"
	"otadocs/internal/config"
	"otadocs/internal/instructions"
	"otadocs/internal/logging"
	"otadocs/internal/registry"
	"otadocs/internal/services"
	"otadocs/internal/services/ota"
	"otadocs/internal/services/wiki"
)

// ErrLocked reports that another run holds the output tree.
var ErrLocked = errors.New("output directory is locked by another run")

type runOptions struct {
	stdout     io.Writer
	httpClient *http.Client
}

// Option adjusts a single Run.
type Option func(*runOptions)

// WithOutput redirects the final completion line. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *runOptions) {
		if w != nil {
			o.stdout = w
		}
	}
}

// WithHTTPClient shares one HTTP client across every upstream.
func WithHTTPClient(client *http.Client) Option {
	return func(o *runOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// Run performs one generation pass: list branches, build and save the
// registry snapshot, resolve device images, and write instruction pages.
//
// Only an unusable token, a held lock, a failed branch listing, a failed
// snapshot write, or cancellation are returned. Per-device failures are logged.
func Run(ctx context.Context, cfg *config.Config, token string, logger *slog.Logger, opts ...Option) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	options := runOptions{stdout: os.Stdout}
	for _, opt := range opts {
		opt(&options)
	}
	if options.httpClient == nil {
		options.httpClient = &http.Client{Timeout: cfg.HTTPTimeout()}
	}

	source, err := ota.New(token,
		ota.WithHTTPClient(options.httpClient),
		ota.WithAPIBaseURL(cfg.OTA.APIBaseURL),
		ota.WithRawBaseURL(cfg.OTA.RawBaseURL),
		ota.WithRepository(cfg.OTA.Owner, cfg.OTA.Repo),
		ota.WithBuildsPath(cfg.OTA.BuildsPath),
		ota.WithMetadataExtension(cfg.OTA.MetadataExtension),
		ota.WithUserAgent(cfg.OTA.UserAgent),
	)
	if err != nil {
		return err
	}
	images, err := wiki.New(cfg.Assets.BaseURL,
		wiki.WithHTTPClient(options.httpClient),
		wiki.WithUserAgent(cfg.OTA.UserAgent),
	)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, cfg.LockPath())
	}
	base := logger
	logger = logging.NewComponentLogger(base, "pipeline")
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	ctx = services.WithRunID(ctx, uuid.NewString())
	logger.InfoContext(ctx, "run started",
		logging.String("output_dir", cfg.Paths.OutputDir),
		logging.String("repository", cfg.OTA.Owner+"/"+cfg.OTA.Repo),
	)

	branches, err := source.ListBranches(ctx)
	if err != nil {
		logging.ErrorWithContext(ctx, logger, "failed to fetch branches", "branch_fetch_failed",
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the token and network access to the GitHub API"),
		)
		return err
	}
	logger.InfoContext(ctx, "branches fetched", logging.Strings("branches", branches))

	reg, err := registry.NewBuilder(source, base).Build(ctx, branches)
	if err != nil {
		return err
	}
	if err := reg.Save(cfg.Paths.RegistryFile); err != nil {
		return err
	}
	logger.InfoContext(ctx, "registry saved",
		logging.String("path", cfg.Paths.RegistryFile),
		logging.Int("devices", reg.Len()),
	)

	resolver := assets.NewResolver(cfg.Paths.ImagesDir, images, base)
	tally, err := resolver.ResolveAll(ctx, reg)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "images resolved",
		logging.Int("existing", tally[assets.OutcomeExisting]),
		logging.Int("fetched", tally[assets.OutcomeFetched]),
		logging.Int("missing", tally[assets.OutcomeMissing]),
		logging.Int("failed", tally[assets.OutcomeFailed]),
	)

	synth := instructions.NewSynthesizer(cfg.Paths.InstructionsDir, source, base,
		instructions.WithMirrorTemplate(cfg.Mirror.DownloadURLTemplate),
	)
	if _, err := synth.GenerateAll(ctx, reg); err != nil {
		return err
	}

	logger.InfoContext(ctx, "run complete")
	fmt.Fprintln(options.stdout, "Done.")
	return nil
}
