package instructions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"otadocs/internal/logging"
	"otadocs/internal/registry"
	"otadocs/internal/services"
	"otadocs/internal/services/ota"
)

// DescriptorFetcher retrieves a device's build descriptor on one branch.
type DescriptorFetcher interface {
	GetDescriptor(ctx context.Context, device, branch string) (*ota.Descriptor, error)
}

// Synthesizer writes one Markdown page per device and branch.
type Synthesizer struct {
	dir            string
	mirrorTemplate string
	source         DescriptorFetcher
	logger         *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithMirrorTemplate overrides the download mirror template.
func WithMirrorTemplate(template string) Option {
	return func(s *Synthesizer) {
		if template != "" {
			s.mirrorTemplate = template
		}
	}
}

// NewSynthesizer writes pages under dir/<branch>/<device>.md.
func NewSynthesizer(dir string, source DescriptorFetcher, logger *slog.Logger, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		dir:            dir,
		mirrorTemplate: DefaultMirrorTemplate,
		source:         source,
		logger:         logging.NewComponentLogger(logger, "instructions"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns where the page for device on branch is written.
func (s *Synthesizer) Path(device, branch string) string {
	return filepath.Join(s.dir, filepath.FromSlash(branch), device+".md")
}

// Generate fetches the descriptor, renders it, and overwrites the page. When
// the descriptor cannot be used no file is written.
func (s *Synthesizer) Generate(ctx context.Context, device, branch string) (string, error) {
	desc, err := s.source.GetDescriptor(ctx, device, branch)
	if err != nil {
		return "", err
	}
	content, err := Render(device, desc, s.mirrorTemplate)
	if err != nil {
		return "", services.Wrap(services.ErrParse, "instructions", "render", device+" on "+branch, err)
	}
	path := s.Path(device, branch)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create branch directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Summary counts pages written and skipped in one GenerateAll pass.
type Summary struct {
	Written int
	Failed  int
}

// GenerateAll walks every device and branch in the registry. Failures are
// logged with their upstream status and body and the loop continues; only
// context cancellation stops it.
func (s *Synthesizer) GenerateAll(ctx context.Context, reg *registry.Registry) (Summary, error) {
	var summary Summary
	for _, pair := range reg.Pairs() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		unitCtx := services.WithDevice(services.WithBranch(ctx, pair.Branch), pair.Device)
		path, err := s.Generate(unitCtx, pair.Device, pair.Branch)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			summary.Failed++
			s.logFailure(unitCtx, err)
			continue
		}
		summary.Written++
		s.logger.DebugContext(unitCtx, "instructions written", logging.String("path", path))
	}
	s.logger.InfoContext(ctx, "instructions generated",
		logging.Int("written", summary.Written),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *Synthesizer) logFailure(ctx context.Context, err error) {
	kind := services.Kind(err)
	attrs := []logging.Attr{
		logging.String(logging.FieldErrorKind, kind),
		logging.Error(err),
	}
	var fetchErr *ota.FetchError
	if errors.As(err, &fetchErr) {
		attrs = append(attrs, logging.String("url", fetchErr.URL))
		if fetchErr.Status != 0 {
			attrs = append(attrs, logging.Int(logging.FieldStatus, fetchErr.Status))
		}
		if fetchErr.Body != "" {
			attrs = append(attrs, logging.String("response_content", fetchErr.Body))
		}
	}

	msg := "failed to fetch descriptor"
	hint := "check that the branch still publishes this device"
	switch kind {
	case "parse":
		msg = "descriptor could not be decoded"
		hint = "inspect the raw document for malformed JSON or an unexpected download link"
	case "empty":
		msg = "descriptor not found on branch"
		hint = "the device document has no response entries"
	}
	attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
	logging.ErrorWithContext(ctx, s.logger, msg, "descriptor_"+kind, attrs...)
}
