package inspect

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"keyprobe/internal/archive"
	"keyprobe/internal/config"
	"keyprobe/internal/logging"
	"keyprobe/internal/services"
	"keyprobe/internal/services/cms"
	"keyprobe/internal/services/keytool"
	"keyprobe/internal/staging"
)

const defaultProvisionName = "embedded.mobileprovision"

// CertPrinter prints certificate material through keytool.
type CertPrinter interface {
	PrintJarCert(ctx context.Context, path string) (string, error)
	PrintCertFile(ctx context.Context, path string) (string, error)
	ListKeystore(ctx context.Context, path, storepass string) (string, error)
}

// ProfileDecoder decodes CMS-signed provisioning profiles.
type ProfileDecoder interface {
	Decode(ctx context.Context, path string) (string, error)
}

// Result is the outcome of inspecting one artifact.
type Result struct {
	Path string
	Kind Kind
	// Entry is the archive member that was decoded, set for IPA packages.
	Entry    string
	Output   string
	Duration time.Duration
	Err      error
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithProvisionName overrides the profile name searched for inside IPAs.
func WithProvisionName(name string) Option {
	return func(i *Inspector) {
		if name = strings.TrimSpace(name); name != "" {
			i.provisionName = name
		}
	}
}

// WithStorePassword sets the password passed to keystore listings.
func WithStorePassword(password string) Option {
	return func(i *Inspector) { i.storepass = password }
}

// WithMaxParallel bounds InspectAll concurrency.
func WithMaxParallel(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.maxParallel = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Inspector routes artifacts to their tools.
type Inspector struct {
	certs         CertPrinter
	profiles      ProfileDecoder
	area          *staging.Area
	provisionName string
	storepass     string
	maxParallel   int
	logger        *slog.Logger
}

// New constructs an Inspector. area may be nil when no IPA will be inspected.
func New(certs CertPrinter, profiles ProfileDecoder, area *staging.Area, opts ...Option) *Inspector {
	i := &Inspector{
		certs:         certs,
		profiles:      profiles,
		area:          area,
		provisionName: defaultProvisionName,
		maxParallel:   1,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = logging.NewComponentLogger(i.logger, "inspect")
	return i
}

// NewFromConfig wires the keytool and CMS clients and the staging area from cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Inspector, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "inspect", "init", "config required", nil)
	}
	certs, err := keytool.New(cfg.Tools.Keytool, cfg.Tools.TimeoutSeconds)
	if err != nil {
		return nil, err
	}
	profiles, err := cms.New(cfg.Tools.Security, cfg.Tools.TimeoutSeconds)
	if err != nil {
		return nil, err
	}
	area, err := staging.NewArea(cfg.Paths.StagingDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "inspect", "init", "staging area", err)
	}
	return New(certs, profiles, area,
		WithProvisionName(cfg.Inspect.ProvisionName),
		WithStorePassword(cfg.Inspect.KeystorePassword),
		WithMaxParallel(cfg.Inspect.MaxParallel),
		WithLogger(logger),
	), nil
}

// Inspect classifies path and runs the matching tool.
func (i *Inspector) Inspect(ctx context.Context, path string) Result {
	start := time.Now()
	ctx = services.WithArtifact(ctx, path)
	logger := logging.WithContext(ctx, i.logger)

	result := Result{Path: path}
	kind, err := Classify(path)
	if err != nil {
		result.Err = err
		return result
	}
	result.Kind = kind

	if _, statErr := os.Stat(path); statErr != nil {
		result.Err = services.Wrap(services.ErrNotFound, "inspect", kind.String(), "artifact not readable", statErr)
		return result
	}

	logger.Debug("inspecting artifact", logging.String("kind", kind.String()))
	switch kind {
	case KindAPK:
		result.Output, result.Err = i.certs.PrintJarCert(ctx, path)
	case KindCertificate:
		result.Output, result.Err = i.certs.PrintCertFile(ctx, path)
	case KindKeystore:
		result.Output, result.Err = i.certs.ListKeystore(ctx, path, i.storepass)
	case KindProfile:
		result.Output, result.Err = i.profiles.Decode(ctx, path)
	case KindIPA:
		result.Entry, result.Output, result.Err = i.inspectIPA(ctx, logger, path)
	}
	result.Duration = time.Since(start)

	if result.Err != nil {
		logger.Debug("inspection failed", logging.Error(result.Err))
	} else {
		logger.Debug("inspection complete", logging.Duration("duration", result.Duration))
	}
	return result
}

func (i *Inspector) inspectIPA(ctx context.Context, logger *slog.Logger, path string) (string, string, error) {
	entry, found, err := archive.LocateEntry(path, i.provisionName)
	if err != nil {
		return "", "", err
	}
	if !found {
		return "", "", services.Wrap(services.ErrNotFound, "inspect", "ipa",
			fmt.Sprintf("no %s in package", i.provisionName), nil)
	}
	if i.area == nil {
		return entry, "", services.Wrap(services.ErrConfiguration, "inspect", "ipa", "staging area not configured", nil)
	}

	ws, err := i.area.Acquire(ctx)
	if err != nil {
		return entry, "", services.Wrap(services.ErrConfiguration, "inspect", "ipa", "acquire staging workspace", err)
	}
	defer func() {
		if releaseErr := ws.Release(); releaseErr != nil {
			logging.WarnWithContext(logger, "staging workspace cleanup failed", "staging_cleanup",
				logging.String("workspace", ws.Path),
				logging.Error(releaseErr),
				logging.String(logging.FieldErrorHint, "run keyprobe staging clean"),
			)
		}
	}()

	extracted, err := archive.ExtractEntry(path, entry, ws.Path)
	if err != nil {
		return entry, "", err
	}
	logger.Debug("extracted provisioning profile",
		logging.String("entry", entry),
		logging.String("workspace", ws.Path),
	)
	out, err := i.profiles.Decode(ctx, extracted)
	return entry, out, err
}

// InspectAll inspects paths concurrently and returns results in input order.
// Per-artifact failures are reported in Result.Err; the returned error is
// only set when ctx ends before every inspection ran.
func (i *Inspector) InspectAll(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	var g errgroup.Group
	g.SetLimit(i.maxParallel)
	for idx, path := range paths {
		if err := ctx.Err(); err != nil {
			for rest := idx; rest < len(paths); rest++ {
				results[rest] = Result{Path: paths[rest], Err: err}
			}
			_ = g.Wait()
			return results, err
		}
		g.Go(func() error {
			results[idx] = i.Inspect(ctx, path)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}
