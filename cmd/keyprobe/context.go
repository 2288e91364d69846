package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"keyprobe/internal/config"
	"keyprobe/internal/fingerprint"
	"keyprobe/internal/logging"
	"keyprobe/internal/registry"
	"keyprobe/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = services.Wrap(services.ErrValidation, "config", "log-level", "", err)
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the logger once, writing to the command's stderr.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// operationContext tags the command context with the operation name and a
// fresh correlation id for log records.
func operationContext(cmd *cobra.Command, operation string) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithOperation(ctx, operation)
	return services.WithRequestID(ctx, uuid.NewString())
}

func (c *commandContext) openRegistry(ctx context.Context) (*registry.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := registry.Open(ctx, cfg.Paths.RegistryPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "registry", "open", cfg.Paths.RegistryPath, err)
	}
	return store, nil
}

func (c *commandContext) withRegistry(ctx context.Context, fn func(*registry.Store) error) error {
	store, err := c.openRegistry(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// generator resolves the algorithm and form flags, falling back to the
// configured defaults.
func (c *commandContext) generator(algorithm, form string) (*fingerprint.Generator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(algorithm) == "" {
		algorithm = cfg.Fingerprint.Algorithm
	}
	if strings.TrimSpace(form) == "" {
		form = cfg.Fingerprint.Form
	}
	gen, err := fingerprint.NewGenerator(algorithm, fingerprint.Form(form))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "fingerprint", "generator", "", err)
	}
	return gen, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// requireArgs is cobra.RangeArgs with errors marked as validation failures.
func requireArgs(minArgs, maxArgs int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
			return services.Wrap(services.ErrValidation, cmd.CommandPath(), "args", fmt.Sprintf("usage: %s", usage), nil)
		}
		return nil
	}
}
