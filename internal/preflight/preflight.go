package preflight

import (
	"context"
	"path/filepath"
	"strings"

	"keyprobe/internal/config"
)

// Result is the outcome of one check. Detail is shown whether or not the
// check passed.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll checks the directories cfg points at and then the registry file.
// The log directory is only checked when one is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	dirs := [][2]string{
		{"Staging directory", cfg.Paths.StagingDir},
		{"Registry directory", filepath.Dir(cfg.Paths.RegistryPath)},
	}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		dirs = append(dirs, [2]string{"Log directory", cfg.Paths.LogDir})
	}

	results := make([]Result, 0, len(dirs)+1)
	for _, d := range dirs {
		results = append(results, CheckDirectoryAccess(d[0], d[1]))
	}
	return append(results, CheckRegistry(ctx, cfg.Paths.RegistryPath))
}
