package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/makegen/internal/config"
	"github.com/vk/makegen/internal/ctxlog"
	"github.com/vk/makegen/internal/makefile"
	"github.com/vk/makegen/internal/workspace"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	workspace *config.Workspace
	index     *workspace.Index
}

// NewApp is the constructor for the main application. It builds an
// isolated logger writing to logW, loads the workspace through loader and
// checks that this release can handle it. Dry-run scripts go to outW.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	ws, err := loader.Load(ctx, appConfig.WorkspacePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	logger.Debug("Workspace loaded and translated into unified model.", "projects", len(ws.Projects))

	if err := checkVersion(ws.RequiredVersion, Version); err != nil {
		return nil, err
	}

	index := workspace.NewIndex(ws)
	logger.Debug("Workspace output index built.", "outputs", index.Len())

	return &App{
		outW:      outW,
		logger:    logger,
		config:    appConfig,
		workspace: ws,
		index:     index,
	}, nil
}

// Workspace returns the loaded workspace. This is primarily for testing.
func (a *App) Workspace() *config.Workspace {
	return a.workspace
}

// Run synthesizes a makefile for every selected native project, in
// declaration order. Managed projects are skipped; they only take part in
// resolving custom-rule tools.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	projects, err := a.selectProjects()
	if err != nil {
		return err
	}

	if a.config.OutputDir != "" && !a.config.DryRun {
		if err := os.MkdirAll(a.config.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	opts := makefile.Options{Toolchain: a.workspace.Toolchain, Resolver: a.index}
	written, skipped := 0, 0
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Language != config.LanguageCPP {
			a.logger.Warn("Skipping non-native project.", "project", p.Name, "language", p.Language)
			skipped++
			continue
		}

		prefix := a.workspace.Toolchain.FolderPrefixFor(p.Name).For(config.LanguageCPP)
		prepared := workspace.WithFolderPrefix(p, prefix)

		if a.config.DryRun {
			if written > 0 {
				if _, err := io.WriteString(a.outW, "\n"); err != nil {
					return err
				}
			}
			if err := makefile.Synthesize(ctx, a.outW, prepared, opts); err != nil {
				return fmt.Errorf("failed to synthesize makefile for project %s: %w", p.Name, err)
			}
			written++
			continue
		}

		dest := a.destination(p)
		if err := makefile.WriteFile(ctx, dest, prepared, opts); err != nil {
			return err
		}
		a.logger.Info("Makefile written.", "project", p.Name, "path", dest)
		written++
	}

	a.logger.Info("Synthesis finished.", "written", written, "skipped", skipped, "dry_run", a.config.DryRun)
	return nil
}

// selectProjects applies the project filter, keeping declaration order.
func (a *App) selectProjects() ([]*config.Project, error) {
	if len(a.config.Projects) == 0 {
		return a.workspace.Projects, nil
	}
	wanted := make(map[string]bool, len(a.config.Projects))
	for _, name := range a.config.Projects {
		if _, ok := a.workspace.Project(name); !ok {
			return nil, fmt.Errorf("unknown project %q", name)
		}
		wanted[name] = true
	}
	var selected []*config.Project
	for _, p := range a.workspace.Projects {
		if wanted[p.Name] {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

func (a *App) destination(p *config.Project) string {
	if a.config.OutputDir == "" {
		return makefile.Path(p)
	}
	return filepath.Join(a.config.OutputDir, makefile.FileName(p.Name))
}
