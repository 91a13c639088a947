package makefile

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/vk/makegen/internal/config"
	"github.com/vk/makegen/internal/ctxlog"
)

// Path returns the default destination of the script for p:
// {root}/{name}.makefile.
func Path(p *config.Project) string {
	return filepath.Join(p.Root, FileName(p.Name))
}

// WriteFile synthesizes p into dest. The script is written to a temporary
// file next to dest and renamed into place, so a failed run never leaves a
// partial script behind.
func WriteFile(ctx context.Context, dest string, p *config.Project, opts Options) error {
	t, err := renameio.NewPendingFile(dest, renameio.WithTempDir(filepath.Dir(dest)), renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("failed to create makefile for project %s: %w", p.Name, err)
	}
	defer t.Cleanup()

	bw := bufio.NewWriter(t)
	if err := Synthesize(ctx, bw, p, opts); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write makefile for project %s: %w", p.Name, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace makefile for project %s: %w", p.Name, err)
	}
	ctxlog.FromContext(ctx).Debug("Makefile written.", "project", p.Name, "path", dest)
	return nil
}
