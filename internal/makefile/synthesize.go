package makefile

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/makegen/internal/config"
	"github.com/vk/makegen/internal/ctxlog"
)

// Owner identifies the workspace project that produces a file.
type Owner struct {
	Project  string
	Language config.Language
}

// Resolver answers whether a path is the output of a project in the same
// workspace. Paths are passed in host form, joined to the project root.
type Resolver interface {
	ResolveOutput(path string) (Owner, bool)
}

// Options carries everything the engine needs besides the project itself.
type Options struct {
	Toolchain config.Toolchain
	// Resolver is consulted for custom build rule tools. Nil disables the
	// cross-project tool path rewrite.
	Resolver Resolver
}

// Synthesize writes the build script of p to w.
//
// Malformed model input (blank or duplicate configuration names, sources
// named like targets) is not rejected: the script is still written and the
// findings are logged as warnings.
func Synthesize(ctx context.Context, w io.Writer, p *config.Project, opts Options) error {
	logger := ctxlog.FromContext(ctx).With("project", p.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Synthesis started.", "configurations", len(p.Configurations), "sources", len(p.Sources))

	if p.Kind == nil {
		return fmt.Errorf("project %s has no output kind", p.Name)
	}

	targets, err := newBuilder(ctx, p, opts).build()
	if err != nil {
		return err
	}
	for _, problem := range targets.problems {
		logger.Warn("Target graph problem.", "problem", problem)
	}
	if order, err := targets.graph.TopologicalOrder(); err != nil {
		logger.Warn("Target graph is not acyclic.", "error", err)
	} else {
		logger.Debug("Target graph built.", "rules", len(targets.rules), "nodes", len(order), "order", order)
	}

	sw := newScriptWriter(w)
	sw.Comment(fmt.Sprintf("Makefile for project %s, generated by makegen. Do not edit.", p.Name))

	writeVariables(sw, compilerVariables(opts.Toolchain))
	for _, g := range configurationVariables(p, opts.Toolchain) {
		writeVariables(sw, g)
	}
	logger.Debug("Variable section written.")

	for _, r := range targets.rules {
		if r.comment != "" {
			sw.BlankLine()
			sw.Comment(r.comment)
		}
		if r.include != "" {
			sw.Include(r.include)
		}
		if r.phony {
			sw.Phony(r.target)
		}
		sw.Rule(r.target, targets.deps(r.target), r.orderOnly, r.commands)
	}

	if err := sw.Err(); err != nil {
		return fmt.Errorf("failed to write makefile for project %s: %w", p.Name, err)
	}
	logger.Debug("Synthesis finished.")
	return nil
}

func writeVariables(sw *scriptWriter, g variableGroup) {
	sw.BlankLine()
	sw.Comment(g.comment)
	for _, a := range g.assignments {
		sw.Assign(a.name, a.value)
	}
}
