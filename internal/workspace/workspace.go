// Package workspace answers workspace-wide questions for the makefile engine
// without giving it a back-reference to the workspace: which project
// produces a given file, and where a project's own script puts its folders.
package workspace

import (
	"path/filepath"

	"github.com/vk/makegen/internal/config"
	"github.com/vk/makegen/internal/makefile"
)

// Index maps every output file declared in a workspace to the project that
// produces it. It implements makefile.Resolver and is read-only once built.
type Index struct {
	outputs map[string]makefile.Owner
}

var _ makefile.Resolver = (*Index)(nil)

// NewIndex indexes the declared (unprefixed) output of every configuration
// of every project. When two projects claim the same file the first one
// declared wins.
func NewIndex(ws *config.Workspace) *Index {
	idx := &Index{outputs: make(map[string]makefile.Owner)}
	for _, p := range ws.Projects {
		name := outputFileName(p, ws.Toolchain.Platform)
		for _, cfg := range p.Configurations {
			key := filepath.Clean(filepath.Join(p.Root, filepath.FromSlash(cfg.OutputDir), name))
			if _, taken := idx.outputs[key]; taken {
				continue
			}
			idx.outputs[key] = makefile.Owner{Project: p.Name, Language: p.Language}
		}
	}
	return idx
}

// ResolveOutput reports the project whose output is path.
func (i *Index) ResolveOutput(path string) (makefile.Owner, bool) {
	owner, ok := i.outputs[filepath.Clean(path)]
	return owner, ok
}

// Len returns the number of indexed output files.
func (i *Index) Len() int {
	return len(i.outputs)
}

// outputFileName returns the file a project's build produces. Native
// projects follow the makefile engine's naming; managed projects produce an
// assembly named after the project.
func outputFileName(p *config.Project, platform config.Platform) string {
	if p.Language == config.LanguageCSharp {
		if _, ok := p.Kind.(config.Executable); ok {
			return p.Name + ".exe"
		}
		return p.Name + ".dll"
	}
	return makefile.OutputFileName(p.Name, p.Kind, platform)
}

// WithFolderPrefix returns a copy of p whose intermediate and output
// folders carry prefix on their last element, matching where the project's
// generated script builds. p is not modified.
func WithFolderPrefix(p *config.Project, prefix string) *config.Project {
	if prefix == "" {
		return p
	}
	out := *p
	out.Configurations = make([]*config.Configuration, len(p.Configurations))
	for i, cfg := range p.Configurations {
		c := *cfg
		c.IntermediateDir = makefile.PrefixFolder(folderOrDot(cfg.IntermediateDir), prefix)
		c.OutputDir = makefile.PrefixFolder(folderOrDot(cfg.OutputDir), prefix)
		out.Configurations[i] = &c
	}
	return &out
}

func folderOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
