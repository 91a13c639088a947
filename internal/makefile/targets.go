package makefile

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/vk/makegen/internal/config"
	"github.com/vk/makegen/internal/ctxlog"
	"github.com/vk/makegen/internal/dag"
)

// rule is one target of the generated script. Its prerequisites live in the
// target graph.
type rule struct {
	target  string
	phony   bool
	comment string
	// include is a dependency file pulled in with -include right before the
	// rule.
	include string
	// orderOnly targets must run before this one without making it out of
	// date. They are not part of the target graph.
	orderOnly []string
	commands  []string
}

// targetGraph records every rule in emission order together with the
// dependency graph between targets and the files they read.
type targetGraph struct {
	graph    *dag.Graph
	rules    []*rule
	defined  map[string]bool
	problems []string
}

func newTargetGraph() *targetGraph {
	return &targetGraph{
		graph:   dag.New(),
		defined: make(map[string]bool),
	}
}

// add appends r to the script and records an edge from every prerequisite to
// its target. Prerequisites that are plain files become leaf nodes.
func (t *targetGraph) add(r *rule, deps ...string) {
	if t.defined[r.target] {
		t.problems = append(t.problems, fmt.Sprintf("target %q is produced by more than one rule", r.target))
	}
	t.defined[r.target] = true
	t.graph.AddNode(r.target)
	for _, d := range deps {
		if d == "" {
			t.problems = append(t.problems, fmt.Sprintf("target %q has a blank prerequisite", r.target))
			continue
		}
		t.graph.AddNode(d)
		if err := t.graph.AddEdge(d, r.target); err != nil {
			t.problems = append(t.problems, err.Error())
		}
	}
	t.rules = append(t.rules, r)
}

// deps returns the prerequisites of target in the order they were added.
func (t *targetGraph) deps(target string) []string {
	deps, _ := t.graph.Dependencies(target)
	return deps
}

// builder turns one project into its target graph.
type builder struct {
	ctx     context.Context
	project *config.Project
	opts    Options
	stems   []string
	targets *targetGraph
}

func newBuilder(ctx context.Context, p *config.Project, opts Options) *builder {
	return &builder{
		ctx:     ctx,
		project: p,
		opts:    opts,
		stems:   objectStems(p.Sources),
		targets: newTargetGraph(),
	}
}

func (b *builder) build() (*targetGraph, error) {
	b.aggregateTarget()
	for _, cfg := range b.project.Configurations {
		if err := b.configurationTargets(cfg); err != nil {
			return nil, err
		}
	}
	b.createFoldersTarget()
	b.cleanTarget()
	return b.targets, nil
}

func (b *builder) aggregateTarget() {
	deps := make([]string, 0, len(b.project.Configurations))
	for _, cfg := range b.project.Configurations {
		deps = append(deps, ConfigurationTarget(cfg.Name))
	}
	b.targets.add(&rule{
		target:  AllConfigurationsTarget,
		phony:   true,
		comment: "Builds all configurations for this project...",
	}, deps...)
}

// configurationTargets adds, in order, the pre-build target, the custom rule
// targets, the configuration target and the compile rules of cfg. The
// dependency scans wait for the pre-build and custom rule targets.
func (b *builder) configurationTargets(cfg *config.Configuration) error {
	logger := ctxlog.FromContext(b.ctx)
	deps := []string{CreateFoldersTarget}

	if pre := commandLines(cfg.PreBuild); len(pre) > 0 {
		name := PreBuildTarget(cfg.Name)
		b.targets.add(&rule{
			target:   name,
			phony:    true,
			comment:  fmt.Sprintf("Pre-build step for the %s configuration...", cfg.Name),
			commands: pre,
		})
		deps = append(deps, name)
	}

	for _, r := range cfg.CustomBuildRules {
		name := CustomRuleTarget(cfg.Name, r.Name, r.File)
		b.targets.add(&rule{
			target:   name,
			phony:    true,
			comment:  fmt.Sprintf("Custom build rule %s for file %s...", r.Name, slashPath(r.File)),
			commands: commandLines(b.customRuleCommand(r)),
		})
		deps = append(deps, name)
	}
	// Everything after create_folders may generate headers the scan reads.
	generators := deps[1:]

	objects := b.objectFiles(cfg)
	deps = append(deps, objects...)

	link, err := linkCommand(b.project, cfg, b.opts.Toolchain, objects)
	if err != nil {
		return err
	}
	commands := append([]string{link}, commandLines(cfg.PostBuild)...)
	b.targets.add(&rule{
		target:   ConfigurationTarget(cfg.Name),
		phony:    true,
		comment:  fmt.Sprintf("Builds the %s configuration...", cfg.Name),
		commands: commands,
	}, deps...)

	b.compileRules(cfg, generators)
	logger.Debug("Configuration targets built.", "configuration", cfg.Name, "objects", len(objects), "custom_rules", len(cfg.CustomBuildRules))
	return nil
}

// customRuleCommand expands the rule's command. When the rule's tool is the
// output of a sibling project, the tool path is rewritten to the folder that
// project's own script builds into, using the sibling's prefix.
func (b *builder) customRuleCommand(r *config.CustomBuildRule) string {
	tool := slashPath(r.Executable)
	if b.opts.Resolver != nil && tool != "" {
		full := filepath.FromSlash(tool)
		if !filepath.IsAbs(full) {
			full = filepath.Join(b.project.Root, full)
		}
		if owner, ok := b.opts.Resolver.ResolveOutput(full); ok && owner.Project != b.project.Name {
			prefix := b.opts.Toolchain.FolderPrefixFor(owner.Project).For(owner.Language)
			remapped := PrefixFileFolder(tool, prefix)
			ctxlog.FromContext(b.ctx).Debug("Custom rule tool belongs to another project.",
				"rule", r.Name, "owner", owner.Project, "language", owner.Language.String(), "tool", remapped)
			tool = remapped
		}
	}
	return ExpandCommand(r, tool)
}

// ExpandCommand substitutes the placeholders of a custom rule's command
// template. Recognised placeholders are $(ToolPath), $(InputPath),
// $(InputFileName), $(InputName) and $(InputDir). An empty template runs the
// tool on the input.
func ExpandCommand(r *config.CustomBuildRule, tool string) string {
	template := r.Command
	if strings.TrimSpace(template) == "" {
		template = "$(ToolPath) $(InputPath)"
	}
	input := slashPath(r.File)
	return strings.NewReplacer(
		"$(ToolPath)", shellquote.Join(tool),
		"$(InputPath)", shellquote.Join(input),
		"$(InputFileName)", shellquote.Join(path.Base(input)),
		"$(InputName)", shellquote.Join(baseName(input)),
		"$(InputDir)", shellquote.Join(path.Dir(input)),
	).Replace(template)
}

func (b *builder) objectFiles(cfg *config.Configuration) []string {
	objects := make([]string, len(b.stems))
	for i, stem := range b.stems {
		objects[i] = objectPath(cfg.IntermediateDir, stem, objectExt)
	}
	return objects
}

// objectDirs returns the intermediate folder of cfg followed by every
// sub-folder an object is written to, in first-seen order.
func (b *builder) objectDirs(cfg *config.Configuration) []string {
	root := folder(cfg.IntermediateDir)
	dirs := []string{root}
	seen := map[string]bool{root: true}
	for _, stem := range b.stems {
		d := path.Dir(objectPath(cfg.IntermediateDir, stem, objectExt))
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (b *builder) createFoldersTarget() {
	var commands []string
	for _, cfg := range b.project.Configurations {
		intermediate, output := folder(cfg.IntermediateDir), folder(cfg.OutputDir)
		commands = append(commands, "mkdir -p "+intermediate)
		if output != intermediate {
			commands = append(commands, "mkdir -p "+output)
		}
	}
	b.targets.add(&rule{
		target:   CreateFoldersTarget,
		phony:    true,
		comment:  "Creates the intermediate and output folders for each configuration...",
		commands: commands,
	})
}

// cleanTarget removes every generated artifact. Patterns that match nothing
// are harmless with rm -f.
func (b *builder) cleanTarget() {
	var commands []string
	for _, cfg := range b.project.Configurations {
		for _, dir := range b.objectDirs(cfg) {
			commands = append(commands,
				"rm -f "+path.Join(dir, "*"+objectExt),
				"rm -f "+path.Join(dir, "*"+dependencyExt),
			)
		}
		output := folder(cfg.OutputDir)
		for _, ext := range []string{".a", ".so", ".dll", ".exe"} {
			commands = append(commands, "rm -f "+path.Join(output, "*"+ext))
		}
	}
	b.targets.add(&rule{
		target:   CleanTarget,
		phony:    true,
		comment:  "Cleans intermediate and output files (objects, libraries, executables)...",
		commands: commands,
	})
}

// folder returns the script form of a configuration folder; an empty folder
// is the project root.
func folder(dir string) string {
	if dir = slashPath(dir); dir == "" {
		return "."
	}
	return dir
}
