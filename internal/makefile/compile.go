package makefile

import (
	"fmt"
	"path"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/vk/makegen/internal/config"
)

// compileRules adds, for every source file, the object rule and its paired
// dependency-file rule.
//
// The object depends on the source and on its dependency file, so a
// regenerated dependency file alone triggers a rebuild. Both recipes create
// the object folder first: on a fresh checkout make may reach them before
// create_folders has run. The dependency-file rule takes generators as
// order-only prerequisites so generated headers exist before the scan.
func (b *builder) compileRules(cfg *config.Configuration, generators []string) {
	defs := ref(DefinitionsVar(cfg.Name))
	flags := ref(CompilerFlagsVar(cfg.Name))
	includes := ref(IncludePathVar(cfg.Name))

	for i, src := range b.project.Sources {
		src = slashPath(src)
		obj := objectPath(cfg.IntermediateDir, b.stems[i], objectExt)
		dep := objectPath(cfg.IntermediateDir, b.stems[i], dependencyExt)
		compiler := ref(CPPCompilerVar)
		if isCSource(src) {
			compiler = ref(CCompilerVar)
		}
		mkdir := "mkdir -p " + path.Dir(obj)

		b.targets.add(&rule{
			target:  obj,
			comment: fmt.Sprintf("Compiles file %s for the %s configuration...", src, cfg.Name),
			include: dep,
			commands: []string{
				mkdir,
				fmt.Sprintf("%s %s %s -c %s %s -o %s", compiler, defs, flags, src, includes, obj),
			},
		}, src, dep)

		// The scan names the dependency file as the rule's target. sed does
		// not rename it to the object: it adds the object as a second target
		// of the same line, so a header change rebuilds both.
		edit := fmt.Sprintf("s|^%s:|%s %s:|", sedPattern(dep), sedReplacement(obj), sedReplacement(dep))
		b.targets.add(&rule{
			target:    dep,
			orderOnly: generators,
			commands: []string{
				mkdir,
				fmt.Sprintf("%s %s %s -MM -MP %s %s -MF %s -MT %s", compiler, defs, flags, src, includes, dep, dep),
				shellquote.Join("sed", "-i", "-e", edit, dep),
			},
		}, src)
	}
}

var (
	sedPatternEscaper     = strings.NewReplacer(`\`, `\\`, `.`, `\.`, `*`, `\*`, `[`, `\[`, `]`, `\]`, `^`, `\^`, `$`, `\$`, `|`, `\|`)
	sedReplacementEscaper = strings.NewReplacer(`\`, `\\`, `&`, `\&`, `|`, `\|`)
)

func sedPattern(s string) string     { return sedPatternEscaper.Replace(s) }
func sedReplacement(s string) string { return sedReplacementEscaper.Replace(s) }
