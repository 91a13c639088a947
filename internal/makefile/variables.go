package makefile

import (
	"strings"
	"unicode"

	"github.com/vk/makegen/internal/config"
)

// Flag markers used by the variable section.
const (
	includeFlag     = "-I"
	libraryPathFlag = "-L"
	libraryFlag     = "-l"
	defineFlag      = "-D "
	startGroup      = "-Wl,--start-group"
	endGroup        = "-Wl,--end-group"
	picFlag         = "-fPIC"
	unicodeDefine   = "_UNICODE"
)

// assignment is one NAME=value line of the variable section.
type assignment struct {
	name  string
	value string
}

// variableGroup is a commented block of assignments, one per configuration.
type variableGroup struct {
	comment     string
	assignments []assignment
}

// compilerVariables returns the two global compiler selections.
func compilerVariables(tc config.Toolchain) variableGroup {
	return variableGroup{
		comment: "Compiler executables...",
		assignments: []assignment{
			{CCompilerVar, tc.CCompiler},
			{CPPCompilerVar, tc.CPPCompiler},
		},
	}
}

// configurationVariables returns the per-configuration variables grouped by
// category, configurations in declaration order within each group.
func configurationVariables(p *config.Project, tc config.Toolchain) []variableGroup {
	categories := []struct {
		comment string
		name    func(string) string
		value   func(*config.Configuration) string
	}{
		{"Include paths...", IncludePathVar, includePaths},
		{"Library paths...", LibraryPathVar, libraryPaths},
		{"Additional libraries...", LibrariesVar, libraries},
		{"Preprocessor definitions...", DefinitionsVar, definitions},
		{"Implicitly linked object files...", ImplicitObjectsVar, implicitObjects},
		{"Compiler flags...", CompilerFlagsVar, func(cfg *config.Configuration) string {
			return compilerFlags(p.Kind, tc.Platform, cfg)
		}},
	}

	groups := make([]variableGroup, 0, len(categories))
	for _, c := range categories {
		g := variableGroup{comment: c.comment}
		for _, cfg := range p.Configurations {
			g.assignments = append(g.assignments, assignment{c.name(cfg.Name), c.value(cfg)})
		}
		groups = append(groups, g)
	}
	return groups
}

func includePaths(cfg *config.Configuration) string {
	out := make([]string, 0, len(cfg.IncludePaths))
	for _, p := range cfg.IncludePaths {
		p = slashPath(p)
		if strings.IndexFunc(p, unicode.IsSpace) >= 0 {
			p = `"` + p + `"`
		}
		out = append(out, includeFlag+p)
	}
	return strings.Join(out, " ")
}

func libraryPaths(cfg *config.Configuration) string {
	out := make([]string, 0, len(cfg.LibraryPaths))
	for _, p := range cfg.LibraryPaths {
		out = append(out, libraryPathFlag+`"`+slashPath(p)+`"`)
	}
	return strings.Join(out, " ")
}

// libraries wraps the link libraries in a start/end group so circular
// dependencies between static libraries resolve. No libraries means an
// empty value, never an empty group.
func libraries(cfg *config.Configuration) string {
	if len(cfg.Libraries) == 0 {
		return ""
	}
	out := make([]string, 0, len(cfg.Libraries)+2)
	out = append(out, startGroup)
	for _, lib := range cfg.Libraries {
		out = append(out, libraryFlag+libraryName(lib))
	}
	out = append(out, endGroup)
	return strings.Join(out, " ")
}

// libraryName strips a Windows ".lib" suffix so "ws2_32.lib" links as -lws2_32.
func libraryName(lib string) string {
	if strings.HasSuffix(strings.ToLower(lib), ".lib") {
		return lib[:len(lib)-len(".lib")]
	}
	return lib
}

// definitions appends the unicode marker for unicode configurations even if
// the user already defined it; the compiler tolerates the duplicate.
func definitions(cfg *config.Configuration) string {
	defs := cfg.Defines
	if cfg.CharacterSet == config.CharacterSetUnicode {
		defs = append(defs[:len(defs):len(defs)], unicodeDefine)
	}
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, defineFlag+d)
	}
	return strings.Join(out, " ")
}

func implicitObjects(cfg *config.Configuration) string {
	out := make([]string, 0, len(cfg.ImplicitlyLinkedObjects))
	for _, o := range cfg.ImplicitlyLinkedObjects {
		out = append(out, slashPath(o))
	}
	return strings.Join(out, " ")
}

// compilerFlags prepends -fPIC for shared libraries on the native platform.
// The cygwin toolchain generates position-independent code by default.
func compilerFlags(kind config.OutputKind, platform config.Platform, cfg *config.Configuration) string {
	flags := cfg.CompilerFlags
	if needsPIC(kind, platform) {
		flags = append([]string{picFlag}, flags...)
	}
	return strings.Join(flags, " ")
}

func needsPIC(kind config.OutputKind, platform config.Platform) bool {
	_, shared := kind.(config.SharedLibrary)
	return shared && platform != config.PlatformCygwin
}
