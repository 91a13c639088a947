package makefile

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vk/makegen/internal/config"
)

// Fixed target names.
const (
	AllConfigurationsTarget = "build_all_configurations"
	CreateFoldersTarget     = "create_folders"
	CleanTarget             = "clean"
)

// Global compiler variables.
const (
	CCompilerVar   = "C_COMPILER"
	CPPCompilerVar = "CPP_COMPILER"
)

const (
	objectExt     = ".o"
	dependencyExt = ".d"
	// Extension used by FileName to build the makefile path.
	scriptExt = ".makefile"
)

// Identifier maps a configuration, rule or file name onto the charset that is
// safe for make variable and target names. Runs of other characters become a
// single underscore.
func Identifier(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_':
			b.WriteRune(r)
			lastUnderscore = true
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return b.String()
}

func IncludePathVar(cfg string) string     { return Identifier(cfg) + "_Include_Path" }
func LibraryPathVar(cfg string) string     { return Identifier(cfg) + "_Library_Path" }
func LibrariesVar(cfg string) string       { return Identifier(cfg) + "_Libraries" }
func DefinitionsVar(cfg string) string     { return Identifier(cfg) + "_Preprocessor_Definitions" }
func ImplicitObjectsVar(cfg string) string { return Identifier(cfg) + "_Implicitly_Linked_Objects" }
func CompilerFlagsVar(cfg string) string   { return Identifier(cfg) + "_Compiler_Flags" }

// ConfigurationTarget is the phony target that builds one configuration.
func ConfigurationTarget(cfg string) string { return Identifier(cfg) }

// PreBuildTarget is the phony target that runs a configuration's pre-build
// command.
func PreBuildTarget(cfg string) string { return Identifier(cfg) + "_PreBuildEvent" }

// CustomRuleTarget is the phony target that runs one custom build rule over
// file for the configuration.
func CustomRuleTarget(cfg, rule, file string) string {
	return fmt.Sprintf("%s_CustomBuildRule_%s_%s", Identifier(cfg), Identifier(rule), Identifier(baseName(file)))
}

// ref wraps a variable name in a make reference.
func ref(name string) string { return "$(" + name + ")" }

// FileName returns the name of the makefile generated for project.
func FileName(project string) string { return project + scriptExt }

// OutputFileName returns the file the link step of a native project
// produces.
func OutputFileName(project string, kind config.OutputKind, platform config.Platform) string {
	switch kind.(type) {
	case config.StaticLibrary:
		return "lib" + project + ".a"
	case config.SharedLibrary:
		if platform == config.PlatformCygwin {
			return "lib" + project + ".dll"
		}
		return "lib" + project + ".so"
	default:
		return project + ".exe"
	}
}

// PrefixFolder prepends prefix to the last element of folder:
// "../bin/Debug" with prefix "gcc" becomes "../bin/gccDebug".
func PrefixFolder(folder, prefix string) string {
	if prefix == "" {
		return folder
	}
	folder = slashPath(folder)
	dir, last := path.Split(folder)
	if last == "" || last == "." || last == ".." {
		return path.Join(folder, prefix)
	}
	return dir + prefix + last
}

// PrefixFileFolder applies PrefixFolder to the directory holding file. A
// file without a directory is returned unchanged.
func PrefixFileFolder(file, prefix string) string {
	file = slashPath(file)
	dir, name := path.Split(file)
	if prefix == "" || dir == "" {
		return file
	}
	return path.Join(PrefixFolder(strings.TrimSuffix(dir, "/"), prefix), name)
}

// slashPath normalises a model path to the forward-slash form written into
// the script.
func slashPath(p string) string {
	if p == "" {
		return p
	}
	return path.Clean(filepath.ToSlash(p))
}

// baseName returns the file name of p without its extension.
func baseName(p string) string {
	b := path.Base(slashPath(p))
	return strings.TrimSuffix(b, path.Ext(b))
}

// objectStems returns, for each source, the path (relative to an
// intermediate folder and without extension) its object and dependency
// files are written to. Sources inside the project keep their directory so
// "a/util.cpp" and "b/util.cpp" never share an object; sources outside it
// use their base name. Any remaining clash gets a numeric suffix.
func objectStems(sources []string) []string {
	stems := make([]string, len(sources))
	used := make(map[string]struct{}, len(sources))
	for i, src := range sources {
		clean := slashPath(src)
		stem := strings.TrimSuffix(clean, path.Ext(clean))
		if !isLocal(clean) {
			stem = baseName(clean)
		}
		candidate := stem
		for n := 2; ; n++ {
			if _, taken := used[candidate]; !taken {
				break
			}
			candidate = stem + "_" + strconv.Itoa(n)
		}
		used[candidate] = struct{}{}
		stems[i] = candidate
	}
	return stems
}

func isLocal(p string) bool {
	return p != ".." && !strings.HasPrefix(p, "../") && !path.IsAbs(p)
}

// objectPath joins an intermediate folder and a stem with ext.
func objectPath(folder, stem, ext string) string {
	if folder == "" {
		return stem + ext
	}
	return path.Join(slashPath(folder), stem+ext)
}

// isCSource reports whether src is compiled with the C compiler.
func isCSource(src string) bool {
	return path.Ext(src) == ".c"
}
