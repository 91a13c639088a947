package config

import "fmt"

// Workspace is the unified, format-agnostic representation of a set of
// projects that are built together, plus the toolchain used to build them.
type Workspace struct {
	// RequiredVersion is the minimum tool version (semver) the workspace
	// was written for. Empty means any version.
	RequiredVersion string
	// Root is the directory the workspace files were loaded from.
	Root      string
	Toolchain Toolchain
	Projects  []*Project
}

// Project looks up a project by name.
func (w *Workspace) Project(name string) (*Project, bool) {
	for _, p := range w.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Project is one buildable unit of the workspace.
type Project struct {
	Name string
	// Root is the project directory. Every path below is relative to it.
	Root     string
	Language Language
	Kind     OutputKind
	// Sources is the deduplicated, ordered list of compiled source files.
	Sources        []string
	Configurations []*Configuration
}

// Configuration is one build variant (e.g. Debug or Release) of a project.
type Configuration struct {
	Name                    string
	IntermediateDir         string
	OutputDir               string
	IncludePaths            []string
	LibraryPaths            []string
	Libraries               []string
	Defines                 []string
	CharacterSet            CharacterSet
	CompilerFlags           []string
	ImplicitlyLinkedObjects []string
	PreBuild                string
	PostBuild               string
	CustomBuildRules        []*CustomBuildRule
}

// CustomBuildRule runs an executable over a non-compiled input file.
type CustomBuildRule struct {
	Name string
	// File is the input the rule operates on, relative to the project root.
	File string
	// Executable is the tool the rule invokes, relative to the project root.
	Executable string
	// Command is the command-line template. See makefile.ExpandCommand for
	// the recognised placeholders.
	Command string
}

// Toolchain holds the compiler settings shared by every project in a
// workspace.
type Toolchain struct {
	CCompiler    string
	CPPCompiler  string
	Archiver     string
	Platform     Platform
	FolderPrefix FolderPrefix
	// ProjectFolderPrefixes overrides FolderPrefix for individual projects,
	// keyed by project name.
	ProjectFolderPrefixes map[string]FolderPrefix
}

// DefaultToolchain returns the toolchain used when a workspace does not
// declare one.
func DefaultToolchain() Toolchain {
	return Toolchain{
		CCompiler:   "gcc",
		CPPCompiler: "g++",
		Archiver:    "ar",
		Platform:    PlatformNative,
	}
}

// FolderPrefixFor returns the folder prefixes that apply to the named project.
func (t Toolchain) FolderPrefixFor(project string) FolderPrefix {
	if fp, ok := t.ProjectFolderPrefixes[project]; ok {
		return fp
	}
	return t.FolderPrefix
}

// FolderPrefix holds the strings prepended to the configuration folder of a
// project's outputs, one per project language.
type FolderPrefix struct {
	CPP    string
	CSharp string
}

// For returns the prefix for the given language.
func (f FolderPrefix) For(lang Language) string {
	switch lang {
	case LanguageCSharp:
		return f.CSharp
	default:
		return f.CPP
	}
}

// Language is the source language of a project.
type Language int

const (
	LanguageCPP Language = iota
	LanguageCSharp
)

func (l Language) String() string {
	switch l {
	case LanguageCPP:
		return "cpp"
	case LanguageCSharp:
		return "csharp"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// ParseLanguage parses the textual form used in workspace files.
func ParseLanguage(s string) (Language, error) {
	switch s {
	case "", "cpp", "c++":
		return LanguageCPP, nil
	case "csharp", "c#":
		return LanguageCSharp, nil
	}
	return 0, fmt.Errorf("unknown language %q: must be 'cpp' or 'csharp'", s)
}

// Platform selects the target platform variant of the toolchain.
type Platform int

const (
	PlatformNative Platform = iota
	// PlatformCygwin is the Windows-compatibility-layer variant. Its
	// toolchain produces position-independent code by default and names
	// shared libraries with a .dll extension.
	PlatformCygwin
)

func (p Platform) String() string {
	switch p {
	case PlatformNative:
		return "native"
	case PlatformCygwin:
		return "cygwin"
	default:
		return fmt.Sprintf("Platform(%d)", int(p))
	}
}

// ParsePlatform parses the textual form used in workspace files.
func ParsePlatform(s string) (Platform, error) {
	switch s {
	case "", "native", "linux":
		return PlatformNative, nil
	case "cygwin":
		return PlatformCygwin, nil
	}
	return 0, fmt.Errorf("unknown platform %q: must be 'native' or 'cygwin'", s)
}

// CharacterSet is the character-set mode of a configuration.
type CharacterSet int

const (
	CharacterSetNone CharacterSet = iota
	CharacterSetMultiByte
	CharacterSetUnicode
)

func (c CharacterSet) String() string {
	switch c {
	case CharacterSetNone:
		return "none"
	case CharacterSetMultiByte:
		return "multibyte"
	case CharacterSetUnicode:
		return "unicode"
	default:
		return fmt.Sprintf("CharacterSet(%d)", int(c))
	}
}

// ParseCharacterSet parses the textual form used in workspace files.
func ParseCharacterSet(s string) (CharacterSet, error) {
	switch s {
	case "", "none":
		return CharacterSetNone, nil
	case "multibyte", "mbcs":
		return CharacterSetMultiByte, nil
	case "unicode":
		return CharacterSetUnicode, nil
	}
	return 0, fmt.Errorf("unknown character set %q: must be 'unicode', 'multibyte' or 'none'", s)
}
