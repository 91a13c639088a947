// Package schema holds the gohcl decoding structures of the workspace file
// format. They mirror the HCL syntax one to one; translation into the
// format-agnostic config model happens in the hcl package.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Evaluation Prelude ---

// Locals is a `locals` block. Its attributes are evaluated before the rest
// of the workspace and exposed as local.<name>.
type Locals struct {
	Body hcl.Body `hcl:",remain"`
}

// Header is decoded first from every file, without an evaluation context,
// to pull out the locals. Remain holds everything else.
type Header struct {
	Locals []*Locals `hcl:"locals,block"`
	Remain hcl.Body  `hcl:",remain"`
}

// --- Workspace Structures ---

// File represents the top-level structure of a workspace file once locals
// have been removed.
type File struct {
	RequiredVersion string       `hcl:"required_version,optional"`
	Toolchains      []*Toolchain `hcl:"toolchain,block"`
	Projects        []*Project   `hcl:"project,block"`
}

// FolderPrefix is a `folder_prefix` block, valid inside `toolchain` and
// `project`.
type FolderPrefix struct {
	CPP    string `hcl:"cpp,optional"`
	CSharp string `hcl:"csharp,optional"`
}

// Toolchain is the `toolchain` block. At most one may appear across all
// files of a workspace.
type Toolchain struct {
	CCompiler    string        `hcl:"c_compiler,optional"`
	CPPCompiler  string        `hcl:"cpp_compiler,optional"`
	Archiver     string        `hcl:"archiver,optional"`
	Platform     string        `hcl:"platform,optional"`
	FolderPrefix *FolderPrefix `hcl:"folder_prefix,block"`
}

// Project is a `project "<name>"` block.
type Project struct {
	Name             string             `hcl:"name,label"`
	Root             string             `hcl:"root,optional"`
	Language         string             `hcl:"language,optional"`
	Kind             string             `hcl:"kind,optional"`
	Sources          []string           `hcl:"sources,optional"`
	FolderPrefix     *FolderPrefix      `hcl:"folder_prefix,block"`
	CustomBuildRules []*CustomBuildRule `hcl:"custom_build_rule,block"`
	Configurations   []*Configuration   `hcl:"configuration,block"`
}

// CustomBuildRule is a `custom_build_rule "<name>"` block. Declared on a
// project it applies to every configuration.
type CustomBuildRule struct {
	Name       string `hcl:"name,label"`
	File       string `hcl:"file"`
	Executable string `hcl:"executable"`
	Command    string `hcl:"command,optional"`
}

// Configuration is a `configuration "<name>"` block.
type Configuration struct {
	Name                    string   `hcl:"name,label"`
	IntermediateDir         string   `hcl:"intermediate_dir,optional"`
	OutputDir               string   `hcl:"output_dir,optional"`
	IncludePaths            []string `hcl:"include_paths,optional"`
	LibraryPaths            []string `hcl:"library_paths,optional"`
	Libraries               []string `hcl:"libraries,optional"`
	Defines                 []string `hcl:"defines,optional"`
	CharacterSet            string   `hcl:"character_set,optional"`
	ImplicitlyLinkedObjects []string `hcl:"implicitly_linked_objects,optional"`
	PreBuild                string   `hcl:"pre_build,optional"`
	PostBuild               string   `hcl:"post_build,optional"`
	// CompilerFlags accepts either a single shell-style string or a list
	// of strings, so it is decoded by hand.
	CompilerFlags    hcl.Expression     `hcl:"compiler_flags,optional"`
	CustomBuildRules []*CustomBuildRule `hcl:"custom_build_rule,block"`
}
