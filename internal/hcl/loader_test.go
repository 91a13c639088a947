package hcl

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/makegen/internal/config"
	"github.com/vk/makegen/internal/testutil"
)

const workspaceHCL = `
required_version = "v1.0.0"

locals {
  opt   = "-O2"
  flags = [local.opt, "-Wall"]
}

toolchain {
  cpp_compiler = "clang++"
  platform     = "cygwin"
  folder_prefix {
    cpp    = "gcc"
    csharp = "mono"
  }
}

project "hello" {
  root    = "hello"
  kind    = "static_library"
  sources = ["main.cpp", "src/**/*.cpp"]

  folder_prefix {
    cpp = "clang"
  }

  custom_build_rule "idl" {
    file       = "api.idl"
    executable = "../tools/Debug/idlc.exe"
  }

  configuration "Debug" {
    intermediate_dir = "debug"
    output_dir       = "output"
    include_paths    = ["include"]
    libraries        = ["m"]
    defines          = ["_DEBUG"]
    character_set    = "unicode"
    compiler_flags   = "-O0 -g -DGREETING='hello world'"
    pre_build        = "echo pre"

    custom_build_rule "res" {
      file       = "app.rc"
      executable = "windres"
      command    = "$(ToolPath) $(InputPath) -o $(InputName).o"
    }
  }

  configuration "Release" {
    intermediate_dir = "release"
    output_dir       = "output"
    compiler_flags   = local.flags
  }
}

project "tools" {
  root     = "tools"
  language = "csharp"
  kind     = "executable"

  configuration "Debug" {
    output_dir = "bin/Debug"
  }
}
`

func TestLoadWorkspace(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{
		"workspace.hcl":          workspaceHCL,
		"hello/main.cpp":         "",
		"hello/src/a.cpp":        "",
		"hello/src/util/b.cpp":   "",
		"hello/src/util/notes.h": "",
	})
	ctx, _ := testutil.Context(t)

	ws, err := NewLoader().Load(ctx, root)
	require.NoError(t, err)

	idl := &config.CustomBuildRule{Name: "idl", File: "api.idl", Executable: "../tools/Debug/idlc.exe"}
	want := &config.Workspace{
		RequiredVersion: "v1.0.0",
		Root:            root,
		Toolchain: config.Toolchain{
			CCompiler:    "gcc",
			CPPCompiler:  "clang++",
			Archiver:     "ar",
			Platform:     config.PlatformCygwin,
			FolderPrefix: config.FolderPrefix{CPP: "gcc", CSharp: "mono"},
			ProjectFolderPrefixes: map[string]config.FolderPrefix{
				"hello": {CPP: "clang", CSharp: "mono"},
			},
		},
		Projects: []*config.Project{
			{
				Name:     "hello",
				Root:     filepath.Join(root, "hello"),
				Language: config.LanguageCPP,
				Kind:     config.StaticLibrary{},
				Sources:  []string{"main.cpp", "src/a.cpp", "src/util/b.cpp"},
				Configurations: []*config.Configuration{
					{
						Name:            "Debug",
						IntermediateDir: "debug",
						OutputDir:       "output",
						IncludePaths:    []string{"include"},
						Libraries:       []string{"m"},
						Defines:         []string{"_DEBUG"},
						CharacterSet:    config.CharacterSetUnicode,
						CompilerFlags:   []string{"-O0", "-g", "-DGREETING=hello world"},
						PreBuild:        "echo pre",
						CustomBuildRules: []*config.CustomBuildRule{
							idl,
							{Name: "res", File: "app.rc", Executable: "windres", Command: "$(ToolPath) $(InputPath) -o $(InputName).o"},
						},
					},
					{
						Name:             "Release",
						IntermediateDir:  "release",
						OutputDir:        "output",
						CompilerFlags:    []string{"-O2", "-Wall"},
						CustomBuildRules: []*config.CustomBuildRule{idl},
					},
				},
			},
			{
				Name:     "tools",
				Root:     filepath.Join(root, "tools"),
				Language: config.LanguageCSharp,
				Kind:     config.Executable{},
				Configurations: []*config.Configuration{
					{Name: "Debug", OutputDir: "bin/Debug", CustomBuildRules: []*config.CustomBuildRule{}},
				},
			},
		},
	}

	if diff := cmp.Diff(want, ws); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMergesFiles(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{
		"a/locals.hcl": `locals { name = "lib" }`,
		"b/lib.hcl": `
project "lib" {
  kind = "shared_library"
  configuration "Debug" {
    output_dir     = upper(local.name)
    compiler_flags = format("-DNAME=%s", local.name)
  }
}`,
		"toolchain.hcl": `toolchain { archiver = "llvm-ar" }`,
		"README.md":     "not a workspace file",
	})
	ctx, _ := testutil.Context(t)

	ws, err := NewLoader().Load(ctx, root)
	require.NoError(t, err)

	assert.Equal(t, "llvm-ar", ws.Toolchain.Archiver)
	require.Len(t, ws.Projects, 1)
	lib := ws.Projects[0]
	assert.Equal(t, filepath.Join(root, "b"), lib.Root, "an omitted root is the declaring file's directory")
	assert.Equal(t, config.SharedLibrary{}, lib.Kind)
	require.Len(t, lib.Configurations, 1)
	assert.Equal(t, "LIB", lib.Configurations[0].OutputDir)
	assert.Equal(t, []string{"-DNAME=lib"}, lib.Configurations[0].CompilerFlags)
}

func TestLoadSingleFile(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{
		"ws/one.hcl": `project "one" {}`,
		"ws/two.hcl": `project "two" {}`,
	})
	ctx, _ := testutil.Context(t)

	ws, err := NewLoader().Load(ctx, filepath.Join(root, "ws", "one.hcl"))
	require.NoError(t, err)

	require.Len(t, ws.Projects, 1)
	assert.Equal(t, "one", ws.Projects[0].Name)
	assert.Equal(t, filepath.Join(root, "ws"), ws.Root)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "no workspace files",
			files:   map[string]string{"notes.txt": "x"},
			wantErr: "no .hcl workspace files found",
		},
		{
			name:    "syntax error",
			files:   map[string]string{"ws.hcl": `project "a" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name: "project declared twice",
			files: map[string]string{
				"a.hcl": `project "app" {}`,
				"b.hcl": `project "app" {}`,
			},
			wantErr: `project "app" declared in both`,
		},
		{
			name: "toolchain declared twice",
			files: map[string]string{
				"a.hcl": `toolchain {}`,
				"b.hcl": `toolchain {}`,
			},
			wantErr: "duplicate toolchain block",
		},
		{
			name:    "unknown platform",
			files:   map[string]string{"ws.hcl": `toolchain { platform = "amiga" }`},
			wantErr: `unknown platform "amiga"`,
		},
		{
			name:    "unknown output kind",
			files:   map[string]string{"ws.hcl": `project "app" { kind = "plugin" }`},
			wantErr: `unknown output kind "plugin"`,
		},
		{
			name: "unknown character set",
			files: map[string]string{"ws.hcl": `
project "app" {
  configuration "Debug" {
    character_set = "ebcdic"
  }
}`},
			wantErr: `configuration "Debug"`,
		},
		{
			name: "numeric compiler flags",
			files: map[string]string{"ws.hcl": `
project "app" {
  configuration "Debug" {
    compiler_flags = 3
  }
}`},
			wantErr: "compiler_flags must be a string or a list of strings",
		},
		{
			name: "unbalanced quote in compiler flags",
			files: map[string]string{"ws.hcl": `
project "app" {
  configuration "Debug" {
    compiler_flags = "-DX='oops"
  }
}`},
			wantErr: "cannot split compiler_flags",
		},
		{
			name: "locals cycle",
			files: map[string]string{"ws.hcl": `
locals {
  a = local.b
  b = local.a
}`},
			wantErr: "locals reference each other in a cycle: a, b",
		},
		{
			name: "local declared twice",
			files: map[string]string{
				"a.hcl": `locals { x = 1 }`,
				"b.hcl": `locals { x = 2 }`,
			},
			wantErr: `local "x" is declared twice`,
		},
		{
			name: "conflicting required versions",
			files: map[string]string{
				"a.hcl": `required_version = "v1.0.0"`,
				"b.hcl": `required_version = "v2.0.0"`,
			},
			wantErr: "conflicting required_version",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := testutil.WriteFiles(t, tc.files)
			ctx, _ := testutil.Context(t)

			ws, err := NewLoader().Load(ctx, root)
			require.Error(t, err)
			assert.Nil(t, ws)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadWarnsOnEmptyGlob(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{
		"ws.hcl": `project "app" { sources = ["src/*.cpp"] }`,
	})
	ctx, logs := testutil.Context(t)

	ws, err := NewLoader().Load(ctx, root)
	require.NoError(t, err)
	assert.Empty(t, ws.Projects[0].Sources)
	assert.Contains(t, logs.String(), "Source patterns matched no files.")
}
