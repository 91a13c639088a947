package makefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/makegen/internal/config"
)

func TestIncludePaths(t *testing.T) {
	cfg := &config.Configuration{IncludePaths: []string{"include", "third party/inc"}}
	assert.Equal(t, `-Iinclude -I"third party/inc"`, includePaths(cfg))
}

func TestLibraryPaths(t *testing.T) {
	cfg := &config.Configuration{LibraryPaths: []string{"../lib", "/opt/x/lib"}}
	assert.Equal(t, `-L"../lib" -L"/opt/x/lib"`, libraryPaths(cfg))
}

func TestLibraries(t *testing.T) {
	t.Run("empty list yields empty value", func(t *testing.T) {
		assert.Equal(t, "", libraries(&config.Configuration{}))
	})

	t.Run("libraries are grouped", func(t *testing.T) {
		cfg := &config.Configuration{Libraries: []string{"m", "ws2_32.lib"}}
		assert.Equal(t, "-Wl,--start-group -lm -lws2_32 -Wl,--end-group", libraries(cfg))
	})
}

func TestDefinitions(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		cfg := &config.Configuration{Defines: []string{"_DEBUG", "LEVEL=2"}}
		assert.Equal(t, "-D _DEBUG -D LEVEL=2", definitions(cfg))
	})

	t.Run("unicode marker is appended even when already present", func(t *testing.T) {
		defs := []string{"_UNICODE"}
		cfg := &config.Configuration{Defines: defs, CharacterSet: config.CharacterSetUnicode}
		assert.Equal(t, "-D _UNICODE -D _UNICODE", definitions(cfg))
		assert.Equal(t, []string{"_UNICODE"}, cfg.Defines, "model must not be mutated")
	})

	t.Run("multibyte adds nothing", func(t *testing.T) {
		cfg := &config.Configuration{Defines: []string{"X"}, CharacterSet: config.CharacterSetMultiByte}
		assert.Equal(t, "-D X", definitions(cfg))
	})
}

func TestCompilerFlags(t *testing.T) {
	cfg := &config.Configuration{CompilerFlags: []string{"-O2", "-g"}}

	testCases := []struct {
		name     string
		kind     config.OutputKind
		platform config.Platform
		want     string
	}{
		{"executable", config.Executable{}, config.PlatformNative, "-O2 -g"},
		{"static library", config.StaticLibrary{}, config.PlatformNative, "-O2 -g"},
		{"shared library native", config.SharedLibrary{}, config.PlatformNative, "-fPIC -O2 -g"},
		{"shared library cygwin", config.SharedLibrary{}, config.PlatformCygwin, "-O2 -g"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, compilerFlags(tc.kind, tc.platform, cfg))
		})
	}
	assert.Equal(t, []string{"-O2", "-g"}, cfg.CompilerFlags)
}

func TestConfigurationVariablesGroupByCategory(t *testing.T) {
	p := &config.Project{
		Name: "demo",
		Kind: config.Executable{},
		Configurations: []*config.Configuration{
			{Name: "Debug"},
			{Name: "Release"},
		},
	}
	groups := configurationVariables(p, config.DefaultToolchain())
	require.Len(t, groups, 6)
	for _, g := range groups {
		require.Len(t, g.assignments, 2, g.comment)
	}
	assert.Equal(t, "Debug_Include_Path", groups[0].assignments[0].name)
	assert.Equal(t, "Release_Include_Path", groups[0].assignments[1].name)
	assert.Equal(t, "Release_Compiler_Flags", groups[5].assignments[1].name)
}
