package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/makegen/internal/config"
	"github.com/vk/makegen/internal/ctxlog"
	"github.com/vk/makegen/internal/fsutil"
	"github.com/vk/makegen/internal/schema"
)

// translateToolchain overlays the fields set in s onto tc.
func translateToolchain(s *schema.Toolchain, tc *config.Toolchain) error {
	if s.CCompiler != "" {
		tc.CCompiler = s.CCompiler
	}
	if s.CPPCompiler != "" {
		tc.CPPCompiler = s.CPPCompiler
	}
	if s.Archiver != "" {
		tc.Archiver = s.Archiver
	}
	platform, err := config.ParsePlatform(s.Platform)
	if err != nil {
		return err
	}
	tc.Platform = platform
	if s.FolderPrefix != nil {
		tc.FolderPrefix = config.FolderPrefix{CPP: s.FolderPrefix.CPP, CSharp: s.FolderPrefix.CSharp}
	}
	return nil
}

func mergeFolderPrefix(base config.FolderPrefix, s *schema.FolderPrefix) config.FolderPrefix {
	if s.CPP != "" {
		base.CPP = s.CPP
	}
	if s.CSharp != "" {
		base.CSharp = s.CSharp
	}
	return base
}

// translateProject converts the HCL project schema into the agnostic model.
// dir is the directory of the file declaring the project; a relative root
// is resolved against it.
func (l *Loader) translateProject(ctx context.Context, dir string, s *schema.Project, evalCtx *hcl.EvalContext) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)

	lang, err := config.ParseLanguage(s.Language)
	if err != nil {
		return nil, err
	}
	kind, err := config.ParseOutputKind(s.Kind)
	if err != nil {
		return nil, err
	}

	root := s.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(dir, filepath.FromSlash(root))
	}

	sources, err := fsutil.ExpandSources(root, s.Sources)
	if err != nil {
		return nil, err
	}
	if len(s.Sources) > 0 && len(sources) == 0 {
		logger.Warn("Source patterns matched no files.", "project", s.Name, "patterns", s.Sources)
	}

	p := &config.Project{
		Name:     s.Name,
		Root:     root,
		Language: lang,
		Kind:     kind,
		Sources:  sources,
	}

	shared := translateRules(s.CustomBuildRules)
	for _, c := range s.Configurations {
		cfg, err := translateConfiguration(c, shared, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("configuration %q: %w", c.Name, err)
		}
		p.Configurations = append(p.Configurations, cfg)
	}

	logger.Debug("Translated project.", "project", p.Name, "kind", p.Kind, "sources", len(p.Sources), "configurations", len(p.Configurations))
	return p, nil
}

// translateConfiguration converts one configuration block. Project-level
// rules come first, followed by the configuration's own.
func translateConfiguration(s *schema.Configuration, shared []*config.CustomBuildRule, evalCtx *hcl.EvalContext) (*config.Configuration, error) {
	charset, err := config.ParseCharacterSet(s.CharacterSet)
	if err != nil {
		return nil, err
	}
	flags, err := decodeFlags(s.CompilerFlags, evalCtx)
	if err != nil {
		return nil, err
	}

	rules := make([]*config.CustomBuildRule, 0, len(shared)+len(s.CustomBuildRules))
	rules = append(rules, shared...)
	rules = append(rules, translateRules(s.CustomBuildRules)...)

	return &config.Configuration{
		Name:                    s.Name,
		IntermediateDir:         s.IntermediateDir,
		OutputDir:               s.OutputDir,
		IncludePaths:            s.IncludePaths,
		LibraryPaths:            s.LibraryPaths,
		Libraries:               s.Libraries,
		Defines:                 s.Defines,
		CharacterSet:            charset,
		CompilerFlags:           flags,
		ImplicitlyLinkedObjects: s.ImplicitlyLinkedObjects,
		PreBuild:                s.PreBuild,
		PostBuild:               s.PostBuild,
		CustomBuildRules:        rules,
	}, nil
}

func translateRules(rules []*schema.CustomBuildRule) []*config.CustomBuildRule {
	out := make([]*config.CustomBuildRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, &config.CustomBuildRule{
			Name:       r.Name,
			File:       r.File,
			Executable: r.Executable,
			Command:    r.Command,
		})
	}
	return out
}
