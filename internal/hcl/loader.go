package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/makegen/internal/config"
	"github.com/vk/makegen/internal/ctxlog"
	"github.com/vk/makegen/internal/fsutil"
	"github.com/vk/makegen/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL workspace loader.
func NewLoader() *Loader {
	return &Loader{}
}

// parsedFile is a workspace file with its locals already stripped out.
type parsedFile struct {
	path string
	body hcl.Body
}

// Load reads every .hcl file under paths and merges them into one
// workspace. Locals from all files share a single namespace and are
// evaluated before anything else, so any file may reference them.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Workspace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl workspace files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	localAttrs := make(map[string]*hcl.Attribute)
	files := make([]parsedFile, 0, len(hclFiles))

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var header schema.Header
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &header); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		for _, block := range header.Locals {
			attrs, diags := block.Body.JustAttributes()
			if diags.HasErrors() {
				return nil, fmt.Errorf("invalid locals block in %s: %w", file, diags)
			}
			for name, attr := range attrs {
				if prev, dup := localAttrs[name]; dup {
					return nil, fmt.Errorf("local %q is declared twice: %s and %s", name, prev.NameRange, attr.NameRange)
				}
				localAttrs[name] = attr
			}
		}
		files = append(files, parsedFile{path: file, body: header.Remain})
	}

	locals, err := evalLocals(localAttrs)
	if err != nil {
		return nil, err
	}
	evalCtx := newEvalContext(locals)
	logger.Debug("Evaluated locals.", "count", len(locals))

	ws := &config.Workspace{
		Root:      workspaceRoot(paths),
		Toolchain: config.DefaultToolchain(),
	}
	var toolchainFile string
	projectFiles := make(map[string]string)
	projectPrefixes := make(map[string]*schema.FolderPrefix)

	for _, f := range files {
		var root schema.File
		if diags := gohcl.DecodeBody(f.body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", f.path, diags)
		}

		if root.RequiredVersion != "" {
			if ws.RequiredVersion != "" && ws.RequiredVersion != root.RequiredVersion {
				return nil, fmt.Errorf("conflicting required_version %q in %s, already set to %q", root.RequiredVersion, f.path, ws.RequiredVersion)
			}
			ws.RequiredVersion = root.RequiredVersion
		}

		for _, tc := range root.Toolchains {
			if toolchainFile != "" {
				return nil, fmt.Errorf("duplicate toolchain block in %s: already declared in %s", f.path, toolchainFile)
			}
			toolchainFile = f.path
			if err := translateToolchain(tc, &ws.Toolchain); err != nil {
				return nil, fmt.Errorf("invalid toolchain in %s: %w", f.path, err)
			}
		}

		for _, p := range root.Projects {
			if prev, dup := projectFiles[p.Name]; dup {
				return nil, fmt.Errorf("project %q declared in both %s and %s", p.Name, prev, f.path)
			}
			projectFiles[p.Name] = f.path

			project, err := l.translateProject(ctx, filepath.Dir(f.path), p, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("invalid project %q in %s: %w", p.Name, f.path, err)
			}
			if p.FolderPrefix != nil {
				projectPrefixes[p.Name] = p.FolderPrefix
			}
			ws.Projects = append(ws.Projects, project)
		}
	}

	// Project overrides inherit whatever they leave blank from the
	// toolchain, which may have been declared in a later file.
	for name, fp := range projectPrefixes {
		if ws.Toolchain.ProjectFolderPrefixes == nil {
			ws.Toolchain.ProjectFolderPrefixes = make(map[string]config.FolderPrefix)
		}
		ws.Toolchain.ProjectFolderPrefixes[name] = mergeFolderPrefix(ws.Toolchain.FolderPrefix, fp)
	}

	logger.Debug("HCL loading complete.", "projects", len(ws.Projects), "root", ws.Root)
	return ws, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found. A path that does not exist is skipped.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return allFiles, nil
}

// workspaceRoot is the directory of the first path given to the loader.
func workspaceRoot(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	info, err := os.Stat(paths[0])
	if err == nil && info.IsDir() {
		return filepath.Clean(paths[0])
	}
	return filepath.Dir(paths[0])
}
