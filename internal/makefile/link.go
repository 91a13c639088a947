package makefile

import (
	"fmt"
	"path"
	"strings"

	"github.com/vk/makegen/internal/config"
)

const (
	rpathFlag  = "-Wl,-rpath,./"
	sharedFlag = "-shared"
	sonameFlag = "-Wl,-soname,"
)

// linkCommand returns the recipe line that turns the configuration's objects
// into the project's output.
func linkCommand(p *config.Project, cfg *config.Configuration, tc config.Toolchain, objects []string) (string, error) {
	fileName := OutputFileName(p.Name, p.Kind, tc.Platform)
	out := path.Join(slashPath(cfg.OutputDir), fileName)
	objs := strings.Join(objects, " ")

	switch p.Kind.(type) {
	case config.Executable:
		return joinArgs(
			ref(CPPCompilerVar), objs,
			ref(LibraryPathVar(cfg.Name)), ref(LibrariesVar(cfg.Name)),
			rpathFlag, "-o", out,
		), nil

	case config.StaticLibrary:
		archiver := tc.Archiver
		if archiver == "" {
			archiver = "ar"
		}
		return joinArgs(archiver, "rcs", out, objs, ref(ImplicitObjectsVar(cfg.Name))), nil

	case config.SharedLibrary:
		pic := ""
		if needsPIC(p.Kind, tc.Platform) {
			pic = picFlag
		}
		return joinArgs(
			ref(CPPCompilerVar), pic, sharedFlag, sonameFlag+fileName,
			"-o", out, objs,
			ref(ImplicitObjectsVar(cfg.Name)), ref(LibraryPathVar(cfg.Name)), ref(LibrariesVar(cfg.Name)),
		), nil
	}
	return "", fmt.Errorf("project %q: unsupported output kind %v", p.Name, p.Kind)
}

// joinArgs joins the non-empty arguments with single spaces.
func joinArgs(args ...string) string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a != "" {
			out = append(out, a)
		}
	}
	return strings.Join(out, " ")
}
