package config

import "fmt"

// OutputKind is the closed set of artifacts a project can produce:
// Executable, StaticLibrary or SharedLibrary. The unexported method keeps
// other packages from adding variants, so a type switch over the three
// types is exhaustive.
type OutputKind interface {
	fmt.Stringer
	outputKind()
}

// Executable links the objects into a program.
type Executable struct{}

// StaticLibrary archives the objects into lib{name}.a.
type StaticLibrary struct{}

// SharedLibrary links the objects into a shared object. The file extension
// and the position-independent-code flag depend on the toolchain platform.
type SharedLibrary struct{}

func (Executable) outputKind()    {}
func (StaticLibrary) outputKind() {}
func (SharedLibrary) outputKind() {}

func (Executable) String() string    { return "executable" }
func (StaticLibrary) String() string { return "static_library" }
func (SharedLibrary) String() string { return "shared_library" }

// ParseOutputKind parses the textual form used in workspace files.
func ParseOutputKind(s string) (OutputKind, error) {
	switch s {
	case "", "executable", "exe":
		return Executable{}, nil
	case "static_library", "static":
		return StaticLibrary{}, nil
	case "shared_library", "shared", "dll":
		return SharedLibrary{}, nil
	}
	return nil, fmt.Errorf("unknown output kind %q: must be 'executable', 'static_library' or 'shared_library'", s)
}
