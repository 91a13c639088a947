// Package config defines the format-agnostic workspace model consumed by the
// makefile engine, along with the Loader interface implemented by concrete
// file-format packages.
//
// The `config.Workspace` is the single source of truth for the `app`,
// `workspace` and `makefile` packages. Concrete implementations of the
// Loader interface, such as for HCL, are provided in separate packages.
package config
