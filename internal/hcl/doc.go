// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, evaluation of
// locals, HCL-to-model translation and expansion of source globs.
package hcl
