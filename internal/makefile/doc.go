// Package makefile synthesizes a self-contained GNU Make script for one
// native project of a workspace.
//
// Synthesis is a single forward pass over the project model. The script is
// written in a fixed section order:
//
//  1. the variable section (compilers, then one variable per category and
//     configuration),
//  2. the aggregate build_all_configurations target,
//  3. for each configuration: its pre-build target, its custom-build-rule
//     targets, the configuration target with the link step, and the compile
//     and dependency-file rules of every source file,
//  4. the create_folders target,
//  5. the clean target.
//
// Every target is recorded in a dag.Graph while it is built, so duplicate
// producers and cycles can be reported before the script is written.
//
// The engine never runs a tool. Header dependencies are discovered by the
// generated script itself: each object rule lists its dependency file as a
// prerequisite, and the dependency file is pulled in with `-include` so a
// missing file on the first build is not an error.
package makefile
