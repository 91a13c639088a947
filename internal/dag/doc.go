// Package dag provides the target dependency graph used while synthesizing a
// build script. Nodes are target names and an edge from A to B records that
// B depends on A.
//
// The graph keeps insertion order for nodes and for each node's dependency
// list; iteration never depends on map order.
package dag
