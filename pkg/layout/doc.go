// Package layout computes deterministic force-directed positions for a graph.
//
// # Algorithm
//
// [Compute] runs a Fruchterman–Reingold simulation per connected component:
//
//   - nodes start at pseudo-random positions drawn from a PCG source seeded
//     by Config.Seed and the component ordinal
//   - every pair repels with Repulsion·k³/d², every edge attracts with
//     Attraction·d, so an isolated pair settles at distance k
//   - the temperature falls linearly to zero over Config.Iterations and caps
//     each node's displacement per step
//
// Components are then shelf-packed in order of their smallest node ID with
// a gap of k, so disconnected clusters never overlap.
//
// # Routing
//
// Parallel edges between the same node pair get distinct [RoutingHint]s from
// the fixed cycle straight, curve-1, curve-2, curve-3, curve-4, ordered by
// predicate label. See [Routes].
//
// # Determinism and cancellation
//
// The same graph and Config always yield bit-identical output. A canceled
// context stops the simulation between iterations; the partial positions are
// packed normally and Result.Partial is set.
//
// # Size guard
//
// The simulation costs O(n²) per iteration. Use [Guard] to reject graphs
// before any work is done.
package layout
