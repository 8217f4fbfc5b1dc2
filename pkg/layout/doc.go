// Package layout holds the geometry shared by the timeline renderer and its
// layout collaborators.
//
// A timeline has a primary axis (time) and a secondary axis (label
// displacement). Which screen axis is which, where the axis ticks attach
// and how a resolved node maps back to a screen transform all depend on
// the [Direction]. Those formulas live in a single table, see
// [GeometryFor], so that drawing code never branches on direction itself.
//
// # Nodes
//
// A [Node] is built fresh for every render pass. It carries the projected
// time position and the measured label box. A [Resolver] moves nodes along
// the primary axis (and into layers) so labels do not overlap; a
// [PathEngine] then assigns screen boxes and produces connector paths.
// Packages force and linkpath provide the default implementations.
//
// # Auto-fit
//
// [Fit] computes the container size that exactly contains every resolved
// label on the secondary axis.
package layout
