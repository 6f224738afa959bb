// Package spatial provides the sphere-overlap index used for viewers,
// radius occluders and per-band line occluders.
//
// SphereTree answers "which items have a bounding sphere intersecting this
// query sphere". Items are bucketed into a uniform hash grid keyed with
// Szudzik pairing, so insert, remove and query cost scales with the number
// of grid cells the spheres cover rather than the item count.
package spatial
