// Package sitepub implements a versioned content publication engine: hero
// and feature sections carrying semantic versions with an at-most-one-active
// invariant per kind, blog posts moving through a draft/published/archived
// lifecycle with unique slugs and monotonic view counts, testimonials, and
// read-only statistics derived from the same store.
//
// It exposes a single Service interface orchestrating the repository layer
// and a best-effort AssetStore collaborator. Repository implementations
// (memory, Postgres) live under subpackages, as do asset store backends
// (memory, filesystem, S3) and the HTTP API.
//
// Invariants the engine enforces:
//
//   - At most one section per kind is active; activation atomically
//     deactivates all others of the kind.
//   - Section versions are unique per kind and never auto-activate when
//     cloned.
//   - Blog slugs are unique across all statuses; view counts only grow and
//     increments survive concurrent readers.
package sitepub
