// Package registry resolves tags to node types and node types to tags.
//
// A Registry holds the bidirectional mapping between tag patterns and
// registered node types, the deprecated and renamed read-tags that must
// stay readable, the tag↔schema associations contributed by versioned
// manifests, and the converters for externally tagged leaf kinds.
//
// Registration happens once at initialization; duplicate bindings are a
// fatal programming error (ErrRegistry). After population the registry is
// never mutated, so concurrent readers need no locking; the shared default
// registry is created through an idempotent first-writer-wins discipline.
//
// Tag patterns use a trailing version wildcard: "...-1.*" matches any tag
// sharing the prefix and major version, a literal tag matches only itself.
// Write-tag selection prefers the newest loaded manifest when several
// manifests carry a compatible tag.
package registry
