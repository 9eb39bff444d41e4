package registry

import (
	"fmt"
	"slices"

	"github.com/skyarc-format/skyarc/debug"
	"github.com/skyarc-format/skyarc/schema"
)

// Registry is the process-lifetime table relating tag patterns, node
// types, schemas, and leaf converters. Populate it fully before use; it
// must not be mutated afterward, which is what makes concurrent read
// access safe without locking.
type Registry struct {
	library *schema.Library

	byPattern map[string]*Type
	byName    map[string]*Type
	ordered   []*Type

	deprecated map[string]*Type
	renames    map[string]string

	manifests   []*Manifest // newest first
	schemaByTag map[string]string

	converters []LeafConverter
}

func New(library *schema.Library) *Registry {
	return &Registry{
		library:     library,
		byPattern:   map[string]*Type{},
		byName:      map[string]*Type{},
		deprecated:  map[string]*Type{},
		renames:     map[string]string{},
		schemaByTag: map[string]string{},
	}
}

// Library returns the schema library backing this registry.
func (r *Registry) Library() *schema.Library {
	return r.library
}

// Register binds a node type to its tag pattern. Binding a pattern already
// held by a different type is a fatal initialization error; re-registering
// the same type is a no-op.
func (r *Registry) Register(t *Type) error {
	if t.Pattern == "" || t.Name == "" {
		return fmt.Errorf("%w: type must have a name and a tag pattern", ErrRegistry)
	}
	if existing, ok := r.byPattern[t.Pattern]; ok {
		if existing == t {
			return nil
		}
		return fmt.Errorf("%w: tag pattern %q bound to both %q and %q",
			ErrRegistry, t.Pattern, existing.Name, t.Name)
	}
	if existing, ok := r.byName[t.Name]; ok && existing != t {
		return fmt.Errorf("%w: duplicate type name %q", ErrRegistry, t.Name)
	}
	for _, alias := range t.DeprecatedAliases {
		if existing, ok := r.deprecated[alias]; ok && existing != t {
			return fmt.Errorf("%w: deprecated alias %q bound to both %q and %q",
				ErrRegistry, alias, existing.Name, t.Name)
		}
		r.deprecated[alias] = t
	}
	r.byPattern[t.Pattern] = t
	r.byName[t.Name] = t
	r.ordered = append(r.ordered, t)
	if debug.Registry() {
		debug.Debugf("registered type", "name", t.Name, "pattern", t.Pattern)
	}
	return nil
}

// RegisterRename records that documents tagged old must be read as if
// tagged current. Applied transparently on read with a warning.
func (r *Registry) RegisterRename(old, current string) error {
	if existing, ok := r.renames[old]; ok && existing != current {
		return fmt.Errorf("%w: tag %q renamed to both %q and %q",
			ErrRegistry, old, existing, current)
	}
	r.renames[old] = current
	return nil
}

// AddManifest loads a versioned tag bundle. Manifests are kept newest
// first; the write path always prefers the newest compatible manifest.
func (r *Registry) AddManifest(m *Manifest) {
	r.manifests = append(r.manifests, m)
	slices.SortStableFunc(r.manifests, func(a, b *Manifest) int {
		return -compareVersions(a.version, b.version)
	})
	for _, td := range m.Tags {
		if _, ok := r.schemaByTag[td.TagURI]; !ok {
			r.schemaByTag[td.TagURI] = td.SchemaURI
		}
	}
}

// Types returns all registered node types in registration order.
func (r *Registry) Types() []*Type {
	return slices.Clone(r.ordered)
}

// TypeByName returns the node type registered under name.
func (r *Registry) TypeByName(name string) (*Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// ResolveRead resolves a concrete document tag to the node type that
// deserializes it. Renamed tags are rewritten to their replacement and
// deprecated aliases resolve directly, both with a structured warning.
// Resolution is a pure function of the registry state and the tag.
func (r *Registry) ResolveRead(tag string) (*Type, error) {
	if current, ok := r.renames[tag]; ok {
		debug.Warnf("deprecated tag read: tag has been renamed",
			"tag", tag, "replacement", current)
		tag = current
	}
	if t, ok := r.deprecated[tag]; ok {
		debug.Warnf("deprecated tag read", "tag", tag, "current", t.Pattern)
		return t, nil
	}
	if t := r.matchType(tag); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
}

// matchType finds the most specific registered pattern matching tag.
func (r *Registry) matchType(tag string) *Type {
	var (
		best     *Type
		bestSpec = -1
	)
	for _, t := range r.ordered {
		if !MatchPattern(t.Pattern, tag) {
			continue
		}
		if spec := patternSpecificity(t.Pattern); spec > bestSpec {
			best, bestSpec = t, spec
		}
	}
	return best
}

// ResolveWrite picks, from the candidate tags acceptable in the current
// writing context, the one matching t's registered pattern. Candidates
// from newer manifests win ties. The second result is false when no
// candidate matches; callers then fall back to the instance's own
// previously-assigned tag.
func (r *Registry) ResolveWrite(t *Type, candidates []string) (string, bool) {
	matching := make([]string, 0, 1)
	for _, c := range candidates {
		if MatchPattern(t.Pattern, c) {
			matching = append(matching, c)
		}
	}
	switch len(matching) {
	case 0:
		return "", false
	case 1:
		return matching[0], true
	}
	// newest manifest wins ties; manifests are already newest first
	for _, m := range r.manifests {
		for _, td := range m.Tags {
			if slices.Contains(matching, td.TagURI) {
				return td.TagURI, true
			}
		}
	}
	// not in any manifest: highest version string wins, deterministically
	slices.Sort(matching)
	return matching[len(matching)-1], true
}

// WriteTags returns every tag defined by the loaded manifests, newest
// manifest first. This is the default candidate set for writing.
func (r *Registry) WriteTags() []string {
	var res []string
	seen := map[string]bool{}
	for _, m := range r.manifests {
		for _, td := range m.Tags {
			if seen[td.TagURI] {
				continue
			}
			seen[td.TagURI] = true
			res = append(res, td.TagURI)
		}
	}
	return res
}

// WriteTag resolves the current write tag of t against the loaded
// manifests.
func (r *Registry) WriteTag(t *Type) (string, bool) {
	return r.ResolveWrite(t, r.WriteTags())
}

// SchemaForTag returns the schema bound to a concrete tag by the loaded
// manifests.
func (r *Registry) SchemaForTag(tag string) (*schema.Schema, error) {
	if current, ok := r.renames[tag]; ok {
		tag = current
	}
	id, ok := r.schemaByTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: no schema bound to tag %q", schema.ErrNoSchema, tag)
	}
	return r.library.Get(id)
}

// SchemaForType returns the schema bound to t's current write tag.
func (r *Registry) SchemaForType(t *Type) (*schema.Schema, error) {
	tag, ok := r.WriteTag(t)
	if !ok {
		return nil, fmt.Errorf("%w: no manifest tag matches %q", schema.ErrNoSchema, t.Pattern)
	}
	return r.SchemaForTag(tag)
}

// RegisterConverter binds a leaf converter to its tag pattern.
func (r *Registry) RegisterConverter(c LeafConverter) error {
	for _, existing := range r.converters {
		if existing.Pattern() == c.Pattern() {
			return fmt.Errorf("%w: duplicate converter for pattern %q",
				ErrRegistry, c.Pattern())
		}
	}
	r.converters = append(r.converters, c)
	return nil
}

// ConverterForTag finds the most specific leaf converter matching tag.
func (r *Registry) ConverterForTag(tag string) (LeafConverter, bool) {
	var (
		best     LeafConverter
		bestSpec = -1
	)
	for _, c := range r.converters {
		if !MatchPattern(c.Pattern(), tag) {
			continue
		}
		if spec := patternSpecificity(c.Pattern()); spec > bestSpec {
			best, bestSpec = c, spec
		}
	}
	return best, best != nil
}
