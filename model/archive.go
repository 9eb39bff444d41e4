package model

import (
	"github.com/skyarc-format/skyarc/schema"
)

// GetArchiveMetadata collects the schema's archive side-channel
// annotations, keyed by the dotted field path they describe. Downstream
// catalog systems consume this; it never affects validation.
func (m *Model) GetArchiveMetadata() map[string]*schema.ArchiveEntry {
	res := map[string]*schema.ArchiveEntry{}
	collectArchive(m.obj.Schema(), "", res)
	return res
}

func collectArchive(s *schema.Schema, prefix string, res map[string]*schema.ArchiveEntry) {
	if s == nil {
		return
	}
	if s.Archive != nil && prefix != "" {
		res[prefix] = s.Archive
	}
	for _, p := range s.GetProperties() {
		path := p.Name
		if prefix != "" {
			path = prefix + "." + p.Name
		}
		collectArchive(p.Schema, path, res)
	}
	if it := s.GetItems(); it != nil {
		collectArchive(it, prefix+"[]", res)
	}
}
