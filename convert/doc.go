// Package convert is the bidirectional bridge between generic trees and
// typed values. Promote and Lower translate externally tagged leaf
// payloads at the tree level; FromTree and ToTree cross the typed-instance
// boundary. A tolerant engine degrades unresolvable tags to raw fragments
// instead of failing the read.
package convert
