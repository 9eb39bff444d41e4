package container

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/skyarc-format/skyarc/debug"
	"github.com/skyarc-format/skyarc/ir"
)

const (
	magic       = "%SKYARC 1.0.0"
	blocksMark  = "%SKYARC-BLOCKS"
	blockHeader = "%SKYARC-BLOCK"
)

// BlockBuffer collects binary payloads during a write. It satisfies the
// converters' block-writer contract.
type BlockBuffer struct {
	blocks [][]byte
}

// AddBlock stores data and returns its block index.
func (b *BlockBuffer) AddBlock(data []byte) int {
	b.blocks = append(b.blocks, data)
	return len(b.blocks) - 1
}

// Len returns the number of collected blocks.
func (b *BlockBuffer) Len() int {
	return len(b.blocks)
}

type blockSpan struct {
	offset int64
	size   int64
}

// Handle is an open container. The underlying file stays open so block
// payloads referenced by the tree can load on first access; Close releases
// it and fails any loads attempted afterward.
type Handle struct {
	path   string
	f      *os.File
	tree   *ir.Node
	spans  []blockSpan
	closed bool
}

// Open reads the document tree and the block index of the file at path.
// Block payloads are not read.
func Open(path string) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	h := &Handle{path: path, f: f}
	if err := h.scan(); err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if debug.IO() {
		debug.Debugf("opened container", "path", path, "blocks", len(h.spans))
	}
	return h, nil
}

func (h *Handle) scan() error {
	r := bufio.NewReader(h.f)
	var offset int64

	line, err := r.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	offset += int64(len(line))
	if strings.TrimRight(line, "\n") != magic {
		return fmt.Errorf("not a container file: header %q", strings.TrimSpace(line))
	}

	var doc bytes.Buffer
	inBlocks := false
	blockCount := 0
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			offset += int64(len(line))
			trimmed := strings.TrimRight(line, "\n")
			if strings.HasPrefix(trimmed, blocksMark) {
				n, convErr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, blocksMark)))
				if convErr != nil {
					return fmt.Errorf("bad block section header %q", trimmed)
				}
				blockCount = n
				inBlocks = true
				break
			}
			doc.WriteString(line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	if inBlocks {
		for i := 0; i < blockCount; i++ {
			line, err := r.ReadString('\n')
			if err != nil {
				return fmt.Errorf("block %d header: %w", i, err)
			}
			offset += int64(len(line))
			trimmed := strings.TrimRight(line, "\n")
			if !strings.HasPrefix(trimmed, blockHeader) {
				return fmt.Errorf("block %d: bad header %q", i, trimmed)
			}
			size, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(trimmed, blockHeader)), 10, 64)
			if err != nil {
				return fmt.Errorf("block %d: bad size in %q", i, trimmed)
			}
			h.spans = append(h.spans, blockSpan{offset: offset, size: size})
			// payload plus its trailing newline
			if _, err := r.Discard(int(size) + 1); err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			offset += size + 1
		}
	}

	var decoded any
	if err := yaml.UnmarshalWithOptions(doc.Bytes(), &decoded, yaml.UseOrderedMap()); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	tree, err := fromYAML(decoded)
	if err != nil {
		return fmt.Errorf("document: %w", err)
	}
	h.tree = tree
	return nil
}

// Path returns the file path the handle was opened from.
func (h *Handle) Path() string {
	return h.path
}

// Tree returns the document tree in generic form. Leaf payloads have not
// been promoted.
func (h *Handle) Tree() *ir.Node {
	return h.tree
}

// Block returns a deferred loader for block i; the read happens when the
// loader runs.
func (h *Handle) Block(i int) func() ([]byte, error) {
	return func() ([]byte, error) {
		if h.closed {
			return nil, fmt.Errorf("%s: container is closed", h.path)
		}
		if i < 0 || i >= len(h.spans) {
			return nil, fmt.Errorf("%s: no block %d", h.path, i)
		}
		span := h.spans[i]
		data := make([]byte, span.size)
		if _, err := h.f.ReadAt(data, span.offset); err != nil {
			return nil, fmt.Errorf("%s: block %d: %w", h.path, i, err)
		}
		if debug.IO() {
			debug.Debugf("loaded block", "path", h.path, "block", i, "bytes", span.size)
		}
		return data, nil
	}
}

// Close releases the underlying file. Lazy loads after Close fail.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.f.Close()
}

// Write serializes tree and blocks to path. The write lands in a
// temporary file in the same directory and is published by rename, so a
// failed write never leaves a partial file as the canonical output.
func Write(path string, tree *ir.Node, blocks *BlockBuffer) (err error) {
	encoded, err := toYAML(tree)
	if err != nil {
		return err
	}
	doc, err := yaml.Marshal(encoded)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".skyarc-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if _, err = fmt.Fprintln(w, magic); err != nil {
		return err
	}
	if _, err = w.Write(doc); err != nil {
		return err
	}
	if blocks != nil && len(blocks.blocks) > 0 {
		if _, err = fmt.Fprintf(w, "%s %d\n", blocksMark, len(blocks.blocks)); err != nil {
			return err
		}
		for _, data := range blocks.blocks {
			if _, err = fmt.Fprintf(w, "%s %d\n", blockHeader, len(data)); err != nil {
				return err
			}
			if _, err = w.Write(data); err != nil {
				return err
			}
			if err = w.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	if debug.IO() {
		debug.Debugf("wrote container", "path", path, "bytes", len(doc))
	}
	return nil
}
