package container

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/leaf"
)

func testTree() *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: "meta", Val: ir.FromKeyVals([]ir.KeyVal{
			{Key: "telescope", Val: ir.FromString("SKYARC")},
			{Key: "exposure_time", Val: ir.FromFloat(141.2)},
			{Key: "start", Val: ir.FromString("2026-01-01T00:00:00.0").WithTag(leaf.TimeTag)},
		})},
		{Key: "counts", Val: ir.FromSlice([]*ir.Node{
			ir.FromInt(1), ir.FromInt(2), ir.FromInt(3),
		})},
		{Key: "dq", Val: ir.FromKeyVals([]ir.KeyVal{
			{Key: "datatype", Val: ir.FromString("uint8")},
			{Key: "byteorder", Val: ir.FromString("little")},
			{Key: "shape", Val: ir.FromSlice([]*ir.Node{ir.FromInt(4)})},
			{Key: "source", Val: ir.FromInt(0)},
		}).WithTag(leaf.NDArrayTag)},
	}).WithTag("tag:skyarc.dev:obs/exposure-1.0.0")
}

func TestWriteOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exposure.skyarc")
	tree := testTree()
	blocks := &BlockBuffer{}
	if got := blocks.AddBlock([]byte{1, 2, 3, 4}); got != 0 {
		t.Fatalf("block index = %d", got)
	}
	if err := Write(path, tree, blocks); err != nil {
		t.Fatal(err)
	}
	h, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	if !ir.Equal(h.tree, tree) {
		t.Error("read tree differs from written tree")
	}
	if h.Tree().Tag != "tag:skyarc.dev:obs/exposure-1.0.0" {
		t.Errorf("root tag = %q", h.Tree().Tag)
	}
	if got := ir.Get(ir.Get(h.Tree(), "meta"), "start").Tag; got != leaf.TimeTag {
		t.Errorf("tagged scalar tag = %q", got)
	}
	data, err := h.Block(0)()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4 || data[3] != 4 {
		t.Errorf("block = %v", data)
	}
}

func TestBlockLoadsAreDeferred(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lazy.skyarc")
	blocks := &BlockBuffer{}
	blocks.AddBlock(make([]byte, 1<<16))
	if err := Write(path, testTree(), blocks); err != nil {
		t.Fatal(err)
	}
	h, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	load := h.Block(0)
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	// the handle was closed before the payload was touched
	if _, err := load(); err == nil {
		t.Error("load after close should fail")
	}
}

func TestWriteWithoutBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.skyarc")
	tree := ir.FromKeyVals([]ir.KeyVal{
		{Key: "name", Val: ir.FromString("x")},
		{Key: "empty", Val: ir.Null()},
		{Key: "ok", Val: ir.FromBool(true)},
	})
	if err := Write(path, tree, nil); err != nil {
		t.Fatal(err)
	}
	h, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if !ir.Equal(h.Tree(), tree) {
		t.Error("read tree differs from written tree")
	}
}

func TestFailedWriteLeavesTargetIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.skyarc")
	if err := Write(path, testTree(), nil); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// an unlowered payload cannot be encoded
	arr, _ := leaf.Zeros("uint8", []int{2})
	bad := ir.FromKeyVals([]ir.KeyVal{{Key: "data", Val: ir.FromLeaf(arr)}})
	if err := Write(path, bad, nil); err == nil {
		t.Fatal("expected write failure")
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("failed write altered the published file")
	}
	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".skyarc-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestOpenRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.txt")
	if err := os.WriteFile(path, []byte("just text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected a header error")
	}
}
