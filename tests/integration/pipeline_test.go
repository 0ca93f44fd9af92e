// Package integration contains integration tests for the picseq session
// running on the file-backed adapters.
package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/picseq/pkg/adapters/filesink"
	"github.com/user/picseq/pkg/adapters/gophierarchy"
	"github.com/user/picseq/pkg/adapters/logger"
	"github.com/user/picseq/pkg/adapters/loopback"
	"github.com/user/picseq/pkg/adapters/nullsink"
	"github.com/user/picseq/pkg/adapters/osfilesystem"
	"github.com/user/picseq/pkg/adapters/previewrenderer"
	"github.com/user/picseq/pkg/adapters/yuvsource"
	"github.com/user/picseq/pkg/config"
	"github.com/user/picseq/pkg/orchestrator"
	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
	"github.com/user/picseq/pkg/stages/code"
)

const (
	width     = 16
	height    = 16
	frameSize = width*height + 2*(width/2)*(height/2)
)

// writeSource writes frames of 8-bit 4:2:0 video where frame n has luma n.
func writeSource(t *testing.T, dir string, frames int) string {
	t.Helper()
	var buf bytes.Buffer
	for n := 0; n < frames; n++ {
		buf.Write(bytes.Repeat([]byte{byte(n)}, width*height))
		buf.Write(bytes.Repeat([]byte{128}, 2*(width/2)*(height/2)))
	}
	path := filepath.Join(dir, "source.yuv")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}
	return path
}

type session struct {
	orch  *orchestrator.Orchestrator
	alloc *picture.Allocator
}

func newSession(t *testing.T, cfg config.Config, hierarchy ports.GOPHierarchy, sink ports.DebugSink) *session {
	t.Helper()
	fs := osfilesystem.New()
	alloc := picture.NewAllocator(cfg.Input.BitDepth, cfg.Input.BitDepth)

	source, err := yuvsource.Open(fs, cfg.Input.Path, yuvsource.Options{
		Width:        cfg.Input.Width,
		Height:       cfg.Input.Height,
		ChromaFormat: cfg.Input.ChromaFormat,
		BitDepth:     cfg.Input.BitDepth,
	}, alloc)
	if err != nil {
		t.Fatalf("Failed to open source: %v", err)
	}
	t.Cleanup(func() { source.Close() })

	log := logger.NewNoop()
	coder := loopback.New(loopback.Options{BitDepth: cfg.Input.BitDepth}, alloc)
	orch := orchestrator.New(
		code.NewStage(coder, log),
		source,
		hierarchy,
		alloc,
		fs,
		sink,
		previewrenderer.New(cfg.Input.BitDepth),
		log,
	)
	return &session{orch: orch, alloc: alloc}
}

func run(t *testing.T, cfg config.Config, hierarchy ports.GOPHierarchy, sink ports.DebugSink) orchestrator.RunResult {
	t.Helper()
	ps := cfg.FixedParameterSets()
	if err := cfg.Validate(ps); err != nil {
		t.Fatalf("Invalid configuration: %v", err)
	}
	if err := cfg.ValidateHierarchy(hierarchy); err != nil {
		t.Fatalf("Invalid hierarchy: %v", err)
	}

	s := newSession(t, cfg, hierarchy, sink)
	result, err := s.orch.Run(context.Background(), cfg.ToOrchestratorConfig(ps))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.alloc.Live() != 0 {
		t.Errorf("Expected every picture released, %d live", s.alloc.Live())
	}
	return result
}

func readOutput(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Output file not found: %v", err)
	}
	return data
}

// lumaOrder returns the luma value of the first sample of each output frame.
func lumaOrder(data []byte) []int {
	var order []int
	for off := 0; off+frameSize <= len(data); off += frameSize {
		order = append(order, int(data[off]))
	}
	return order
}

// TestProgressiveWithBPictures codes a progressive source with two B
// pictures per group and checks the frames come out in coding order.
func TestProgressiveWithBPictures(t *testing.T) {
	dir := t.TempDir()
	recon := filepath.Join(dir, "recon.yuv")
	stats := filepath.Join(dir, "stats.yaml")

	cfg := config.NewBuilder().
		WithInput(writeSource(t, dir, 9), width, height).
		WithFrames(3).
		WithBPictures(2, 2).
		WithOutput(recon).
		WithStats(stats).
		Build()

	result := run(t, cfg, nil, nullsink.New())

	if result.PrimaryPictures != 3 || result.EnhancementPictures != 4 {
		t.Errorf("Unexpected picture counts %+v", result)
	}

	data := readOutput(t, recon)
	if len(data) != 7*frameSize {
		t.Fatalf("Expected %d output bytes, got %d", 7*frameSize, len(data))
	}
	want := []int{0, 3, 1, 2, 6, 4, 5}
	got := lumaOrder(data)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Output frame %d: expected source %d, got %d", i, want[i], got[i])
		}
	}

	summary, err := os.ReadFile(stats)
	if err != nil {
		t.Fatalf("Stats file not found: %v", err)
	}
	if !strings.Contains(string(summary), "aborted: false") {
		t.Errorf("Unexpected stats:\n%s", summary)
	}
}

// TestFieldCoding pairs every top field with its bottom field.
func TestFieldCoding(t *testing.T) {
	dir := t.TempDir()
	recon := filepath.Join(dir, "recon.yuv")

	cfg := config.NewBuilder().
		WithInput(writeSource(t, dir, 4), width, height).
		WithFrames(4).
		WithBPictures(0, 0).
		WithInterlace("field", "frame").
		WithOutput(recon).
		WithStats("").
		Build()

	result := run(t, cfg, nil, nullsink.New())

	if result.Summary.Output.PairedFields != 4 || result.SynthesizedFields != 0 {
		t.Errorf("Unexpected output counters %+v", result.Summary.Output)
	}
	data := readOutput(t, recon)
	if got := lumaOrder(data); len(got) != 4 || got[3] != 3 {
		t.Errorf("Unexpected output frames %v", got)
	}
}

// TestHierarchicalB codes B pictures in the order of a dyadic table.
func TestHierarchicalB(t *testing.T) {
	dir := t.TempDir()
	recon := filepath.Join(dir, "recon.yuv")

	cfg := config.NewBuilder().
		WithInput(writeSource(t, dir, 9), width, height).
		WithFrames(3).
		WithBPictures(3, 3).
		WithOutput(recon).
		WithStats("").
		Build()
	cfg.Sequence.Hierarchical = 2

	result := run(t, cfg, gophierarchy.Dyadic(3), nullsink.New())

	if result.EnhancementPictures != 6 {
		t.Errorf("Expected 6 B pictures, got %d", result.EnhancementPictures)
	}
	data := readOutput(t, recon)
	if len(data) != 9*frameSize {
		t.Errorf("Expected %d output bytes, got %d", 9*frameSize, len(data))
	}
}

// TestRedundantPictures checks backups are coded but never written.
func TestRedundantPictures(t *testing.T) {
	dir := t.TempDir()
	recon := filepath.Join(dir, "recon.yuv")

	cfg := config.NewResilientBuilder().
		WithInput(writeSource(t, dir, 16), width, height).
		WithFrames(16).
		WithRedundant(4, 1).
		WithOutput(recon).
		WithStats(filepath.Join(dir, "stats.md")).
		Build()

	result := run(t, cfg, nil, nullsink.New())

	if result.RedundantPictures == 0 {
		t.Error("Expected redundant pictures to be coded")
	}
	data := readOutput(t, recon)
	if len(data) != 16*frameSize {
		t.Errorf("Expected %d output bytes, got %d", 16*frameSize, len(data))
	}

	summary, err := os.ReadFile(filepath.Join(dir, "stats.md"))
	if err != nil {
		t.Fatalf("Stats file not found: %v", err)
	}
	if !strings.Contains(string(summary), "# Encoding Summary") {
		t.Errorf("Expected markdown summary, got:\n%s", summary)
	}
}

// TestDebugOutput writes sequence and picture records with previews.
func TestDebugOutput(t *testing.T) {
	dir := t.TempDir()
	debugDir := filepath.Join(dir, "debug")

	cfg := config.NewBuilder().
		WithInput(writeSource(t, dir, 3), width, height).
		WithFrames(3).
		WithBPictures(0, 0).
		WithStats("").
		Build()
	cfg.Output.ReconPath = ""
	cfg.PreviewWidth = 8

	fs := osfilesystem.New()
	sink := filesink.New(debugDir, fs, previewrenderer.New(8))
	run(t, cfg, nil, sink)

	for _, name := range []string{
		"sequence.json",
		filepath.Join("pictures", "picture-0002.json"),
		filepath.Join("previews", "picture-0002.png"),
	} {
		if ok, _ := fs.Exists(filepath.Join(debugDir, name)); !ok {
			t.Errorf("Expected debug file %s", name)
		}
	}
}
