// Package orchestrator drives an encoding session picture by picture.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/user/picseq/pkg/output"
	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/pipeline"
	"github.com/user/picseq/pkg/ports"
	"github.com/user/picseq/pkg/sequence"
	"github.com/user/picseq/pkg/stats"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	SourcePath string
	FrameRate  float64

	// Sequencing
	Sequence sequence.Params
	// FieldCoding codes every picture as a top and a bottom field.
	FieldCoding bool
	Redundant   RedundantConfig

	// Output
	Layout    output.Layout
	ReconPath string // empty discards reconstructed samples
	StatsPath string // empty disables the statistics file

	// Debug
	PreviewWidth int
}

// RedundantConfig enables backup encodes of key pictures.
type RedundantConfig struct {
	Enabled   bool
	GOPLength int
	Hierarchy int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FrameRate: 30.0,
		Sequence: sequence.Params{
			FrameCount:  10,
			MaxFrameNum: 256,
		},
		Layout: output.Layout{
			FrameMbsOnly:   true,
			SourceBitDepth: 8,
			OutputBitDepth: 8,
		},
		PreviewWidth: 176,
	}
}

// Orchestrator coordinates sequencing, coding and output of a session.
type Orchestrator struct {
	codeStage pipeline.Stage[pipeline.CodeInput, pipeline.CodeResult]
	source    ports.SourceReader
	hierarchy ports.GOPHierarchy
	alloc     *picture.Allocator
	fs        ports.FileSystem
	sink      ports.DebugSink
	renderer  ports.PreviewRenderer
	logger    ports.Logger
}

// New creates a new Orchestrator. Source pictures must be allocated from
// alloc. hierarchy and renderer may be nil.
func New(
	codeStage pipeline.Stage[pipeline.CodeInput, pipeline.CodeResult],
	source ports.SourceReader,
	hierarchy ports.GOPHierarchy,
	alloc *picture.Allocator,
	fs ports.FileSystem,
	sink ports.DebugSink,
	renderer ports.PreviewRenderer,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		codeStage: codeStage,
		source:    source,
		hierarchy: hierarchy,
		alloc:     alloc,
		fs:        fs,
		sink:      sink,
		renderer:  renderer,
		logger:    logger,
	}
}

// Run codes every picture of the session. Statistics are written both on
// success and when the session aborts; in the latter case the summary is
// marked aborted and the error is returned.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	params := config.Sequence
	o.logger.Info("Starting session: %d pictures, %d B pictures per group", params.FrameCount, params.SuccessiveB)

	format := o.source.Format()
	builder := stats.NewBuilder().
		WithSource(stats.SourceInfo{
			Path:      config.SourcePath,
			Width:     format.Width,
			Height:    format.Height,
			BitDepth:  format.BitDepth,
			FrameRate: config.FrameRate,
		}).
		WithFieldCoding(config.FieldCoding)

	var w io.Writer = io.Discard
	var closer io.Closer
	if config.ReconPath != "" {
		f, err := o.fs.Create(config.ReconPath)
		if err != nil {
			err = fmt.Errorf("create output: %w", err)
			return o.finish(config, builder, nil, nil, err)
		}
		w, closer = f, f
	}

	serializer := output.NewSerializer(w, config.Layout)
	sequencer := output.NewSequencer(serializer, o.alloc, o.logger)

	s := o.newSession(config, sequencer, builder)
	o.saveSequence(config, s)

	err := s.run(ctx)
	if err == nil {
		err = sequencer.Flush()
	}
	if closer != nil {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}

	return o.finish(config, builder, sequencer, serializer, err)
}

// finish records output counters, writes the statistics file and builds
// the result. runErr is returned unchanged.
func (o *Orchestrator) finish(
	config Config,
	builder *stats.Builder,
	sequencer *output.Sequencer,
	serializer *output.Serializer,
	runErr error,
) (RunResult, error) {
	out := stats.OutputInfo{Path: config.ReconPath}
	if sequencer != nil {
		counters := sequencer.Counters()
		out.Frames = counters.Frames
		out.PairedFields = counters.PairedFields
		out.SynthesizedFields = counters.SynthesizedFields
	}
	if serializer != nil {
		out.BytesWritten = serializer.BytesWritten()
	}
	summary := builder.WithOutput(out).WithAborted(runErr).Build()

	if runErr != nil {
		o.logger.Error("Session aborted: %s", runErr)
	}

	if config.StatsPath != "" {
		writer := stats.NewWriter(stats.FormatterFor(config.StatsPath), o.fs)
		if err := writer.Write(config.StatsPath, summary); err != nil {
			o.logger.Warn("Failed to write statistics: %s", err)
		} else {
			o.logger.Info("Statistics written to %s", config.StatsPath)
		}
	}

	result := RunResult{
		PrimaryPictures:     summary.Sequence.Primary,
		EnhancementPictures: summary.Sequence.Enhancement,
		RedundantPictures:   summary.Sequence.Redundant,
		FramesWritten:       out.Frames,
		SynthesizedFields:   out.SynthesizedFields,
		BytesWritten:        out.BytesWritten,
		CodedBytes:          summary.TotalBytes(),
		Summary:             summary,
	}
	if runErr != nil {
		return result, runErr
	}

	o.logger.Info("Session completed: %d frames written, %d bytes", result.FramesWritten, result.BytesWritten)
	return result, nil
}

// sequenceRecord is the sequence-level debug output.
type sequenceRecord struct {
	Params      sequence.Params `json:"params"`
	Cycle       sequence.Cycle  `json:"cycle"`
	FieldCoding bool            `json:"fieldCoding"`
	Redundant   RedundantConfig `json:"redundant"`
	Layout      output.Layout   `json:"layout"`
}

func (o *Orchestrator) saveSequence(config Config, s *session) {
	if !o.sink.Enabled() {
		return
	}
	record := sequenceRecord{
		Params:      config.Sequence,
		Cycle:       s.tracker.Cycle(),
		FieldCoding: config.FieldCoding,
		Redundant:   config.Redundant,
		Layout:      config.Layout,
	}
	if data, err := json.MarshalIndent(record, "", "  "); err == nil {
		o.sink.SaveSequenceJSON(data)
	}
}

// RunResult contains the results of a session for summary generation.
type RunResult struct {
	PrimaryPictures     int
	EnhancementPictures int
	RedundantPictures   int

	FramesWritten     int
	SynthesizedFields int
	BytesWritten      int64

	// CodedBytes is the estimated compressed size reported by the coder.
	CodedBytes int64

	Summary *stats.Summary
}
