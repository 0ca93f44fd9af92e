// Package stats collects per-session coding statistics and writes them as
// YAML or Markdown.
package stats

import (
	"time"

	"github.com/google/uuid"
)

// Summary contains all data collected during an encoding session.
type Summary struct {
	// Metadata
	SessionID   string    `yaml:"session_id"`
	GeneratedAt time.Time `yaml:"generated_at"`

	Source   SourceInfo   `yaml:"source"`
	Sequence SequenceInfo `yaml:"sequence"`

	// Slices is keyed by slice type name (I, P, B, SP).
	Slices map[string]SliceStats `yaml:"slices"`

	Output OutputInfo `yaml:"output"`

	Aborted     bool   `yaml:"aborted"`
	AbortReason string `yaml:"abort_reason,omitempty"`
}

// SourceInfo describes the input.
type SourceInfo struct {
	Path      string  `yaml:"path"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	BitDepth  int     `yaml:"bit_depth"`
	FrameRate float64 `yaml:"frame_rate"`
}

// SequenceInfo counts coded pictures by layer.
type SequenceInfo struct {
	Primary     int  `yaml:"primary"`
	Enhancement int  `yaml:"enhancement"`
	Redundant   int  `yaml:"redundant"`
	IDR         int  `yaml:"idr"`
	FieldCoding bool `yaml:"field_coding"`
	// TailAdjusted is set when the last group was shortened.
	TailAdjusted bool `yaml:"tail_adjusted"`
}

// SliceStats holds the count and estimated size of one slice type.
type SliceStats struct {
	Count int   `yaml:"count"`
	Bytes int64 `yaml:"bytes"`
}

// OutputInfo describes the reconstructed output.
type OutputInfo struct {
	Path              string `yaml:"path"`
	Frames            int    `yaml:"frames"`
	PairedFields      int    `yaml:"paired_fields"`
	SynthesizedFields int    `yaml:"synthesized_fields"`
	BytesWritten      int64  `yaml:"bytes_written"`
}

// TotalBytes returns the coded size over all slice types.
func (s *Summary) TotalBytes() int64 {
	var total int64
	for _, st := range s.Slices {
		total += st.Bytes
	}
	return total
}

// Bitrate returns the average coded bitrate in bits per second, or 0 when
// the frame rate is unknown.
func (s *Summary) Bitrate() float64 {
	pictures := s.Sequence.Primary + s.Sequence.Enhancement
	if s.Source.FrameRate <= 0 || pictures == 0 {
		return 0
	}
	seconds := float64(pictures) / s.Source.FrameRate
	return float64(s.TotalBytes()*8) / seconds
}

// NewSummary creates a new Summary with a fresh session id and the current
// timestamp.
func NewSummary() *Summary {
	return &Summary{
		SessionID:   uuid.NewString(),
		GeneratedAt: time.Now(),
		Slices:      make(map[string]SliceStats),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets source information.
func (b *Builder) WithSource(source SourceInfo) *Builder {
	b.summary.Source = source
	return b
}

// WithFieldCoding records whether pictures were coded as fields.
func (b *Builder) WithFieldCoding(enabled bool) *Builder {
	b.summary.Sequence.FieldCoding = enabled
	return b
}

// WithTailAdjusted records a shortened last group.
func (b *Builder) WithTailAdjusted() *Builder {
	b.summary.Sequence.TailAdjusted = true
	return b
}

// AddPicture records one coded picture. layer is "primary", "redundant"
// or "enhancement".
func (b *Builder) AddPicture(layer, sliceType string, bytes int, idr bool) *Builder {
	switch layer {
	case "primary":
		b.summary.Sequence.Primary++
	case "redundant":
		b.summary.Sequence.Redundant++
	default:
		b.summary.Sequence.Enhancement++
	}
	if idr {
		b.summary.Sequence.IDR++
	}

	st := b.summary.Slices[sliceType]
	st.Count++
	st.Bytes += int64(bytes)
	b.summary.Slices[sliceType] = st
	return b
}

// WithOutput sets output information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// WithAborted marks the session as aborted by err.
func (b *Builder) WithAborted(err error) *Builder {
	if err == nil {
		return b
	}
	b.summary.Aborted = true
	b.summary.AbortReason = err.Error()
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
