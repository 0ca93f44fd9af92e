package stats

import (
	"errors"
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
	if len(summary.SessionID) != 36 {
		t.Errorf("expected a UUID session id, got %q", summary.SessionID)
	}
	if NewSummary().SessionID == summary.SessionID {
		t.Error("expected distinct session ids")
	}
}

func TestBuilder_AddPicture(t *testing.T) {
	summary := NewBuilder().
		AddPicture("primary", "I", 1000, true).
		AddPicture("redundant", "P", 300, false).
		AddPicture("enhancement", "B", 50, false).
		AddPicture("enhancement", "B", 70, false).
		AddPicture("primary", "P", 200, false).
		Build()

	if summary.Sequence.Primary != 2 {
		t.Errorf("expected 2 primary pictures, got %d", summary.Sequence.Primary)
	}
	if summary.Sequence.Redundant != 1 {
		t.Errorf("expected 1 redundant picture, got %d", summary.Sequence.Redundant)
	}
	if summary.Sequence.Enhancement != 2 {
		t.Errorf("expected 2 enhancement pictures, got %d", summary.Sequence.Enhancement)
	}
	if summary.Sequence.IDR != 1 {
		t.Errorf("expected 1 IDR picture, got %d", summary.Sequence.IDR)
	}

	if got := summary.Slices["B"]; got.Count != 2 || got.Bytes != 120 {
		t.Errorf("unexpected B stats: %+v", got)
	}
	if got := summary.Slices["P"]; got.Count != 2 || got.Bytes != 500 {
		t.Errorf("unexpected P stats: %+v", got)
	}
	if summary.TotalBytes() != 1620 {
		t.Errorf("expected 1620 total bytes, got %d", summary.TotalBytes())
	}
}

func TestSummary_Bitrate(t *testing.T) {
	summary := NewBuilder().
		WithSource(SourceInfo{FrameRate: 2}).
		AddPicture("primary", "I", 1000, true).
		AddPicture("primary", "P", 1000, false).
		Build()

	// 2000 bytes over one second.
	if got := summary.Bitrate(); got != 16000 {
		t.Errorf("expected 16000 bit/s, got %f", got)
	}

	if got := NewSummary().Bitrate(); got != 0 {
		t.Errorf("expected 0 without frame rate, got %f", got)
	}
}

func TestBuilder_WithAborted(t *testing.T) {
	summary := NewBuilder().WithAborted(nil).Build()
	if summary.Aborted {
		t.Error("nil error should not abort")
	}

	summary = NewBuilder().WithAborted(errors.New("source truncated")).Build()
	if !summary.Aborted {
		t.Error("expected Aborted to be true")
	}
	if summary.AbortReason != "source truncated" {
		t.Errorf("unexpected abort reason %q", summary.AbortReason)
	}
}

func TestBuilder_WithOutput(t *testing.T) {
	output := OutputInfo{
		Path:              "recon.yuv",
		Frames:            10,
		PairedFields:      9,
		SynthesizedFields: 1,
		BytesWritten:      380160,
	}
	summary := NewBuilder().
		WithOutput(output).
		WithFieldCoding(true).
		WithTailAdjusted().
		Build()

	if summary.Output != output {
		t.Errorf("expected output %+v, got %+v", output, summary.Output)
	}
	if !summary.Sequence.FieldCoding || !summary.Sequence.TailAdjusted {
		t.Errorf("unexpected sequence flags %+v", summary.Sequence)
	}
}
