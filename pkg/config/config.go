// Package config provides configuration loading, validation and presets.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/picseq/pkg/orchestrator"
	"github.com/user/picseq/pkg/output"
	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
	"github.com/user/picseq/pkg/redundant"
	"github.com/user/picseq/pkg/sequence"
)

// Config represents the full configuration of an encoding session.
type Config struct {
	Input         InputConfig         `yaml:"input"`
	Output        OutputConfig        `yaml:"output"`
	Sequence      SequenceConfig      `yaml:"sequence"`
	Redundant     RedundantConfig     `yaml:"redundant"`
	ParameterSets ParameterSetsConfig `yaml:"parameter_sets"`
	Coder         CoderConfig         `yaml:"coder"`

	// Debug
	Debug        bool   `yaml:"debug"`
	DebugDir     string `yaml:"debug_dir"`
	PreviewWidth int    `yaml:"preview_width"`
	LogLevel     string `yaml:"log_level"`
}

// InputConfig describes the raw source file.
type InputConfig struct {
	Path         string  `yaml:"path"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	ChromaFormat int     `yaml:"chroma_format"`
	BitDepth     int     `yaml:"bit_depth"`
	HeaderBytes  int64   `yaml:"header_bytes"`
	FrameRate    float64 `yaml:"frame_rate"`
	// RGB marks 4:4:4 input carrying RGB in the luma/chroma planes.
	RGB bool `yaml:"rgb"`
}

// OutputConfig describes the reconstructed output and statistics files.
type OutputConfig struct {
	ReconPath string `yaml:"recon"`
	StatsPath string `yaml:"stats"`
	// BitDepth is the output sample depth, 0 for the source depth.
	BitDepth int `yaml:"bit_depth"`
}

// SequenceConfig holds the picture sequencing options.
type SequenceConfig struct {
	Frames      int  `yaml:"frames"`
	LastFrame   int  `yaml:"last_frame"`
	IntraPeriod int  `yaml:"intra_period"`
	IDRPeriod   int  `yaml:"idr_period"`
	AdaptiveIDR bool `yaml:"adaptive_idr"`
	IntraDelay  int  `yaml:"intra_delay"`
	FrameSkip   int  `yaml:"frame_skip"`
	SuccessiveB int  `yaml:"successive_b"`
	// ReferenceB is 0 (non-reference B), 1 (reference B) or 2 (all B).
	ReferenceB    int    `yaml:"reference_b"`
	DisposableP   bool   `yaml:"disposable_p"`
	SPPeriod      int    `yaml:"sp_period"`
	PicInterlace  string `yaml:"pic_interlace"`
	MbInterlace   string `yaml:"mb_interlace"`
	Hierarchical  int    `yaml:"hierarchical"`
	HierarchyFile string `yaml:"hierarchy_file"`
}

// RedundantConfig holds the redundant picture options.
type RedundantConfig struct {
	Enabled          bool `yaml:"enabled"`
	PrimaryGOPLength int  `yaml:"primary_gop_length"`
	Hierarchy        int  `yaml:"hierarchy"`
}

// ParameterSetsConfig gives the sequence parameters, either from an SPS file
// or from the fixed values below.
type ParameterSetsConfig struct {
	SPSFile         string     `yaml:"sps_file"`
	NumRefFrames    int        `yaml:"num_ref_frames"`
	Log2MaxFrameNum int        `yaml:"log2_max_frame_num"`
	FrameMbsOnly    *bool      `yaml:"frame_mbs_only"`
	Crop            CropConfig `yaml:"crop"`
}

// CropConfig holds frame cropping offsets in crop units.
type CropConfig struct {
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
}

// Enabled reports whether any offset is set.
func (c CropConfig) Enabled() bool {
	return c.Left != 0 || c.Right != 0 || c.Top != 0 || c.Bottom != 0
}

// CoderConfig configures the loopback coder.
type CoderConfig struct {
	QuantShift int `yaml:"quant_shift"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Input: InputConfig{
			Width:        176,
			Height:       144,
			ChromaFormat: 1,
			BitDepth:     8,
			FrameRate:    30.0,
		},
		Output: OutputConfig{
			ReconPath: "recon.yuv",
			StatsPath: "stats.yaml",
		},
		Sequence: SequenceConfig{
			Frames:       10,
			PicInterlace: "frame",
			MbInterlace:  "frame",
		},
		Redundant: RedundantConfig{
			PrimaryGOPLength: 16,
		},
		ParameterSets: ParameterSetsConfig{
			NumRefFrames:    5,
			Log2MaxFrameNum: 8,
		},

		DebugDir:     "./debug",
		PreviewWidth: 176,
		LogLevel:     "info",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ParseInterlace parses "frame", "field" or "adaptive".
func ParseInterlace(s string) (sequence.InterlaceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "frame":
		return sequence.FrameCoding, nil
	case "field":
		return sequence.FieldCoding, nil
	case "adaptive":
		return sequence.AdaptiveCoding, nil
	default:
		return 0, fmt.Errorf("%w: unknown interlace mode %q", sequence.ErrIncompatible, s)
	}
}

// Interlaced reports whether field coding is enabled at picture or
// macroblock level.
func (c Config) Interlaced() bool {
	pic, _ := ParseInterlace(c.Sequence.PicInterlace)
	mb, _ := ParseInterlace(c.Sequence.MbInterlace)
	return pic != sequence.FrameCoding || mb != sequence.FrameCoding
}

// FixedParameterSets returns the sequence parameters given directly in the
// configuration, used when no SPS file is configured.
func (c Config) FixedParameterSets() ports.SequenceParameters {
	frameMbsOnly := !c.Interlaced()
	if c.ParameterSets.FrameMbsOnly != nil {
		frameMbsOnly = *c.ParameterSets.FrameMbsOnly
	}
	crop := c.ParameterSets.Crop
	return ports.SequenceParameters{
		Width:           c.Input.Width,
		Height:          c.Input.Height,
		FrameMbsOnly:    frameMbsOnly,
		Cropping:        crop.Enabled(),
		CropLeft:        crop.Left,
		CropRight:       crop.Right,
		CropTop:         crop.Top,
		CropBottom:      crop.Bottom,
		NumRefFrames:    c.ParameterSets.NumRefFrames,
		Log2MaxFrameNum: c.ParameterSets.Log2MaxFrameNum,
		BitDepthLuma:    c.Input.BitDepth,
		BitDepthChroma:  c.Input.BitDepth,
		ChromaFormat:    c.Input.ChromaFormat,
	}
}

// Validate runs every compatibility check against the active sequence
// parameters. It is called once, before the first picture is coded.
// Every failure wraps sequence.ErrIncompatible.
func (c Config) Validate(ps ports.SequenceParameters) error {
	s := c.Sequence

	pic, err := ParseInterlace(s.PicInterlace)
	if err != nil {
		return err
	}
	if _, err := ParseInterlace(s.MbInterlace); err != nil {
		return err
	}

	checks := []struct {
		failed bool
		msg    string
	}{
		{s.Frames < 1 && s.LastFrame == 0, "at least one frame must be coded"},
		{s.LastFrame < 0, "last frame must not be negative"},
		{s.IntraPeriod < 0 || s.IDRPeriod < 0 || s.SPPeriod < 0, "periods must not be negative"},
		{s.IntraDelay < 0, "intra delay must not be negative"},
		{s.IDRPeriod > 0 && s.IntraDelay >= s.IDRPeriod, "intra delay must be shorter than the IDR period"},
		{s.FrameSkip < 0, "frame skip must not be negative"},
		{s.SuccessiveB < 0, "successive B count must not be negative"},
		{s.SuccessiveB > s.FrameSkip, "each B picture needs a skipped source frame (successive_b > frame_skip)"},
		{s.ReferenceB < 0 || s.ReferenceB > 2, "reference_b must be 0, 1 or 2"},
		{s.Hierarchical < 0 || s.Hierarchical > 3, "hierarchical must be between 0 and 3"},
		{s.Hierarchical > 0 && s.SuccessiveB == 0, "hierarchical coding needs B pictures"},
		{pic == sequence.FieldCoding && ps.FrameMbsOnly, "field coding needs a field-capable sequence (frame_mbs_only_flag = 0)"},
		{ps.Log2MaxFrameNum < 4 || ps.Log2MaxFrameNum > 16, "log2_max_frame_num must be between 4 and 16"},
		{ps.NumRefFrames < 1, "at least one reference frame is needed"},
		{c.Input.RGB && c.Input.ChromaFormat != 3, "RGB input needs 4:4:4 chroma"},
		{c.Output.BitDepth != 0 && (c.Output.BitDepth < 8 || c.Output.BitDepth > 14), "output bit depth must be between 8 and 14"},
	}
	for _, chk := range checks {
		if chk.failed {
			return fmt.Errorf("%w: %s", sequence.ErrIncompatible, chk.msg)
		}
	}

	if err := c.validateCrop(ps); err != nil {
		return err
	}

	if c.Redundant.Enabled {
		if err := redundant.Validate(c.RedundantConstraints(ps)); err != nil {
			return err
		}
	}
	return nil
}

// RedundantConstraints returns the options redundant coding is checked against.
func (c Config) RedundantConstraints(ps ports.SequenceParameters) redundant.Constraints {
	return redundant.Constraints{
		PrimaryGOPLength: c.Redundant.PrimaryGOPLength,
		Hierarchy:        c.Redundant.Hierarchy,
		SuccessiveB:      c.Sequence.SuccessiveB,
		Interlaced:       c.Interlaced(),
		NumRefFrames:     ps.NumRefFrames,
		TailAdjust:       c.Sequence.LastFrame > 0 && c.Sequence.SuccessiveB > 0,
	}
}

// SequenceParams converts the sequencing options. Call Validate first.
func (c Config) SequenceParams(ps ports.SequenceParameters) sequence.Params {
	s := c.Sequence
	pic, _ := ParseInterlace(s.PicInterlace)
	mb, _ := ParseInterlace(s.MbInterlace)

	return sequence.Params{
		FrameCount:   s.Frames,
		LastFrame:    s.LastFrame,
		IntraPeriod:  s.IntraPeriod,
		IDRPeriod:    s.IDRPeriod,
		AdaptiveIDR:  s.AdaptiveIDR,
		IntraDelay:   s.IntraDelay,
		FrameSkip:    s.FrameSkip,
		SuccessiveB:  s.SuccessiveB,
		ReferenceB:   sequence.ReferenceBMode(s.ReferenceB),
		DisposableP:  s.DisposableP,
		SPPeriod:     s.SPPeriod,
		PicInterlace: pic,
		MbInterlace:  mb,
		Hierarchical: s.Hierarchical,
		MaxFrameNum:  ps.MaxFrameNum(),
	}.WithFrameBudget()
}

// Layout returns the on-disk layout of reconstructed pictures.
func (c Config) Layout(ps ports.SequenceParameters) output.Layout {
	return output.Layout{
		Cropping: ps.Cropping,
		Crop: output.Crop{
			Left:   ps.CropLeft,
			Right:  ps.CropRight,
			Top:    ps.CropTop,
			Bottom: ps.CropBottom,
		},
		FrameMbsOnly:   ps.FrameMbsOnly,
		SourceBitDepth: max(c.Input.BitDepth, ps.BitDepthLuma, ps.BitDepthChroma),
		OutputBitDepth: c.Output.BitDepth,
		RGB:            c.Input.RGB && c.Input.ChromaFormat == 3,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(ps ports.SequenceParameters) orchestrator.Config {
	params := c.SequenceParams(ps)
	return orchestrator.Config{
		SourcePath:  c.Input.Path,
		FrameRate:   c.Input.FrameRate,
		Sequence:    params,
		FieldCoding: params.PicInterlace == sequence.FieldCoding,
		Redundant: orchestrator.RedundantConfig{
			Enabled:   c.Redundant.Enabled,
			GOPLength: c.Redundant.PrimaryGOPLength,
			Hierarchy: c.Redundant.Hierarchy,
		},
		Layout:       c.Layout(ps),
		ReconPath:    c.Output.ReconPath,
		StatsPath:    c.Output.StatsPath,
		PreviewWidth: c.PreviewWidth,
	}
}

// ValidateHierarchy checks a loaded hierarchy table against the B picture
// count. A nil table is only accepted when hierarchical coding is off.
// validateCrop rejects crop offsets that are negative or that leave no
// samples of a frame picture.
func (c Config) validateCrop(ps ports.SequenceParameters) error {
	if !ps.Cropping {
		return nil
	}
	if ps.CropLeft < 0 || ps.CropRight < 0 || ps.CropTop < 0 || ps.CropBottom < 0 {
		return fmt.Errorf("%w: crop offsets must not be negative (left %d, right %d, top %d, bottom %d)",
			sequence.ErrIncompatible, ps.CropLeft, ps.CropRight, ps.CropTop, ps.CropBottom)
	}
	crop := c.Layout(ps).EffectiveCrop(picture.Frame)
	if crop.Left+crop.Right >= c.Input.Width || crop.Top+crop.Bottom >= c.Input.Height {
		return fmt.Errorf("%w: crop %d+%d x %d+%d leaves no samples of a %dx%d picture",
			sequence.ErrIncompatible, crop.Left, crop.Right, crop.Top, crop.Bottom, c.Input.Width, c.Input.Height)
	}
	return nil
}

func (c Config) ValidateHierarchy(h ports.GOPHierarchy) error {
	if c.Sequence.Hierarchical == 0 {
		return nil
	}
	if h == nil {
		return fmt.Errorf("%w: hierarchical coding needs a hierarchy table", sequence.ErrIncompatible)
	}
	if h.Len() != c.Sequence.SuccessiveB {
		return fmt.Errorf("%w: hierarchy table has %d entries, successive_b is %d",
			sequence.ErrIncompatible, h.Len(), c.Sequence.SuccessiveB)
	}
	return nil
}
