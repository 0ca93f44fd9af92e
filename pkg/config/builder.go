package config

// Preset names a starting configuration.
type Preset string

const (
	PresetProgressive Preset = "progressive"
	PresetInterlaced  Preset = "interlaced"
	PresetResilient   Preset = "resilient"
)

// Builder provides a fluent interface for building Config.
type Builder struct {
	config Config
}

// NewBuilder creates a Builder with progressive preset defaults.
func NewBuilder() *Builder {
	return &Builder{
		config: progressiveDefaults(),
	}
}

// NewInterlacedBuilder creates a Builder with field coding preset defaults.
func NewInterlacedBuilder() *Builder {
	return &Builder{
		config: interlacedDefaults(),
	}
}

// NewResilientBuilder creates a Builder with redundant coding preset defaults.
func NewResilientBuilder() *Builder {
	return &Builder{
		config: resilientDefaults(),
	}
}

// NewBuilderFor creates a Builder for the named preset. Unknown names fall
// back to the progressive preset.
func NewBuilderFor(preset Preset) *Builder {
	switch preset {
	case PresetInterlaced:
		return NewInterlacedBuilder()
	case PresetResilient:
		return NewResilientBuilder()
	default:
		return NewBuilder()
	}
}

// FromConfig creates a Builder starting from an existing Config.
func FromConfig(cfg Config) *Builder {
	return &Builder{config: cfg}
}

// progressiveDefaults codes I B B P groups with a one second intra period.
func progressiveDefaults() Config {
	cfg := Defaults()
	cfg.Sequence.Frames = 30
	cfg.Sequence.IntraPeriod = 30
	cfg.Sequence.FrameSkip = 2
	cfg.Sequence.SuccessiveB = 2
	return cfg
}

// interlacedDefaults codes every picture as a pair of fields on a
// field-capable sequence.
func interlacedDefaults() Config {
	cfg := Defaults()
	cfg.Input.Width = 720
	cfg.Input.Height = 576
	cfg.Input.FrameRate = 25.0
	cfg.Sequence.Frames = 25
	cfg.Sequence.IntraPeriod = 12
	cfg.Sequence.PicInterlace = "field"
	cfg.PreviewWidth = 360
	return cfg
}

// resilientDefaults codes P-only sequences with redundant key pictures.
func resilientDefaults() Config {
	cfg := Defaults()
	cfg.Sequence.Frames = 64
	cfg.Sequence.IDRPeriod = 32
	cfg.Redundant = RedundantConfig{
		Enabled:          true,
		PrimaryGOPLength: 16,
		Hierarchy:        2,
	}
	cfg.ParameterSets.NumRefFrames = 16
	return cfg
}

// WithInput sets the source file and its geometry.
func (b *Builder) WithInput(path string, width, height int) *Builder {
	b.config.Input.Path = path
	if width > 0 {
		b.config.Input.Width = width
	}
	if height > 0 {
		b.config.Input.Height = height
	}
	return b
}

// WithBitDepth sets the source sample depth.
func (b *Builder) WithBitDepth(depth int) *Builder {
	if depth >= 8 {
		b.config.Input.BitDepth = depth
	}
	return b
}

// WithOutput sets the reconstructed output path.
func (b *Builder) WithOutput(path string) *Builder {
	if path != "" {
		b.config.Output.ReconPath = path
	}
	return b
}

// WithStats sets the statistics file path. An empty path disables it.
func (b *Builder) WithStats(path string) *Builder {
	b.config.Output.StatsPath = path
	return b
}

// WithFrames sets the number of primary pictures.
func (b *Builder) WithFrames(n int) *Builder {
	if n > 0 {
		b.config.Sequence.Frames = n
	}
	return b
}

// WithLastFrame sets the index of the last source frame.
func (b *Builder) WithLastFrame(n int) *Builder {
	if n >= 0 {
		b.config.Sequence.LastFrame = n
	}
	return b
}

// WithIntraPeriod sets the intra and IDR periods.
func (b *Builder) WithIntraPeriod(intra, idr int) *Builder {
	b.config.Sequence.IntraPeriod = intra
	b.config.Sequence.IDRPeriod = idr
	return b
}

// WithBPictures sets the number of B pictures per group and the source
// frames skipped between primary pictures.
func (b *Builder) WithBPictures(successiveB, frameSkip int) *Builder {
	b.config.Sequence.SuccessiveB = successiveB
	b.config.Sequence.FrameSkip = frameSkip
	return b
}

// WithInterlace sets picture and macroblock level interlace modes.
func (b *Builder) WithInterlace(pic, mb string) *Builder {
	b.config.Sequence.PicInterlace = pic
	b.config.Sequence.MbInterlace = mb
	return b
}

// WithRedundant enables redundant pictures.
func (b *Builder) WithRedundant(gopLength, hierarchy int) *Builder {
	b.config.Redundant = RedundantConfig{
		Enabled:          true,
		PrimaryGOPLength: gopLength,
		Hierarchy:        hierarchy,
	}
	return b
}

// WithSPSFile reads sequence parameters from an SPS byte stream or MP4 file.
func (b *Builder) WithSPSFile(path string) *Builder {
	b.config.ParameterSets.SPSFile = path
	return b
}

// WithDebug enables debug output into dir.
func (b *Builder) WithDebug(enabled bool, dir string) *Builder {
	b.config.Debug = enabled
	if dir != "" {
		b.config.DebugDir = dir
	}
	return b
}

// WithLogLevel sets the log level.
func (b *Builder) WithLogLevel(level string) *Builder {
	if level != "" {
		b.config.LogLevel = level
	}
	return b
}

// Build returns the built Config.
func (b *Builder) Build() Config {
	return b.config
}
