// Package main provides the CLI entry point for picseq.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/picseq/pkg/adapters/filesink"
	"github.com/user/picseq/pkg/adapters/gophierarchy"
	"github.com/user/picseq/pkg/adapters/logger"
	"github.com/user/picseq/pkg/adapters/loopback"
	"github.com/user/picseq/pkg/adapters/nullsink"
	"github.com/user/picseq/pkg/adapters/osfilesystem"
	"github.com/user/picseq/pkg/adapters/previewrenderer"
	"github.com/user/picseq/pkg/adapters/spsparams"
	"github.com/user/picseq/pkg/adapters/yuvsource"
	"github.com/user/picseq/pkg/config"
	"github.com/user/picseq/pkg/orchestrator"
	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
	"github.com/user/picseq/pkg/sequence"
	"github.com/user/picseq/pkg/stages/code"
)

var version = "dev"

// Exit codes.
const (
	exitFailure      = 1
	exitIncompatible = 2
	exitResources    = 3
)

func main() {
	app := &cli.App{
		Name:    "picseq",
		Usage:   l10n.T("Sequence, code and reconstruct raw video pictures"),
		Version: version,
		Commands: []*cli.Command{
			encodeCommand(),
			checkCommand(),
			hierarchyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

// configFlags are shared by every command that builds a configuration.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T("Configuration")},
		&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Value: "progressive", Usage: l10n.T("Preset (progressive, interlaced, resilient)"), Category: l10n.T("Configuration")},

		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: l10n.T("Raw planar YUV source file"), Category: l10n.T("Input")},
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: l10n.T("Source width in luma samples"), Category: l10n.T("Input")},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: l10n.T("Source height in luma samples"), Category: l10n.T("Input")},
		&cli.IntFlag{Name: "bit-depth", Usage: l10n.T("Source sample bit depth"), Category: l10n.T("Input")},
		&cli.IntFlag{Name: "chroma-format", Usage: l10n.T("Chroma format (0 = 4:0:0, 1 = 4:2:0, 2 = 4:2:2, 3 = 4:4:4)"), Category: l10n.T("Input")},

		&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Usage: l10n.T("Number of primary pictures to code"), Category: l10n.T("Sequence")},
		&cli.IntFlag{Name: "last-frame", Usage: l10n.T("Index of the last source frame (0 = unknown)"), Category: l10n.T("Sequence")},
		&cli.IntFlag{Name: "intra-period", Usage: l10n.T("Intra picture period (0 = first picture only)"), Category: l10n.T("Sequence")},
		&cli.IntFlag{Name: "idr-period", Usage: l10n.T("IDR picture period (0 = first picture only)"), Category: l10n.T("Sequence")},
		&cli.IntFlag{Name: "b-frames", Aliases: []string{"b"}, Usage: l10n.T("B pictures between primary pictures"), Category: l10n.T("Sequence")},
		&cli.IntFlag{Name: "frame-skip", Usage: l10n.T("Source frames skipped between primary pictures"), Category: l10n.T("Sequence")},
		&cli.StringFlag{Name: "interlace", Usage: l10n.T("Picture level interlace (frame, field, adaptive)"), Category: l10n.T("Sequence")},
		&cli.StringFlag{Name: "hierarchy", Usage: l10n.T("Hierarchical B table file (YAML)"), Category: l10n.T("Sequence")},

		&cli.IntFlag{Name: "redundant-gop", Usage: l10n.T("Enable redundant pictures with this primary GOP length"), Category: l10n.T("Redundant Pictures")},
		&cli.IntFlag{Name: "redundant-hierarchy", Usage: l10n.T("Redundant hierarchy depth (0-4)"), Category: l10n.T("Redundant Pictures")},

		&cli.StringFlag{Name: "sps", Usage: l10n.T("Read sequence parameters from an H.264 byte stream or MP4 file"), Category: l10n.T("Parameter Sets")},

		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
	}
}

func encodeCommand() *cli.Command {
	flags := append(configFlags(),
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Reconstructed YUV output file"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "stats", Usage: l10n.T("Statistics file (.yaml or .md)"), Category: l10n.T("Output")},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},
	)
	return &cli.Command{
		Name:   "encode",
		Usage:  l10n.T("Code a raw source and write the reconstructed pictures in output order"),
		Flags:  flags,
		Action: runEncode,
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:   "check",
		Usage:  l10n.T("Validate a configuration without coding"),
		Flags:  configFlags(),
		Action: runCheck,
	}
}

func hierarchyCommand() *cli.Command {
	return &cli.Command{
		Name:      "hierarchy",
		Usage:     l10n.T("Write a dyadic hierarchical B table"),
		ArgsUsage: "<b-frames>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output file (default: stdout)")},
		},
		Action: runHierarchy,
	}
}

// session bundles what the commands build from flags.
type session struct {
	cfg       config.Config
	log       ports.Logger
	fs        *osfilesystem.FileSystem
	params    ports.SequenceParameters
	hierarchy ports.GOPHierarchy
}

// prepare loads and validates the configuration.
func prepare(c *cli.Context) (*session, error) {
	cfg, err := buildConfig(c)
	if err != nil {
		return nil, err
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	fs := osfilesystem.New()
	s := &session{cfg: cfg, log: log, fs: fs}

	var sets ports.ParameterSets = spsparams.Fixed(cfg.FixedParameterSets())
	if cfg.ParameterSets.SPSFile != "" {
		loaded, err := spsparams.Load(fs, cfg.ParameterSets.SPSFile)
		if err != nil {
			return nil, err
		}
		log.Info("Sequence parameters read from %s", cfg.ParameterSets.SPSFile)
		sets = loaded
	}
	s.params = sets.Sequence()

	switch {
	case cfg.Sequence.HierarchyFile != "":
		table, err := gophierarchy.Load(fs, cfg.Sequence.HierarchyFile)
		if err != nil {
			return nil, err
		}
		s.hierarchy = table
	case cfg.Sequence.Hierarchical > 0:
		s.hierarchy = gophierarchy.Dyadic(cfg.Sequence.SuccessiveB)
	}

	if err := cfg.Validate(s.params); err != nil {
		return nil, err
	}
	if err := cfg.ValidateHierarchy(s.hierarchy); err != nil {
		return nil, err
	}
	return s, nil
}

func runEncode(c *cli.Context) error {
	s, err := prepare(c)
	if err != nil {
		return exit(err)
	}
	cfg, log := s.cfg, s.log

	if cfg.Input.Path == "" {
		return cli.Exit(l10n.T("An input file is required"), exitFailure)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, shutting down...")
		cancel()
	}()

	alloc := picture.NewAllocator(cfg.Input.BitDepth, cfg.Input.BitDepth)

	source, err := yuvsource.Open(s.fs, cfg.Input.Path, yuvsource.Options{
		Width:        cfg.Input.Width,
		Height:       cfg.Input.Height,
		ChromaFormat: cfg.Input.ChromaFormat,
		BitDepth:     cfg.Input.BitDepth,
		HeaderBytes:  cfg.Input.HeaderBytes,
	}, alloc)
	if err != nil {
		return exit(err)
	}
	defer source.Close()

	orchConfig := cfg.ToOrchestratorConfig(s.params)
	if available, err := source.FrameCount(); err == nil {
		needed := (orchConfig.Sequence.FrameCount-1)*(cfg.Sequence.FrameSkip+1) + 1
		if needed > available {
			log.Warn("Source has %d frames, %d needed", available, needed)
		}
	}

	coder := loopback.New(loopback.Options{
		QuantShift: cfg.Coder.QuantShift,
		BitDepth:   cfg.Input.BitDepth,
	}, alloc)

	renderer := previewrenderer.New(cfg.Input.BitDepth)

	var sink ports.DebugSink
	if cfg.Debug {
		if err := s.fs.MkdirAll(cfg.DebugDir); err != nil {
			return exit(fmt.Errorf("create debug directory: %w", err))
		}
		sink = filesink.New(cfg.DebugDir, s.fs, renderer)
	} else {
		sink = nullsink.New()
	}

	orch := orchestrator.New(
		code.NewStage(coder, log),
		source,
		s.hierarchy,
		alloc,
		s.fs,
		sink,
		renderer,
		log,
	)

	log.Info("Coding %s (%dx%d)...", cfg.Input.Path, cfg.Input.Width, cfg.Input.Height)

	result, err := orch.Run(ctx, orchConfig)
	if err != nil {
		return exit(err)
	}

	log.Info("Output saved to %s", cfg.Output.ReconPath)
	log.Info("%d primary, %d B and %d redundant pictures coded", result.PrimaryPictures, result.EnhancementPictures, result.RedundantPictures)
	return nil
}

func runCheck(c *cli.Context) error {
	s, err := prepare(c)
	if err != nil {
		return exit(err)
	}

	params := s.cfg.SequenceParams(s.params)
	cycle := sequence.NewCycle(params.SuccessiveB, params.ReferenceB == sequence.BRefReference, params.PicInterlace, params.MbInterlace)

	fmt.Println(l10n.T("Configuration is valid"))
	fmt.Println(l10n.F("Primary pictures: %d, B pictures per group: %d", params.FrameCount, params.SuccessiveB))
	fmt.Println(l10n.F("Order count offsets: non-reference %d, reference %d, top to bottom %d",
		cycle.OffsetForNonRef, cycle.OffsetForRefFrame, cycle.OffsetTopToBottom))
	fmt.Println(l10n.F("Maximum frame number: %d", params.MaxFrameNum))
	return nil
}

func runHierarchy(c *cli.Context) error {
	var n int
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &n); err != nil || n < 1 {
		return cli.Exit(l10n.T("A positive B picture count is required"), exitFailure)
	}

	data, err := gophierarchy.Dyadic(n).Marshal()
	if err != nil {
		return exit(err)
	}

	if path := c.String("output"); path != "" {
		if err := osfilesystem.New().WriteFile(path, data); err != nil {
			return exit(err)
		}
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}

// buildConfig starts from the configuration file or the preset and applies
// flag overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	var builder *config.Builder
	if path := c.String("config"); path != "" {
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		builder = config.FromConfig(cfg)
	} else {
		builder = config.NewBuilderFor(config.Preset(c.String("preset")))
	}

	cfg := builder.Build()
	if c.IsSet("input") || c.IsSet("width") || c.IsSet("height") {
		builder.WithInput(stringOr(c, "input", cfg.Input.Path), c.Int("width"), c.Int("height"))
	}
	if c.IsSet("bit-depth") {
		builder.WithBitDepth(c.Int("bit-depth"))
	}
	if c.IsSet("frames") {
		builder.WithFrames(c.Int("frames"))
	}
	if c.IsSet("last-frame") {
		builder.WithLastFrame(c.Int("last-frame"))
	}
	if c.IsSet("intra-period") || c.IsSet("idr-period") {
		builder.WithIntraPeriod(intOr(c, "intra-period", cfg.Sequence.IntraPeriod), intOr(c, "idr-period", cfg.Sequence.IDRPeriod))
	}
	if c.IsSet("b-frames") || c.IsSet("frame-skip") {
		builder.WithBPictures(intOr(c, "b-frames", cfg.Sequence.SuccessiveB), intOr(c, "frame-skip", cfg.Sequence.FrameSkip))
	}
	if c.IsSet("interlace") {
		builder.WithInterlace(c.String("interlace"), cfg.Sequence.MbInterlace)
	}
	if c.IsSet("redundant-gop") {
		builder.WithRedundant(c.Int("redundant-gop"), c.Int("redundant-hierarchy"))
	}
	if c.IsSet("sps") {
		builder.WithSPSFile(c.String("sps"))
	}
	if c.IsSet("output") {
		builder.WithOutput(c.String("output"))
	}
	if c.IsSet("stats") {
		builder.WithStats(c.String("stats"))
	}
	if c.IsSet("debug") || c.IsSet("debug-dir") {
		builder.WithDebug(c.Bool("debug"), c.String("debug-dir"))
	}
	if c.IsSet("log-level") {
		builder.WithLogLevel(c.String("log-level"))
	}

	cfg = builder.Build()
	if c.IsSet("chroma-format") {
		cfg.Input.ChromaFormat = c.Int("chroma-format")
	}
	if c.IsSet("hierarchy") {
		cfg.Sequence.HierarchyFile = c.String("hierarchy")
		if cfg.Sequence.Hierarchical == 0 {
			cfg.Sequence.Hierarchical = 1
		}
	}
	return cfg, nil
}

func stringOr(c *cli.Context, name, fallback string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return fallback
}

func intOr(c *cli.Context, name string, fallback int) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	return fallback
}

// exit maps an error to a process exit status.
func exit(err error) error {
	switch {
	case errors.Is(err, sequence.ErrIncompatible):
		return cli.Exit(l10n.F("Incompatible configuration: %s", err), exitIncompatible)
	case errors.Is(err, picture.ErrResourceExhausted):
		return cli.Exit(l10n.F("Out of resources: %s", err), exitResources)
	default:
		return cli.Exit(err.Error(), exitFailure)
	}
}
