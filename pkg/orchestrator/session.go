package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/picseq/pkg/output"
	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/pipeline"
	"github.com/user/picseq/pkg/ports"
	"github.com/user/picseq/pkg/redundant"
	"github.com/user/picseq/pkg/sequence"
	"github.com/user/picseq/pkg/stats"
)

// session holds the running state of one Run call.
type session struct {
	o      *Orchestrator
	config Config

	clock     *sequence.Clock
	scheduler *sequence.Scheduler
	tracker   *sequence.Tracker
	redundant *redundant.Scheduler

	sequencer *output.Sequencer
	stats     *stats.Builder

	// prevOrder is the order count of the last primary picture.
	prevOrder sequence.Order
	// records counts coded pictures for debug output.
	records int
}

func (o *Orchestrator) newSession(config Config, sequencer *output.Sequencer, builder *stats.Builder) *session {
	s := &session{
		o:         o,
		config:    config,
		clock:     &sequence.Clock{},
		scheduler: sequence.NewScheduler(config.Sequence, o.hierarchy),
		tracker:   sequence.NewTracker(config.Sequence),
		sequencer: sequencer,
		stats:     builder,
	}
	if config.Redundant.Enabled {
		s.redundant = redundant.NewScheduler(config.Redundant.GOPLength, config.Redundant.Hierarchy)
	}
	return s
}

func (s *session) run(ctx context.Context) error {
	for f := 0; f < s.config.Sequence.FrameCount; f++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.codePrimary(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// codePrimary codes primary picture f, its backup when it is a key picture,
// and then the B pictures displayed before it.
func (s *session) codePrimary(ctx context.Context, f int) (err error) {
	c := s.clock
	c.BeginPicture(f)

	decision := s.scheduler.Decide(c)
	order, priority := s.tracker.Compute(c)
	decision.Priority = priority

	if adjusted, ok := s.tracker.AdjustTail(c, order); ok {
		order = adjusted
		s.scheduler.ShortenGroup(s.tracker.SuccessiveB())
		s.stats.WithTailAdjusted()
		s.o.logger.Info("Last group shortened to %d B pictures", s.tracker.SuccessiveB())
	}

	c.AdvanceFrameNum(decision, s.config.Sequence.MaxFrameNum)

	var state redundant.State
	if s.redundant != nil {
		state = s.redundant.Schedule(f)
	}

	sourceIndex := s.tracker.SourceIndex(c)
	src, err := s.o.source.ReadFrame(sourceIndex)
	if err != nil {
		return fmt.Errorf("read source frame %d: %w", sourceIndex, err)
	}
	defer func() {
		if rerr := s.o.alloc.Release(src); rerr != nil && err == nil {
			err = fmt.Errorf("release source frame %d: %w", sourceIndex, rerr)
		}
	}()

	req := ports.PictureRequest{
		FrameIndex:  f,
		SourceIndex: sourceIndex,
		FrameNum:    c.FrameNum,
		Decision:    decision,
		Order:       order,
		Redundant:   state,
		FieldCoding: s.config.FieldCoding,
		Source:      src,
	}
	res, err := s.code(ctx, pipeline.LayerPrimary, req)
	if err != nil {
		return err
	}
	if err := s.submit(res); err != nil {
		return err
	}

	if s.redundant != nil && state.KeyFrame {
		if err := s.codeBackup(ctx, req); err != nil {
			return err
		}
	}

	c.Commit(decision)
	prev := s.prevOrder
	s.prevOrder = order

	if f > 0 {
		return s.codeEnhancement(ctx, prev)
	}
	return nil
}

// codeBackup codes the redundant copy of a key picture. The reconstruction
// is never output.
func (s *session) codeBackup(ctx context.Context, primary ports.PictureRequest) error {
	req := primary
	req.Redundant, req.Decision.SliceType = s.redundant.Backup(primary.Redundant, primary.Decision.SliceType)
	req.Decision.IDR = false

	res, err := s.code(ctx, pipeline.LayerRedundant, req)
	if err != nil {
		return err
	}
	return s.release(res.Pictures)
}

// codeEnhancement codes the B pictures between the previous primary picture,
// whose order count is ref, and the one just coded.
func (s *session) codeEnhancement(ctx context.Context, ref sequence.Order) error {
	c := s.clock
	for position := 1; position <= s.tracker.SuccessiveB(); position++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		decision := s.scheduler.DecideB(position)
		slot := s.scheduler.BSlot(position)
		order := s.tracker.BOrder(ref, slot)
		c.AdvanceFrameNum(decision, s.config.Sequence.MaxFrameNum)

		sourceIndex := s.tracker.BSourceIndex(c, slot)
		src, err := s.o.source.ReadFrame(sourceIndex)
		if err != nil {
			return fmt.Errorf("read source frame %d: %w", sourceIndex, err)
		}

		req := ports.PictureRequest{
			FrameIndex:  c.FrameIndex,
			SourceIndex: sourceIndex,
			FrameNum:    c.FrameNum,
			Decision:    decision,
			Order:       order,
			FieldCoding: s.config.FieldCoding,
			Source:      src,
		}
		res, err := s.code(ctx, pipeline.LayerEnhancement, req)
		if rerr := s.o.alloc.Release(src); rerr != nil && err == nil {
			err = fmt.Errorf("release source frame %d: %w", sourceIndex, rerr)
		}
		if err != nil {
			return err
		}
		if err := s.submit(res); err != nil {
			return err
		}

		c.CommitB(decision)
	}
	return nil
}

// code runs the code stage and records the picture in statistics and debug
// output.
func (s *session) code(ctx context.Context, layer pipeline.Layer, req ports.PictureRequest) (pipeline.CodeResult, error) {
	in := pipeline.CodeInput{Layer: layer, Request: req}
	res, err := s.o.codeStage.Execute(ctx, in)
	if err != nil {
		return res, err
	}

	s.stats.AddPicture(layer.String(), res.SliceType.String(), res.Bytes, req.Decision.IDR)
	s.saveRecord(in, res)
	return res, nil
}

func (s *session) submit(res pipeline.CodeResult) error {
	for _, p := range res.Pictures {
		if err := s.sequencer.Submit(p); err != nil {
			return fmt.Errorf("output picture %d: %w", p.FrameIndex, err)
		}
	}
	return nil
}

func (s *session) release(pictures []*picture.Picture) error {
	for _, p := range pictures {
		if err := s.o.alloc.Release(p); err != nil {
			return err
		}
	}
	return nil
}

// saveRecord writes the debug record and preview of a coded picture. Debug
// output failures never stop the session.
func (s *session) saveRecord(in pipeline.CodeInput, res pipeline.CodeResult) {
	sink := s.o.sink
	if !sink.Enabled() {
		return
	}
	index := s.records
	s.records++

	record := pipeline.NewPictureRecord(in, res)
	if data, err := json.MarshalIndent(record, "", "  "); err == nil {
		if err := sink.SavePictureJSON(index, data); err != nil {
			s.o.logger.Warn("Failed to save debug output: %s", err)
		}
	}

	if s.o.renderer == nil || len(res.Pictures) == 0 {
		return
	}
	label := fmt.Sprintf("#%d %s %s POC %d", in.Request.FrameIndex, in.Layer, res.SliceType, in.Request.Order.Frame)
	img, err := s.o.renderer.Render(res.Pictures[0], label, s.config.PreviewWidth)
	if err != nil {
		s.o.logger.Warn("Failed to render preview: %s", err)
		return
	}
	if err := sink.SavePreview(index, img); err != nil {
		s.o.logger.Warn("Failed to save debug output: %s", err)
	}
}
