// Package output turns finished pictures into an ordered raw sample stream.
// Frames are written directly; fields are held in a single frame store until
// their companion arrives and are then written as one interleaved frame.
package output

import (
	"fmt"

	"github.com/user/picseq/pkg/picture"
	"github.com/user/picseq/pkg/ports"
)

// StoreState is the occupancy of the frame store.
type StoreState int

const (
	StoreEmpty StoreState = iota
	StoreTopPending
	StoreBottomPending
	StoreBothPending
)

// String returns the string representation of the state.
func (s StoreState) String() string {
	switch s {
	case StoreEmpty:
		return "empty"
	case StoreTopPending:
		return "top-pending"
	case StoreBottomPending:
		return "bottom-pending"
	case StoreBothPending:
		return "both-pending"
	default:
		return "unknown"
	}
}

// PictureWriter writes one picture to the output stream.
type PictureWriter interface {
	Write(p *picture.Picture) error
}

// FrameStore buffers the fields of one frame.
type FrameStore struct {
	state  StoreState
	top    *picture.Picture
	bottom *picture.Picture
}

// State returns the current occupancy.
func (fs *FrameStore) State() StoreState {
	return fs.state
}

func (fs *FrameStore) put(p *picture.Picture) {
	switch p.Structure {
	case picture.TopField:
		fs.top = p
		if fs.state == StoreBottomPending {
			fs.state = StoreBothPending
		} else {
			fs.state = StoreTopPending
		}
	case picture.BottomField:
		fs.bottom = p
		if fs.state == StoreTopPending {
			fs.state = StoreBothPending
		} else {
			fs.state = StoreBottomPending
		}
	}
}

func (fs *FrameStore) holds(structure picture.Structure) bool {
	switch structure {
	case picture.TopField:
		return fs.state == StoreTopPending || fs.state == StoreBothPending
	case picture.BottomField:
		return fs.state == StoreBottomPending || fs.state == StoreBothPending
	}
	return false
}

func (fs *FrameStore) reset() {
	fs.state = StoreEmpty
	fs.top = nil
	fs.bottom = nil
}

// Counters summarises what the sequencer has written.
type Counters struct {
	Frames            int
	PairedFields      int
	SynthesizedFields int
}

// Sequencer owns the frame store and decides when pictures are written.
// Every submitted picture is written exactly once and released exactly once.
type Sequencer struct {
	store    FrameStore
	writer   PictureWriter
	alloc    *picture.Allocator
	logger   ports.Logger
	counters Counters
}

// NewSequencer creates a Sequencer writing through w and releasing pictures
// through alloc.
func NewSequencer(w PictureWriter, alloc *picture.Allocator, logger ports.Logger) *Sequencer {
	return &Sequencer{
		writer: w,
		alloc:  alloc,
		logger: logger.WithComponent("sequencer"),
	}
}

// State returns the frame store occupancy.
func (s *Sequencer) State() StoreState {
	return s.store.State()
}

// Counters returns the output counters.
func (s *Sequencer) Counters() Counters {
	return s.counters
}

// Submit hands a finished picture to the sequencer, which takes ownership.
func (s *Sequencer) Submit(p *picture.Picture) error {
	if p.Structure == picture.Frame {
		return s.submitFrame(p)
	}
	return s.submitField(p)
}

// Flush writes any pending field, pairing it with a synthesized neutral
// companion. Calling Flush on an empty store does nothing.
func (s *Sequencer) Flush() error {
	return s.endOfSession()
}

func (s *Sequencer) submitFrame(p *picture.Picture) error {
	if err := s.flushPending(); err != nil {
		return err
	}
	if err := s.writer.Write(p); err != nil {
		return err
	}
	s.counters.Frames++
	return s.alloc.Release(p)
}

func (s *Sequencer) submitField(p *picture.Picture) error {
	if s.store.holds(p.Structure) {
		s.logger.Debug("Replacing pending %s field of picture %d", p.Structure, p.FrameIndex)
		if err := s.flushPending(); err != nil {
			return err
		}
	}
	s.store.put(p)

	if s.store.state == StoreBothPending {
		s.counters.PairedFields++
		return s.writePair()
	}
	return nil
}

func (s *Sequencer) endOfSession() error {
	return s.flushPending()
}

// flushPending writes a lone pending field together with a neutral companion.
func (s *Sequencer) flushPending() error {
	switch s.store.state {
	case StoreEmpty:
		return nil
	case StoreTopPending:
		companion, err := s.synthesize(s.store.top, picture.BottomField)
		if err != nil {
			return err
		}
		s.store.bottom = companion
	case StoreBottomPending:
		companion, err := s.synthesize(s.store.bottom, picture.TopField)
		if err != nil {
			return err
		}
		s.store.top = companion
	}
	s.store.state = StoreBothPending
	return s.writePair()
}

func (s *Sequencer) synthesize(field *picture.Picture, structure picture.Structure) (*picture.Picture, error) {
	companion, err := s.alloc.AllocNeutral(structure,
		field.Width(), field.Height(), field.ChromaWidth(), field.ChromaHeight())
	if err != nil {
		return nil, fmt.Errorf("synthesize %s field: %w", structure, err)
	}
	companion.FrameIndex = field.FrameIndex
	s.counters.SynthesizedFields++
	s.logger.Debug("Synthesized %s field for unpaired picture %d", structure, field.FrameIndex)
	return companion, nil
}

func (s *Sequencer) writePair() error {
	top, bottom := s.store.top, s.store.bottom
	s.store.reset()

	frame, err := s.alloc.Combine(top, bottom)
	if err != nil {
		return fmt.Errorf("pair fields of picture %d: %w", top.FrameIndex, err)
	}
	if err := s.writer.Write(frame); err != nil {
		return err
	}
	s.counters.Frames++

	for _, p := range []*picture.Picture{frame, top, bottom} {
		if err := s.alloc.Release(p); err != nil {
			return err
		}
	}
	return nil
}
