// Package redundant schedules redundant (backup) encodes of key pictures
// inside a repeating primary GOP for error resilience.
package redundant

import (
	"fmt"

	"github.com/user/picseq/pkg/sequence"
)

// MaxHierarchy is the deepest supported redundant hierarchy.
const MaxHierarchy = 4

// Constraints carries the encoder options that redundant coding must be
// checked against.
type Constraints struct {
	PrimaryGOPLength int
	Hierarchy        int
	SuccessiveB      int
	Interlaced       bool
	NumRefFrames     int
	// TailAdjust is true when the B count of the last group may be recomputed.
	TailAdjust bool
}

// Validate checks that redundant coding can be combined with the rest of the
// configuration. Every violation wraps sequence.ErrIncompatible.
func Validate(c Constraints) error {
	if c.SuccessiveB > 0 {
		return fmt.Errorf("%w: B pictures are not supported with redundant pictures", sequence.ErrIncompatible)
	}
	if c.Interlaced {
		return fmt.Errorf("%w: interlace is not supported with redundant pictures", sequence.ErrIncompatible)
	}
	if c.PrimaryGOPLength < 1 {
		return fmt.Errorf("%w: primary GOP length must be positive, got %d", sequence.ErrIncompatible, c.PrimaryGOPLength)
	}
	if c.NumRefFrames < c.PrimaryGOPLength {
		return fmt.Errorf("%w: %d reference frames is less than primary GOP length %d",
			sequence.ErrIncompatible, c.NumRefFrames, c.PrimaryGOPLength)
	}
	if c.Hierarchy < 0 || c.Hierarchy > MaxHierarchy {
		return fmt.Errorf("%w: redundant hierarchy %d out of range 0..%d", sequence.ErrIncompatible, c.Hierarchy, MaxHierarchy)
	}
	if 1<<c.Hierarchy > c.PrimaryGOPLength {
		return fmt.Errorf("%w: primary GOP length %d must be at least 2^%d",
			sequence.ErrIncompatible, c.PrimaryGOPLength, c.Hierarchy)
	}
	if c.TailAdjust {
		return fmt.Errorf("%w: last group adjustment is not supported with redundant pictures", sequence.ErrIncompatible)
	}
	return nil
}

// State is the redundant schedule of one picture.
type State struct {
	KeyFrame        bool
	RedundantCoding bool
	// RefIndex is the distance back to the picture the backup predicts from.
	RefIndex int
	// PositionInGOP is -1 for the first coded picture, which is never a key frame.
	PositionInGOP int
}

// Scheduler decides which primary pictures carry a redundant backup.
type Scheduler struct {
	gopLength int
	hierarchy int
}

// NewScheduler creates a Scheduler for the given primary GOP length and
// hierarchy depth.
func NewScheduler(gopLength, hierarchy int) *Scheduler {
	return &Scheduler{
		gopLength: gopLength,
		hierarchy: hierarchy,
	}
}

// Schedule returns the redundant state of primary picture frameIndex.
// Later (finer) hierarchy levels override earlier ones, so RefIndex is the
// distance to the nearest GOP boundary at the picture's own level.
func (s *Scheduler) Schedule(frameIndex int) State {
	st := State{PositionInGOP: frameIndex % s.gopLength}
	if frameIndex == 0 {
		st.PositionInGOP = -1
	}

	n := st.PositionInGOP
	g := s.gopLength

	if n == 0 {
		st.KeyFrame = true
		st.RefIndex = g
	}
	for level := 1; level <= s.hierarchy; level++ {
		div := 1 << level
		last := div - 1
		if level == MaxHierarchy {
			// The deepest level stops at 13/16.
			last = div - 3
		}
		for k := 1; k <= last; k += 2 {
			if n == g*k/div {
				st.KeyFrame = true
				st.RefIndex = g / div
			}
		}
	}
	return st
}

// Backup returns the state and slice type of the backup pass for a key
// picture. A primary I picture is backed up as P. The backup pass itself is
// never a key frame.
func (s *Scheduler) Backup(primary State, primaryType sequence.SliceType) (State, sequence.SliceType) {
	st := State{
		RedundantCoding: true,
		RefIndex:        primary.RefIndex,
		PositionInGOP:   primary.PositionInGOP,
	}
	if primaryType == sequence.SliceI {
		return st, sequence.SliceP
	}
	return st, primaryType
}
