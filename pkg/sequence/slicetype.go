package sequence

// SliceType is the coding type of a picture.
type SliceType int

const (
	SliceP SliceType = iota
	SliceB
	SliceI
	SliceSP
)

// String returns the string representation of the slice type.
func (t SliceType) String() string {
	switch t {
	case SliceP:
		return "P"
	case SliceB:
		return "B"
	case SliceI:
		return "I"
	case SliceSP:
		return "SP"
	default:
		return "unknown"
	}
}

// Priority is the NAL reference priority (nal_ref_idc).
type Priority int

const (
	PriorityDisposable Priority = iota
	PriorityLow
	PriorityHigh
	PriorityHighest
)

// Decision is the picture type chosen for one coded picture.
type Decision struct {
	SliceType    SliceType
	Priority     Priority
	IDR          bool
	IntraRefresh bool
}

// Reference reports whether the picture is kept for prediction.
func (d Decision) Reference() bool {
	return d.Priority != PriorityDisposable
}

// HierarchyEntry describes one B picture of a hierarchical group, in coding order.
type HierarchyEntry struct {
	SliceType SliceType
	Reference bool
	// DisplayNo is the display position of the picture inside the group.
	DisplayNo int
	Level     int
}

// Hierarchy is a precomputed hierarchical B structure.
type Hierarchy interface {
	Len() int
	Entry(i int) HierarchyEntry
}

// Scheduler decides slice types.
type Scheduler struct {
	params    Params
	hierarchy Hierarchy
	// shortened is set when the last group no longer matches the table.
	shortened bool
}

// NewScheduler creates a Scheduler. hierarchy may be nil when hierarchical
// coding is disabled.
func NewScheduler(params Params, hierarchy Hierarchy) *Scheduler {
	return &Scheduler{
		params:    params,
		hierarchy: hierarchy,
	}
}

// Decide returns the slice type of the primary picture on the clock. An intra
// or IDR refresh point is always I; otherwise SP on the SP period, B when all
// primary pictures are B, else P. Priority is filled in by Tracker.Compute.
func (s *Scheduler) Decide(c *Clock) Decision {
	p := s.params
	f := c.FrameIndex

	var intraRefresh bool
	if p.IntraPeriod == 0 {
		intraRefresh = f == 0
	} else {
		intraRefresh = (f-c.LastIntra)%p.IntraPeriod == 0
	}
	idrRefresh := p.atIDRPoint(c)

	if intraRefresh || idrRefresh {
		return Decision{
			SliceType:    SliceI,
			IDR:          idrRefresh,
			IntraRefresh: intraRefresh,
		}
	}

	switch {
	case p.SPPeriod > 0 && f%p.SPPeriod == 0:
		return Decision{SliceType: SliceSP}
	case p.ReferenceB == BRefAll:
		return Decision{SliceType: SliceB}
	default:
		return Decision{SliceType: SliceP}
	}
}

// DecideB returns the type of the position-th (1-based, coding order) B
// picture between two primary pictures.
func (s *Scheduler) DecideB(position int) Decision {
	if entry, ok := s.hierarchyEntry(position); ok {
		d := Decision{SliceType: entry.SliceType}
		if entry.Reference {
			d.Priority = PriorityHigh
		}
		return d
	}

	d := Decision{SliceType: SliceB}
	if s.params.ReferenceB == BRefReference {
		d.Priority = PriorityLow
	}
	return d
}

// ShortenGroup tells the scheduler that the current group holds only
// successiveB B pictures. A hierarchy table of another size is no longer
// consulted, so B pictures take consecutive display slots.
func (s *Scheduler) ShortenGroup(successiveB int) {
	if s.hierarchy != nil && s.hierarchy.Len() != successiveB {
		s.shortened = true
	}
}

func (s *Scheduler) hierarchyEntry(position int) (HierarchyEntry, bool) {
	if s.params.Hierarchical == 0 || s.hierarchy == nil || s.shortened {
		return HierarchyEntry{}, false
	}
	if position < 1 || position > s.hierarchy.Len() {
		return HierarchyEntry{}, false
	}
	return s.hierarchy.Entry(position - 1), true
}
