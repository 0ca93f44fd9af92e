package sequence

// Cycle holds the picture order count cycle offsets signalled once per sequence.
type Cycle struct {
	OffsetForNonRef   int
	OffsetForRefFrame int
	OffsetTopToBottom int
	// POCPresent is false for pure progressive frame coding.
	POCPresent bool
}

// NewCycle derives the cycle offsets from the B picture count and the
// interlace configuration.
func NewCycle(successiveB int, referenceB bool, picInterlace, mbInterlace InterlaceMode) Cycle {
	var c Cycle
	if referenceB {
		c.OffsetForNonRef = 0
		c.OffsetForRefFrame = 2
	} else {
		c.OffsetForNonRef = -2 * successiveB
		c.OffsetForRefFrame = 2 * (successiveB + 1)
	}

	progressive := picInterlace == FrameCoding && mbInterlace == FrameCoding
	if !progressive {
		c.OffsetTopToBottom = 1
		c.POCPresent = true
	}
	return c
}

// Order is the picture order count of one picture.
type Order struct {
	Top    int
	Bottom int
	Frame  int
	// Delta is the order count delta sent with reference B reordering.
	Delta int
}

// shift adds d to the field counts and recomputes the frame count.
func (o Order) shift(d int) Order {
	o.Top += d
	o.Bottom += d
	o.Frame = min(o.Top, o.Bottom)
	return o
}

// Tracker computes picture order counts.
type Tracker struct {
	params Params
	cycle  Cycle

	successiveB  int
	tailInterval int
}

// NewTracker creates a Tracker and establishes the order count cycle.
func NewTracker(params Params) *Tracker {
	return &Tracker{
		params:      params,
		cycle:       NewCycle(params.SuccessiveB, params.ReferenceB == BRefReference, params.PicInterlace, params.MbInterlace),
		successiveB: params.SuccessiveB,
	}
}

// Cycle returns the sequence cycle offsets.
func (t *Tracker) Cycle() Cycle {
	return t.cycle
}

// SuccessiveB returns the current number of B pictures per group, which is
// lowered for the last group of a finite sequence by AdjustTail.
func (t *Tracker) SuccessiveB() int {
	return t.successiveB
}

// Compute returns the order count and reference priority of the primary
// picture on the clock.
func (t *Tracker) Compute(c *Clock) (Order, Priority) {
	p := t.params
	f := c.FrameIndex

	priority := t.priority(c)

	var baseMul int
	switch {
	case p.IDRPeriod == 0:
		baseMul = f - c.LastIDR
	case !p.AdaptiveIDR:
		baseMul = (f - c.LastIDR) % p.IDRPeriod
	case (f-max(c.LastIntra, c.LastIDR))%p.IDRPeriod == 0:
		baseMul = 0
	default:
		baseMul = f - c.LastIDR
	}

	// Pictures inside the intra delay window are displayed before the IDR
	// picture they follow in coding order.
	if f-c.LastIDR <= p.IntraDelay {
		baseMul = -baseMul
	} else if baseMul != 0 {
		baseMul -= p.IntraDelay
	}

	var o Order
	o.Top = baseMul * 2 * (p.FrameSkip + 1)
	if p.Progressive() {
		o.Bottom = o.Top
	} else {
		o.Bottom = o.Top + 1
	}
	o.Frame = min(o.Top, o.Bottom)

	if p.ReferenceB == BRefReference && f != 0 {
		o.Delta = 2 * p.SuccessiveB
	}
	return o, priority
}

func (t *Tracker) priority(c *Clock) Priority {
	p := t.params
	if p.atIDRPoint(c) {
		return PriorityHighest
	}
	if p.DisposableP {
		return Priority((c.FrameIndex + 1) % 2)
	}
	return PriorityLow
}

// AdjustTail lowers the B picture count for the last group of a finite
// sequence so that it ends on the last source frame, and corrects the order
// count of the last reference picture accordingly. It reports whether an
// adjustment was made.
func (t *Tracker) AdjustTail(c *Clock, o Order) (Order, bool) {
	p := t.params
	if p.SuccessiveB == 0 || p.LastFrame == 0 || c.FrameIndex+1 != p.FrameCount {
		return o, false
	}

	interval := int(float64(p.FrameSkip+1)/(float64(p.SuccessiveB)+1.0) + 0.499999)
	if interval < 1 {
		interval = 1
	}
	remaining := p.LastFrame - (c.FrameIndex-1)*(p.FrameSkip+1)
	adjusted := min(max(remaining/interval-1, 0), p.SuccessiveB)

	t.successiveB = adjusted
	t.tailInterval = interval

	delta := -2 * (p.SuccessiveB - adjusted)
	o.Delta = delta
	return o.shift(delta), true
}

// BInterval returns the source frame distance between consecutive B pictures.
func (t *Tracker) BInterval() float64 {
	if t.tailInterval > 0 {
		return float64(t.tailInterval)
	}
	if t.params.Hierarchical == 3 {
		return 1.0
	}
	return float64(t.params.FrameSkip+1) / (float64(t.params.SuccessiveB) + 1.0)
}

// BOrder returns the order count of a B picture that follows the reference
// picture with order ref. slot is the 1-based display slot of the B picture
// inside the group.
func (t *Tracker) BOrder(ref Order, slot int) Order {
	var o Order
	o.Top = ref.Top + 2*int(t.BInterval()*float64(slot))
	o.Bottom = o.Top + t.cycle.OffsetTopToBottom
	o.Frame = min(o.Top, o.Bottom)
	return o
}

// SourceIndex returns the source frame coded as the primary picture on the clock.
func (t *Tracker) SourceIndex(c *Clock) int {
	return t.clampSource(c.FrameIndex * (t.params.FrameSkip + 1))
}

// BSourceIndex returns the source frame of the B picture in display slot
// slot of the group ending at the primary picture on the clock.
func (t *Tracker) BSourceIndex(c *Clock, slot int) int {
	base := (c.FrameIndex - 1) * (t.params.FrameSkip + 1)
	return t.clampSource(base + int(t.BInterval()*float64(slot)))
}

func (t *Tracker) clampSource(n int) int {
	if t.params.LastFrame > 0 && n > t.params.LastFrame {
		return t.params.LastFrame
	}
	return n
}

// BSlot returns the display slot of the position-th coded B picture: its
// coding position, or one past the hierarchy display number when the
// scheduler consults a hierarchy.
func (s *Scheduler) BSlot(position int) int {
	if entry, ok := s.hierarchyEntry(position); ok {
		return entry.DisplayNo + 1
	}
	return position
}
