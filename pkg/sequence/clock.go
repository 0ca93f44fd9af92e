package sequence

// Clock holds the running counters of an encoding session. It is advanced
// once per coded picture and passed by pointer to every per-picture call.
type Clock struct {
	// FrameIndex is the coding index of the current primary picture.
	FrameIndex int
	// FrameNum is the reference frame number, always below the modulus.
	FrameNum int

	LastIDR   int
	LastIntra int

	// IDRGOPCount counts primary pictures since the last IDR picture.
	IDRGOPCount int
	// NonRefInGroup counts non-reference pictures in the current group.
	NonRefInGroup int

	lastWasReference bool
}

// BeginPicture moves the clock to primary picture index.
func (c *Clock) BeginPicture(index int) {
	c.FrameIndex = index
}

// AdvanceFrameNum assigns frame_num for the picture about to be coded: it
// increments once after a reference picture and restarts at zero on IDR.
func (c *Clock) AdvanceFrameNum(d Decision, maxFrameNum int) {
	if c.lastWasReference {
		c.FrameNum++
		if maxFrameNum > 0 {
			c.FrameNum %= maxFrameNum
		}
	}
	if d.IDR {
		c.FrameNum = 0
		c.NonRefInGroup = 0
	}
}

// Commit records a coded primary picture: it moves the intra and IDR anchors
// and remembers whether the picture is a reference.
func (c *Clock) Commit(d Decision) {
	if d.SliceType == SliceI {
		c.LastIntra = c.FrameIndex
	}
	if d.IDR {
		c.LastIDR = c.FrameIndex
		c.IDRGOPCount = 0
	} else {
		c.IDRGOPCount++
	}
	c.commitReference(d)
}

// CommitB records a coded enhancement-layer picture. Anchors do not move.
func (c *Clock) CommitB(d Decision) {
	c.commitReference(d)
}

func (c *Clock) commitReference(d Decision) {
	c.lastWasReference = d.Priority != PriorityDisposable
	if !c.lastWasReference {
		c.NonRefInGroup++
	}
}
