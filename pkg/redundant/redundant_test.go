package redundant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/picseq/pkg/sequence"
)

func TestScheduler_KeyFramesDepthTwo(t *testing.T) {
	s := NewScheduler(16, 2)

	keys := map[int]int{}
	for f := 0; f < 33; f++ {
		st := s.Schedule(f)
		if st.KeyFrame {
			keys[f] = st.RefIndex
		}
		assert.False(t, st.RedundantCoding, "frame %d", f)
	}

	assert.Equal(t, map[int]int{
		4: 4, 8: 8, 12: 4,
		16: 16, 20: 4, 24: 8, 28: 4,
		32: 16,
	}, keys)
}

func TestScheduler_FirstPictureIsNotKey(t *testing.T) {
	s := NewScheduler(8, 0)

	st := s.Schedule(0)
	assert.False(t, st.KeyFrame)
	assert.Equal(t, -1, st.PositionInGOP)

	st = s.Schedule(8)
	assert.True(t, st.KeyFrame)
	assert.Equal(t, 8, st.RefIndex)
	assert.Equal(t, 0, st.PositionInGOP)
}

func TestScheduler_DepthFour(t *testing.T) {
	s := NewScheduler(16, 4)

	tests := []struct {
		frame    int
		key      bool
		refIndex int
	}{
		{frame: 1, key: true, refIndex: 1},
		{frame: 2, key: true, refIndex: 2},
		{frame: 3, key: true, refIndex: 1},
		{frame: 6, key: true, refIndex: 2},
		{frame: 13, key: true, refIndex: 1},
		{frame: 14, key: true, refIndex: 2},
		{frame: 15, key: false, refIndex: 0},
		{frame: 16, key: true, refIndex: 16},
	}

	for _, tt := range tests {
		st := s.Schedule(tt.frame)
		assert.Equal(t, tt.key, st.KeyFrame, "frame %d", tt.frame)
		assert.Equal(t, tt.refIndex, st.RefIndex, "frame %d", tt.frame)
	}
}

func TestScheduler_DepthFourKeyOffsets(t *testing.T) {
	s := NewScheduler(16, 4)

	var keys []int
	for n := 1; n < 16; n++ {
		if s.Schedule(n).KeyFrame {
			keys = append(keys, n)
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, keys)
}

func TestScheduler_Backup(t *testing.T) {
	s := NewScheduler(16, 1)
	primary := s.Schedule(8)
	require.True(t, primary.KeyFrame)

	st, typ := s.Backup(primary, sequence.SliceI)
	assert.True(t, st.RedundantCoding)
	assert.False(t, st.KeyFrame)
	assert.Equal(t, 8, st.RefIndex)
	assert.Equal(t, sequence.SliceP, typ)

	_, typ = s.Backup(primary, sequence.SliceP)
	assert.Equal(t, sequence.SliceP, typ)
}

func TestValidate(t *testing.T) {
	valid := Constraints{PrimaryGOPLength: 16, Hierarchy: 2, NumRefFrames: 16}
	require.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		modify func(c *Constraints)
	}{
		{name: "B pictures", modify: func(c *Constraints) { c.SuccessiveB = 1 }},
		{name: "interlace", modify: func(c *Constraints) { c.Interlaced = true }},
		{name: "too few reference frames", modify: func(c *Constraints) { c.NumRefFrames = 15 }},
		{name: "hierarchy deeper than GOP", modify: func(c *Constraints) { c.PrimaryGOPLength = 2; c.NumRefFrames = 2 }},
		{name: "hierarchy out of range", modify: func(c *Constraints) { c.Hierarchy = 5 }},
		{name: "zero GOP", modify: func(c *Constraints) { c.PrimaryGOPLength = 0 }},
		{name: "tail adjustment", modify: func(c *Constraints) { c.TailAdjust = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := Validate(c)
			require.Error(t, err)
			assert.ErrorIs(t, err, sequence.ErrIncompatible)
		})
	}
}
