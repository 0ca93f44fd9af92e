package gophierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/picseq/pkg/mocks"
	"github.com/user/picseq/pkg/sequence"
)

func displayOrder(t *Table) []int {
	out := make([]int, t.Len())
	for i := range out {
		out[i] = t.Entry(i).DisplayNo
	}
	return out
}

func TestDyadic(t *testing.T) {
	tests := []struct {
		n       int
		display []int
		refs    []bool
	}{
		{n: 0, display: []int{}, refs: []bool{}},
		{n: 1, display: []int{0}, refs: []bool{false}},
		{n: 3, display: []int{1, 0, 2}, refs: []bool{true, false, false}},
		{n: 7, display: []int{3, 1, 5, 0, 2, 4, 6}, refs: []bool{true, true, true, false, false, false, false}},
	}

	for _, tt := range tests {
		table := Dyadic(tt.n)
		assert.Equal(t, tt.display, displayOrder(table), "n=%d", tt.n)

		refs := make([]bool, table.Len())
		for i := range refs {
			refs[i] = table.Entry(i).Reference
		}
		assert.Equal(t, tt.refs, refs, "n=%d", tt.n)
	}
}

func TestDyadic_Levels(t *testing.T) {
	table := Dyadic(3)

	assert.Equal(t, 1, table.Entry(0).Level)
	assert.Equal(t, 2, table.Entry(1).Level)
	assert.Equal(t, 2, table.Entry(2).Level)
}

func TestParse(t *testing.T) {
	data := []byte(`
entries:
  - slice_type: B
    reference: true
    display_no: 1
    level: 1
  - slice_type: b
    display_no: 0
    level: 2
  - display_no: 2
    level: 2
`)

	table, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	assert.Equal(t, sequence.HierarchyEntry{SliceType: sequence.SliceB, Reference: true, DisplayNo: 1, Level: 1}, table.Entry(0))
	assert.Equal(t, []int{1, 0, 2}, displayOrder(table))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "duplicate display", data: "entries:\n  - display_no: 0\n  - display_no: 0\n"},
		{name: "out of range", data: "entries:\n  - display_no: 5\n"},
		{name: "intra entry", data: "entries:\n  - slice_type: I\n    display_no: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidTable)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	fs := mocks.NewFileSystem()
	data, err := Dyadic(5).Marshal()
	require.NoError(t, err)
	require.NoError(t, fs.WriteFile("gop.yaml", data))

	table, err := Load(fs, "gop.yaml")
	require.NoError(t, err)
	assert.Equal(t, displayOrder(Dyadic(5)), displayOrder(table))
}
