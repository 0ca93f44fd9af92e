// Package gophierarchy provides hierarchical B picture tables, either loaded
// from a YAML file or generated by dyadic splitting.
package gophierarchy

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/picseq/pkg/ports"
	"github.com/user/picseq/pkg/sequence"
)

// ErrInvalidTable is returned for a table that does not describe each display
// slot of the group exactly once.
var ErrInvalidTable = errors.New("invalid hierarchy table")

// Entry is one row of the YAML table.
type Entry struct {
	SliceType string `yaml:"slice_type"`
	Reference bool   `yaml:"reference"`
	DisplayNo int    `yaml:"display_no"`
	Level     int    `yaml:"level"`
}

type file struct {
	Entries []Entry `yaml:"entries"`
}

// Table implements ports.GOPHierarchy.
type Table struct {
	entries []sequence.HierarchyEntry
}

// Len returns the number of B pictures in the group.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entry returns the i-th entry in coding order.
func (t *Table) Entry(i int) sequence.HierarchyEntry {
	return t.entries[i]
}

// Load reads a table from a YAML file.
func Load(fs ports.FileSystem, path string) (*Table, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML table.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse hierarchy: %w", err)
	}

	entries := make([]sequence.HierarchyEntry, 0, len(f.Entries))
	for i, e := range f.Entries {
		st, err := parseSliceType(e.SliceType)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidTable, i, err)
		}
		entries = append(entries, sequence.HierarchyEntry{
			SliceType: st,
			Reference: e.Reference,
			DisplayNo: e.DisplayNo,
			Level:     e.Level,
		})
	}

	t := &Table{entries: entries}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseSliceType(s string) (sequence.SliceType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "B":
		return sequence.SliceB, nil
	case "P":
		return sequence.SliceP, nil
	default:
		return 0, fmt.Errorf("slice type %q not allowed in a hierarchy", s)
	}
}

func (t *Table) validate() error {
	seen := make([]bool, len(t.entries))
	for i, e := range t.entries {
		if e.DisplayNo < 0 || e.DisplayNo >= len(t.entries) {
			return fmt.Errorf("%w: entry %d display number %d out of range", ErrInvalidTable, i, e.DisplayNo)
		}
		if seen[e.DisplayNo] {
			return fmt.Errorf("%w: display number %d used twice", ErrInvalidTable, e.DisplayNo)
		}
		seen[e.DisplayNo] = true
	}
	return nil
}

// Dyadic builds the table for n B pictures by repeatedly coding the middle
// picture of each interval first. Pictures that split an interval are
// references; the leaves are not.
func Dyadic(n int) *Table {
	t := &Table{entries: make([]sequence.HierarchyEntry, 0, max(n, 0))}

	type interval struct{ lo, hi, level int }
	queue := []interval{{lo: 0, hi: n - 1, level: 1}}
	for len(queue) > 0 {
		iv := queue[0]
		queue = queue[1:]
		if iv.lo > iv.hi {
			continue
		}
		mid := (iv.lo + iv.hi + 1) / 2
		t.entries = append(t.entries, sequence.HierarchyEntry{
			SliceType: sequence.SliceB,
			Reference: iv.lo != iv.hi,
			DisplayNo: mid,
			Level:     iv.level,
		})
		queue = append(queue,
			interval{lo: iv.lo, hi: mid - 1, level: iv.level + 1},
			interval{lo: mid + 1, hi: iv.hi, level: iv.level + 1},
		)
	}
	return t
}

// Marshal encodes the table as YAML in the format Parse reads.
func (t *Table) Marshal() ([]byte, error) {
	f := file{Entries: make([]Entry, 0, len(t.entries))}
	for _, e := range t.entries {
		f.Entries = append(f.Entries, Entry{
			SliceType: e.SliceType.String(),
			Reference: e.Reference,
			DisplayNo: e.DisplayNo,
			Level:     e.Level,
		})
	}
	return yaml.Marshal(f)
}

var _ ports.GOPHierarchy = (*Table)(nil)
