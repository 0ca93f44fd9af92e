package ports

import "github.com/user/picseq/pkg/sequence"

// GOPHierarchy is a precomputed hierarchical B picture table.
type GOPHierarchy = sequence.Hierarchy
