// Package ports defines interfaces for the collaborators of the encoder
// control plane: compression, parameter sets, GOP hierarchy, source input,
// file access, debug output and logging.
package ports
