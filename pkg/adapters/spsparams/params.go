// Package spsparams provides the parameter-set collaborator: sequence
// parameters taken from an H.264 SPS, or fixed values from configuration.
package spsparams

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/picseq/pkg/ports"
)

// ErrNoSPS is returned when no sequence parameter set is found.
var ErrNoSPS = errors.New("no sequence parameter set found")

// Sets implements ports.ParameterSets with a single active SPS.
type Sets struct {
	params ports.SequenceParameters
}

// Fixed returns parameter sets with the given values.
func Fixed(params ports.SequenceParameters) *Sets {
	return &Sets{params: params}
}

// Sequence returns the active sequence parameters.
func (s *Sets) Sequence() ports.SequenceParameters {
	return s.params
}

// Load reads the first SPS from an MP4 file (.mp4, .m4v) or an Annex B
// byte stream (any other extension).
func Load(fs ports.FileSystem, path string) (*Sets, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v":
		f, err := fs.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ReadMP4(f)
	default:
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return ParseByteStream(data)
	}
}

// ParseByteStream finds the first SPS NAL unit in an Annex B byte stream.
func ParseByteStream(data []byte) (*Sets, error) {
	for _, nalu := range avc.ExtractNalusFromByteStream(data) {
		if len(nalu) == 0 || avc.GetNaluType(nalu[0]) != avc.NALU_SPS {
			continue
		}
		return ParseNALUnit(nalu)
	}
	return nil, ErrNoSPS
}

// ReadMP4 takes the first SPS from the avcC box of the first video track.
func ReadMP4(r io.ReadSeeker) (*Sets, error) {
	f, err := mp4.DecodeFile(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}
	if f.Init == nil || f.Init.Moov == nil {
		return nil, fmt.Errorf("decode mp4: %w", ErrNoSPS)
	}

	for _, trak := range f.Init.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
			continue
		}
		for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
			entry, ok := child.(*mp4.VisualSampleEntryBox)
			if !ok || entry.AvcC == nil || len(entry.AvcC.SPSnalus) == 0 {
				continue
			}
			return ParseNALUnit(entry.AvcC.SPSnalus[0])
		}
	}
	return nil, ErrNoSPS
}

// ParseNALUnit parses one SPS NAL unit, header byte included.
func ParseNALUnit(nalu []byte) (*Sets, error) {
	sps, err := avc.ParseSPSNALUnit(nalu, false)
	if err != nil {
		return nil, fmt.Errorf("parse SPS: %w", err)
	}
	return &Sets{params: FromSPS(sps)}, nil
}

// FromSPS maps a parsed SPS onto the values this core reads.
func FromSPS(sps *avc.SPS) ports.SequenceParameters {
	p := ports.SequenceParameters{
		Width:           int(sps.Width),
		Height:          int(sps.Height),
		FrameMbsOnly:    sps.FrameMbsOnlyFlag,
		Cropping:        sps.FrameCroppingFlag,
		NumRefFrames:    int(sps.NumRefFrames),
		Log2MaxFrameNum: int(sps.Log2MaxFrameNumMinus4) + 4,
		BitDepthLuma:    int(sps.BitDepthLumaMinus8) + 8,
		BitDepthChroma:  int(sps.BitDepthChromaMinus8) + 8,
		ChromaFormat:    int(sps.ChromaFormatIDC),
	}
	if sps.FrameCroppingFlag {
		p.CropLeft = int(sps.FrameCropLeftOffset)
		p.CropRight = int(sps.FrameCropRightOffset)
		p.CropTop = int(sps.FrameCropTopOffset)
		p.CropBottom = int(sps.FrameCropBottomOffset)
	}
	return p
}

var _ ports.ParameterSets = (*Sets)(nil)
