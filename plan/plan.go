// Package plan turns a physical memory map into an ordered list of pad and
// copy instructions that rebuild an address-faithful image from a raw capture.
package plan

import (
	"errors"
	"fmt"
)

// CopyLimit is the largest length of a single segment. It bounds the size of
// any one pad or copy operation regardless of how large a hole or RAM range is.
const CopyLimit uint64 = 1 << 30

// FirstPageSize is the size of the low page that is always treated as
// reserved when the map does not describe it on its own.
const FirstPageSize uint64 = 4096

var (
	// ErrOverlap is returned when a map range starts at or before the end of
	// the previous range.
	ErrOverlap = errors.New("memory map ranges overlap or are out of order")
)

// SegmentKind is the instruction type of a segment
type SegmentKind uint8

const (
	Pad  SegmentKind = iota // Write zero bytes
	Copy                    // Copy bytes from the raw capture
)

func (k SegmentKind) String() string {
	switch k {
	case Pad:
		return "pad"
	case Copy:
		return "copy"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Segment is one instruction of a plan
type Segment struct {
	Kind   SegmentKind
	Length uint64 // Number of bytes, 1..CopyLimit
	// Offset is the output offset the segment starts at. It equals the
	// physical address only when the first map range starts at 0.
	Offset uint64

	// EndsRange is set on the last copy segment emitted for a RAM range
	EndsRange bool
}

func (s Segment) String() string {
	return fmt.Sprintf("%s 0x%x+0x%x", s.Kind, s.Offset, s.Length)
}

// Plan is the ordered instruction list for one materialization
type Plan struct {
	Segments []Segment

	// RealDataCount is the number of map ranges classified as RAM that
	// contributed copy segments, counted once per range before splitting.
	RealDataCount int
}

// TotalLength returns the sum of all segment lengths
func (p *Plan) TotalLength() uint64 {
	var n uint64
	for _, s := range p.Segments {
		n += s.Length
	}
	return n
}

// CopyLength returns the number of bytes the plan reads from the capture
func (p *Plan) CopyLength() uint64 {
	return p.lengthOf(Copy)
}

// PadLength returns the number of zero bytes the plan writes
func (p *Plan) PadLength() uint64 {
	return p.lengthOf(Pad)
}

func (p *Plan) lengthOf(kind SegmentKind) uint64 {
	var n uint64
	for _, s := range p.Segments {
		if s.Kind == kind {
			n += s.Length
		}
	}
	return n
}

// OutputLength returns the number of bytes a materializer writes for the
// plan: everything up to and including the segment that closes the last
// RAM range. Trailing padding after it is never written.
func (p *Plan) OutputLength() uint64 {
	remaining := p.RealDataCount
	var n uint64
	for _, s := range p.Segments {
		if remaining == 0 {
			break
		}
		n += s.Length
		if s.Kind == Copy && s.EndsRange {
			remaining--
		}
	}
	return n
}
