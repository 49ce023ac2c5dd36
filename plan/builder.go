package plan

import (
	"fmt"

	"rawpad/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Config controls plan construction
type Config struct {
	// CopyLimit caps segment length. Zero means CopyLimit.
	CopyLimit uint64

	Log *logger.Logger
}

// Builder builds plans from memory map lines
type Builder struct {
	limit uint64
	log   *logger.Logger
}

// NewBuilder creates a new Builder
func NewBuilder(cfg Config) *Builder {
	b := &Builder{
		limit: cfg.CopyLimit,
		log:   cfg.Log,
	}
	if b.limit == 0 || b.limit > CopyLimit {
		b.limit = CopyLimit
	}
	if b.log == nil {
		b.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "plan"))
	}
	return b
}

// Build parses lines with format and returns the plan that lays the raw
// capture out at its physical addresses. No plan is returned when any line
// fails to parse.
func (b *Builder) Build(lines []string, format memory_map.MapFormat) (*Plan, error) {
	format = memory_map.SelectFormat(lines, format)
	b.log.Infoln("Building file structure from", format.Name(), "map with", len(lines), "lines")

	st := &buildState{limit: b.limit, plan: &Plan{}}
	first := true

	for i, line := range lines {
		r, ok, err := format.ParseLine(line)
		if err != nil {
			return nil, memory_map.WithLine(err, i+1)
		}
		if !ok {
			b.log.Debugln("Skipping nested line", i+1)
			continue
		}

		if err := b.addRange(st, r, first); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		first = false
	}

	b.log.Infoln("Completed file structure:", len(st.plan.Segments), "segments,",
		st.plan.RealDataCount, "RAM ranges, estimated size", fmt.Sprintf("0x%x", st.plan.OutputLength()), "bytes")

	return st.plan, nil
}

type buildState struct {
	limit  uint64
	plan   *Plan
	offset uint64

	prevEnd uint64 // End of the previous map range
	lastEnd uint64 // Last address covered by emitted segments
}

func (b *Builder) addRange(st *buildState, r memory_map.MemoryRange, first bool) error {
	start := r.Start

	if len(st.plan.Segments) > 0 {
		if start <= st.prevEnd {
			return fmt.Errorf("%w: 0x%x-0x%x after end 0x%x", ErrOverlap, r.Start, r.End, st.prevEnd)
		}
		if start > st.lastEnd+1 {
			hole := start - st.lastEnd - 1
			b.log.Debugln("Boundary mismatch, padding", fmt.Sprintf("0x%x", hole), "bytes")
			st.emit(Pad, hole, false)
		} else if start <= st.lastEnd {
			// the first page pad already covers the head of this range,
			// clipping keeps later offsets equal to their addresses
			start = st.lastEnd + 1
		}
	}

	if first && start == 0 && r.End != FirstPageSize-1 {
		b.log.Debugln("Correcting map of the first", FirstPageSize, "bytes")
		st.emit(Pad, FirstPageSize, false)
		start = FirstPageSize
	}

	st.prevEnd = r.End
	if start > r.End {
		st.lastEnd = start - 1
		b.log.Debugln("Range", r.String(), "lies within the first page, nothing to add")
		return nil
	}
	st.lastEnd = r.End

	length := r.End - start + 1
	if r.IsRealData() {
		st.plan.RealDataCount++
		b.log.Debugln("Added", fmt.Sprintf("0x%x", length), "bytes of file data")
		st.emit(Copy, length, true)
	} else {
		b.log.Debugln("Added", fmt.Sprintf("0x%x", length), "bytes of padding")
		st.emit(Pad, length, false)
	}
	return nil
}

// emit appends length bytes of kind, split into segments of at most limit
// bytes. endsRange marks the final piece.
func (st *buildState) emit(kind SegmentKind, length uint64, endsRange bool) {
	for length > 0 {
		n := min(length, st.limit)
		length -= n
		st.plan.Segments = append(st.plan.Segments, Segment{
			Kind:      kind,
			Length:    n,
			Offset:    st.offset,
			EndsRange: endsRange && length == 0,
		})
		st.offset += n
	}
}
