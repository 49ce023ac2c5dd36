// Package materialize executes a plan against a raw memory capture and writes
// the padded image.
package materialize

import (
	"errors"
	"fmt"
	"io"

	"rawpad/plan"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// DefaultBufferSize is the size of the reusable pad and copy buffer
const DefaultBufferSize = 4 * 1024 * 1024

var (
	// ErrInputExhausted is returned when the raw capture ends before a copy
	// segment is satisfied.
	ErrInputExhausted = errors.New("raw capture ended before all file data was copied")

	// ErrOpenInput is returned when the raw capture cannot be opened
	ErrOpenInput = errors.New("failed to open input file")

	// ErrOpenOutput is returned when the padded image cannot be created
	ErrOpenOutput = errors.New("failed to open output file")
)

// Config controls materialization
type Config struct {
	// BufferSize is the largest single read or write. Zero means DefaultBufferSize.
	BufferSize int

	Log *logger.Logger
}

// Stats describes a finished run
type Stats struct {
	PaddedBytes     uint64
	CopiedBytes     uint64
	SegmentsWritten int
	SegmentsSkipped int // Trailing segments left out after the last RAM range
	ShortWrites     int
}

// Materializer writes padded images
type Materializer struct {
	bufSize int
	log     *logger.Logger
}

// New creates a new Materializer
func New(cfg Config) *Materializer {
	m := &Materializer{
		bufSize: cfg.BufferSize,
		log:     cfg.Log,
	}
	if m.bufSize <= 0 {
		m.bufSize = DefaultBufferSize
	}
	if m.log == nil {
		m.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "materialize"))
	}
	return m
}

// Run executes p, reading file data sequentially from in and writing the
// padded image sequentially to out. It stops as soon as every RAM range of
// the plan has been copied, so trailing padding is never written.
func (m *Materializer) Run(in io.Reader, out io.Writer, p *plan.Plan) (Stats, error) {
	var stats Stats

	m.log.Infoln("Commencing construction of new file:", len(p.Segments), "segments")

	// pad segments only ever read from buf, copy segments overwrite it
	buf := make([]byte, m.bufSize)
	zeroed := true
	remaining := p.RealDataCount

	for i, seg := range p.Segments {
		if remaining <= 0 {
			stats.SegmentsSkipped = len(p.Segments) - i
			m.log.Infoln("No more RAM ranges recorded, skipping", stats.SegmentsSkipped, "remaining segments")
			break
		}

		switch seg.Kind {
		case plan.Pad:
			if !zeroed {
				clear(buf)
				zeroed = true
			}
			m.pad(out, buf, seg, &stats)

		case plan.Copy:
			zeroed = false
			if err := m.copy(in, out, buf, seg, &stats); err != nil {
				return stats, err
			}
			if seg.EndsRange {
				remaining--
			}

		default:
			return stats, fmt.Errorf("segment %d: unknown kind %s", i, seg.Kind)
		}

		stats.SegmentsWritten++
	}

	m.log.Infoln("Padded file has been constructed:", fmt.Sprintf("0x%x", stats.CopiedBytes), "bytes copied,",
		fmt.Sprintf("0x%x", stats.PaddedBytes), "bytes padded")

	return stats, nil
}

func (m *Materializer) pad(out io.Writer, zeros []byte, seg plan.Segment, stats *Stats) {
	var written uint64
	for left := seg.Length; left > 0; {
		n := min(left, uint64(len(zeros)))
		written += m.write(out, zeros[:n], "PADDING", stats)
		left -= n
	}

	stats.PaddedBytes += written
	m.log.Debugln("Wrote", fmt.Sprintf("0x%x", written), "bytes of padding at", fmt.Sprintf("0x%x", seg.Offset))
}

func (m *Materializer) copy(in io.Reader, out io.Writer, buf []byte, seg plan.Segment, stats *Stats) error {
	var written uint64
	for left := seg.Length; left > 0; {
		n := min(left, uint64(len(buf)))
		got, err := io.ReadFull(in, buf[:n])
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: copy at 0x%x needs 0x%x bytes, got 0x%x",
					ErrInputExhausted, seg.Offset, seg.Length, seg.Length-left+uint64(got))
			}
			return fmt.Errorf("read input for copy at 0x%x: %w", seg.Offset, err)
		}

		written += m.write(out, buf[:n], "COPY", stats)
		left -= n
	}

	stats.CopiedBytes += written
	m.log.Debugln("Copied", fmt.Sprintf("0x%x", written), "bytes of file data to", fmt.Sprintf("0x%x", seg.Offset))
	return nil
}

// write performs a single write. Short writes are reported and the lost
// bytes are not retried.
func (m *Materializer) write(out io.Writer, data []byte, what string, stats *Stats) uint64 {
	n, err := out.Write(data)
	if n < len(data) {
		stats.ShortWrites++
		m.log.Warn(fmt.Sprintf("%s: write validation error, requested %d wrote %d: %v", what, len(data), n, err))
	}
	return uint64(n)
}
