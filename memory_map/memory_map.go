package memory_map

import (
	"fmt"
	"sort"
	"strings"
)

// MemoryRange represents one entry of a physical memory map
type MemoryRange struct {
	Start uint64 // First physical address of the range
	End   uint64 // Last physical address of the range (inclusive)
	Type  string // Classification, e.g. "System RAM", "usable", "reserved"
}

// String returns a string representation of the memory range
func (r MemoryRange) String() string {
	return fmt.Sprintf("%x-%x : %s", r.Start, r.End, r.Type)
}

// Size returns the number of bytes covered by the range
func (r MemoryRange) Size() uint64 {
	return r.End - r.Start + 1
}

// Contains reports whether addr lies within the range
func (r MemoryRange) Contains(addr uint64) bool {
	return addr >= r.Start && addr <= r.End
}

// IsRealData reports whether the range holds captured RAM, i.e. bytes that
// are present in a raw capture.
func (r MemoryRange) IsRealData() bool {
	return IsRealDataType(r.Type)
}

// IsRealDataType reports whether a map type label denotes usable RAM.
// Trailing NULs, as emitted by some firmware dumps, are ignored.
func IsRealDataType(label string) bool {
	label = strings.TrimRight(label, "\x00")
	return label == "usable" || label == "System RAM"
}

// MapFormat is a line grammar for one kind of physical memory map
type MapFormat interface {
	// Name returns a short human readable name of the format
	Name() string

	// ParseLine parses a single map line. It returns ok=false for lines the
	// format deliberately ignores, and a *ParseError for lines that do not
	// match the grammar.
	ParseLine(line string) (r MemoryRange, ok bool, err error)
}

// SelectFormat returns the format to use for lines. A first line that
// mentions "mem" is a firmware map header and forces the firmware grammar.
func SelectFormat(lines []string, requested MapFormat) MapFormat {
	if len(lines) > 0 && strings.Contains(lines[0], "mem") {
		return FirmwareMap{}
	}
	return requested
}

// RangeForAddress returns the map range containing addr, or nil.
// ranges must be sorted by Start.
func RangeForAddress(addr uint64, ranges []MemoryRange) *MemoryRange {
	i := sort.Search(len(ranges), func(i int) bool {
		return ranges[i].End >= addr
	})
	if i < len(ranges) && ranges[i].Start <= addr {
		return &ranges[i]
	}

	return nil
}

// IsDataAddress checks if an address is backed by captured RAM
func IsDataAddress(addr uint64, ranges []MemoryRange) bool {
	r := RangeForAddress(addr, ranges)
	return r != nil && r.IsRealData()
}
