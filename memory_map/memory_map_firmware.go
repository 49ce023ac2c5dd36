package memory_map

import (
	"regexp"
	"strconv"
)

var firmwareLine = regexp.MustCompile(`(0[xX][0-9a-fA-F]+)-(0[xX][0-9a-fA-F]+)\]\s(.+)`)

// FirmwareMap parses the BIOS provided (e820) physical memory map as printed
// by the kernel at boot, e.g.
//
//	BIOS-e820: [mem 0x0000000000100000-0x00000000bffdffff] usable
type FirmwareMap struct{}

func (FirmwareMap) Name() string {
	return "firmware"
}

func (f FirmwareMap) ParseLine(line string) (MemoryRange, bool, error) {
	m := firmwareLine.FindStringSubmatch(line)
	if m == nil {
		return MemoryRange{}, false, &ParseError{Format: f.Name(), Text: line, Reason: "no address range found"}
	}

	// base 0 accepts the 0x/0X prefix
	start, err := strconv.ParseUint(m[1], 0, 64)
	if err != nil {
		return MemoryRange{}, false, &ParseError{Format: f.Name(), Text: line, Reason: err.Error()}
	}
	end, err := strconv.ParseUint(m[2], 0, 64)
	if err != nil {
		return MemoryRange{}, false, &ParseError{Format: f.Name(), Text: line, Reason: err.Error()}
	}

	return newRange(f.Name(), line, start, end, m[3])
}

func newRange(format, line string, start, end uint64, label string) (MemoryRange, bool, error) {
	if end < start {
		return MemoryRange{}, false, &ParseError{Format: format, Text: line, Reason: "range end precedes start"}
	}
	return MemoryRange{Start: start, End: end, Type: label}, true, nil
}
