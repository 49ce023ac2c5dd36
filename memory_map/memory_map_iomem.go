package memory_map

import (
	"regexp"
	"strconv"
	"strings"
)

var iomemLine = regexp.MustCompile(`([0-9a-fA-F]+)-([0-9a-fA-F]+)\s:\s(.+)`)

// IoMemMap parses the kernel's /proc/iomem. Only top level entries are used;
// indented lines describe children of the entry above and are skipped.
//
//	00100000-bffdffff : System RAM
//	  01000000-01e0267f : Kernel code
type IoMemMap struct{}

func (IoMemMap) Name() string {
	return "iomem"
}

func (f IoMemMap) ParseLine(line string) (MemoryRange, bool, error) {
	if strings.HasPrefix(line, " ") {
		return MemoryRange{}, false, nil
	}

	m := iomemLine.FindStringSubmatch(line)
	if m == nil {
		return MemoryRange{}, false, &ParseError{Format: f.Name(), Text: line, Reason: "no address range found"}
	}

	start, err := strconv.ParseUint(m[1], 16, 64)
	if err != nil {
		return MemoryRange{}, false, &ParseError{Format: f.Name(), Text: line, Reason: err.Error()}
	}
	end, err := strconv.ParseUint(m[2], 16, 64)
	if err != nil {
		return MemoryRange{}, false, &ParseError{Format: f.Name(), Text: line, Reason: err.Error()}
	}

	return newRange(f.Name(), line, start, end, m[3])
}
