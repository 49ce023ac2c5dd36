package memory_map

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// ReadMapFile reads all lines of a memory map file
func ReadMapFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadLines(file)
}

// ReadLines splits r into lines without their terminators
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// ParseLines parses every line with format, dropping skipped lines.
// Errors are *ParseError values carrying the 1-based line number.
func ParseLines(lines []string, format MapFormat) ([]MemoryRange, error) {
	var ranges []MemoryRange
	for i, line := range lines {
		r, ok, err := format.ParseLine(line)
		if err != nil {
			return nil, WithLine(err, i+1)
		}
		if !ok {
			continue
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// WithLine sets the line number on a *ParseError, other errors are returned
// unchanged.
func WithLine(err error, line int) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Line = line
	}
	return err
}
