package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"rawpad/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// HexDumpOptions defines options for customizing the hexdump output
type HexDumpOptions struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// ShowASCII determines whether to show the ASCII representation
	ShowASCII bool

	// StartOffset is the physical address of the first byte
	StartOffset uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int

	// Color enables ANSI colours
	Color bool

	OffsetColor coloransi.ColorCode
	DataColor   coloransi.ColorCode // bytes at captured RAM addresses
	HoleColor   coloransi.ColorCode // bytes at addresses the capture does not cover
	ZeroColor   coloransi.ColorCode

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// Ranges is the memory map used to classify addresses. With no ranges
	// every byte is treated as data.
	Ranges []memory_map.MemoryRange
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() HexDumpOptions {
	return HexDumpOptions{
		BytesPerLine: 16,
		ShowASCII:    true,
		OffsetWidth:  16,
		Color:        true,
		OffsetColor:  coloransi.Cyan,
		DataColor:    coloransi.Green,
		HoleColor:    coloransi.Red,
		ZeroColor:    coloransi.BrightBlack,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options HexDumpOptions) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options HexDumpOptions) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := min(offset+options.BytesPerLine, len(data))
		formatLine(writer, data[offset:end], uint64(offset)+options.StartOffset, options)
		lineCount++
	}
}

// formatLine formats a single line of the hex dump
//
//	0000000000001000  01 02 03 04 05 06 07 08 | 09 0a 0b 0c 0d 0e 0f 10 | ........ ........
func formatLine(writer io.Writer, data []byte, addr uint64, options HexDumpOptions) {
	offsetStr := fmt.Sprintf("%0"+strconv.Itoa(options.OffsetWidth)+"x", addr)
	fmt.Fprint(writer, paint(options, options.OffsetColor, offsetStr), "  ")

	half := options.BytesPerLine / 2
	hexParts := make([]string, 0, options.BytesPerLine)
	for i, b := range data {
		hexParts = append(hexParts, paint(options, byteColor(options, addr+uint64(i), b), fmt.Sprintf("%02x", b)))
	}
	for i := len(data); i < options.BytesPerLine; i++ {
		hexParts = append(hexParts, "  ")
	}

	if options.BytesPerLine >= 8 {
		fmt.Fprint(writer, strings.Join(hexParts[:half], " "), " | ", strings.Join(hexParts[half:], " "))
	} else {
		fmt.Fprint(writer, strings.Join(hexParts, " "))
	}

	if options.ShowASCII {
		fmt.Fprint(writer, " | ")
		for i, b := range data {
			if options.BytesPerLine >= 8 && i == half {
				fmt.Fprint(writer, " ")
			}
			c := rune(b)
			if b == 0 || c > unicode.MaxASCII || !unicode.IsPrint(c) {
				fmt.Fprint(writer, paint(options, byteColor(options, addr+uint64(i), b), "."))
			} else {
				fmt.Fprint(writer, paint(options, byteColor(options, addr+uint64(i), b), string(c)))
			}
		}
	}

	fmt.Fprintln(writer)
}

func byteColor(options HexDumpOptions, addr uint64, b byte) coloransi.ColorCode {
	if len(options.Ranges) > 0 && !memory_map.IsDataAddress(addr, options.Ranges) {
		return options.HoleColor
	}
	if b == 0 {
		return options.ZeroColor
	}
	return options.DataColor
}

func paint(options HexDumpOptions, color coloransi.ColorCode, s string) string {
	if !options.Color {
		return s
	}
	return coloransi.Foreground(color, s)
}

// HexdumpRegion dumps data read from a padded image at physical address addr,
// colouring hole bytes by the memory map
func HexdumpRegion(data []byte, addr uint64, ranges []memory_map.MemoryRange) string {
	options := DefaultOptions()
	options.StartOffset = addr
	options.Ranges = ranges
	return Dump(data, options)
}
