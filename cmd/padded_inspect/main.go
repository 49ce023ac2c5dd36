package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"rawpad/hexdump"
	"rawpad/memory_map"
)

func main() {
	imageFlag := flag.String("image", "", "Padded memory image")
	var iomemPath, pmapPath string
	flag.StringVar(&iomemPath, "iomem", "", "Copy of /proc/iomem the image was built from")
	flag.StringVar(&iomemPath, "m", "", "shorthand for --iomem")
	flag.StringVar(&pmapPath, "pmap", "", "BIOS provided physical memory map the image was built from")
	flag.StringVar(&pmapPath, "pm", "", "shorthand for --pmap")
	addrFlag := flag.String("addr", "", "Physical address to read from (hex)")
	sizeFlag := flag.Int("size", 256, "Number of bytes to hexdump")
	flag.Parse()

	if *imageFlag == "" {
		fmt.Println("Error: --image is required")
		flag.Usage()
		os.Exit(1)
	}

	ranges, err := loadRanges(iomemPath, pmapPath)
	if err != nil {
		fmt.Printf("Error loading memory map: %v\n", err)
		os.Exit(1)
	}

	// Without an address, print the map summary
	if *addrFlag == "" {
		fmt.Println("Memory Map:")
		for _, r := range ranges {
			fmt.Printf("  %016x - %016x %-6s %s\n", r.Start, r.End, kindOf(r), r.Type)
		}
		return
	}

	addr, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(*addrFlag), "0x"), 16, 64)
	if err != nil {
		fmt.Printf("Error parsing address: %v\n", err)
		os.Exit(1)
	}
	if *sizeFlag <= 0 {
		fmt.Println("Error: --size must be positive")
		os.Exit(1)
	}

	offset, err := imageOffset(addr, ranges)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	data, err := readAt(*imageFlag, offset, *sizeFlag)
	if err != nil {
		fmt.Printf("Error reading image at 0x%x: %v\n", addr, err)
		os.Exit(1)
	}

	if r := memory_map.RangeForAddress(addr, ranges); r != nil {
		fmt.Printf("0x%x is in %s (%s)\n", addr, r.String(), kindOf(*r))
	} else if len(ranges) > 0 {
		fmt.Printf("0x%x is not described by the memory map\n", addr)
	}

	fmt.Printf("\nHexdump at 0x%x (%d bytes):\n", addr, len(data))
	fmt.Print(hexdump.HexdumpRegion(data, addr, ranges))
}

func kindOf(r memory_map.MemoryRange) string {
	if r.IsRealData() {
		return "data"
	}
	return "hole"
}

func loadRanges(iomemPath, pmapPath string) ([]memory_map.MemoryRange, error) {
	path, format := iomemPath, memory_map.MapFormat(memory_map.IoMemMap{})
	if pmapPath != "" {
		path, format = pmapPath, memory_map.FirmwareMap{}
	}
	if path == "" {
		return nil, nil
	}

	lines, err := memory_map.ReadMapFile(path)
	if err != nil {
		return nil, err
	}
	return memory_map.ParseLines(lines, memory_map.SelectFormat(lines, format))
}

// imageOffset maps a physical address to its offset in the padded image.
// The image starts at the first map range, which is address 0 for maps that
// describe the first page.
func imageOffset(addr uint64, ranges []memory_map.MemoryRange) (uint64, error) {
	if len(ranges) == 0 {
		return addr, nil
	}
	base := ranges[0].Start
	if addr < base {
		return 0, fmt.Errorf("address 0x%x precedes the first map range at 0x%x", addr, base)
	}
	return addr - base, nil
}

func readAt(path string, offset uint64, size int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data := make([]byte, size)
	n, err := f.ReadAt(data, int64(offset))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("address beyond end of image")
	}
	return data[:n], nil
}
