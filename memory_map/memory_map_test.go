package memory_map

import (
	"errors"
	"strings"
	"testing"
)

func TestFirmwareMapParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    MemoryRange
		wantErr bool
	}{
		{
			name: "e820 usable",
			line: "BIOS-e820: [mem 0x0000000000100000-0x00000000bffdffff] usable",
			want: MemoryRange{Start: 0x100000, End: 0xbffdffff, Type: "usable"},
		},
		{
			name: "upper case prefix",
			line: "[mem 0X0000000000000000-0X000000000009FBFF] reserved",
			want: MemoryRange{Start: 0, End: 0x9fbff, Type: "reserved"},
		},
		{
			name: "type keeps inner spaces",
			line: "0x00000000000a0000-0x00000000000fffff] ACPI NVS data",
			want: MemoryRange{Start: 0xa0000, End: 0xfffff, Type: "ACPI NVS data"},
		},
		{
			name:    "missing bracket",
			line:    "0x0000000000100000-0x00000000bffdffff usable",
			wantErr: true,
		},
		{
			name:    "iomem style line",
			line:    "00100000-bffdffff : System RAM",
			wantErr: true,
		},
		{
			name:    "end before start",
			line:    "0x2000-0x1000] usable",
			wantErr: true,
		},
		{
			name:    "overflow",
			line:    "0x1-0x1ffffffffffffffff] usable",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := FirmwareMap{}.ParseLine(tt.line)
			if tt.wantErr {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("expected *ParseError, got %v", err)
				}
				if pe.Text != tt.line {
					t.Errorf("error text = %q, want %q", pe.Text, tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				t.Fatal("line was skipped")
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIoMemMapParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     MemoryRange
		wantSkip bool
		wantErr  bool
	}{
		{
			name: "system ram",
			line: "00001000-0009ffff : System RAM",
			want: MemoryRange{Start: 0x1000, End: 0x9ffff, Type: "System RAM"},
		},
		{
			name: "64-bit addresses",
			line: "100000000-43fffffff : System RAM",
			want: MemoryRange{Start: 0x100000000, End: 0x43fffffff, Type: "System RAM"},
		},
		{
			name:     "nested child",
			line:     "  01000000-01e0267f : Kernel code",
			wantSkip: true,
		},
		{
			name:    "garbage",
			line:    "not a map line",
			wantErr: true,
		},
		{
			name:    "firmware style line",
			line:    "0x1000-0x2000] usable",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := IoMemMap{}.ParseLine(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantSkip {
				if ok {
					t.Errorf("expected line to be skipped, got %+v", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsRealDataType(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"usable", true},
		{"System RAM", true},
		{"System RAM\x00\x00", true},
		{"usable\x00", true},
		{"reserved", false},
		{"System RAM ", false},
		{"Usable", false},
		{"ACPI Tables", false},
	}

	for _, tt := range tests {
		if got := IsRealDataType(tt.label); got != tt.want {
			t.Errorf("IsRealDataType(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestSelectFormat(t *testing.T) {
	firmware := []string{"BIOS-e820: [mem 0x0000000000000000-0x000000000009fbff] usable"}
	if f := SelectFormat(firmware, IoMemMap{}); f.Name() != "firmware" {
		t.Errorf("expected firmware format to be forced, got %s", f.Name())
	}

	iomem := []string{"00000000-00000fff : Reserved"}
	if f := SelectFormat(iomem, IoMemMap{}); f.Name() != "iomem" {
		t.Errorf("expected requested format, got %s", f.Name())
	}

	if f := SelectFormat(nil, IoMemMap{}); f.Name() != "iomem" {
		t.Errorf("expected requested format for empty input, got %s", f.Name())
	}
}

func TestReadLinesAndParse(t *testing.T) {
	input := "00000000-00000fff : Reserved\r\n" +
		"00001000-0009ffff : System RAM\n" +
		"  00001000-00001fff : child\n" +
		"000a0000-000fffff : Reserved\n"

	lines, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "00000000-00000fff : Reserved" {
		t.Errorf("carriage return not stripped: %q", lines[0])
	}

	ranges, err := ParseLines(lines, IoMemMap{})
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(ranges))
	}
	if !ranges[1].IsRealData() || ranges[1].Size() != 0x9f000 {
		t.Errorf("unexpected second range %+v", ranges[1])
	}
}

func TestParseLinesReportsLineNumber(t *testing.T) {
	lines := []string{
		"00000000-00000fff : Reserved",
		"bogus",
	}
	_, err := ParseLines(lines, IoMemMap{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("line = %d, want 2", pe.Line)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error message does not name the line: %v", err)
	}
}

func TestRangeForAddress(t *testing.T) {
	ranges := []MemoryRange{
		{Start: 0, End: 0xfff, Type: "reserved"},
		{Start: 0x1000, End: 0x9ffff, Type: "System RAM"},
		{Start: 0x100000, End: 0x1fffff, Type: "System RAM"},
	}

	if r := RangeForAddress(0x1000, ranges); r == nil || r.Start != 0x1000 {
		t.Errorf("expected range at 0x1000, got %v", r)
	}
	if r := RangeForAddress(0x9ffff, ranges); r == nil || r.Start != 0x1000 {
		t.Errorf("expected inclusive end to match, got %v", r)
	}
	if r := RangeForAddress(0xa0000, ranges); r != nil {
		t.Errorf("expected hole, got %v", r)
	}
	if IsDataAddress(0x10, ranges) {
		t.Error("reserved range reported as data")
	}
	if !IsDataAddress(0x150000, ranges) {
		t.Error("system ram reported as hole")
	}
}
