package report

import (
	"fmt"
	"io"

	"rawpad/plan"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// PlanOptions controls plan rendering
type PlanOptions struct {
	Color bool
}

// PlanTable builds a table with one row per segment. Segments after the last
// RAM range, which a materializer never writes, are marked as skipped.
func PlanTable(p *plan.Plan, opts PlanOptions) *Table {
	kindCol := ColumnSpec{Header: "KIND"}
	if opts.Color {
		kindCol.FormatFunc = colorKind
	}

	t := NewTable(
		ColumnSpec{Header: "#", AlignRight: true},
		kindCol,
		ColumnSpec{Header: "OFFSET", AlignRight: true},
		ColumnSpec{Header: "LENGTH", AlignRight: true},
		ColumnSpec{Header: "NOTE"},
	)

	remaining := p.RealDataCount
	for i, seg := range p.Segments {
		note := ""
		switch {
		case remaining <= 0:
			note = "skipped"
		case seg.Kind == plan.Copy && seg.EndsRange:
			note = "end of range"
			remaining--
		}
		t.AddRow(
			fmt.Sprint(i),
			seg.Kind.String(),
			fmt.Sprintf("0x%x", seg.Offset),
			fmt.Sprintf("0x%x", seg.Length),
			note,
		)
	}

	return t
}

// WritePlan renders the segment table followed by a summary
func WritePlan(w io.Writer, p *plan.Plan, opts PlanOptions) error {
	if err := PlanTable(p, opts).Render(w); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d segments, %d RAM ranges\ncopy   0x%x bytes\npad    0x%x bytes\noutput 0x%x bytes\n",
		len(p.Segments), p.RealDataCount, p.CopyLength(), p.PadLength(), p.OutputLength())
	return err
}

func colorKind(value string) string {
	if value == plan.Copy.String() {
		return coloransi.Foreground(coloransi.Green, value)
	}
	return coloransi.Foreground(coloransi.BrightBlack, value)
}
