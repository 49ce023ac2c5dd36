package memory_map

import "fmt"

// ParseError is returned when a map line does not match its format's grammar
type ParseError struct {
	Format string // Name of the format the line was parsed with
	Line   int    // 1-based line number, 0 if unknown
	Text   string // The offending line
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s map line %d %q: %s", e.Format, e.Line, e.Text, e.Reason)
	}
	return fmt.Sprintf("%s map line %q: %s", e.Format, e.Text, e.Reason)
}
