package materialize

import (
	"fmt"
	"os"

	"rawpad/plan"
)

// RunFiles materializes p from the raw capture at inPath into outPath, which
// is created or truncated. Both files are closed before RunFiles returns.
func (m *Materializer) RunFiles(inPath, outPath string, p *plan.Plan) (Stats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrOpenInput, err)
	}
	defer in.Close()

	if err := adviseSequential(in); err != nil {
		m.log.Debugln("Sequential read advice not applied:", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrOpenOutput, err)
	}
	defer out.Close()

	stats, err := m.Run(in, out, p)
	if err != nil {
		return stats, err
	}

	if err := out.Close(); err != nil {
		return stats, fmt.Errorf("close output: %w", err)
	}
	return stats, nil
}
