// Package convert runs a raw to padded conversion for each supplied memory map.
package convert

import (
	"errors"
	"fmt"
	"io"

	"rawpad/materialize"
	"rawpad/memory_map"
	"rawpad/plan"
	"rawpad/report"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var (
	// ErrNoMapSource is returned when neither a firmware map nor an iomem map is given
	ErrNoMapSource = errors.New("no memory map supplied, use --iomem or --pmap")

	// ErrMissingPath is returned when the input or output path is empty
	ErrMissingPath = errors.New("input and output files are required")
)

// Options configures one invocation
type Options struct {
	InFile    string // Raw capture
	OutFile   string // Padded image to write
	IoMemFile string // Copy of /proc/iomem
	PmapFile  string // Firmware provided physical memory map

	// DryRun builds the plans and writes reports to Report instead of
	// touching InFile and OutFile
	DryRun bool
	Report io.Writer
	Color  bool

	// CopyLimit caps segment length, zero means plan.CopyLimit
	CopyLimit uint64
	// BufferSize is the materializer's IO buffer, zero means the default
	BufferSize int

	Log *logger.Logger
}

type source struct {
	path   string
	format memory_map.MapFormat
}

// Validate checks that opts names everything a run needs
func (opts Options) Validate() error {
	if len(opts.sources()) == 0 {
		return ErrNoMapSource
	}
	if opts.DryRun {
		return nil
	}
	if opts.InFile == "" || opts.OutFile == "" {
		return ErrMissingPath
	}
	return nil
}

// sources returns the map sources in processing order
func (opts Options) sources() []source {
	var s []source
	if opts.PmapFile != "" {
		s = append(s, source{path: opts.PmapFile, format: memory_map.FirmwareMap{}})
	}
	if opts.IoMemFile != "" {
		s = append(s, source{path: opts.IoMemFile, format: memory_map.IoMemMap{}})
	}
	return s
}

// Run builds and executes a plan for every supplied map. Each run rewrites
// OutFile from scratch.
func Run(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	log := opts.Log
	if log == nil {
		log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "raw2padded"))
	}

	sources := opts.sources()
	if len(sources) > 1 && !opts.DryRun {
		log.Warn("Both --pmap and --iomem supplied, the iomem run overwrites ", opts.OutFile)
	}

	builder := plan.NewBuilder(plan.Config{CopyLimit: opts.CopyLimit, Log: log})
	m := materialize.New(materialize.Config{BufferSize: opts.BufferSize, Log: log})

	for _, src := range sources {
		lines, err := memory_map.ReadMapFile(src.path)
		if err != nil {
			return fmt.Errorf("read %s map: %w", src.format.Name(), err)
		}

		p, err := builder.Build(lines, src.format)
		if err != nil {
			return fmt.Errorf("%s: %w", src.path, err)
		}

		if opts.DryRun {
			if opts.Report == nil {
				continue
			}
			fmt.Fprintf(opts.Report, "%s (%s map)\n\n", src.path, src.format.Name())
			if err := report.WritePlan(opts.Report, p, report.PlanOptions{Color: opts.Color}); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			continue
		}

		stats, err := m.RunFiles(opts.InFile, opts.OutFile, p)
		if err != nil {
			return err
		}
		if stats.ShortWrites > 0 {
			log.Warn(fmt.Sprintf("%d short writes, %s is incomplete", stats.ShortWrites, opts.OutFile))
		}
		log.Infoln("Happy analysing:", opts.OutFile)
	}

	return nil
}
