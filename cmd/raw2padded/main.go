package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"rawpad/convert"
)

// stringFlag registers a flag under a long and a short name
func stringFlag(fs *flag.FlagSet, p *string, long, short, usage string) {
	fs.StringVar(p, long, "", usage)
	fs.StringVar(p, short, "", "shorthand for --"+long)
}

func newFlagSet(opts *convert.Options) *flag.FlagSet {
	fs := flag.NewFlagSet("raw2padded", flag.ContinueOnError)
	stringFlag(fs, &opts.InFile, "infile", "i", "Raw memory image (required)")
	stringFlag(fs, &opts.OutFile, "outfile", "o", "Padded file to output (required)")
	stringFlag(fs, &opts.IoMemFile, "iomem", "m", "Copy of the original /proc/iomem")
	stringFlag(fs, &opts.PmapFile, "pmap", "pm", "BIOS provided physical memory map")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print the file structure without writing anything")
	fs.BoolVar(&opts.DryRun, "n", false, "shorthand for --dry-run")
	return fs
}

// run parses args and converts. Usage is printed for missing arguments.
func run(args []string, stdout io.Writer) error {
	var opts convert.Options
	fs := newFlagSet(&opts)
	fs.SetOutput(stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if opts.DryRun {
		opts.Report = stdout
		opts.Color = stdout == os.Stdout
	}

	err := convert.Run(opts)
	if errors.Is(err, convert.ErrMissingPath) || errors.Is(err, convert.ErrNoMapSource) {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		fs.Usage()
	}
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) && !errors.Is(err, convert.ErrMissingPath) && !errors.Is(err, convert.ErrNoMapSource) {
			fmt.Printf("Error: %v\n", err)
		}
		os.Exit(1)
	}
}
