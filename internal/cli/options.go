// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"poa/internal/cliutil"
	"poa/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	SeqFiles   []string
	UseQuality bool

	// Scoring
	Mode       string
	Match      int
	Mismatch   int
	GapOpen    int
	GapExtend  int
	GapOpen2   int
	GapExtend2 int
	Preset     string
	PresetFile string

	// Performance
	Threads int

	// Output
	Output string // text | json | fasta
	Header bool   // true unless --no-header

	// Misc
	Quiet   bool
	Verbose bool
	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: consensus sequences from noisy reads via partial-order alignment

One consensus is produced per input file (FASTA or FASTQ, gzip and '-' ok).

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// stringSlice collects repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// ParseArgs registers and parses all flags, returning an Options struct.
// Positionals (and globs among them) are additional input files.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options

	var seq stringSlice
	fs.Var(&seq, "sequences", "read file(s), FASTA/FASTQ (repeatable or '-') [*]")
	fs.Var(&seq, "s", "alias of --sequences")
	fs.BoolVar(&opt.UseQuality, "use-quality", false, "weight symbols by FASTQ quality [false]")

	fs.StringVar(&opt.Mode, "mode", "global", "alignment mode: local | global | semi-global [global]")
	fs.IntVar(&opt.Match, "match", 5, "match score (positive) [5]")
	fs.IntVar(&opt.Mismatch, "mismatch", -4, "mismatch score [-4]")
	fs.IntVar(&opt.GapOpen, "gap-open", -8, "gap open penalty (<=0) [-8]")
	fs.IntVar(&opt.GapExtend, "gap-extend", -6, "gap extension penalty (<=0) [-6]")
	fs.IntVar(&opt.GapOpen2, "gap-open2", -10, "second-function gap open penalty (<=0) [-10]")
	fs.IntVar(&opt.GapExtend2, "gap-extend2", -4, "second-function gap extension penalty (<=0) [-4]")
	fs.StringVar(&opt.Preset, "preset", "", "named scoring preset (overrides scoring flags)")
	fs.StringVar(&opt.PresetFile, "preset-file", "", "YAML file with extra presets")

	fs.IntVar(&opt.Threads, "threads", 0, "files processed in parallel (0=all CPUs) [0]")
	fs.IntVar(&opt.Threads, "t", 0, "alias of --threads")

	fs.StringVar(&opt.Output, "output", "text", "output: text | json | fasta [text]")
	fs.StringVar(&opt.Output, "o", "text", "alias of --output")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line [false]")

	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress non-essential messages [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Verbose, "verbose", false, "log per-file progress to stderr [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&opt.Version, "v", false, "alias of --version")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	opt.Header = !noHeader
	opt.SeqFiles = append(opt.SeqFiles, seq...)

	exp, err := cliutil.ExpandPositionals(posArgs)
	if err != nil {
		return opt, err
	}
	opt.SeqFiles = append(opt.SeqFiles, exp...)

	if opt.Version {
		return opt, nil
	}
	return opt, Validate(&opt)
}

// Validate applies the CLI invariants that do not need the scoring package.
// Scoring parameter validation proper happens in scoring.Create, so that the
// CLI and library reject the same configurations with the same reasons.
func Validate(o *Options) error {
	if len(o.SeqFiles) == 0 {
		return errors.New("at least one sequence file is required")
	}
	if o.Threads < 0 {
		return errors.New("--threads must be >= 0")
	}
	switch o.Output {
	case "text", "json", "fasta":
	default:
		return fmt.Errorf("invalid --output %q", o.Output)
	}
	if o.Preset == "" && o.PresetFile != "" {
		return errors.New("--preset-file without --preset has no effect; name a preset")
	}
	return nil
}
