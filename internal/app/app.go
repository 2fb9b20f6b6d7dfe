// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"

	"poa-core/fastx"
	"poa-core/msa"
	"poa-core/scoring"
	"poa/internal/cli"
	"poa/internal/output"
	"poa/internal/presets"
	"poa/internal/version"
	"poa/internal/writers"
)

// Exit codes: 0 ok, 1 runtime failure, 2 usage/config error, 3 write error.
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
	exitWrite   = 3
)

// RunContext parses argv, builds one consensus per input file and writes the
// results. All user output goes through stdout/stderr so tests can capture
// it; the process exit code is the return value.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("poa")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(outw)
		fs.Usage()
		return exitOK
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if opts.Version {
		fmt.Fprintf(outw, "poa version %s\n", version.Version)
		return exitOK
	}

	if opts.Verbose {
		enableVerbose()
	}

	sc, err := resolveScoring(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	results, err := consensusPerFile(parent, opts, sc, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitRuntime
	}

	in, writeErr := writers.StartConsensusWriter(outw, opts.Output, opts.Header, len(results))
	for _, r := range results {
		in <- r
	}
	close(in)
	err = <-writeErr
	if err == nil {
		err = outw.Flush()
	}
	if writers.IsBrokenPipe(err) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitWrite
	}
	return exitOK
}

// Run is RunContext under a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// enableVerbose raises klog's verbosity to 1 so the per-file progress lines
// are emitted. klog keeps its settings in package globals; registering its
// flags on a throwaway set is how they are adjusted programmatically.
func enableVerbose() {
	var fs flag.FlagSet
	klog.InitFlags(&fs)
	_ = fs.Set("v", "1")
}

func resolveScoring(opts cli.Options) (scoring.Scoring, error) {
	if opts.Preset != "" {
		return presets.Resolve(opts.Preset, opts.PresetFile)
	}
	mode, err := scoring.ParseMode(opts.Mode)
	if err != nil {
		return scoring.Scoring{}, err
	}
	return scoring.Create(mode, opts.Match, opts.Mismatch,
		opts.GapOpen, opts.GapExtend, opts.GapOpen2, opts.GapExtend2)
}

// consensusPerFile fans the input files out over an errgroup, one session
// (and thus one graph) per file, preserving the graph's single-writer rule.
// The result slice keeps input file order regardless of completion order.
func consensusPerFile(parent context.Context, opts cli.Options, sc scoring.Scoring, stderr io.Writer) ([]output.Consensus, error) {
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	results := make([]output.Consensus, len(opts.SeqFiles))
	warnings := make([]string, len(opts.SeqFiles))
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(threads)

	for i, path := range opts.SeqFiles {
		i, path := i, path
		g.Go(func() error {
			res, warn, err := consensusForFile(ctx, opts, sc, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			warnings[i] = warn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Warnings are buffered per file and written only here, after the group
	// is done, so goroutines never share the stderr writer.
	if !opts.Quiet {
		for _, w := range warnings {
			if w != "" {
				fmt.Fprintln(stderr, w)
			}
		}
	}
	return results, nil
}

func consensusForFile(ctx context.Context, opts cli.Options, sc scoring.Scoring, path string) (output.Consensus, string, error) {
	session := msa.NewSession(sc)
	warn := ""

	err := fastx.StreamPathCtx(ctx, path, func(rec fastx.Record) error {
		var w []uint32
		if opts.UseQuality {
			if rec.Qual == nil {
				warn = fmt.Sprintf("warning: %s: --use-quality set but input has no qualities; using unit weights", path)
			} else {
				w = fastx.PhredWeights(rec.Qual)
			}
		}
		return session.AddSequence(ctx, rec.Seq, w)
	})
	if err != nil {
		return output.Consensus{}, "", err
	}

	cons := session.Consensus()
	klog.V(1).Infof("%s: %d sequences -> %d nt consensus (%d graph nodes)",
		path, session.Count(), len(cons), session.Graph().NodeCount())

	return output.Consensus{
		SourceFile: path,
		Sequences:  session.Count(),
		Length:     len(cons),
		Consensus:  string(cons),
	}, warn, nil
}
