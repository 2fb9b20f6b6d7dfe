// internal/writers/consensus_test.go
package writers

import (
	"fmt"
	"io"
	"strings"
	"syscall"
	"testing"

	"poa/internal/output"
)

func runWriter(t *testing.T, format string, list []output.Consensus) (string, error) {
	t.Helper()
	var sb strings.Builder
	in, errCh := StartConsensusWriter(&sb, format, true, len(list))
	for _, c := range list {
		in <- c
	}
	close(in)
	// The builder is only safe to read once the writer goroutine is done,
	// which the error channel signals.
	err := <-errCh
	return sb.String(), err
}

func TestStartConsensusWriterFormats(t *testing.T) {
	list := []output.Consensus{
		{SourceFile: "a.fasta", Sequences: 3, Length: 4, Consensus: "ACGT"},
	}

	got, err := runWriter(t, "text", list)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, output.TSVHeader) || !strings.Contains(got, "a.fasta\t3\t4\tACGT") {
		t.Fatalf("text output:\n%s", got)
	}

	got, err = runWriter(t, "fasta", list)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, ">a.fasta_consensus") {
		t.Fatalf("fasta output:\n%s", got)
	}

	got, err = runWriter(t, "json", list)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"consensus": "ACGT"`) {
		t.Fatalf("json output:\n%s", got)
	}
}

func TestStartConsensusWriterUnknownFormatDrains(t *testing.T) {
	// Producers must not block even though the format is rejected.
	list := make([]output.Consensus, 64)
	_, err := runWriter(t, "xml", list)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestIsBrokenPipe(t *testing.T) {
	if !IsBrokenPipe(syscall.EPIPE) || !IsBrokenPipe(fmt.Errorf("write: %w", io.ErrClosedPipe)) {
		t.Fatal("broken pipe errors not recognized")
	}
	if IsBrokenPipe(nil) || IsBrokenPipe(io.EOF) {
		t.Fatal("false positive")
	}
}
