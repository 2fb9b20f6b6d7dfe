// internal/writers/consensus.go
package writers

import (
	"fmt"
	"io"

	"poa/internal/output"
)

// StartConsensusWriter spins up one writer goroutine for a format and
// returns the input channel plus a single-shot error channel that resolves
// when the input channel is closed and everything is flushed.
func StartConsensusWriter(out io.Writer, format string, header bool, bufSize int) (chan<- output.Consensus, <-chan error) {
	if bufSize <= 0 {
		bufSize = 16
	}
	in := make(chan output.Consensus, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case "text":
			err = output.StreamTSV(out, in, header)
		case "fasta":
			err = output.StreamFASTA(out, in)
		case "json":
			var buf []output.Consensus
			for c := range in {
				buf = append(buf, c)
			}
			err = output.WriteJSON(out, buf)
		default:
			// Drain so producers never block on a dead writer.
			for range in {
			}
			err = fmt.Errorf("unsupported output %q", format)
		}
		errCh <- err
	}()

	return in, errCh
}
