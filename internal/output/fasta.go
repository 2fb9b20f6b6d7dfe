// internal/output/fasta.go
package output

import (
	"fmt"
	"io"
)

// StreamFASTA writes each consensus as a FASTA record. Empty consensus
// sequences (zero merged reads) are skipped rather than emitted headless.
func StreamFASTA(w io.Writer, in <-chan Consensus) error {
	for c := range in {
		if c.Consensus == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ">%s_consensus sequences=%d len=%d\n%s\n",
			c.SourceFile, c.Sequences, c.Length, c.Consensus); err != nil {
			return err
		}
	}
	return nil
}
