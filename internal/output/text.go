// internal/output/text.go
package output

import (
	"fmt"
	"io"
)

// WriteTSV writes results as a tab-delimited table.
func WriteTSV(w io.Writer, list []Consensus, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, c := range list {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
			c.SourceFile, c.Sequences, c.Length, c.Consensus); err != nil {
			return err
		}
	}
	return nil
}

// StreamTSV writes results from a channel as they arrive.
func StreamTSV(w io.Writer, in <-chan Consensus, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for c := range in {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
			c.SourceFile, c.Sequences, c.Length, c.Consensus); err != nil {
			return err
		}
	}
	return nil
}
