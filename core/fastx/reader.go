// core/fastx/reader.go
package fastx

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one parsed sequence. Qual is nil for FASTA input; for FASTQ it
// holds the raw Phred+33 quality string, same length as Seq.
type Record struct {
	ID   string
	Seq  []byte
	Qual []byte
}

// StreamCtx parses FASTA or FASTQ from r (decided by the first record
// marker, '>' vs '@') and hands each record to emit. Cancelable between
// records. Symbols are uppercased; line folding within FASTA records is
// handled, FASTQ records are taken as strict 4-line blocks.
func StreamCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	br := bufio.NewReaderSize(r, 64*1024)
	first, err := br.Peek(1)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	switch first[0] {
	case '>':
		return streamFASTA(ctx, br, emit)
	case '@':
		return streamFASTQ(ctx, br, emit)
	default:
		return fmt.Errorf("fastx: input starts with %q, want '>' (FASTA) or '@' (FASTQ)", first[0])
	}
}

// StreamPathCtx is StreamCtx over a path ("-" = stdin, gzip transparent).
func StreamPathCtx(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	return StreamCtx(ctx, rc, emit)
}

// ReadAllPath collects every record in path.
func ReadAllPath(ctx context.Context, path string) ([]Record, error) {
	var out []Record
	err := StreamPathCtx(ctx, path, func(rec Record) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func streamFASTA(ctx context.Context, br *bufio.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	var (
		id   string
		seen bool
		seq  []byte
	)
	flush := func() error {
		if !seen {
			return nil
		}
		return emit(Record{ID: id, Seq: seq})
	}
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id = headerID(line[1:])
			seen = true
			seq = nil
			continue
		}
		if !seen {
			return fmt.Errorf("fastx: sequence data before first FASTA header")
		}
		seq = append(seq, bytes.ToUpper(line)...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fastx: scan: %w", err)
	}
	return flush()
}

func streamFASTQ(ctx context.Context, br *bufio.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	line := func() ([]byte, bool) {
		for sc.Scan() {
			l := bytes.TrimSpace(sc.Bytes())
			if len(l) > 0 {
				return l, true
			}
		}
		return nil, false
	}

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		head, ok := line()
		if !ok {
			break
		}
		if head[0] != '@' {
			return fmt.Errorf("fastx: record %d: header %q does not start with '@'", n, head)
		}
		seq, ok1 := line()
		plus, ok2 := line()
		qual, ok3 := line()
		if !ok1 || !ok2 || !ok3 {
			return fmt.Errorf("fastx: record %d: truncated FASTQ block", n)
		}
		if plus[0] != '+' {
			return fmt.Errorf("fastx: record %d: separator %q does not start with '+'", n, plus)
		}
		if len(qual) != len(seq) {
			return fmt.Errorf("fastx: record %d: %d quality values for %d symbols", n, len(qual), len(seq))
		}
		rec := Record{
			ID:   headerID(head[1:]),
			Seq:  bytes.ToUpper(append([]byte(nil), seq...)),
			Qual: append([]byte(nil), qual...),
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fastx: scan: %w", err)
	}
	return nil
}

// headerID keeps the token up to the first whitespace.
func headerID(b []byte) string {
	if i := bytes.IndexAny(b, " \t"); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// PhredWeights maps a Phred+33 quality string onto per-symbol alignment
// weights. Values below '!' clamp to zero rather than going negative.
func PhredWeights(qual []byte) []uint32 {
	if qual == nil {
		return nil
	}
	w := make([]uint32, len(qual))
	for i, q := range qual {
		if q > '!' {
			w[i] = uint32(q - '!')
		}
	}
	return w
}
