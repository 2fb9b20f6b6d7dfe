// internal/output/consensus.go
package output

import "poa/pkg/api"

// Consensus is one finished per-file result, ready for any writer. The
// wire shape is owned by pkg/api so external consumers can depend on it
// without importing internals.
type Consensus = api.ConsensusV1

// TSVHeader is the canonical header row for text output. Single source of
// truth; writers must not restate it.
const TSVHeader = "source_file\tsequences\tlength\tconsensus"
