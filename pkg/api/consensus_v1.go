// pkg/api/consensus_v1.go
package api

// ConsensusV1 is the stable JSON schema for per-file consensus results.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ConsensusV1 struct {
	SourceFile string `json:"source_file"`
	Sequences  int    `json:"sequences"`
	Length     int    `json:"length"`
	Consensus  string `json:"consensus"`
}
