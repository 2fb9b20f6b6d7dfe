// internal/output/json.go
package output

import (
	"encoding/json"
	"io"
)

// WriteJSON writes the full result list as one indented JSON array.
func WriteJSON(w io.Writer, list []Consensus) error {
	if list == nil {
		list = []Consensus{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
