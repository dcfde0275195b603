package export

import (
	"encoding/json"
	"io"

	"github.com/rossv/designstorms-sub000/internal/storm"
)

// Document is the JSON export of one storm.
type Document struct {
	Params storm.Params `json:"params"`
	Stats  storm.Stats  `json:"stats"`
	Steps  int          `json:"steps"`
	storm.Result
}

// NewDocument bundles a storm with its request and summary.
func NewDocument(p storm.Params, r storm.Result) Document {
	return Document{Params: p, Stats: r.Stats(), Steps: r.Len(), Result: r}
}

// WriteJSON writes an indented Document.
func WriteJSON(w io.Writer, p storm.Params, r storm.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(p, r))
}
