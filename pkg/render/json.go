package render

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/nieomylnieja/goref/pkg/ref"
)

// JSON writes the nodes as an indented JSON array.
// Nodes are expected to be inspected with [ref.EscapeNone].
func JSON(w io.Writer, nodes ...*ref.Node) error {
	if nodes == nil {
		nodes = []*ref.Node{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(nodes); err != nil {
		return errors.Wrap(err, "failed to encode nodes")
	}
	return nil
}
