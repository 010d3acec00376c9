package emit

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// JSONEmitter writes the tree artifact read back by LoadTree.
type JSONEmitter struct{}

// Emit implements Emitter.
func (JSONEmitter) Emit(ctx context.Context, tree *psgc.Tree, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "emit: json")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(tree), "emit: encode json")
}
