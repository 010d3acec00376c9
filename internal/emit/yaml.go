package emit

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// YAMLEmitter writes the tree as YAML.
type YAMLEmitter struct{}

// Emit implements Emitter.
func (YAMLEmitter) Emit(ctx context.Context, tree *psgc.Tree, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "emit: yaml")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return eris.Wrap(err, "emit: encode yaml")
	}
	return eris.Wrap(enc.Close(), "emit: close yaml")
}
