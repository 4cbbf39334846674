package cli

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/nobl9/govy/pkg/govy"
	"github.com/nobl9/govy/pkg/rules"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nieomylnieja/goref/pkg/ref"
	"github.com/nieomylnieja/goref/pkg/render"
)

const (
	formatText = "text"
	formatHTML = "html"
	formatJSON = "json"
)

type dumpOptions struct {
	Format string
}

var dumpOptionsValidator = govy.New(
	govy.For(func(o dumpOptions) string { return o.Format }).
		WithName("format").
		Required().
		Rules(rules.OneOf(formatText, formatHTML, formatJSON)),
).
	WithName("dump options")

func newDumpCmd(root *rootOptions) *cobra.Command {
	opts := dumpOptions{Format: formatText}
	cmd := &cobra.Command{
		Use:   "dump [files...]",
		Short: "Describe JSON or YAML documents",
		Long: `Reads JSON (.json) or YAML (.yaml, .yml) documents and describes every one of them.
Files with other extensions are read as YAML, which JSON is a subset of.
Standard input is read when no files are given.`,
		Example: `  goref dump config.yaml
  kubectl get pods -o json | goref dump --format html > pods.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dumpOptionsValidator.Validate(opts); err != nil {
				return err
			}
			docs, err := readDocuments(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return opts.run(cmd.OutOrStdout(), root.log, docs)
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", formatText, "Output format, one of: text, html, json")
	return cmd
}

func (o dumpOptions) run(out io.Writer, log logr.Logger, docs []document) error {
	escaper := ref.EscapeNone
	if o.Format == formatHTML {
		escaper = ref.EscapeHTML
	}
	inspector, err := ref.New(ref.WithEscaper(escaper), ref.WithLogger(log))
	if err != nil {
		return err
	}

	nodes := make([]*ref.Node, 0, len(docs))
	for _, doc := range docs {
		log.V(1).Info("inspecting document", "source", doc.source, "index", doc.index)
		nodes = append(nodes, inspector.Inspect(doc.value))
	}

	switch o.Format {
	case formatText:
		return render.Text(out, nodes...)
	case formatHTML:
		// Every dump produces a standalone page.
		render.DefaultAssets.Reset()
		return render.HTML(out, nodes...)
	case formatJSON:
		return render.JSON(out, nodes...)
	default:
		return errors.Errorf("unsupported format: %s", o.Format)
	}
}
