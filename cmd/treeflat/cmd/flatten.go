package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ehsanranjbar/treeflat"
	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/ehsanranjbar/treeflat/internal/config"
	"github.com/ehsanranjbar/treeflat/tree"
	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var exampleForFlattenCmd = `
  treeflat flatten doc.json
  treeflat flatten -o json doc.yaml
  cat doc.json | treeflat flatten --format json -
`

// NewFlattenCmd creates the flatten command.
func NewFlattenCmd(opts *rootOpts) *cobra.Command {
	var format string

	flattenCmd := &cobra.Command{
		Use:     "flatten FILE",
		Short:   "print the flattened form of a document",
		Example: exampleForFlattenCmd,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.decode(cmd, args[0], format)
			if err != nil {
				return err
			}

			f := flatten.New(append(opts.cfg.FlattenOptions(), flatten.WithLogger(logrus.StandardLogger()))...)
			out, err := f.Flatten(root)
			if err != nil {
				return err
			}

			scalars, arrays := out.Leaves()
			logrus.WithFields(logrus.Fields{
				"scalars": scalars,
				"arrays":  arrays,
			}).Debugf("flattened %s", args[0])

			return printOutput(cmd.OutOrStdout(), out, opts.cfg.Output)
		},
	}

	addFlattenFlags(flattenCmd)
	flattenCmd.Flags().StringP(config.KeyOutput, "o", config.OutputTable, "output format, table, json or yaml")
	flattenCmd.Flags().StringVar(&format, "format", "", "input format, json or yaml (default from the file extension)")
	return flattenCmd
}

// decode reads a document from name, or stdin for "-", into a tree.
func (opts *rootOpts) decode(cmd *cobra.Command, name, format string) (*tree.Container, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	f := treeflat.FormatOf(name)
	switch format {
	case "":
	case "json":
		f = treeflat.JSON
	case "yaml":
		f = treeflat.YAML
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}

	var root *tree.Container
	switch f {
	case treeflat.JSON:
		root, err = tree.DecodeJSON(data, opts.cfg.ConvertOptions()...)
	default:
		root, err = tree.DecodeYAML(data, opts.cfg.ConvertOptions()...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return root, nil
}

func printOutput(w io.Writer, out flatten.Output, format string) error {
	switch format {
	case config.OutputJSON:
		bz, err := json.MarshalIndent(out.Any(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", bz)
		return err
	case config.OutputYAML:
		var ms yaml.MapSlice
		for _, k := range out.Keys() {
			ms = append(ms, yaml.MapItem{Key: k, Value: tree.ToAny(out[k])})
		}
		bz, err := yaml.Marshal(ms)
		if err != nil {
			return err
		}
		_, err = w.Write(bz)
		return err
	default:
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"key", "kind", "value"})
		for _, k := range out.Keys() {
			table.Append([]string{k, out[k].Kind().String(), leafString(out[k])})
		}
		table.Render()
		return nil
	}
}

// leafString renders scalars as is and arrays as JSON.
func leafString(leaf tree.Leaf) string {
	if s, ok := leaf.(tree.Scalar); ok {
		return string(s)
	}

	bz, err := json.Marshal(tree.ToAny(leaf))
	if err != nil {
		return fmt.Sprint(tree.ToAny(leaf))
	}
	return string(bz)
}
