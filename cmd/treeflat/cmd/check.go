package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var longCheckCmdDescription = `
check reports every flattened key that more than one path of the document
renders to. Such keys silently overwrite each other when flattening with the
default collision policy.
`

// NewCheckCmd creates the check command.
func NewCheckCmd(opts *rootOpts) *cobra.Command {
	var format string

	checkCmd := &cobra.Command{
		Use:   "check FILE",
		Short: "report keys that collide once a document is flattened",
		Long:  longCheckCmdDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.decode(cmd, args[0], format)
			if err != nil {
				return err
			}

			err = flatten.Collisions(root)
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no collisions")
				return nil
			}

			var merr *multierror.Error
			if !errors.As(err, &merr) {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"key", "paths"})
			for _, e := range merr.Errors {
				var ce *flatten.CollisionError
				if !errors.As(e, &ce) {
					return e
				}

				paths := make([]string, len(ce.Paths))
				for i, p := range ce.Paths {
					paths[i] = fmt.Sprintf("%q", p)
				}
				table.Append([]string{ce.Key, strings.Join(paths, " ")})
			}
			table.Render()

			return fmt.Errorf("%d colliding keys in %s", len(merr.Errors), args[0])
		},
	}

	checkCmd.Flags().StringVar(&format, "format", "", "input format, json or yaml (default from the file extension)")
	return checkCmd
}
