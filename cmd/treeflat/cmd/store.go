package cmd

import (
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ehsanranjbar/treeflat/docstore"
	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/ehsanranjbar/treeflat/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var exampleForStoreCmd = `
  treeflat store put pets/*.json
  treeflat store get 0b5c3ac4-58e8-4b42-a37d-d2ab6b3a5f3c
  treeflat store get 0b5c3ac4-58e8-4b42-a37d-d2ab6b3a5f3c owner.name
  treeflat store query 'owner.name == "ann"'
  treeflat store paths
`

// NewStoreCmd creates the store command group.
func NewStoreCmd(opts *rootOpts) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:     "store",
		Short:   "keep flattened documents in a badger database",
		Example: exampleForStoreCmd,
	}

	storeCmd.AddCommand(
		newStorePutCmd(opts),
		newStoreGetCmd(opts),
		newStoreDeleteCmd(opts),
		newStoreQueryCmd(opts),
		newStorePathsCmd(opts),
	)
	return storeCmd
}

// withStore opens the configured database for the duration of f.
func (opts *rootOpts) withStore(f func(*docstore.Store) error) error {
	db, err := badger.Open(badger.DefaultOptions(opts.cfg.DB).
		WithLogger(badgerLogger{logrus.WithField("component", "badger")}))
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", opts.cfg.DB, err)
	}
	defer db.Close()

	fl := flatten.New(append(opts.cfg.FlattenOptions(), flatten.WithLogger(logrus.StandardLogger()))...)
	s, err := docstore.Open(db, docstore.WithFlattener(fl), docstore.WithLogger(logrus.StandardLogger()))
	if err != nil {
		return err
	}
	defer s.Close()

	return f(s)
}

// badgerLogger routes the badger log to logrus with info messages demoted to debug.
type badgerLogger struct {
	logrus.FieldLogger
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.Debugf(format, args...)
}

func newStorePutCmd(opts *rootOpts) *cobra.Command {
	var (
		format string
		id     string
	)

	putCmd := &cobra.Command{
		Use:   "put FILE...",
		Short: "flatten documents and store them, printing their ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id != "" && len(args) > 1 {
				return fmt.Errorf("--id can only be used with a single document")
			}

			return opts.withStore(func(s *docstore.Store) error {
				for _, name := range args {
					root, err := opts.decode(cmd, name, format)
					if err != nil {
						return err
					}

					docId := uuid.Nil
					if id != "" {
						docId, err = uuid.Parse(id)
						if err != nil {
							return fmt.Errorf("failed to parse id: %w", err)
						}
						err = s.Set(docId, root)
					} else {
						docId, err = s.Put(root)
					}
					if err != nil {
						return fmt.Errorf("failed to store %s: %w", name, err)
					}

					fmt.Fprintln(cmd.OutOrStdout(), docId)
				}
				return nil
			})
		},
	}

	addFlattenFlags(putCmd)
	putCmd.Flags().StringVar(&format, "format", "", "input format, json or yaml (default from the file extension)")
	putCmd.Flags().StringVar(&id, "id", "", "store the document under this id, replacing any previous one")
	return putCmd
}

func newStoreGetCmd(opts *rootOpts) *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get ID [KEY]",
		Short: "print a stored document or one of its flattened keys",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse id: %w", err)
			}

			return opts.withStore(func(s *docstore.Store) error {
				if len(args) == 2 {
					leaf, err := s.GetPath(id, args[1])
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), leafString(leaf))
					return nil
				}

				out, err := s.Get(id)
				if err != nil {
					return err
				}
				return printOutput(cmd.OutOrStdout(), out, opts.cfg.Output)
			})
		},
	}

	getCmd.Flags().StringP(config.KeyOutput, "o", config.OutputTable, "output format, table, json or yaml")
	return getCmd
}

func newStoreDeleteCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "delete stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(s *docstore.Store) error {
				for _, arg := range args {
					id, err := uuid.Parse(arg)
					if err != nil {
						return fmt.Errorf("failed to parse id: %w", err)
					}
					if err := s.Delete(id); err != nil {
						return err
					}
					logrus.Infof("deleted %s", id)
				}
				return nil
			})
		},
	}
}

func newStoreQueryCmd(opts *rootOpts) *cobra.Command {
	var (
		has    bool
		offset int
		limit  int
	)

	queryCmd := &cobra.Command{
		Use:   "query EXPR",
		Short: "print the ids of the stored documents matching an expression",
		Long: `query evaluates EXPR against every stored document. Identities name
flattened keys and _id is the document id, e.g. 'owner.name == "ann"'.
A lone * matches every document. With --has, EXPR is a flattened key and
the documents holding it are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(s *docstore.Store) error {
				var (
					ids []uuid.UUID
					err error
				)
				switch {
				case has:
					ids, err = s.Has(args[0])
				case args[0] == "*":
					ids, err = s.List(docstore.WithOffset(offset), docstore.WithLimit(limit))
				default:
					ids, err = s.Query(args[0], docstore.WithOffset(offset), docstore.WithLimit(limit))
				}
				if err != nil {
					return err
				}

				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}

	queryCmd.Flags().BoolVar(&has, "has", false, "treat EXPR as a flattened key")
	queryCmd.Flags().IntVar(&offset, "offset", 0, "skip the first matching documents")
	queryCmd.Flags().IntVar(&limit, "limit", -1, "print at most this many documents, -1 for all")
	return queryCmd
}

func newStorePathsCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "print every flattened key ever stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(s *docstore.Store) error {
				for _, p := range s.Registry().Paths() {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				n, err := s.Count()
				if err != nil {
					return err
				}
				logrus.Debugf("%d documents", n)
				return nil
			})
		},
	}
}
