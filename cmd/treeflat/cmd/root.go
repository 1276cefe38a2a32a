package cmd

import (
	"fmt"
	"os"

	"github.com/ehsanranjbar/treeflat/internal/config"
	"github.com/ehsanranjbar/treeflat/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var longRootCmdDescription = `treeflat flattens nested JSON and YAML documents into single-level maps
keyed by dot-joined paths, reports keys that collide once flattened and keeps
flattened documents in a queryable badger database.
`

type rootOpts struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

// Execute runs the treeflat command. It is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.Errorf("treeflat: %v", err)
		os.Exit(1)
	}
}

// NewRootCmd creates the treeflat command with all of its subcommands.
func NewRootCmd() *cobra.Command {
	opts := &rootOpts{v: config.New()}

	rootCmd := &cobra.Command{
		Use:           "treeflat",
		Short:         "Flatten nested documents into dot-joined paths",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file of treeflat")
	rootCmd.PersistentFlags().BoolP(config.KeyDebug, "d", false, "turn on debug mode")
	rootCmd.PersistentFlags().String(config.KeyDB, "treeflat.db", "directory of the document database")
	rootCmd.PersistentFlags().Bool(config.KeyLogFile, false, "also write the log to a daily rotated file")
	rootCmd.PersistentFlags().String(config.KeyLogDir, "", "directory of the log file")
	rootCmd.DisableAutoGenTag = true

	rootCmd.AddCommand(
		NewFlattenCmd(opts),
		NewCheckCmd(opts),
		NewStoreCmd(opts),
	)
	return rootCmd
}

// init binds the flags of the running command and loads the config.
func (opts *rootOpts) init(cmd *cobra.Command) error {
	if err := opts.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := opts.v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}

	cfg, err := config.Load(opts.v, opts.cfgFile)
	if err != nil {
		return err
	}
	opts.cfg = cfg

	if err := logger.Init(cfg.LogOptions()); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	logrus.SetOutput(cmd.ErrOrStderr())
	return nil
}

// addFlattenFlags adds the flags that tune flattening to cmd.
func addFlattenFlags(cmd *cobra.Command) {
	cmd.Flags().Int(config.KeyMaxDepth, 0, "maximum number of path segments, 0 for unbounded")
	cmd.Flags().String(config.KeyCollision, "overwrite", "what to do when two paths flatten to the same key, overwrite or reject")
	cmd.Flags().Bool(config.KeyStringify, false, "render numbers, booleans and nulls as strings")
}
