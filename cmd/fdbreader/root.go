package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghosecorp/fdbreader/internal/config"
	"github.com/ghosecorp/fdbreader/internal/storage"
	"github.com/ghosecorp/fdbreader/internal/util"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

// app carries the resolved configuration to every subcommand.
type app struct {
	cfg     *config.Config
	envFile string
	logger  *util.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:               "fdbreader <command> FILE [flags]",
		Short:             "Read tables straight out of Firebird database files",
		Long:              "fdbreader decodes Firebird .fdb files without a server.\nThe file is never modified.",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), banner())
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("log-level", a.cfg.LogLevel, "log level: debug, info, warn or error")
	flags.String("log-format", a.cfg.LogFormat, "log format: console or json")
	flags.String("charset", a.cfg.Charset, "charset of text columns: "+charsetNames())
	flags.StringVar(&a.envFile, "env-file", "", "load FDBREADER_* settings from this file (default .env)")

	cmd.AddCommand(
		newTablesCmd(a),
		newColumnsCmd(a),
		newRowsCmd(a),
		newInfoCmd(a),
		newCheckCmd(a),
		newExportCmd(a),
		newShellCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// configure resolves settings: defaults, then the env file and environment,
// then flags given on the command line.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("charset") {
		cfg.Charset, _ = flags.GetString("charset")
	}
	if f := flags.Lookup("workers"); f != nil && f.Changed {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := util.ConfigureLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = util.NewLogger("fdbreader")
	a.logger.Debug("Configuration: level=%s format=%s charset=%s workers=%d",
		cfg.LogLevel, cfg.LogFormat, cfg.Charset, cfg.Workers)
	return nil
}

func (a *app) open(path string) (*storage.Database, error) {
	return storage.Open(path,
		storage.WithLogger(util.NewLogger("storage")),
		storage.WithCharset(a.cfg.CharsetValue()),
	)
}

func charsetNames() string {
	names := ""
	for i, cs := range storage.Charsets() {
		if i > 0 {
			names += ", "
		}
		names += string(cs)
	}
	return names
}
