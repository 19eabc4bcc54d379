package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/pdesaulniers/vscode-teal/internal/config"
	"github.com/pdesaulniers/vscode-teal/internal/parser"
	"github.com/pdesaulniers/vscode-teal/internal/server"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "teal-language-server",
		Short:         "Language server for Teal",
		Long:          `Serves Teal documents over LSP on stdio, or inspects a file's syntax tree from the command line.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to a TOML config file")
	flags.String("parser", "", fmt.Sprintf("parser backend %v", parser.Backends()))
	flags.String("logfile", "", "path to log file (stderr when empty)")
	flags.CountP("verbose", "v", "increase log verbosity")
	flags.Bool("plain", false, "disable colors in command output")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
	root.AddCommand(newDumpCmd(), newPartsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flags set on the
// command line over it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	cfg := config.Default()

	path, _ := flags.GetString("config")
	if path != "" {
		var err error
		if cfg, err = config.LoadFromTOML(path); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("parser") {
		cfg.Parser, _ = flags.GetString("parser")
	}
	if flags.Changed("logfile") {
		cfg.LogFile, _ = flags.GetString("logfile")
	}
	if flags.Changed("verbose") {
		cfg.LogLevel, _ = flags.GetCount("verbose")
	}
	return cfg, cfg.Validate()
}

func configureLogging(cfg config.Config) {
	var path *string
	if cfg.LogFile != "" {
		path = &cfg.LogFile
	}
	commonlog.Configure(cfg.LogLevel, path)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	configureLogging(cfg)

	log := commonlog.GetLogger("teal.main")
	log.Infof("starting %s %s with the %s parser", server.Name, Version, cfg.Parser)

	srv, err := server.NewServer(cfg, Version)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.RunStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
