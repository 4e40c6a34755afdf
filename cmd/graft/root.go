package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/graft/internal/cli"
	"github.com/aretw0/graft/internal/config"
	"github.com/aretw0/graft/pkg/plugins"
)

// app holds state shared by every subcommand once configuration is loaded.
type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "graft",
		Short: "graft applies ordered plugin pipelines to syntax trees",
		Long: `graft loads plugins, lets them configure the parser, parses a serialized
syntax tree (JSON or YAML) and runs every plugin's visitors in a single traversal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	// Persistent flags (available to all commands)
	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "graft.yaml", "Configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "Dotenv file loaded before GRAFT__ variables")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides log.level")

	root.AddCommand(
		newRunCmd(a),
		newCheckCmd(a),
		newPrintCmd(a),
		newPluginsCmd(a),
		newExplainCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := cli.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// refs returns the plugins given with --plugin, or the configured list when
// the flag is absent.
func (a *app) refs(flags []string) ([]plugins.Ref, error) {
	if len(flags) == 0 {
		return a.cfg.Plugins, nil
	}
	refs := make([]plugins.Ref, 0, len(flags))
	for _, f := range flags {
		ref, err := parseRef(f)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// parseRef reads "name" or "name=<options>", where options is a YAML or JSON
// mapping such as inline-env={env: {NODE_ENV: production}}.
func parseRef(s string) (plugins.Ref, error) {
	name, raw, hasOptions := strings.Cut(s, "=")
	ref := plugins.Ref{Name: strings.TrimSpace(name)}
	if ref.Name == "" {
		return ref, fmt.Errorf("invalid --plugin %q: missing name", s)
	}
	if hasOptions {
		if err := yaml.Unmarshal([]byte(raw), &ref.Options); err != nil {
			return ref, fmt.Errorf("invalid options for plugin %q: %w", ref.Name, err)
		}
	}
	return ref, nil
}

// readSource reads a file, or stdin when path is "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}
