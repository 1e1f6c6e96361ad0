package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/linkdepot/internal/config"
	"github.com/mrlokans/linkdepot/internal/logger"
)

// BuildInfo is stamped into the binary at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

type state struct {
	build      BuildInfo
	configFile string
	cfg        *config.Config
	log        logger.Logger
}

// NewRootCommand builds the linkdepot command tree. Running it without a
// subcommand starts the HTTP server.
func NewRootCommand(build BuildInfo) *cobra.Command {
	st := &state{build: build}

	root := &cobra.Command{
		Use:   "linkdepot",
		Short: "A minimalist bookmark manager",
		Long: `LinkDepot keeps links on shelves and serves them as HTML, JSON and XML.

Configuration is read from LINKDEPOT_* environment variables and, when
--config is given, from a YAML, TOML or JSON file. Environment variables
take precedence over the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.serve()
		},
	}

	root.PersistentFlags().StringVarP(&st.configFile, "config", "c", "", "Path to a configuration file")

	root.AddCommand(
		newServeCommand(st),
		newImportCommand(st),
		newVersionCommand(st),
	)
	return root
}

func (st *state) load() error {
	cfg, err := config.Load(st.configFile)
	if err != nil {
		return err
	}
	st.cfg = cfg
	st.log = logger.New(cfg.Logging.Level, cfg.Logging.Pretty)
	return nil
}

// Execute runs the root command against os.Args.
func Execute(build BuildInfo) error {
	return NewRootCommand(build).Execute()
}
