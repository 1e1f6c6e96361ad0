package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/linkdepot/internal/entrypoint"
)

func newServeCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.serve()
		},
	}
}

func (st *state) serve() error {
	defer st.log.Sync() //nolint:errcheck
	return entrypoint.Run(st.cfg, st.build.Version, st.log)
}
