package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satzkarte/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the configuration and the card database",
		Long:  "Create the configuration directory with a default config.yaml and the data directory with an empty card database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// setup has already written config.yaml; attaching creates the schema.
			s, err := a.open()
			if err != nil {
				return err
			}
			if err := s.Close(); err != nil {
				return fmt.Errorf("finalize storage: %w", err)
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"config": paths.ConfigFile(a.configDir),
					"data":   s.dataDir,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "satzkarte initialized successfully")
			fmt.Fprintln(out, "  config:", paths.ConfigFile(a.configDir))
			fmt.Fprintln(out, "  data:  ", s.dataDir)
			return nil
		},
	}
}
