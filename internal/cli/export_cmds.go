package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		ff     filterFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export matching stones as an xlsx sheet, one row per stone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, f, err := a.openFiltered(&ff)
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.exporter.ExportRows(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", output)
			}
			return nil
		},
	}
	ff.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "export.xlsx", `output file, "-" for stdout`)
	return cmd
}

func newExportCardCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-card <card-id>",
		Short: "Export one card as a transposed xlsx sheet, one column per stone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.exporter.ExportTransposed(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("card %q: %w", args[0], err)
			}
			file := output
			if file == "" {
				file = fmt.Sprintf("export_karta_%s.xlsx", args[0])
			}
			if err := writeOutput(cmd.OutOrStdout(), file, data); err != nil {
				return err
			}
			if file != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", file)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: export_karta_<id>.xlsx)`)
	return cmd
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <dir>",
		Short: "Write all cards and stones as JSONL files into dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.backend.Backup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"cards": stats.Cards, "stones": stats.Items})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d cards and %d stones to %s\n", stats.Cards, stats.Items, args[0])
			return nil
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <dir>",
		Short: "Load cards and stones from a backup directory",
		Long:  "Restore reads history.jsonl and details.jsonl from dir. Rows keep their ids; existing rows with the same id are replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.backend.Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"cards": stats.Cards, "stones": stats.Items})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d cards and %d stones from %s\n", stats.Cards, stats.Items, args[0])
			return nil
		},
	}
}
