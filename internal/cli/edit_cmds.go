package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satzkarte/internal/render"
	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

func newAddStoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-stone <card-id> <code> <diameter>",
		Short: "Add a stone to a recorded card",
		Long: `Add-stone appends a stone to a recorded card. The diameter must be in the
catalog of the card's set (see "satzkarte sets"); otherwise nothing is added
and the command exits with status 1.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return usageErrorf("invalid diameter %q", args[2])
			}
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			line := types.Line{Code: args[1], Diameter: d}
			added, err := s.service.AddStone(cmd.Context(), args[0], line)
			if err != nil {
				return fmt.Errorf("card %q: %w", args[0], err)
			}
			if !added {
				return fmt.Errorf("%w: %s", types.ErrDiameterNotInSet, render.FormatDiameter(d))
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"card_id": args[0], "code": line.Code, "diameter": d, "added": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added stone %s (%s) to card %s\n", line.Code, render.FormatDiameter(d), args[0])
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <stone-id> <status>",
		Short: "Set the status of a stone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.service.SetStatus(cmd.Context(), id, args[1]); err != nil {
				return fmt.Errorf("stone %d: %w", id, err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"stone_id": id, "status": args[1]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stone %d: %s\n", id, args[1])
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card and all its stones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.service.DeleteCard(cmd.Context(), args[0]); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"card_id": args[0], "deleted": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", args[0])
			return nil
		},
	}
}

func newDeleteStoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-stone <stone-id>",
		Short: "Delete one stone, keeping its card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.service.DeleteStone(cmd.Context(), id); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"stone_id": id, "deleted": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted stone %d\n", id)
			return nil
		},
	}
}
