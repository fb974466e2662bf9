package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satzkarte/internal/render"
	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded cards, newest first",
		Long: `List shows recorded cards matching all given filters. --id and --machine
match substrings; --from and --to compare calendar dates inclusively.`,
		Example: `  satzkarte list --machine M1 --from 2024-03-01`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, f, err := a.openFiltered(&ff)
			if err != nil {
				return err
			}
			defer s.Close()

			found, err := s.backend.QueryCards(cmd.Context(), f)
			if err != nil {
				return err
			}

			if a.flags.jsonMode {
				views := make([]cardView, 0, len(found))
				for _, c := range found {
					views = append(views, newCardView(c))
				}
				return writeJSON(cmd.OutOrStdout(), views)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CARD\tMACHINE\tSET\tOPERATOR\tCREATED")
			for _, c := range found {
				v := newCardView(c)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.Machine, v.Set, v.Operator, v.CreatedAt)
			}
			return tw.Flush()
		},
	}
	ff.register(cmd, false)
	return cmd
}

func newStonesCmd(a *app) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "stones [card-id]",
		Short: "List recorded stones, newest first",
		Long: `Stones shows stones whose card matches the card filters and which match
--code (substring) and --diameter (exact). With a card id argument it lists
exactly that card's stones in print order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, f, err := a.openFiltered(&ff)
			if err != nil {
				return err
			}
			defer s.Close()

			var items []*types.LineItem
			if len(args) == 1 {
				if _, err := s.backend.GetCard(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("card %q: %w", args[0], err)
				}
				items, err = s.backend.CardLineItems(cmd.Context(), args[0])
			} else {
				items, err = s.backend.QueryLineItems(cmd.Context(), f)
			}
			if err != nil {
				return err
			}

			if a.flags.jsonMode {
				views := make([]stoneView, 0, len(items))
				for _, it := range items {
					views = append(views, newStoneView(it))
				}
				return writeJSON(cmd.OutOrStdout(), views)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCARD\tCODE\tDIAMETER\tSTATUS")
			for _, it := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", it.ID, it.CardID, it.Code, render.FormatDiameter(it.Diameter), it.Status)
			}
			return tw.Flush()
		},
	}
	ff.register(cmd, true)
	return cmd
}

func newSetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "Show the diameter catalog of each set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.jsonMode {
				type setView struct {
					Selector  int       `json:"selector"`
					Name      string    `json:"name"`
					Diameters []float64 `json:"diameters"`
				}
				views := make([]setView, 0, len(types.AllDiameterSets))
				for _, s := range types.AllDiameterSets {
					views = append(views, setView{Selector: int(s), Name: s.String(), Diameters: s.Diameters()})
				}
				return writeJSON(cmd.OutOrStdout(), views)
			}
			out := cmd.OutOrStdout()
			for _, s := range types.AllDiameterSets {
				values := make([]string, 0, len(s.Diameters()))
				for _, d := range s.Diameters() {
					values = append(values, render.FormatDiameter(d))
				}
				fmt.Fprintf(out, "%s %-10s %s\n", s.Selector(), s.String(), strings.Join(values, " "))
			}
			return nil
		},
	}
}

// openFiltered parses the filter flags and opens a session.
func (a *app) openFiltered(ff *filterFlags) (*session, types.Filter, error) {
	loc, err := a.location()
	if err != nil {
		return nil, types.Filter{}, err
	}
	f, err := ff.filter(loc)
	if err != nil {
		return nil, f, err
	}
	s, err := a.open()
	if err != nil {
		return nil, f, err
	}
	return s, f, nil
}
