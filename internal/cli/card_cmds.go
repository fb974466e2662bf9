package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satzkarte/internal/cards"
)

// resultView is the JSON shape of a produced document.
type resultView struct {
	CardID   string `json:"card_id"`
	File     string `json:"file"`
	Recorded bool   `json:"recorded"`
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		req    cards.CardRequest
		set    string
		stones []string
		output string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a set card PDF and record it",
		Long: `Create renders a new set card and records it with its stones.

Stones are given in print order as CODE=DIAMETER. A diameter that cannot be
read is recorded as 0.0. The card is always written to the output file; if
recording fails the command warns and still succeeds.`,
		Example: `  satzkarte create --machine M12 --set Mittelsatz --operator Jan \
    --stone A1=0.5089 --stone A2=0.4620`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Set, err = parseSet(set); err != nil {
				return err
			}
			for _, s := range stones {
				req.Lines = append(req.Lines, parseStone(s))
			}

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.service.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			file := output
			if file == "" {
				file = fmt.Sprintf("Satzkarte_%s.pdf", res.CardID)
			}
			if err := writeOutput(cmd.OutOrStdout(), file, res.PDF); err != nil {
				return err
			}
			if !res.Recorded {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: card %s was not fully recorded\n", res.CardID)
			}
			if file == "-" {
				return nil
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), resultView{CardID: res.CardID, File: file, Recorded: res.Recorded})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created card %s: %s\n", res.CardID, file)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.ID, "id", "", "card id (default: generated)")
	f.StringVar(&req.Machine, "machine", "", "machine number")
	f.StringVar(&set, "set", "", "diameter set: 1-3 or name (default: Grundsatz)")
	f.StringVar(&req.Operator, "operator", "", "operator name")
	f.StringVar(&req.StoneType, "type", "", "stone type (default: ND)")
	f.StringArrayVar(&stones, "stone", nil, "stone as CODE=DIAMETER, repeatable")
	f.StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: Satzkarte_<id>.pdf)`)
	return cmd
}

func newPDFCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pdf <card-id>",
		Short: "Regenerate the PDF of a recorded card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.service.Regenerate(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("card %q: %w", args[0], err)
			}
			file := output
			if file == "" {
				file = fmt.Sprintf("Satzkarte_%s.pdf", res.CardID)
			}
			if err := writeOutput(cmd.OutOrStdout(), file, res.PDF); err != nil {
				return err
			}
			if file == "-" {
				return nil
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), resultView{CardID: res.CardID, File: file, Recorded: true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote card %s: %s\n", res.CardID, file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: Satzkarte_<id>.pdf)`)
	return cmd
}

func newLabelCmd(a *app) *cobra.Command {
	var (
		req    cards.LabelRequest
		set    string
		output string
	)
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Generate an adhesive label PDF",
		Long:  "Label renders a 60x25 mm label with the set name, the stone count and the card id. Labels are not recorded.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Set, err = parseSet(set); err != nil {
				return err
			}
			if req.StoneCount < 0 {
				return usageErrorf("--count must not be negative")
			}

			r, err := a.renderer()
			if err != nil {
				return err
			}
			svc := cards.NewService(nil, r, a.logger.Named("cards"))
			res, err := svc.Label(cmd.Context(), req)
			if err != nil {
				return err
			}
			file := output
			if file == "" {
				file = fmt.Sprintf("Label_%s.pdf", res.CardID)
			}
			if err := writeOutput(cmd.OutOrStdout(), file, res.PDF); err != nil {
				return err
			}
			if file == "-" {
				return nil
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), resultView{CardID: res.CardID, File: file})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote label %s: %s\n", res.CardID, file)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.ID, "id", "", "card id (default: generated)")
	f.StringVar(&set, "set", "", "diameter set: 1-3 or name (default: Grundsatz)")
	f.IntVar(&req.StoneCount, "count", 0, "number of stones")
	f.StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: Label_<id>.pdf)`)
	return cmd
}
