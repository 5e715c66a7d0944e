package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardlink/internal/store"
)

func cardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage the card details file",
	}
	cmd.AddCommand(cardInitCmd())
	return cmd
}

// cardInitCmd writes the placeholder card as a template to edit.
func cardInitCmd() *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a card details template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = cfg.Client.CardFile
			}
			if out == "" {
				out = "card.json"
			}
			if err := store.NewCardFileStore(out).WriteTemplate(force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Fill in the card details, then pass --card %s.\n", out, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "template path (default: configured card file or card.json)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
