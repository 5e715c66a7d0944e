package commands

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"cardlink/internal/app"
	"cardlink/internal/capture"
	"cardlink/internal/domain"
)

// pairCmd runs one session end to end: link, relay the card, take the code.
func pairCmd() *cobra.Command {
	var (
		code      string
		awaitCode bool
	)
	cmd := &cobra.Command{
		Use:   "pair [session-id]",
		Short: "Link to a session, send the card and show the verification code",
		Long: "Links to the session named by the argument, or by the first line read " +
			"from stdin (a keyboard-wedge QR scanner types it there), then relays " +
			"the card details. With --code or --await-code the verification code is " +
			"taken as well.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWire(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			lines := capture.NewLineScanner(cmd.InOrStdin())
			defer lines.Close()

			var scanner capture.Scanner = lines
			if len(args) == 1 {
				scanner = capture.Static(args[0])
			}
			var codes capture.Scanner
			switch {
			case code != "":
				codes = capture.Static(code)
			case awaitCode:
				codes = lines
			}
			return pair(cmd.Context(), w, scanner, codes)
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "verification code received by SMS")
	cmd.Flags().BoolVar(&awaitCode, "await-code", false, "read the verification code from stdin after sending")
	return cmd
}

// pair drives w through a full session. codes may be nil to stop after the
// card is sent.
func pair(ctx context.Context, w *app.Wire, scanner, codes capture.Scanner) error {
	if err := capture.Acquire(ctx, scanner, w.Sessions.HandleScan, w.Sessions.HandleScanFailure); err != nil {
		return err
	}
	if err := sendCard(ctx, w); err != nil {
		return err
	}
	if codes == nil {
		return nil
	}
	text, err := codes.Scan(ctx)
	if err != nil {
		return errors.Wrap(err, "read verification code")
	}
	return w.Verification.SubmitCode(domain.VerificationCode(text))
}

func sendCard(ctx context.Context, w *app.Wire) error {
	card, err := w.Cards.LoadCard()
	if err != nil {
		w.Status.Publish("Error: " + err.Error())
		return err
	}
	return w.Payload.SendCard(ctx, card)
}
