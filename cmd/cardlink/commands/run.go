package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"cardlink/internal/app"
	"cardlink/internal/capture"
	"cardlink/internal/domain"
)

const runHelp = `commands:
  scan <session-id>   link to the session shown in the QR code
  send                send the card details
  code <digits>       enter the verification code from the SMS
  status              show the current state
  quit                exit`

// runCmd keeps one session alive while the user drives it line by line.
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Interactive session: scan, send and code commands on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			w, err := newWire(out)
			if err != nil {
				return err
			}
			lines := capture.NewLineScanner(cmd.InOrStdin())
			defer lines.Close()
			return runLoop(cmd.Context(), w, lines, out)
		},
	}
}

func runLoop(ctx context.Context, w *app.Wire, lines capture.Scanner, out io.Writer) error {
	fmt.Fprintln(out, runHelp)
	for {
		line, err := lines.Scan(ctx)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			return err
		}

		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		// Failures are already published as status; keep the loop going.
		switch strings.ToLower(verb) {
		case "scan":
			err = capture.Acquire(ctx, capture.Static(arg), w.Sessions.HandleScan, w.Sessions.HandleScanFailure)
		case "send":
			err = sendCard(ctx, w)
		case "code":
			err = w.Verification.SubmitCode(domain.VerificationCode(arg))
		case "status":
			printSnapshot(out, w)
		case "help", "?":
			fmt.Fprintln(out, runHelp)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", verb)
		}
		if err != nil {
			logger.Debug().Err(err).Str("command", verb).Msg("command failed")
		}
	}
}

func printSnapshot(out io.Writer, w *app.Wire) {
	snap := w.State.Snapshot()
	fmt.Fprintf(out, "session: %s", snap.Session)
	if snap.SessionID != "" {
		fmt.Fprintf(out, " (%s)", snap.SessionID)
	}
	fmt.Fprintf(out, "\nrelay:   %s\n", snap.Relay)
	if snap.Code != "" {
		fmt.Fprintf(out, "code:    %s\n", snap.Code)
	}
	fmt.Fprintf(out, "status:  %s\n", w.Status.Current())
}
