package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fpstack/internal/trace"
)

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string
	var session string

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Read a recorded trace log",
		Long: `Read the SQLite trace log written by a traced engine.

Without --session, lists the recorded session tokens (UUIDv7, so the
listing is in creation order). With --session, prints that session's
events in sequence order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := trace.OpenStore(dbPath, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if session == "" {
				sessions, err := store.Sessions(ctx)
				if err != nil {
					return err
				}
				return printResult(cmd, rootOpts, sessions, func() string {
					if len(sessions) == 0 {
						return "no sessions recorded"
					}
					return strings.Join(sessions, "\n")
				})
			}

			events, err := store.ReadSession(ctx, session)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return fmt.Errorf("no events for session %q", session)
			}
			return printResult(cmd, rootOpts, events, func() string {
				var b strings.Builder
				for _, ev := range events {
					fmt.Fprintf(&b, "%4d  %-8s", ev.Seq, ev.Op)
					if ev.Backend != "" {
						fmt.Fprintf(&b, "  [%s]", ev.Backend)
					}
					fmt.Fprintf(&b, "  depth=%d", ev.Depth)
					if ev.Result != "" {
						fmt.Fprintf(&b, "  result=%s", ev.Result)
					}
					if ev.Err != "" {
						fmt.Fprintf(&b, "  err=%s", ev.Err)
					}
					b.WriteByte('\n')
				}
				return strings.TrimRight(b.String(), "\n")
			})
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the trace database")
	cmd.Flags().StringVar(&session, "session", "", "session token to print (default: list sessions)")
	cmd.MarkFlagRequired("db")

	return cmd
}
