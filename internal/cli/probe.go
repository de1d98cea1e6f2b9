package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fpstack/internal/config"
)

// ProbeReport is the probe command's output shape.
type ProbeReport struct {
	Backend   string `json:"backend"`
	Available bool   `json:"hardware_available"`
	Session   string `json:"session"`
	MaxPoll   int    `json:"max_poll_iterations"`
}

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	var configPath string
	var software bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Report which backend a reset would select",
		Long: `Probe the coprocessor bus and report the selected backend.

Runs the same reset-time presence check the engine uses: a no-op
command followed by bounded busy-bit polling. The result is the
backend every subsequent operation of that session would dispatch to.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			e, cleanup, err := buildEngine(rootOpts, cfg, software)
			if err != nil {
				return err
			}
			defer cleanup()
			e.Reset()

			sess := e.Session()
			report := ProbeReport{
				Backend:   e.BackendName(),
				Available: sess.Available,
				Session:   sess.Token,
				MaxPoll:   cfg.MaxPollIterations,
			}
			return printResult(cmd, rootOpts, report, func() string {
				return fmt.Sprintf("backend: %s\nhardware available: %t\nsession: %s",
					report.Backend, report.Available, report.Session)
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().BoolVar(&software, "software", false, "skip the hardware probe")

	return cmd
}
