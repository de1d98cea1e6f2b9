package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/fpstack/internal/config"
	"github.com/roach88/fpstack/internal/device"
	"github.com/roach88/fpstack/internal/engine"
	"github.com/roach88/fpstack/internal/fp"
	"github.com/roach88/fpstack/internal/op"
	"github.com/roach88/fpstack/internal/trace"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Config    string
	Software  bool
	Precision int
	Width     int
	Mode      string
}

// EvalResult is the eval command's JSON output shape.
type EvalResult struct {
	Result  string   `json:"result,omitempty"`
	Compare string   `json:"compare,omitempty"`
	Backend string   `json:"backend"`
	Session string   `json:"session"`
	Stack   []string `json:"stack,omitempty"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts, Precision: -1, Mode: "shortest"}

	cmd := &cobra.Command{
		Use:   "eval TOKEN...",
		Short: "Evaluate an RPN expression",
		Long: `Evaluate a reverse-Polish expression against the engine.

Number tokens are pushed; word tokens dispatch operations. Available
words: add sub mul div sqrt square neg sin cos tan atan ln exp pow
compare. After the last token the top of the stack is pulled and
printed; a trailing compare prints its classification instead.

Negative literals need a -- separator so they are not parsed as flags:
fpstack eval -- -5 neg.

Examples:
  fpstack eval 10 3 sub          # 7
  fpstack eval 2 10 pow          # 1024
  fpstack eval 10 3 compare      # GreaterThan
  fpstack eval --software 9 sqrt # force the software backend`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML config file")
	cmd.Flags().BoolVar(&opts.Software, "software", false, "skip the hardware probe")
	cmd.Flags().IntVar(&opts.Precision, "precision", -1, "fraction digits (-1 = shortest)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "minimum field width")
	cmd.Flags().StringVar(&opts.Mode, "mode", "shortest", "rendering mode (fixed|scientific|shortest)")

	return cmd
}

func runEval(opts *EvalOptions, cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(opts.Config)
	if err != nil {
		return err
	}

	// Flags override config; unset flags fall back to the output section.
	if !cmd.Flags().Changed("precision") && cfg.Output.Precision != 0 {
		opts.Precision = cfg.Output.Precision
	}
	if !cmd.Flags().Changed("width") {
		opts.Width = cfg.Output.Width
	}
	if !cmd.Flags().Changed("mode") && cfg.Output.Mode != "" {
		opts.Mode = cfg.Output.Mode
	}
	mode, err := fp.ParseMode(opts.Mode)
	if err != nil {
		return err
	}

	e, cleanup, err := buildEngine(opts.RootOptions, cfg, opts.Software)
	if err != nil {
		return err
	}
	defer cleanup()
	e.Reset()

	lastCompare := ""
	for _, tok := range args {
		if isNumber(tok) {
			if err := e.PushFromString(tok); err != nil {
				return fmt.Errorf("push %q: %w", tok, err)
			}
			lastCompare = ""
			continue
		}
		if tok == "compare" {
			ord, err := e.Compare()
			if err != nil {
				return fmt.Errorf("compare: %w", err)
			}
			lastCompare = ord.String()
			continue
		}
		if err := dispatch(e, tok); err != nil {
			return err
		}
		lastCompare = ""
	}

	out := EvalResult{
		Backend: e.BackendName(),
		Session: e.Session().Token,
	}
	if lastCompare != "" {
		out.Compare = lastCompare
	} else {
		if e.Depth() == 0 {
			return fmt.Errorf("nothing on the stack to print")
		}
		s, err := e.PullToString(opts.Precision, opts.Width, mode)
		if err != nil {
			return err
		}
		out.Result = s
	}

	return printResult(cmd, opts.RootOptions, out, func() string {
		if out.Compare != "" {
			return out.Compare
		}
		return out.Result
	})
}

// dispatch routes a word token to the engine.
func dispatch(e *engine.Engine, word string) error {
	if word == "pow" {
		return e.Pow()
	}
	operation, err := op.Lookup(word)
	if err != nil {
		return err
	}
	var call func() error
	switch operation.Opcode {
	case op.OpcodeAdd:
		call = e.Add
	case op.OpcodeSub:
		call = e.Sub
	case op.OpcodeMul:
		call = e.Mul
	case op.OpcodeDiv:
		call = e.Div
	case op.OpcodeSqrt:
		call = e.Sqrt
	case op.OpcodeSqr:
		call = e.Square
	case op.OpcodeNeg:
		call = e.Neg
	case op.OpcodeSin:
		call = e.Sin
	case op.OpcodeCos:
		call = e.Cos
	case op.OpcodeTan:
		call = e.Tan
	case op.OpcodeAtan:
		call = e.Atan
	case op.OpcodeLn:
		call = e.Ln
	case op.OpcodeExp:
		call = e.Exp
	default:
		return fmt.Errorf("unknown operation %q", word)
	}
	if err := call(); err != nil {
		return fmt.Errorf("%s: %w", word, err)
	}
	return nil
}

func isNumber(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	return c >= '0' && c <= '9' || c == '-' && len(tok) > 1 && tok[1] != '-' ||
		c == '+' || c == '.'
}

// buildEngine assembles an engine from config and flags. The returned
// cleanup closes the trace store, if any.
func buildEngine(rootOpts *RootOptions, cfg config.Config, forceSoftware bool) (*engine.Engine, func(), error) {
	var logger *slog.Logger
	if rootOpts.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	engOpts := []engine.Option{
		engine.WithMaxPoll(cfg.MaxPollIterations),
		engine.WithLogger(logger),
	}

	if forceSoftware || cfg.Backend == config.BackendSoftware {
		engOpts = append(engOpts, engine.ForceSoftware())
	} else {
		engOpts = append(engOpts, engine.WithBus(device.NewSimDevice()))
	}

	cleanup := func() {}
	if cfg.Trace.Enabled {
		if cfg.Trace.Path != "" {
			store, err := trace.OpenStore(cfg.Trace.Path, logger)
			if err != nil {
				return nil, nil, err
			}
			engOpts = append(engOpts, engine.WithRecorder(store))
			cleanup = func() { store.Close() }
		} else if logger != nil {
			engOpts = append(engOpts, engine.WithRecorder(trace.NewLogRecorder(logger)))
		}
	}

	return engine.New(engOpts...), cleanup, nil
}
