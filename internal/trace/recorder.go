package trace

import "log/slog"

// Event is one recorded dispatcher call. Every field is a copy; an Event
// shares no memory with the stack or the registers it describes.
type Event struct {
	// Seq is the logical-clock stamp; ordering key within a session.
	Seq int64 `json:"seq"`

	// Session is the token minted at the Reset that opened this session.
	Session string `json:"session"`

	// Op is the dispatcher operation name ("push", "sub", "compare", ...).
	Op string `json:"op"`

	// Backend labels the path that served the call: "hardware",
	// "software", or "" for pure stack operations.
	Backend string `json:"backend,omitempty"`

	// Depth is the stack depth after the call returned.
	Depth int `json:"depth"`

	// Result is the rendered outcome ("7", "GreaterThan", ...), empty
	// when the call produced none.
	Result string `json:"result,omitempty"`

	// Err is the error text for failed calls, empty on success.
	Err string `json:"err,omitempty"`
}

// Recorder consumes events. Implementations must not fail the caller:
// Record returns nothing and must not block unboundedly.
type Recorder interface {
	Record(ev Event)
}

// LogRecorder emits each event as one structured log line.
type LogRecorder struct {
	log *slog.Logger
}

// NewLogRecorder wraps a logger. A nil logger discards.
func NewLogRecorder(log *slog.Logger) *LogRecorder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &LogRecorder{log: log}
}

func (r *LogRecorder) Record(ev Event) {
	if ev.Err != "" {
		r.log.Info("op failed",
			"seq", ev.Seq, "session", ev.Session, "op", ev.Op,
			"backend", ev.Backend, "depth", ev.Depth, "err", ev.Err)
		return
	}
	r.log.Info("op",
		"seq", ev.Seq, "session", ev.Session, "op", ev.Op,
		"backend", ev.Backend, "depth", ev.Depth, "result", ev.Result)
}
