package trace

import (
	"sync"

	"github.com/google/uuid"
)

// TokenSource yields session tokens. One token is minted per engine
// Reset and stamps every event of that session.
// Implemented by UUIDv7Source (production) and FixedTokens (tests).
type TokenSource interface {
	Generate() string
}

// UUIDv7Source mints time-sortable UUIDv7 tokens, so sessions in a trace
// database sort by creation time.
type UUIDv7Source struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Source) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokens returns predetermined tokens in order, for deterministic
// tests and golden trace comparison. Panics when exhausted: a test that
// resets more often than it planned for should fail loudly.
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokens creates a source that yields tokens in the given order.
func NewFixedTokens(tokens ...string) *FixedTokens {
	return &FixedTokens{tokens: tokens}
}

// Generate returns the next predetermined token.
func (f *FixedTokens) Generate() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.tokens) {
		panic("trace: fixed token source exhausted")
	}
	t := f.tokens[f.idx]
	f.idx++
	return t
}
