// Package knowledge owns the turn-based query session against the keyword
// knowledge base. The log is append-only: turns are never removed, reordered,
// or rolled back, even when a query faults.
package knowledge

import (
	"strings"

	"reliefnet/internal/api"
)

// FallbackReply is appended as the bot turn when a query faults.
const FallbackReply = "No data found for this keyword."

// Suggestions are the quick-fill emergency keywords offered by the chat
// screen.
var Suggestions = []string{
	"Drowning", "Choking", "Severe Bleeding", "Heat Stroke", "Electrocution",
	"Earthquake", "Hypothermia", "Unconsciousness", "Fractures", "Head Injury",
	"Crush Injury", "Snake/Insect Bite", "Burn Injury", "Flash Flood",
}

// TurnRole discriminates the two turn variants.
type TurnRole int

const (
	TurnUser TurnRole = iota
	TurnBot
)

// Turn is one entry in the session log: a user query or a bot answer.
type Turn struct {
	Role   TurnRole
	Text   string     // user query text
	Advice api.Advice // bot payload; for a faulted query, a plain fallback
}

// Session is the append-only query log plus the loading indicator. It is
// pure local state: the network call itself is issued by the caller, which
// reports the settlement back through Resolve or Fail. State is only touched
// from the UI event thread.
type Session struct {
	turns   []Turn
	loading bool
	lastSeq int // most recently issued request
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Begin starts a query: it appends the user turn immediately — before the
// network settles, so the input is visible while the system thinks — and
// flips the loading flag. A blank query is a no-op. The returned sequence
// number ties the eventual settlement back to this request.
func (s *Session) Begin(query string) (seq int, ok bool) {
	if strings.TrimSpace(query) == "" {
		return 0, false
	}
	s.turns = append(s.turns, Turn{Role: TurnUser, Text: query})
	s.lastSeq++
	s.loading = true
	return s.lastSeq, true
}

// Resolve settles a query with the server's advice, appending exactly one
// bot turn. The loading flag clears only when the settling request is the
// most recently issued one: concurrent queries are not prevented, but the
// indicator tracks the last request alone.
func (s *Session) Resolve(seq int, advice api.Advice) {
	s.turns = append(s.turns, Turn{Role: TurnBot, Advice: advice})
	if seq == s.lastSeq {
		s.loading = false
	}
}

// Fail settles a faulted query. The user turn already in the log stays; the
// log still grows by exactly one bot turn carrying the fixed fallback reply.
func (s *Session) Fail(seq int) {
	advice := api.Advice{Kind: api.AdvicePlain, Reply: FallbackReply}
	s.turns = append(s.turns, Turn{Role: TurnBot, Advice: advice})
	if seq == s.lastSeq {
		s.loading = false
	}
}

// Turns returns the ordered log.
func (s *Session) Turns() []Turn { return s.turns }

// Loading reports whether the most recently issued query is still pending.
func (s *Session) Loading() bool { return s.loading }
