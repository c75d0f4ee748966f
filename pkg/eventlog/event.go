// Package eventlog models the snapshot log written by the So Long Sucker
// simulator and decodes it from its JSON session document.
//
// Events and tool calls are closed sets of concrete types. Anything the
// decoder does not recognize becomes an explicit Other or OpaqueCall value
// rather than an error, so newer recorders stay readable.
package eventlog

import (
	"iter"
	"slices"
	"time"
)

// Kind discriminates event records by their wire "type" field.
type Kind string

const (
	KindGameStart Kind = "game_start"
	KindGameEnd   Kind = "game_end"
	KindDecision  Kind = "decision"
	KindOther     Kind = "other"
)

// Event is one record of the log. The concrete type is one of GameStart,
// GameEnd, Decision or Other.
type Event interface {
	Kind() Kind
	event()
}

// GameStart opens a game. Every later event belongs to it until the next
// GameStart.
type GameStart struct {
	Game   GameID              `json:"game"`
	Silent bool                `json:"silent"`
	Models map[PlayerID]string `json:"models,omitempty"`
}

// GameEnd closes a game.
type GameEnd struct {
	Game             GameID        `json:"game"`
	Winner           PlayerID      `json:"winner"`
	Turns            int           `json:"turns"`
	EliminationOrder []PlayerID    `json:"elimination_order"`
	Duration         time.Duration `json:"duration_ns"`
}

// Decision is one model call by one player. ToolCalls keeps the order the
// model emitted them in.
type Decision struct {
	Game              GameID     `json:"game"`
	Player            PlayerID   `json:"player"`
	Turn              int        `json:"turn"`
	Model             string     `json:"model,omitempty"`
	DonationRequester PlayerID   `json:"donation_requester,omitempty"`
	ToolCalls         []ToolCall `json:"-"`
	State             *GameState `json:"state,omitempty"`
	Usage             Usage      `json:"usage"`
}

// Usage is the LLM accounting recorded with a decision.
type Usage struct {
	ResponseTime     time.Duration `json:"response_time_ns"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
}

// Other is any event whose type is not modeled. Type holds the raw value,
// which may be empty for records that were not objects at all.
type Other struct {
	Type string `json:"type"`
}

func (GameStart) Kind() Kind { return KindGameStart }
func (GameEnd) Kind() Kind   { return KindGameEnd }
func (Decision) Kind() Kind  { return KindDecision }
func (Other) Kind() Kind     { return KindOther }

func (GameStart) event() {}
func (GameEnd) event()   {}
func (Decision) event()  {}
func (Other) event()     {}

// GameState is the board as captured just before a decision.
type GameState struct {
	Piles         []Pile                   `json:"piles"`
	Players       map[PlayerID]PlayerState `json:"players"`
	DeadBox       []PlayerID               `json:"dead_box,omitempty"`
	Phase         string                   `json:"phase,omitempty"`
	CurrentPlayer PlayerID                 `json:"current_player,omitempty"`
}

// PileCount is the number of piles on the board.
func (s *GameState) PileCount() int {
	if s == nil {
		return 0
	}
	return len(s.Piles)
}

// Pile is a stack of chips addressed by position.
type Pile struct {
	ID    int        `json:"id"`
	Chips []PlayerID `json:"chips"`
}

// PlayerState is one player's holdings.
type PlayerState struct {
	Supply     int        `json:"supply"`
	Prisoners  []PlayerID `json:"prisoners"`
	TotalChips int        `json:"total_chips"`
	Alive      bool       `json:"alive"`
}

// Session is the metadata block written alongside the snapshots.
type Session struct {
	ID             string              `json:"id"`
	Provider       string              `json:"provider"`
	Models         []string            `json:"models,omitempty"`
	PlayerModels   map[PlayerID]string `json:"player_models,omitempty"`
	StartTime      time.Time           `json:"start_time"`
	EndTime        time.Time           `json:"end_time"`
	TotalGames     int                 `json:"total_games"`
	CompletedGames int                 `json:"completed_games"`
	ActiveGames    int                 `json:"active_games"`
	Chips          int                 `json:"chips"`
}

// ModelFor returns the model that played the given seat, or "" if the
// session does not record it.
func (s Session) ModelFor(p PlayerID) string {
	if m, ok := s.PlayerModels[p]; ok {
		return m
	}
	if len(s.Models) == 1 {
		return s.Models[0]
	}
	for i, seat := range Players {
		if seat == p && i < len(s.Models) {
			return s.Models[i]
		}
	}
	return ""
}

// Log is an ordered, read-only sequence of events plus the session they
// were recorded in.
type Log struct {
	Source  string
	Session Session

	events []Event
}

// New builds a log from already-decoded events.
func New(session Session, events ...Event) *Log {
	return &Log{Session: session, events: slices.Clone(events)}
}

// Len is the number of events in the log.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.events)
}

// All iterates events in log order.
func (l *Log) All() iter.Seq2[int, Event] {
	return func(yield func(int, Event) bool) {
		if l == nil {
			return
		}
		for i, e := range l.events {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Events returns a copy of the events in log order.
func (l *Log) Events() []Event {
	if l == nil {
		return nil
	}
	return slices.Clone(l.events)
}
