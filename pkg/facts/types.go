// Package facts holds the derived records extracted from a session log and
// the read-only accessors analyses use to slice them.
//
// Every record is a plain value with no back-references; tables keep the
// order in which the walker encountered the underlying events.
package facts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/papercomputeco/sucker/pkg/eventlog"
)

// Phase buckets a turn relative to the game's length.
type Phase string

const (
	PhaseEarly   Phase = "early"
	PhaseMid     Phase = "mid"
	PhaseLate    Phase = "late"
	PhaseUnknown Phase = "unknown"
)

// Phases lists the known phases in game order.
var Phases = []Phase{PhaseEarly, PhaseMid, PhaseLate}

const (
	earlyCutoff = 0.33
	midCutoff   = 0.66
)

// PhaseFor buckets turn within a game of maxTurn turns.
func PhaseFor(turn, maxTurn int) Phase {
	t, m := float64(turn), float64(maxTurn)
	switch {
	case t < m*earlyCutoff:
		return PhaseEarly
	case t < m*midCutoff:
		return PhaseMid
	default:
		return PhaseLate
	}
}

// Key locates a fact by game, acting player and turn.
type Key struct {
	Game   eventlog.GameID
	Player eventlog.PlayerID
	Turn   int
}

// Fact is implemented by every record type.
type Fact interface {
	FactKey() Key
}

// Message is one public chat line.
type Message struct {
	GameID  eventlog.GameID   `json:"game_id"`
	Player  eventlog.PlayerID `json:"player"`
	Turn    int               `json:"turn"`
	MaxTurn int               `json:"max_turn"`
	Phase   Phase             `json:"phase"`
	Text    string            `json:"text"`
}

// KillEvent is a killChip call. VictimChip is the color whose chip was
// sent to the dead box.
type KillEvent struct {
	GameID     eventlog.GameID   `json:"game_id"`
	Killer     eventlog.PlayerID `json:"killer"`
	VictimChip eventlog.PlayerID `json:"victim_chip"`
	Turn       int               `json:"turn"`
}

// DonationEvent is a respondToDonation call. ToPlayer is the player who
// asked for the prisoner; Color is the chip offered when accepted.
type DonationEvent struct {
	GameID   eventlog.GameID   `json:"game_id"`
	Player   eventlog.PlayerID `json:"player"`
	Turn     int               `json:"turn"`
	Accepted bool              `json:"accepted"`
	ToPlayer eventlog.PlayerID `json:"to_player"`
	Color    eventlog.PlayerID `json:"color"`
}

// GameOutcome is the result recorded by a game_end event.
type GameOutcome struct {
	GameID           eventlog.GameID     `json:"game_id"`
	Winner           eventlog.PlayerID   `json:"winner"`
	EliminationOrder []eventlog.PlayerID `json:"elimination_order"`
	Turns            int                 `json:"turns"`
	Duration         time.Duration       `json:"duration_ns"`
}

// ThinkChatTurn groups what one player thought, said and did in one turn.
type ThinkChatTurn struct {
	GameID   eventlog.GameID     `json:"game_id"`
	Player   eventlog.PlayerID   `json:"player"`
	Turn     int                 `json:"turn"`
	Thoughts []string            `json:"thoughts"`
	Chats    []string            `json:"chats"`
	Actions  []eventlog.ToolCall `json:"-"`
}

// StateSnapshot is the board a player saw when deciding.
type StateSnapshot struct {
	GameID    eventlog.GameID                            `json:"game_id"`
	Player    eventlog.PlayerID                          `json:"player"`
	Turn      int                                        `json:"turn"`
	PileCount int                                        `json:"pile_count"`
	Players   map[eventlog.PlayerID]eventlog.PlayerState `json:"players"`
}

// An outcome is keyed by its winner and its final turn count, so player
// and turn-range accessors select games by who won and how long they ran.
func (o GameOutcome) FactKey() Key { return Key{Game: o.GameID, Player: o.Winner, Turn: o.Turns} }

func (m Message) FactKey() Key       { return Key{Game: m.GameID, Player: m.Player, Turn: m.Turn} }
func (k KillEvent) FactKey() Key     { return Key{Game: k.GameID, Player: k.Killer, Turn: k.Turn} }
func (d DonationEvent) FactKey() Key { return Key{Game: d.GameID, Player: d.Player, Turn: d.Turn} }
func (t ThinkChatTurn) FactKey() Key { return Key{Game: t.GameID, Player: t.Player, Turn: t.Turn} }
func (s StateSnapshot) FactKey() Key { return Key{Game: s.GameID, Player: s.Player, Turn: s.Turn} }

type action struct {
	Name      string            `json:"name"`
	Arguments eventlog.ToolCall `json:"arguments"`
}

type rawAction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// MarshalJSON writes actions as {"name", "arguments"} pairs so the
// concrete tool call type survives the round trip to reports.
func (t ThinkChatTurn) MarshalJSON() ([]byte, error) {
	type plain ThinkChatTurn
	actions := make([]action, 0, len(t.Actions))
	for _, tc := range t.Actions {
		actions = append(actions, action{Name: tc.Name(), Arguments: tc})
	}
	return json.Marshal(struct {
		plain
		Actions []action `json:"actions"`
	}{plain: plain(t), Actions: actions})
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (t *ThinkChatTurn) UnmarshalJSON(data []byte) error {
	type plain ThinkChatTurn
	var v struct {
		plain
		Actions []rawAction `json:"actions"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = ThinkChatTurn(v.plain)
	t.Actions = make([]eventlog.ToolCall, 0, len(v.Actions))
	for _, a := range v.Actions {
		tc, err := eventlog.UnmarshalToolCall(a.Name, a.Arguments)
		if err != nil {
			return fmt.Errorf("decoding %s action: %w", a.Name, err)
		}
		t.Actions = append(t.Actions, tc)
	}
	return nil
}
