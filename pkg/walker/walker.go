// Package walker turns an event log into fact tables.
//
// Walk makes two sequential scans over the log. The first resolves each
// game's length, which is only known once its game_end is seen; the second
// materializes facts with phases computed from that final length. Both scans
// thread the same attribution cursor, so a fact always carries the game
// opened by the most recent game_start before its event.
package walker

import (
	"maps"
	"slices"

	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
)

// Stats counts what a walk saw. Anomalies are counted, never fatal.
type Stats struct {
	Events      int `json:"events"`
	Decisions   int `json:"decisions"`
	GamesOpened int `json:"games_opened"`
	GamesEnded  int `json:"games_ended"`
	Truncated   int `json:"truncated"`
	OtherEvents int `json:"other_events"`
	OpaqueCalls int `json:"opaque_calls"`

	// Orphans are decisions seen before any game_start.
	Orphans int `json:"orphans"`

	// UnmatchedEnds are game_end events for a game that was never started.
	UnmatchedEnds int `json:"unmatched_ends"`

	// UnknownPlayers are decisions, tool arguments or winners naming a
	// player that is missing or not one of the table colors. Such ids are
	// recorded as UnknownPlayer.
	UnknownPlayers int `json:"unknown_players"`

	// MislabeledDecisions carry a game id other than the game they were
	// attributed to. Attribution follows the last game_start.
	MislabeledDecisions int `json:"mislabeled_decisions"`
}

// Add accumulates o into s, for totals across several logs.
func (s *Stats) Add(o Stats) {
	s.Events += o.Events
	s.Decisions += o.Decisions
	s.GamesOpened += o.GamesOpened
	s.GamesEnded += o.GamesEnded
	s.Truncated += o.Truncated
	s.OtherEvents += o.OtherEvents
	s.OpaqueCalls += o.OpaqueCalls
	s.Orphans += o.Orphans
	s.UnmatchedEnds += o.UnmatchedEnds
	s.UnknownPlayers += o.UnknownPlayers
	s.MislabeledDecisions += o.MislabeledDecisions
}

// Anomalies is the number of records that could not be fully attributed.
func (s Stats) Anomalies() int {
	return s.Orphans + s.UnmatchedEnds + s.UnknownPlayers
}

// cursor is the fold state shared by both scans.
type cursor struct {
	current eventlog.GameID
	started map[eventlog.GameID]bool
}

func newCursor() *cursor {
	return &cursor{current: eventlog.UnknownGame, started: map[eventlog.GameID]bool{}}
}

// open records a game_start and makes its game current.
func (c *cursor) open(gs eventlog.GameStart) {
	c.current = gs.Game
	if !gs.Game.Known() {
		c.current = eventlog.UnknownGame
		return
	}
	c.started[gs.Game] = true
}

// ended resolves the game a game_end closes. A game_end without its own id
// closes the current game; one naming a game never started is unattributed.
func (c *cursor) ended(ge eventlog.GameEnd) eventlog.GameID {
	game := ge.Game
	if !game.Known() {
		game = c.current
	}
	if !c.started[game] {
		return eventlog.UnknownGame
	}
	return game
}

type gameInfo struct {
	ended   bool
	turns   int
	maxSeen int
}

// maxTurn is the game length used for phase bucketing, and whether the
// phase can be trusted.
func (g *gameInfo) maxTurn(turn int) (int, bool) {
	if g == nil {
		return turn, false
	}
	if g.ended && g.turns > 0 {
		return g.turns, true
	}
	return max(g.maxSeen, turn), g.ended
}

// scanGames is the first pass: game lengths and observed turns.
func scanGames(log *eventlog.Log) map[eventlog.GameID]*gameInfo {
	games := map[eventlog.GameID]*gameInfo{}
	info := func(g eventlog.GameID) *gameInfo {
		if games[g] == nil {
			games[g] = &gameInfo{}
		}
		return games[g]
	}

	c := newCursor()
	for _, e := range log.All() {
		switch e := e.(type) {
		case eventlog.GameStart:
			c.open(e)
			info(c.current)
		case eventlog.GameEnd:
			g := info(c.ended(e))
			g.ended = true
			g.turns = e.Turns
		case eventlog.Decision:
			g := info(c.current)
			g.maxSeen = max(g.maxSeen, e.Turn)
		}
	}

	// The unknown bucket never has a trustworthy length.
	if g := games[eventlog.UnknownGame]; g != nil {
		g.ended = false
	}
	return games
}

// builder is the second pass accumulator.
type builder struct {
	games  map[eventlog.GameID]*gameInfo
	tables *facts.Tables
	stats  Stats

	// turnIndex locates the ThinkChatTurn of a (game, player, turn) triple.
	turnIndex map[facts.Key]int
}

// Walk extracts the fact tables from log. It never fails: missing fields
// and unknown records degrade to unknown or empty values. The log is not
// modified, and walking the same log twice yields equal tables.
func Walk(log *eventlog.Log) (*facts.Tables, Stats) {
	b := &builder{
		games:     scanGames(log),
		tables:    &facts.Tables{},
		turnIndex: map[facts.Key]int{},
	}

	c := newCursor()
	for _, e := range log.All() {
		b.stats.Events++
		switch e := e.(type) {
		case eventlog.GameStart:
			c.open(e)
			b.stats.GamesOpened++
		case eventlog.GameEnd:
			b.outcome(c.ended(e), e)
		case eventlog.Decision:
			b.decision(c.current, e)
		default:
			b.stats.OtherEvents++
		}
	}

	for g, info := range b.games {
		if g.Known() && !info.ended {
			b.stats.Truncated++
		}
	}
	return b.tables, b.stats
}

func (b *builder) outcome(game eventlog.GameID, e eventlog.GameEnd) {
	b.stats.GamesEnded++
	if !game.Known() {
		b.stats.UnmatchedEnds++
	}
	b.tables.Outcomes = append(b.tables.Outcomes, facts.GameOutcome{
		GameID:           game,
		Winner:           b.optional(e.Winner),
		EliminationOrder: slices.Clone(e.EliminationOrder),
		Turns:            e.Turns,
		Duration:         e.Duration,
	})
}

func (b *builder) decision(game eventlog.GameID, d eventlog.Decision) {
	b.stats.Decisions++
	if !game.Known() {
		b.stats.Orphans++
	} else if d.Game.Known() && d.Game != game {
		b.stats.MislabeledDecisions++
	}
	player := b.known(d.Player)

	if d.State != nil {
		b.tables.Snapshots = append(b.tables.Snapshots, facts.StateSnapshot{
			GameID:    game,
			Player:    player,
			Turn:      d.Turn,
			PileCount: d.State.PileCount(),
			Players:   cloneStates(d.State.Players),
		})
	}

	if len(d.ToolCalls) == 0 {
		return
	}

	key := facts.Key{Game: game, Player: player, Turn: d.Turn}
	idx, ok := b.turnIndex[key]
	if !ok {
		idx = len(b.tables.Turns)
		b.turnIndex[key] = idx
		b.tables.Turns = append(b.tables.Turns, facts.ThinkChatTurn{
			GameID:   game,
			Player:   player,
			Turn:     d.Turn,
			Thoughts: []string{},
			Chats:    []string{},
			Actions:  []eventlog.ToolCall{},
		})
	}
	turn := &b.tables.Turns[idx]

	for _, tc := range d.ToolCalls {
		switch tc := tc.(type) {
		case eventlog.SendChat:
			turn.Chats = append(turn.Chats, tc.Message)
			b.message(game, player, d.Turn, tc.Message)
		case eventlog.Think:
			turn.Thoughts = append(turn.Thoughts, tc.Thought)
		case eventlog.KillChip:
			turn.Actions = append(turn.Actions, tc)
			b.tables.Kills = append(b.tables.Kills, facts.KillEvent{
				GameID:     game,
				Killer:     player,
				VictimChip: b.known(tc.Color),
				Turn:       d.Turn,
			})
		case eventlog.RespondToDonation:
			turn.Actions = append(turn.Actions, tc)
			b.tables.Donations = append(b.tables.Donations, facts.DonationEvent{
				GameID:   game,
				Player:   player,
				Turn:     d.Turn,
				Accepted: tc.Accept,
				ToPlayer: b.optional(requester(d, tc)),
				Color:    b.optional(tc.Color),
			})
		case eventlog.OpaqueCall:
			b.stats.OpaqueCalls++
			tc.Arguments = slices.Clone(tc.Arguments)
			turn.Actions = append(turn.Actions, tc)
		default:
			turn.Actions = append(turn.Actions, tc)
		}
	}
}

func (b *builder) message(game eventlog.GameID, player eventlog.PlayerID, turn int, text string) {
	maxTurn, final := b.games[game].maxTurn(turn)
	phase := facts.PhaseUnknown
	if final {
		phase = facts.PhaseFor(turn, maxTurn)
	}
	b.tables.Messages = append(b.tables.Messages, facts.Message{
		GameID:  game,
		Player:  player,
		Turn:    turn,
		MaxTurn: maxTurn,
		Phase:   phase,
		Text:    text,
	})
}

// known maps a player reference that is missing or off the table to
// UnknownPlayer and counts it.
func (b *builder) known(p eventlog.PlayerID) eventlog.PlayerID {
	if !p.Known() {
		b.stats.UnknownPlayers++
		return eventlog.UnknownPlayer
	}
	return p
}

// optional is known for references that may legitimately be absent, such
// as the chip of a declined donation. Only off-table ids are counted.
func (b *builder) optional(p eventlog.PlayerID) eventlog.PlayerID {
	if p == "" || p == eventlog.UnknownPlayer {
		return eventlog.UnknownPlayer
	}
	return b.known(p)
}

// requester prefers the decision's recorded requester over the call
// arguments, which older recorders used.
func requester(d eventlog.Decision, tc eventlog.RespondToDonation) eventlog.PlayerID {
	switch {
	case d.DonationRequester != "" && d.DonationRequester != eventlog.UnknownPlayer:
		return d.DonationRequester
	case tc.ToPlayer != "":
		return tc.ToPlayer
	default:
		return eventlog.UnknownPlayer
	}
}

func cloneStates(in map[eventlog.PlayerID]eventlog.PlayerState) map[eventlog.PlayerID]eventlog.PlayerState {
	out := maps.Clone(in)
	for p, s := range out {
		s.Prisoners = slices.Clone(s.Prisoners)
		out[p] = s
	}
	return out
}
