package testutils

import (
	"time"

	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
)

// NewTestTables returns one finished game with a row in every table.
func NewTestTables(game eventlog.GameID) *facts.Tables {
	return &facts.Tables{
		Messages: []facts.Message{
			{GameID: game, Player: eventlog.Red, Turn: 1, MaxTurn: 10, Phase: facts.PhaseEarly, Text: "blue, I promise we are allies"},
			{GameID: game, Player: eventlog.Blue, Turn: 5, MaxTurn: 10, Phase: facts.PhaseMid, Text: "deal"},
		},
		Kills: []facts.KillEvent{
			{GameID: game, Killer: eventlog.Red, VictimChip: eventlog.Blue, Turn: 7},
		},
		Donations: []facts.DonationEvent{
			{GameID: game, Player: eventlog.Red, Turn: 4, Accepted: false, ToPlayer: eventlog.Blue, Color: eventlog.UnknownPlayer},
		},
		Outcomes: []facts.GameOutcome{
			{GameID: game, Winner: eventlog.Red, EliminationOrder: []eventlog.PlayerID{eventlog.Blue}, Turns: 10, Duration: 90 * time.Second},
		},
		Turns: []facts.ThinkChatTurn{
			{
				GameID:   game,
				Player:   eventlog.Red,
				Turn:     4,
				Thoughts: []string{"I will refuse"},
				Chats:    []string{},
				Actions: []eventlog.ToolCall{
					eventlog.RespondToDonation{Accept: false, Color: eventlog.UnknownPlayer, ToPlayer: eventlog.UnknownPlayer},
				},
			},
		},
		Snapshots: []facts.StateSnapshot{
			{
				GameID:    game,
				Player:    eventlog.Red,
				Turn:      4,
				PileCount: 2,
				Players: map[eventlog.PlayerID]eventlog.PlayerState{
					eventlog.Red: {Supply: 3, Prisoners: []eventlog.PlayerID{eventlog.Green}, TotalChips: 4, Alive: true},
				},
			},
		},
	}
}
