package analysis

import (
	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
)

// Phases counts messages per phase for each seat, and splits the messages
// of finished games between eventual winners and losers.
func Phases(t *facts.Tables) PhaseTiming {
	winners := t.Winners()

	timing := PhaseTiming{}
	for _, p := range seats(t.Messages) {
		var c PhaseCounts
		for _, m := range facts.ByPlayer(t.Messages, p) {
			c.add(m.Phase)
		}
		timing.Players = append(timing.Players, PlayerPhases{Player: p, Counts: c})
	}

	for _, m := range t.Messages {
		winner, ok := winners[m.GameID]
		if !ok || !m.GameID.Known() || !winner.Known() {
			continue
		}
		if m.Player == winner {
			timing.Winners.add(m.Phase)
		} else {
			timing.Losers.add(m.Phase)
		}
	}
	return timing
}

// For returns the counts of one player, zero if it never spoke.
func (t PhaseTiming) For(p eventlog.PlayerID) PhaseCounts {
	for _, row := range t.Players {
		if row.Player == p {
			return row.Counts
		}
	}
	return PhaseCounts{}
}
