package analysis

import (
	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
)

// ChatWinCorrelation compares message volume of winners and losers in
// every finished game with a known winner. Correlation is taken over one
// (game, seat) sample per table color: its message count against 1 for the
// winner and 0 otherwise.
func ChatWinCorrelation(msgs []facts.Message, outcomes []facts.GameOutcome) ChatWin {
	counts := facts.CountBy(msgs, func(m facts.Message) facts.GamePlayer {
		return facts.GamePlayer{Game: m.GameID, Player: m.Player}
	})

	cw := ChatWin{WinnerChats: []float64{}, LoserChats: []float64{}}
	var volume, won []float64
	for _, o := range outcomes {
		if !o.GameID.Known() || !o.Winner.Known() {
			continue
		}
		for _, p := range eventlog.Players {
			n := float64(counts[facts.GamePlayer{Game: o.GameID, Player: p}])
			volume = append(volume, n)
			if p == o.Winner {
				cw.WinnerChats = append(cw.WinnerChats, n)
				won = append(won, 1)
			} else {
				cw.LoserChats = append(cw.LoserChats, n)
				won = append(won, 0)
			}
		}
	}

	cw.WinnerMean = Mean(cw.WinnerChats)
	cw.LoserMean = Mean(cw.LoserChats)
	cw.EffectSize = CohensD(cw.WinnerChats, cw.LoserChats)
	cw.Correlation = Pearson(volume, won)
	return cw
}
