package analysis

import (
	"slices"
	"strings"

	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
)

// seats lists the table colors followed by any other player id seen in the
// messages, in first-seen order.
func seats(msgs []facts.Message) []eventlog.PlayerID {
	out := slices.Clone(eventlog.Players)
	for _, m := range msgs {
		if !slices.Contains(out, m.Player) {
			out = append(out, m.Player)
		}
	}
	return out
}

// Players computes per-player totals. models, when set, names the model
// behind each seat. Games counts finished games with a known id; every
// seat plays every game.
func Players(t *facts.Tables, models map[eventlog.PlayerID]string) []PlayerStats {
	var games int
	wins := map[eventlog.PlayerID]int{}
	for _, o := range t.Outcomes {
		if !o.GameID.Known() {
			continue
		}
		games++
		if o.Winner.Known() {
			wins[o.Winner]++
		}
	}

	var out []PlayerStats
	for _, p := range seats(t.Messages) {
		own := facts.ByPlayer(t.Messages, p)
		texts := make([]string, 0, len(own))
		lengths := make([]float64, 0, len(own))
		for _, m := range own {
			texts = append(texts, m.Text)
			lengths = append(lengths, float64(len(strings.Fields(m.Text))))
		}

		s := PlayerStats{
			Player:   p,
			Model:    models[p],
			Messages: len(own),
			Kills:    len(facts.ByPlayer(t.Kills, p)),
			Wins:     wins[p],
			Games:    games,
			WinRate:  Rate(float64(wins[p]), float64(games)),
			AvgWords: Mean(lengths),
			Keywords: CountKeywords(texts),
		}
		for _, tc := range facts.ByPlayer(t.Turns, p) {
			s.Thoughts += len(tc.Thoughts)
		}
		for _, k := range t.Kills {
			if k.VictimChip == p {
				s.TimesKilled++
			}
		}
		for _, d := range facts.ByPlayer(t.Donations, p) {
			if d.Accepted {
				s.DonationsAccepted++
			} else {
				s.DonationsRefused++
			}
		}
		out = append(out, s)
	}
	return out
}

// KeywordWinCorrelation correlates each table seat's count of messages
// matching lexicon with its win rate.
func KeywordWinCorrelation(stats []PlayerStats, lexicon string) float64 {
	var counts, rates []float64
	for _, s := range stats {
		if !s.Player.Known() {
			continue
		}
		counts = append(counts, float64(s.Keywords[lexicon]))
		rates = append(rates, s.WinRate)
	}
	return Pearson(counts, rates)
}
