package analysis

import (
	"cmp"
	"slices"

	"github.com/papercomputeco/sucker/pkg/facts"
	"github.com/papercomputeco/sucker/pkg/utils"
)

// BrokenPromises finds promise messages that name another player and are
// followed, strictly later in the same game, by the promiser killing that
// player's chip. Each (message, victim) pair is reported once, against the
// first such kill. Facts of the unknown game are never paired.
func BrokenPromises(msgs []facts.Message, kills []facts.KillEvent, excerptLen int) []BrokenPromise {
	killsByGame := facts.GroupByGame(kills)

	var out []BrokenPromise
	for _, game := range facts.GameOrder(msgs) {
		if !game.Known() {
			continue
		}
		ordered := slices.Clone(facts.ByGame(msgs, game))
		slices.SortStableFunc(ordered, func(a, b facts.Message) int { return cmp.Compare(a.Turn, b.Turn) })

		for _, m := range ordered {
			if !Promise.Match(m.Text) {
				continue
			}
			for _, victim := range Mentions(m.Text, m.Player) {
				for _, k := range killsByGame[game] {
					if k.Killer == m.Player && k.VictimChip == victim && k.Turn > m.Turn {
						out = append(out, BrokenPromise{
							GameID:      game,
							Betrayer:    m.Player,
							Victim:      victim,
							PromiseTurn: m.Turn,
							KillTurn:    k.Turn,
							Promise:     utils.Excerpt(m.Text, excerptLen),
						})
						break
					}
				}
			}
		}
	}
	return out
}
