package analysis

import (
	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
)

// DefaultExcerptLen bounds quoted chat and thought text in reports.
const DefaultExcerptLen = 200

type Options struct {
	// ExcerptLen bounds quoted text; zero uses DefaultExcerptLen.
	ExcerptLen int

	// Models names the model behind each seat.
	Models map[eventlog.PlayerID]string

	Sources []string
}

// Analyze runs every analysis over t.
func Analyze(t *facts.Tables, opts Options) *Report {
	if opts.ExcerptLen <= 0 {
		opts.ExcerptLen = DefaultExcerptLen
	}

	players := Players(t, opts.Models)
	r := &Report{
		Sources:        opts.Sources,
		Counts:         t.Counts(),
		Players:        players,
		Phases:         Phases(t),
		BrokenPromises: BrokenPromises(t.Messages, t.Kills, opts.ExcerptLen),
		Honesty:        DonationHonesty(t.Turns, opts.ExcerptLen),
		ChatWin:        ChatWinCorrelation(t.Messages, t.Outcomes),
		PromiseWin:     KeywordWinCorrelation(players, Promise.Name),
	}
	for _, g := range t.Games() {
		if g.Known() {
			r.Games++
		}
	}
	for _, o := range t.Outcomes {
		if o.GameID.Known() {
			r.Finished++
		}
	}
	if r.BrokenPromises == nil {
		r.BrokenPromises = []BrokenPromise{}
	}
	return r
}
